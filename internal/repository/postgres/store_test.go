package postgres

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolcare/infirmary-api/internal/model"
	apperrors "github.com/schoolcare/infirmary-api/pkg/errors"
)

func TestColumnsOf(t *testing.T) {
	cols := columnsOf(reflect.TypeOf(model.Visitor{}))
	assert.Equal(t, []string{
		"id", "name", "age", "gender", "email", "relationship",
		"allergies", "notes", "created_at", "updated_at",
	}, cols)

	// Reference lists carry the same audit stamps as the person tables.
	cols = columnsOf(reflect.TypeOf(model.ClassGroup{}))
	assert.Equal(t, []string{
		"id", "name", "segment", "director", "created_at", "updated_at",
	}, cols)

	cols = columnsOf(reflect.TypeOf(model.Department{}))
	assert.Equal(t, []string{
		"id", "name", "director", "created_at", "updated_at",
	}, cols)

	// Relations are tagged db:"-" and must never become columns.
	cols = columnsOf(reflect.TypeOf(model.Student{}))
	assert.NotContains(t, cols, "-")
	assert.Contains(t, cols, "registry")
	assert.Contains(t, cols, "class_group_id")
	assert.Contains(t, cols, "updated_at")
}

func TestStoreMeta(t *testing.T) {
	visitors := NewStore[model.Visitor](nil, nil)
	assert.Equal(t, "visitors", visitors.meta.table)
	assert.Equal(t, "visitor", visitors.meta.resource)
	assert.Equal(t, "email", visitors.meta.key)
	assert.True(t, visitors.meta.has("email"))
	assert.False(t, visitors.meta.has("registry"))

	students := NewStore[model.Student](nil, nil)
	assert.Equal(t, "students", students.meta.table)
	assert.Equal(t, "registry", students.meta.key)

	groups := NewStore[model.ClassGroup](nil, nil)
	assert.Equal(t, "class group", groups.meta.resource)
	assert.Equal(t, "name", groups.meta.key)
}

func TestInsertSQL(t *testing.T) {
	meta := entityMeta{
		table: "nurses",
		cols:  []string{"id", "name", "badge_number"},
	}
	assert.Equal(t,
		"INSERT INTO nurses (id, name, badge_number) VALUES (:id, :name, :badge_number)",
		meta.insertSQL(),
	)
}

func TestPatchSets(t *testing.T) {
	name := "Aline Souza"
	age := 34

	sets, args, err := patchSets(&model.VisitorPatch{Name: &name, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, []string{"name = $1", "age = $2"}, sets)
	assert.Equal(t, []interface{}{"Aline Souza", 34}, args)

	sets, args, err = patchSets(&model.VisitorPatch{})
	require.NoError(t, err)
	assert.Empty(t, sets)
	assert.Empty(t, args)

	_, _, err = patchSets((*model.VisitorPatch)(nil))
	assert.True(t, apperrors.IsBadRequest(err))

	_, _, err = patchSets("not a struct")
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestParseSearchDate(t *testing.T) {
	d, ok := parseSearchDate("15/08/2024")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC), d)

	_, ok = parseSearchDate(" 15/08/2024 ")
	assert.True(t, ok)

	_, ok = parseSearchDate("2024-08-15")
	assert.False(t, ok)

	_, ok = parseSearchDate("headache")
	assert.False(t, ok)
}

func TestFilterClause(t *testing.T) {
	base := model.AppointmentFilter{
		From:        time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC),
		Infirmaries: []string{"Main"},
	}

	where, args := filterClause(base, []string{"s.name"})
	assert.Equal(t, "a.date BETWEEN $1 AND $2 AND a.infirmary = ANY($3)", where)
	assert.Len(t, args, 3)

	withTerm := base
	withTerm.Term = "headache"
	where, args = filterClause(withTerm, []string{"s.name", "a.reason"})
	assert.Contains(t, where, "s.name ILIKE $4")
	assert.Contains(t, where, "a.reason ILIKE $4")
	assert.NotContains(t, where, "a.date::date")
	require.Len(t, args, 4)
	assert.Equal(t, "%headache%", args[3])

	// Numeric terms match against age, so the column is cast to text.
	byAge := base
	byAge.Term = "12"
	where, args = filterClause(byAge, []string{"s.name", "s.age::text"})
	assert.Contains(t, where, "s.age::text ILIKE $4")
	require.Len(t, args, 4)
	assert.Equal(t, "%12%", args[3])

	withDate := base
	withDate.Term = "15/08/2024"
	where, args = filterClause(withDate, []string{"s.name"})
	assert.Contains(t, where, "s.name ILIKE $4")
	assert.Contains(t, where, "a.date::date = $5::date")
	assert.Len(t, args, 5)
}

func TestHistoryQuery(t *testing.T) {
	query, withDate := historyQuery("student_appointments", "student_id", nil)
	assert.False(t, withDate)
	assert.Equal(t,
		"SELECT * FROM student_appointments WHERE student_id = $1 ORDER BY date DESC",
		query,
	)

	d := time.Now()
	query, withDate = historyQuery("visitor_appointments", "visitor_id", &d)
	assert.True(t, withDate)
	assert.Contains(t, query, "AND date::date = $2::date")
}

func TestValidAppointmentTable(t *testing.T) {
	assert.True(t, validAppointmentTable("student_appointments"))
	assert.True(t, validAppointmentTable("employee_appointments"))
	assert.True(t, validAppointmentTable("visitor_appointments"))
	assert.False(t, validAppointmentTable("students"))
	assert.False(t, validAppointmentTable("nurses; DROP TABLE nurses"))
}
