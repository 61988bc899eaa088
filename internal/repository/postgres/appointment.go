package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/schoolcare/infirmary-api/internal/model"
	"github.com/schoolcare/infirmary-api/internal/repository"
)

// searchDateLayout is the fixed format a free-text term is probed against.
// Reports rely on "15/08/2024" matching appointments on that calendar day
// even when no stored field contains the literal string.
const searchDateLayout = "02/01/2006"

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository: NewBaseRepository(db)}
}

// parseSearchDate reports whether the term is a DD/MM/YYYY date. Anything
// that does not parse is just not a date; it never fails the search.
func parseSearchDate(term string) (time.Time, bool) {
	d, err := time.Parse(searchDateLayout, strings.TrimSpace(term))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// filterClause builds the WHERE tail shared by the three per-type search
// queries: inclusive date range, infirmary set, and the optional OR block
// of case-insensitive substring matches plus the date fallback.
func filterClause(f model.AppointmentFilter, textCols []string) (string, []interface{}) {
	args := []interface{}{f.From, f.To, pq.Array(f.Infirmaries)}
	var b strings.Builder
	b.WriteString("a.date BETWEEN $1 AND $2 AND a.infirmary = ANY($3)")

	term := strings.TrimSpace(f.Term)
	if term == "" {
		return b.String(), args
	}

	args = append(args, "%"+term+"%")
	n := len(args)
	parts := make([]string, 0, len(textCols)+1)
	for _, col := range textCols {
		parts = append(parts, fmt.Sprintf("%s ILIKE $%d", col, n))
	}
	if d, ok := parseSearchDate(term); ok {
		args = append(args, d)
		parts = append(parts, fmt.Sprintf("a.date::date = $%d::date", len(args)))
	}
	b.WriteString(" AND (")
	b.WriteString(strings.Join(parts, " OR "))
	b.WriteString(")")
	return b.String(), args
}

func (r *appointmentRepository) SearchStudents(ctx context.Context, f model.AppointmentFilter) ([]model.StudentAppointmentRow, error) {
	where, args := filterClause(f, []string{
		"s.name", "s.age::text", "s.gender", "cg.name", "a.current_class",
		"a.reason", "a.treatment", "a.notes", "a.nurse", "a.infirmary",
		"a.revaluation::text", "a.contact_parents::text",
	})
	query := fmt.Sprintf(`
		SELECT a.*,
		       s.name AS student_name,
		       s.age AS student_age,
		       s.gender AS student_gender,
		       cg.name AS class_group_name
		FROM student_appointments a
		JOIN students s ON s.id = a.student_id
		LEFT JOIN class_groups cg ON cg.id = s.class_group_id
		WHERE %s
		ORDER BY a.date DESC
	`, where)

	var rows []model.StudentAppointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search student appointments: %w", err)
	}
	return rows, nil
}

func (r *appointmentRepository) SearchEmployees(ctx context.Context, f model.AppointmentFilter) ([]model.EmployeeAppointmentRow, error) {
	where, args := filterClause(f, []string{
		"e.name", "e.age::text", "e.gender", "d.name", "e.position",
		"a.reason", "a.treatment", "a.notes", "a.nurse", "a.infirmary",
		"a.revaluation::text",
	})
	query := fmt.Sprintf(`
		SELECT a.*,
		       e.name AS employee_name,
		       e.age AS employee_age,
		       e.gender AS employee_gender,
		       d.name AS department_name
		FROM employee_appointments a
		JOIN employees e ON e.id = a.employee_id
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE %s
		ORDER BY a.date DESC
	`, where)

	var rows []model.EmployeeAppointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search employee appointments: %w", err)
	}
	return rows, nil
}

func (r *appointmentRepository) SearchVisitors(ctx context.Context, f model.AppointmentFilter) ([]model.VisitorAppointmentRow, error) {
	where, args := filterClause(f, []string{
		"v.name", "v.age::text", "v.gender", "v.relationship",
		"a.reason", "a.treatment", "a.notes", "a.nurse", "a.infirmary",
		"a.revaluation::text",
	})
	query := fmt.Sprintf(`
		SELECT a.*,
		       v.name AS visitor_name,
		       v.age AS visitor_age,
		       v.gender AS visitor_gender,
		       v.relationship AS relationship
		FROM visitor_appointments a
		JOIN visitors v ON v.id = a.visitor_id
		WHERE %s
		ORDER BY a.date DESC
	`, where)

	var rows []model.VisitorAppointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search visitor appointments: %w", err)
	}
	return rows, nil
}

func historyQuery(table, ownerCol string, onDate *time.Time) (string, bool) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1", table, ownerCol)
	withDate := onDate != nil
	if withDate {
		query += " AND date::date = $2::date"
	}
	return query + " ORDER BY date DESC", withDate
}

func (r *appointmentRepository) StudentHistory(ctx context.Context, studentID string, onDate *time.Time) ([]model.StudentAppointment, error) {
	if studentID == "" {
		return []model.StudentAppointment{}, nil
	}
	query, withDate := historyQuery(repository.TableStudentAppointments, "student_id", onDate)
	appts := []model.StudentAppointment{}
	var err error
	if withDate {
		err = r.db.SelectContext(ctx, &appts, query, studentID, *onDate)
	} else {
		err = r.db.SelectContext(ctx, &appts, query, studentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student history: %w", err)
	}
	return appts, nil
}

func (r *appointmentRepository) EmployeeHistory(ctx context.Context, employeeID string, onDate *time.Time) ([]model.EmployeeAppointment, error) {
	if employeeID == "" {
		return []model.EmployeeAppointment{}, nil
	}
	query, withDate := historyQuery(repository.TableEmployeeAppointments, "employee_id", onDate)
	appts := []model.EmployeeAppointment{}
	var err error
	if withDate {
		err = r.db.SelectContext(ctx, &appts, query, employeeID, *onDate)
	} else {
		err = r.db.SelectContext(ctx, &appts, query, employeeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee history: %w", err)
	}
	return appts, nil
}

func (r *appointmentRepository) VisitorHistory(ctx context.Context, visitorID string, onDate *time.Time) ([]model.VisitorAppointment, error) {
	if visitorID == "" {
		return []model.VisitorAppointment{}, nil
	}
	query, withDate := historyQuery(repository.TableVisitorAppointments, "visitor_id", onDate)
	appts := []model.VisitorAppointment{}
	var err error
	if withDate {
		err = r.db.SelectContext(ctx, &appts, query, visitorID, *onDate)
	} else {
		err = r.db.SelectContext(ctx, &appts, query, visitorID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visitor history: %w", err)
	}
	return appts, nil
}

func validAppointmentTable(table string) bool {
	switch table {
	case repository.TableStudentAppointments,
		repository.TableEmployeeAppointments,
		repository.TableVisitorAppointments:
		return true
	}
	return false
}

func (r *appointmentRepository) Count(ctx context.Context, table string, from, to time.Time, infirmary string) (int, error) {
	if !validAppointmentTable(table) {
		return 0, fmt.Errorf("unknown appointment table %q", table)
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE date BETWEEN $1 AND $2", table)
	args := []interface{}{from, to}
	if infirmary != "" {
		args = append(args, infirmary)
		query += fmt.Sprintf(" AND LOWER(TRIM(infirmary)) = LOWER(TRIM($%d))", len(args))
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

func (r *appointmentRepository) NurseVisits(ctx context.Context, table string, from, to time.Time) ([]string, error) {
	if !validAppointmentTable(table) {
		return nil, fmt.Errorf("unknown appointment table %q", table)
	}

	query := fmt.Sprintf("SELECT nurse FROM %s WHERE date BETWEEN $1 AND $2", table)
	nurses := []string{}
	if err := r.db.SelectContext(ctx, &nurses, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list nurse visits for %s: %w", table, err)
	}
	return nurses, nil
}
