package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolcare/infirmary-api/internal/model"
)

// InfoStore persists the one-to-one medical notes records. It shares the
// generic column derivation with Store but is keyed by the owning
// person's foreign key instead of a business key.
type InfoStore[T model.Entity] struct {
	BaseRepository
	meta     entityMeta
	ownerCol string
}

func NewStudentInfoStore(db *sqlx.DB) *InfoStore[model.StudentInfo] {
	return newInfoStore[model.StudentInfo](db, "student_id")
}

func NewEmployeeInfoStore(db *sqlx.DB) *InfoStore[model.EmployeeInfo] {
	return newInfoStore[model.EmployeeInfo](db, "employee_id")
}

func newInfoStore[T model.Entity](db *sqlx.DB, ownerCol string) *InfoStore[T] {
	var zero T
	return &InfoStore[T]{
		BaseRepository: NewBaseRepository(db),
		meta: entityMeta{
			table: zero.TableName(),
			cols:  columnsOf(reflect.TypeOf(zero)),
		},
		ownerCol: ownerCol,
	}
}

// FindByOwner returns nil, nil when the owner has no info record yet;
// absence is a normal state for this sub-layer, not an error.
func (s *InfoStore[T]) FindByOwner(ctx context.Context, ownerID string) (*T, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1", s.meta.table, s.ownerCol)
	var rec T
	if err := s.db.GetContext(ctx, &rec, query, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.meta.table, err)
	}
	return &rec, nil
}

func (s *InfoStore[T]) Create(ctx context.Context, rec *T) error {
	now := time.Now().UTC()
	if id, ok := any(rec).(model.Identifiable); ok {
		id.EnsureID()
	}
	if st, ok := any(rec).(model.Stampable); ok {
		st.StampCreate(now)
	}
	if _, err := s.db.NamedExecContext(ctx, s.meta.insertSQL(), rec); err != nil {
		return wrapWriteErr(s.meta.table, err)
	}
	return nil
}

func (s *InfoStore[T]) Update(ctx context.Context, rec *T) error {
	if t, ok := any(rec).(interface{ Touch(time.Time) }); ok {
		t.Touch(time.Now().UTC())
	}
	query := fmt.Sprintf(
		"UPDATE %s SET allergies = :allergies, notes = :notes, updated_at = :updated_at WHERE id = :id",
		s.meta.table,
	)
	if _, err := s.db.NamedExecContext(ctx, query, rec); err != nil {
		return wrapWriteErr(s.meta.table, err)
	}
	return nil
}
