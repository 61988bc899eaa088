package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolcare/infirmary-api/internal/model"
	"github.com/schoolcare/infirmary-api/internal/repository"
	apperrors "github.com/schoolcare/infirmary-api/pkg/errors"
)

// RelationFunc eager-loads one named relation for a batch of records in a
// single query, so result formatting never falls back to per-row lookups.
type RelationFunc[T any] func(ctx context.Context, ext sqlx.ExtContext, recs []*T) error

// Store is the generic persistence layer: one implementation of
// create/read/update/delete shared by every entity type instead of a copy
// per table. The column list is derived from the entity's db tags once at
// construction.
type Store[T model.Entity] struct {
	BaseRepository
	meta      entityMeta
	relations map[string]RelationFunc[T]
}

type entityMeta struct {
	table    string
	resource string
	key      string
	cols     []string
}

func NewStore[T model.Entity](db *sqlx.DB, relations map[string]RelationFunc[T]) *Store[T] {
	var zero T
	meta := entityMeta{
		table: zero.TableName(),
		cols:  columnsOf(reflect.TypeOf(zero)),
	}
	meta.resource = strings.ReplaceAll(strings.TrimSuffix(meta.table, "s"), "_", " ")
	if k, ok := any(zero).(model.Keyed); ok {
		meta.key = k.KeyColumn()
	}
	return &Store[T]{
		BaseRepository: NewBaseRepository(db),
		meta:           meta,
		relations:      relations,
	}
}

func columnsOf(t reflect.Type) []string {
	var cols []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			cols = append(cols, columnsOf(f.Type)...)
			continue
		}
		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		cols = append(cols, tag)
	}
	return cols
}

func (m entityMeta) has(col string) bool {
	for _, c := range m.cols {
		if c == col {
			return true
		}
	}
	return false
}

func (m entityMeta) insertSQL() string {
	binds := make([]string, len(m.cols))
	for i, c := range m.cols {
		binds[i] = ":" + c
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		m.table,
		strings.Join(m.cols, ", "),
		strings.Join(binds, ", "),
	)
}

// CreateAll persists the records in order, assigning ids and audit
// timestamps, and stops on the first failure. The batch is not wrapped in
// a transaction: rows created before the failing one stay persisted.
func (s *Store[T]) CreateAll(ctx context.Context, recs []T) (_ []T, err error) {
	defer observe(s.meta.table+".create", time.Now(), &err)

	query := s.meta.insertSQL()
	now := time.Now().UTC()

	created := make([]T, 0, len(recs))
	for i := range recs {
		rec := recs[i]
		if id, ok := any(&rec).(model.Identifiable); ok {
			id.EnsureID()
		}
		if st, ok := any(&rec).(model.Stampable); ok {
			st.StampCreate(now)
		}
		if _, err := s.db.NamedExecContext(ctx, query, rec); err != nil {
			return nil, wrapWriteErr(s.meta.table, err)
		}
		created = append(created, rec)
	}
	return created, nil
}

// Search finds records by case-insensitive name substring or by exact
// business key. A search that matches nothing is a NotFound error; a
// lookup with neither identifier is a BadRequest error. Callers that need
// "no match" as a normal state use FindByEmail instead.
func (s *Store[T]) Search(ctx context.Context, q repository.Lookup) (_ []T, err error) {
	defer observe(s.meta.table+".search", time.Now(), &err)

	var (
		query string
		arg   string
	)
	switch {
	case q.Name != "":
		query = fmt.Sprintf(
			"SELECT * FROM %s WHERE name ILIKE '%%' || $1 || '%%' ORDER BY name",
			s.meta.table,
		)
		arg = q.Name
	case q.Key != "" && s.meta.key != "":
		query = fmt.Sprintf("SELECT * FROM %s WHERE %s = $1", s.meta.table, s.meta.key)
		arg = q.Key
	default:
		return nil, apperrors.BadRequest(s.identifierHint())
	}

	var recs []T
	if err := s.db.SelectContext(ctx, &recs, query, arg); err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", s.meta.table, err)
	}
	if len(recs) == 0 {
		return nil, apperrors.NotFound(s.meta.resource, nil)
	}
	ptrs := make([]*T, len(recs))
	for i := range recs {
		ptrs[i] = &recs[i]
	}
	if err := s.loadRelations(ctx, ptrs, q.Related); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *Store[T]) identifierHint() string {
	if s.meta.key != "" {
		return fmt.Sprintf("name or %s must be provided", s.meta.key)
	}
	return "name must be provided"
}

// FindByEmail returns the record with that exact email, or nil when there
// is none. Absence is a normal state here, not an error.
func (s *Store[T]) FindByEmail(ctx context.Context, email string, related ...string) (_ *T, err error) {
	defer observe(s.meta.table+".find_by_email", time.Now(), &err)

	if !s.meta.has("email") {
		return nil, apperrors.BadRequest(fmt.Sprintf("%s has no email field", s.meta.resource))
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE email = $1", s.meta.table)
	var rec T
	if err := s.db.GetContext(ctx, &rec, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up %s by email: %w", s.meta.table, err)
	}
	if err := s.loadRelations(ctx, []*T{&rec}, related); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store[T]) GetByID(ctx context.Context, id string, related ...string) (_ *T, err error) {
	defer observe(s.meta.table+".get", time.Now(), &err)

	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", s.meta.table)
	var rec T
	if err := s.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(s.meta.resource, err)
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.meta.table, err)
	}
	if err := s.loadRelations(ctx, []*T{&rec}, related); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateByKey loads the record by business key, applies the non-nil
// fields of the patch struct and returns the updated record. The patch
// struct keeps field names compile-time checked; there is no free-form
// attribute assignment.
func (s *Store[T]) UpdateByKey(ctx context.Context, key string, patch any) (_ *T, err error) {
	defer observe(s.meta.table+".update", time.Now(), &err)

	if s.meta.key == "" {
		return nil, apperrors.BadRequest(fmt.Sprintf("%s has no business key", s.meta.resource))
	}

	sets, args, err := patchSets(patch)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, apperrors.BadRequest("no fields to update")
	}
	if s.meta.has("updated_at") {
		args = append(args, time.Now().UTC())
		sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	}
	args = append(args, key)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d RETURNING *",
		s.meta.table,
		strings.Join(sets, ", "),
		s.meta.key,
		len(args),
	)

	var rec T
	if err := s.db.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(s.meta.resource, err)
		}
		return nil, wrapWriteErr(s.meta.table, err)
	}
	return &rec, nil
}

func (s *Store[T]) DeleteByKey(ctx context.Context, key string) (err error) {
	defer observe(s.meta.table+".delete", time.Now(), &err)

	if s.meta.key == "" {
		return apperrors.BadRequest(fmt.Sprintf("%s has no business key", s.meta.resource))
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", s.meta.table, s.meta.key)
	result, err := s.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.meta.table, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound(s.meta.resource, nil)
	}
	return nil
}

func (s *Store[T]) loadRelations(ctx context.Context, ptrs []*T, names []string) error {
	if len(names) == 0 {
		return nil
	}
	for _, name := range names {
		fn, ok := s.relations[name]
		if !ok {
			return apperrors.BadRequest(fmt.Sprintf("unknown relation %q for %s", name, s.meta.resource))
		}
		if err := fn(ctx, s.db, ptrs); err != nil {
			return fmt.Errorf("failed to load relation %s: %w", name, err)
		}
	}
	return nil
}

// patchSets builds the SET clauses from the non-nil pointer fields of a
// patch struct, using the same db tags the entities use.
func patchSets(patch any) ([]string, []interface{}, error) {
	v := reflect.ValueOf(patch)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil, apperrors.BadRequest("no fields to update")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, apperrors.BadRequest("patch must be a struct")
	}

	var (
		sets []string
		args []interface{}
	)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		f := v.Field(i)
		if f.Kind() != reflect.Ptr || f.IsNil() {
			continue
		}
		args = append(args, f.Elem().Interface())
		sets = append(sets, fmt.Sprintf("%s = $%d", tag, len(args)))
	}
	return sets, args, nil
}
