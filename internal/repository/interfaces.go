package repository

import (
	"context"
	"time"

	"github.com/schoolcare/infirmary-api/internal/model"
)

// Lookup identifies records in a Search call. Exactly one of Name or Key
// is expected; Related names the relations to eager-load on the results.
type Lookup struct {
	Name    string
	Key     string
	Related []string
}

// EntityRepository is the generic persistence contract shared by all
// person and reference-list entities.
type EntityRepository[T model.Entity] interface {
	// CreateAll persists the records in order and stops on the first
	// failure. Records created before the failing one stay persisted;
	// there is no transaction around the batch.
	CreateAll(ctx context.Context, recs []T) ([]T, error)

	// Search finds records by case-insensitive name substring or by exact
	// business key. Zero matches is a NotFound error; a Lookup with
	// neither identifier is a BadRequest error.
	Search(ctx context.Context, q Lookup) ([]T, error)

	// FindByEmail returns the matching record, or nil (not an error) when
	// no record has that email.
	FindByEmail(ctx context.Context, email string, related ...string) (*T, error)

	GetByID(ctx context.Context, id string, related ...string) (*T, error)
	UpdateByKey(ctx context.Context, key string, patch any) (*T, error)
	DeleteByKey(ctx context.Context, key string) error
}

// InfoRepository stores the one-to-one medical notes records.
type InfoRepository[T any] interface {
	// FindByOwner returns nil, nil when the owner has no info record yet.
	FindByOwner(ctx context.Context, ownerID string) (*T, error)
	Create(ctx context.Context, rec *T) error
	Update(ctx context.Context, rec *T) error
}

// Appointment table names, used by the count and tally queries that run
// the same SQL against all three tables.
const (
	TableStudentAppointments  = "student_appointments"
	TableEmployeeAppointments = "employee_appointments"
	TableVisitorAppointments  = "visitor_appointments"
)

// AppointmentTables lists the three appointment tables in feed order.
func AppointmentTables() []string {
	return []string{
		TableStudentAppointments,
		TableEmployeeAppointments,
		TableVisitorAppointments,
	}
}

// AppointmentRepository answers the report and dashboard queries across
// the three appointment tables.
type AppointmentRepository interface {
	SearchStudents(ctx context.Context, f model.AppointmentFilter) ([]model.StudentAppointmentRow, error)
	SearchEmployees(ctx context.Context, f model.AppointmentFilter) ([]model.EmployeeAppointmentRow, error)
	SearchVisitors(ctx context.Context, f model.AppointmentFilter) ([]model.VisitorAppointmentRow, error)

	// History lookups return an empty slice, never an error, when nothing
	// matches or when the person id is blank.
	StudentHistory(ctx context.Context, studentID string, onDate *time.Time) ([]model.StudentAppointment, error)
	EmployeeHistory(ctx context.Context, employeeID string, onDate *time.Time) ([]model.EmployeeAppointment, error)
	VisitorHistory(ctx context.Context, visitorID string, onDate *time.Time) ([]model.VisitorAppointment, error)

	// Count counts appointments in one table within the date range,
	// optionally restricted to one infirmary (case-insensitive, trimmed).
	Count(ctx context.Context, table string, from, to time.Time, infirmary string) (int, error)

	// NurseVisits returns the denormalized nurse name of every
	// appointment in the range, one element per visit.
	NurseVisits(ctx context.Context, table string, from, to time.Time) ([]string, error)
}
