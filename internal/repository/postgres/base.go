package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "github.com/schoolcare/infirmary-api/pkg/errors"
	"github.com/schoolcare/infirmary-api/pkg/metrics"
)

var dbMetrics *metrics.Metrics

// SetMetrics installs the metrics sink shared by all repositories. Call
// once at startup, before serving requests.
func SetMetrics(m *metrics.Metrics) {
	dbMetrics = m
}

// observe records one database operation. Meant to be deferred with a
// pointer to the named error return.
func observe(op string, start time.Time, errp *error) {
	if dbMetrics == nil {
		return
	}
	status := "success"
	if *errp != nil {
		status = "error"
	}
	dbMetrics.DatabaseOperations.WithLabelValues(op, status).Inc()
	dbMetrics.DatabaseLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// wrapWriteErr maps driver constraint failures onto the application error
// taxonomy so handlers can answer with a 4xx instead of a crash.
func wrapWriteErr(table string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return apperrors.Validation(
				"duplicate value violates a unique constraint",
				map[string]string{pqErr.Constraint: "already exists"},
				err,
			)
		case "23503": // foreign_key_violation
			return apperrors.Validation(
				"referenced record does not exist",
				map[string]string{pqErr.Constraint: "invalid reference"},
				err,
			)
		case "23502", "23514", "22P02", "22001": // null, check, bad cast, too long
			return apperrors.Validation(
				"invalid field value",
				map[string]string{pqErr.Column: pqErr.Message},
				err,
			)
		}
	}
	return fmt.Errorf("failed to write %s: %w", table, err)
}
