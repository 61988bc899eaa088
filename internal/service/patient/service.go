package patient

import (
	"context"
	"fmt"

	"github.com/schoolcare/infirmary-api/internal/model"
	"github.com/schoolcare/infirmary-api/internal/repository"
	apperrors "github.com/schoolcare/infirmary-api/pkg/errors"
)

// Service is the person-record service, shared by students, employees,
// visitors and the reference lists through the generic repository.
type Service[T model.Entity] struct {
	repo repository.EntityRepository[T]
}

func NewService[T model.Entity](repo repository.EntityRepository[T]) *Service[T] {
	return &Service[T]{repo: repo}
}

// CreateAll persists the batch in order. The repository stops on the
// first failing record; see the repository contract for the partial
// failure behavior.
func (s *Service[T]) CreateAll(ctx context.Context, recs []T) ([]T, error) {
	if len(recs) == 0 {
		return nil, apperrors.BadRequest("at least one record is required")
	}
	created, err := s.repo.CreateAll(ctx, recs)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Search finds records by name substring or unique business key.
func (s *Service[T]) Search(ctx context.Context, q repository.Lookup) ([]T, error) {
	if q.Name == "" && q.Key == "" {
		return nil, apperrors.BadRequest("an identifying parameter is required")
	}
	return s.repo.Search(ctx, q)
}

// FindByEmail keeps the email asymmetry: a missing record comes back as
// nil, nil so callers can show an empty state instead of a 404.
func (s *Service[T]) FindByEmail(ctx context.Context, email string, related ...string) (*T, error) {
	if email == "" {
		return nil, apperrors.BadRequest("email is required")
	}
	return s.repo.FindByEmail(ctx, email, related...)
}

func (s *Service[T]) GetByID(ctx context.Context, id string, related ...string) (*T, error) {
	if id == "" {
		return nil, apperrors.BadRequest("id is required")
	}
	return s.repo.GetByID(ctx, id, related...)
}

func (s *Service[T]) UpdateByKey(ctx context.Context, key string, patch any) (*T, error) {
	if key == "" {
		return nil, apperrors.BadRequest("key is required")
	}
	rec, err := s.repo.UpdateByKey(ctx, key, patch)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service[T]) DeleteByKey(ctx context.Context, key string) error {
	if key == "" {
		return apperrors.BadRequest("key is required")
	}
	if err := s.repo.DeleteByKey(ctx, key); err != nil {
		return err
	}
	return nil
}

// UpsertByEmail creates the record when no row has its email yet, and
// applies the patch to the existing row otherwise. Visitors re-register
// at the front desk this way.
func (s *Service[T]) UpsertByEmail(ctx context.Context, email string, rec T, patch any) (*T, bool, error) {
	if email == "" {
		return nil, false, apperrors.BadRequest("email is required")
	}
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		created, err := s.repo.CreateAll(ctx, []T{rec})
		if err != nil {
			return nil, false, err
		}
		if len(created) != 1 {
			return nil, false, fmt.Errorf("expected one created record, got %d", len(created))
		}
		return &created[0], true, nil
	}
	updated, err := s.repo.UpdateByKey(ctx, email, patch)
	if err != nil {
		return nil, false, err
	}
	return updated, false, nil
}
