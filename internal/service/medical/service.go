package medical

import (
	"context"

	"github.com/schoolcare/infirmary-api/internal/repository"
	apperrors "github.com/schoolcare/infirmary-api/pkg/errors"
)

// Record is the behavior the info service needs from an info row.
type Record interface {
	SetOwner(id string)
	Details() (allergies, notes string)
	SetDetails(allergies, notes string)
}

// Service maintains at most one allergies-and-notes record per person,
// created on first write. PT ties the pointer type to the Record methods.
type Service[T any, PT interface {
	*T
	Record
}] struct {
	repo repository.InfoRepository[T]
}

func NewService[T any, PT interface {
	*T
	Record
}](repo repository.InfoRepository[T]) *Service[T, PT] {
	return &Service[T, PT]{repo: repo}
}

// Get returns the owner's info record, or nil when none exists yet.
// Absence is a normal state, not an error.
func (s *Service[T, PT]) Get(ctx context.Context, ownerID string) (*T, error) {
	if ownerID == "" {
		return nil, apperrors.BadRequest("owner id is required")
	}
	return s.repo.FindByOwner(ctx, ownerID)
}

// Create writes a fresh info record for the owner.
func (s *Service[T, PT]) Create(ctx context.Context, ownerID, allergies, notes string) (*T, error) {
	if ownerID == "" {
		return nil, apperrors.BadRequest("owner id is required")
	}
	var rec T
	p := PT(&rec)
	p.SetOwner(ownerID)
	p.SetDetails(allergies, notes)
	if err := s.repo.Create(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateOrCreate fetches the owner's record, overwrites it when either
// value differs, and creates it when missing. Identical values are a
// no-op so the audit timestamp stays put. The returned bool reports
// whether a write happened.
func (s *Service[T, PT]) UpdateOrCreate(ctx context.Context, ownerID, allergies, notes string) (*T, bool, error) {
	if ownerID == "" {
		return nil, false, apperrors.BadRequest("owner id is required")
	}

	existing, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		rec, err := s.Create(ctx, ownerID, allergies, notes)
		if err != nil {
			return nil, false, err
		}
		return rec, true, nil
	}

	p := PT(existing)
	curAllergies, curNotes := p.Details()
	if curAllergies == allergies && curNotes == notes {
		return existing, false, nil
	}

	p.SetDetails(allergies, notes)
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, false, err
	}
	return existing, true, nil
}
