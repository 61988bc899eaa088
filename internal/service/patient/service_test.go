package patient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolcare/infirmary-api/internal/model"
	"github.com/schoolcare/infirmary-api/internal/repository"
	apperrors "github.com/schoolcare/infirmary-api/pkg/errors"
)

type fakeVisitorRepo struct {
	byEmail map[string]model.Visitor

	created []model.Visitor
	patched map[string]any
}

func newFakeVisitorRepo() *fakeVisitorRepo {
	return &fakeVisitorRepo{
		byEmail: make(map[string]model.Visitor),
		patched: make(map[string]any),
	}
}

func (r *fakeVisitorRepo) CreateAll(_ context.Context, recs []model.Visitor) ([]model.Visitor, error) {
	for _, rec := range recs {
		r.byEmail[rec.Email] = rec
	}
	r.created = append(r.created, recs...)
	return recs, nil
}

func (r *fakeVisitorRepo) Search(_ context.Context, q repository.Lookup) ([]model.Visitor, error) {
	var out []model.Visitor
	for _, rec := range r.byEmail {
		if q.Name != "" && rec.Name == q.Name {
			out = append(out, rec)
		}
		if q.Key != "" && rec.Email == q.Key {
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		return nil, apperrors.NotFound("visitor", nil)
	}
	return out, nil
}

func (r *fakeVisitorRepo) FindByEmail(_ context.Context, email string, _ ...string) (*model.Visitor, error) {
	rec, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *fakeVisitorRepo) GetByID(_ context.Context, id string, _ ...string) (*model.Visitor, error) {
	for _, rec := range r.byEmail {
		if rec.ID.String() == id {
			return &rec, nil
		}
	}
	return nil, apperrors.NotFound("visitor", nil)
}

func (r *fakeVisitorRepo) UpdateByKey(_ context.Context, key string, patch any) (*model.Visitor, error) {
	rec, ok := r.byEmail[key]
	if !ok {
		return nil, apperrors.NotFound("visitor", nil)
	}
	r.patched[key] = patch
	return &rec, nil
}

func (r *fakeVisitorRepo) DeleteByKey(_ context.Context, key string) error {
	if _, ok := r.byEmail[key]; !ok {
		return apperrors.NotFound("visitor", nil)
	}
	delete(r.byEmail, key)
	return nil
}

var _ repository.EntityRepository[model.Visitor] = (*fakeVisitorRepo)(nil)

func TestCreateAllRejectsEmptyBatch(t *testing.T) {
	svc := NewService[model.Visitor](newFakeVisitorRepo())

	_, err := svc.CreateAll(context.Background(), nil)
	assert.True(t, apperrors.IsBadRequest(err))

	created, err := svc.CreateAll(context.Background(), []model.Visitor{{Name: "Ana", Email: "ana@example.com"}})
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestSearchRequiresIdentifier(t *testing.T) {
	svc := NewService[model.Visitor](newFakeVisitorRepo())

	_, err := svc.Search(context.Background(), repository.Lookup{})
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestFindByEmailPassesNilThrough(t *testing.T) {
	svc := NewService[model.Visitor](newFakeVisitorRepo())

	rec, err := svc.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = svc.FindByEmail(context.Background(), "")
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestUpsertByEmailCreatesWhenAbsent(t *testing.T) {
	repo := newFakeVisitorRepo()
	svc := NewService[model.Visitor](repo)

	rec, created, err := svc.UpsertByEmail(context.Background(), "ana@example.com",
		model.Visitor{Name: "Ana", Email: "ana@example.com"}, &model.VisitorPatch{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Ana", rec.Name)
	assert.Len(t, repo.created, 1)
	assert.Empty(t, repo.patched)
}

func TestUpsertByEmailPatchesWhenPresent(t *testing.T) {
	repo := newFakeVisitorRepo()
	svc := NewService[model.Visitor](repo)

	_, _, err := svc.UpsertByEmail(context.Background(), "ana@example.com",
		model.Visitor{Name: "Ana", Email: "ana@example.com"}, &model.VisitorPatch{})
	require.NoError(t, err)

	name := "Ana Maria"
	_, created, err := svc.UpsertByEmail(context.Background(), "ana@example.com",
		model.Visitor{Name: name, Email: "ana@example.com"}, &model.VisitorPatch{Name: &name})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repo.created, 1)
	assert.Contains(t, repo.patched, "ana@example.com")
}

func TestUpsertByEmailRequiresEmail(t *testing.T) {
	svc := NewService[model.Visitor](newFakeVisitorRepo())

	_, _, err := svc.UpsertByEmail(context.Background(), "", model.Visitor{}, &model.VisitorPatch{})
	assert.True(t, apperrors.IsBadRequest(err))
}
