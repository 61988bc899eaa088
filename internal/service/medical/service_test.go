package medical

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolcare/infirmary-api/internal/model"
	apperrors "github.com/schoolcare/infirmary-api/pkg/errors"
)

type spyInfoRepo struct {
	stored  *model.StudentInfo
	creates int
	updates int
}

func (r *spyInfoRepo) FindByOwner(_ context.Context, ownerID string) (*model.StudentInfo, error) {
	if r.stored == nil || r.stored.StudentID != ownerID {
		return nil, nil
	}
	found := *r.stored
	return &found, nil
}

func (r *spyInfoRepo) Create(_ context.Context, rec *model.StudentInfo) error {
	r.creates++
	stored := *rec
	r.stored = &stored
	return nil
}

func (r *spyInfoRepo) Update(_ context.Context, rec *model.StudentInfo) error {
	r.updates++
	stored := *rec
	r.stored = &stored
	return nil
}

func newStudentInfoService(repo *spyInfoRepo) *Service[model.StudentInfo, *model.StudentInfo] {
	return NewService[model.StudentInfo, *model.StudentInfo](repo)
}

func TestGetReturnsNilWhenAbsent(t *testing.T) {
	svc := newStudentInfoService(&spyInfoRepo{})

	rec, err := svc.Get(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = svc.Get(context.Background(), "")
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestUpdateOrCreateCreatesWhenMissing(t *testing.T) {
	repo := &spyInfoRepo{}
	svc := newStudentInfoService(repo)

	rec, wrote, err := svc.UpdateOrCreate(context.Background(), "stu-1", "peanuts", "carries epipen")
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, 1, repo.creates)
	assert.Zero(t, repo.updates)
	assert.Equal(t, "stu-1", rec.StudentID)
	assert.Equal(t, "peanuts", rec.Allergies)
	assert.Equal(t, "carries epipen", rec.Notes)
}

func TestUpdateOrCreateIsIdempotent(t *testing.T) {
	repo := &spyInfoRepo{}
	svc := newStudentInfoService(repo)

	_, wrote, err := svc.UpdateOrCreate(context.Background(), "stu-1", "peanuts", "")
	require.NoError(t, err)
	assert.True(t, wrote)

	// A second call with identical values must not touch storage.
	rec, wrote, err := svc.UpdateOrCreate(context.Background(), "stu-1", "peanuts", "")
	require.NoError(t, err)
	assert.False(t, wrote)
	assert.Equal(t, 1, repo.creates)
	assert.Zero(t, repo.updates)
	assert.Equal(t, "peanuts", rec.Allergies)
}

func TestUpdateOrCreateOverwritesChangedValues(t *testing.T) {
	repo := &spyInfoRepo{}
	svc := newStudentInfoService(repo)

	_, _, err := svc.UpdateOrCreate(context.Background(), "stu-1", "peanuts", "")
	require.NoError(t, err)

	rec, wrote, err := svc.UpdateOrCreate(context.Background(), "stu-1", "peanuts, dust", "monitor")
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.updates)
	assert.Equal(t, "peanuts, dust", rec.Allergies)
	assert.Equal(t, "monitor", rec.Notes)
}
