package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolcare/infirmary-api/internal/model"
	"github.com/schoolcare/infirmary-api/internal/repository"
	apperrors "github.com/schoolcare/infirmary-api/pkg/errors"
)

type fakeApptRepo[T model.Entity] struct {
	created []T
}

func (r *fakeApptRepo[T]) CreateAll(_ context.Context, recs []T) ([]T, error) {
	r.created = append(r.created, recs...)
	return recs, nil
}

func (r *fakeApptRepo[T]) Search(_ context.Context, _ repository.Lookup) ([]T, error) {
	return nil, apperrors.NotFound("appointment", nil)
}

func (r *fakeApptRepo[T]) FindByEmail(_ context.Context, _ string, _ ...string) (*T, error) {
	return nil, nil
}

func (r *fakeApptRepo[T]) GetByID(_ context.Context, _ string, _ ...string) (*T, error) {
	return nil, apperrors.NotFound("appointment", nil)
}

func (r *fakeApptRepo[T]) UpdateByKey(_ context.Context, _ string, _ any) (*T, error) {
	return nil, apperrors.NotFound("appointment", nil)
}

func (r *fakeApptRepo[T]) DeleteByKey(_ context.Context, _ string) error {
	return apperrors.NotFound("appointment", nil)
}

func newTestService() (*Service, *fakeApptRepo[model.StudentAppointment]) {
	students := &fakeApptRepo[model.StudentAppointment]{}
	employees := &fakeApptRepo[model.EmployeeAppointment]{}
	visitors := &fakeApptRepo[model.VisitorAppointment]{}
	return NewService(students, employees, visitors), students
}

func TestCreateStudentAppointment(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.CreateStudentAppointment(context.Background(), model.StudentAppointment{
		StudentID: "stu-1",
		Infirmary: "Main",
		Nurse:     "Rita",
		Date:      time.Now(),
		Reason:    "fever",
	})
	require.NoError(t, err)
	assert.Equal(t, "stu-1", created.StudentID)
	assert.Len(t, repo.created, 1)
}

func TestCreateStudentAppointmentValidatesRequiredFields(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.CreateStudentAppointment(context.Background(), model.StudentAppointment{
		Infirmary: "Main",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, repo.created)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "studentid")
	assert.Contains(t, appErr.Fields, "nurse")
	assert.Contains(t, appErr.Fields, "date")
	assert.Contains(t, appErr.Fields, "reason")
}

func TestCreateVisitorAppointmentValidatesVisitorID(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateVisitorAppointment(context.Background(), model.VisitorAppointment{
		Infirmary: "Main",
		Nurse:     "Rita",
		Date:      time.Now(),
		Reason:    "dizzy",
	})
	assert.True(t, apperrors.IsValidation(err))

	created, err := svc.CreateVisitorAppointment(context.Background(), model.VisitorAppointment{
		VisitorID: uuid.New(),
		Infirmary: "Main",
		Nurse:     "Rita",
		Date:      time.Now(),
		Reason:    "dizzy",
	})
	require.NoError(t, err)
	assert.NotNil(t, created)
}
