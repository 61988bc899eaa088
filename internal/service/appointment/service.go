package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/schoolcare/infirmary-api/internal/model"
	"github.com/schoolcare/infirmary-api/internal/repository"
	apperrors "github.com/schoolcare/infirmary-api/pkg/errors"
)

// Service records infirmary visits. Appointments are append-only: there
// is no update or delete path through the application; rows only go away
// with the person record's cascade.
type Service struct {
	students  repository.EntityRepository[model.StudentAppointment]
	employees repository.EntityRepository[model.EmployeeAppointment]
	visitors  repository.EntityRepository[model.VisitorAppointment]
	validate  *validator.Validate
}

func NewService(
	students repository.EntityRepository[model.StudentAppointment],
	employees repository.EntityRepository[model.EmployeeAppointment],
	visitors repository.EntityRepository[model.VisitorAppointment],
) *Service {
	return &Service{
		students:  students,
		employees: employees,
		visitors:  visitors,
		validate:  validator.New(),
	}
}

func (s *Service) CreateStudentAppointment(ctx context.Context, appt model.StudentAppointment) (*model.StudentAppointment, error) {
	if err := s.check(appt); err != nil {
		return nil, err
	}
	return createOne(ctx, s.students, appt)
}

func (s *Service) CreateEmployeeAppointment(ctx context.Context, appt model.EmployeeAppointment) (*model.EmployeeAppointment, error) {
	if err := s.check(appt); err != nil {
		return nil, err
	}
	return createOne(ctx, s.employees, appt)
}

func (s *Service) CreateVisitorAppointment(ctx context.Context, appt model.VisitorAppointment) (*model.VisitorAppointment, error) {
	if err := s.check(appt); err != nil {
		return nil, err
	}
	return createOne(ctx, s.visitors, appt)
}

func createOne[T model.Entity](ctx context.Context, repo repository.EntityRepository[T], appt T) (*T, error) {
	created, err := repo.CreateAll(ctx, []T{appt})
	if err != nil {
		return nil, err
	}
	if len(created) != 1 {
		return nil, fmt.Errorf("expected one created appointment, got %d", len(created))
	}
	return &created[0], nil
}

func (s *Service) check(appt any) error {
	err := s.validate.Struct(appt)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = fmt.Sprintf("failed %s validation", fe.Tag())
		}
		return apperrors.Validation("invalid appointment", fields, err)
	}
	return apperrors.BadRequest(err.Error())
}
