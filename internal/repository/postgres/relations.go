package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/schoolcare/infirmary-api/internal/model"
)

// Relation names accepted by the person stores.
const (
	RelationClassGroup = "class_group"
	RelationDepartment = "department"
	RelationInfo       = "info"
)

func NewStudentStore(db *sqlx.DB) *Store[model.Student] {
	return NewStore(db, map[string]RelationFunc[model.Student]{
		RelationClassGroup: loadStudentClassGroups,
		RelationInfo:       loadStudentInfos,
	})
}

func NewEmployeeStore(db *sqlx.DB) *Store[model.Employee] {
	return NewStore(db, map[string]RelationFunc[model.Employee]{
		RelationDepartment: loadEmployeeDepartments,
		RelationInfo:       loadEmployeeInfos,
	})
}

func NewVisitorStore(db *sqlx.DB) *Store[model.Visitor] {
	return NewStore[model.Visitor](db, nil)
}

func NewClassGroupStore(db *sqlx.DB) *Store[model.ClassGroup] {
	return NewStore[model.ClassGroup](db, nil)
}

func NewDepartmentStore(db *sqlx.DB) *Store[model.Department] {
	return NewStore[model.Department](db, nil)
}

func NewInfirmaryStore(db *sqlx.DB) *Store[model.Infirmary] {
	return NewStore[model.Infirmary](db, nil)
}

func NewNurseStore(db *sqlx.DB) *Store[model.Nurse] {
	return NewStore[model.Nurse](db, nil)
}

func NewStudentAppointmentStore(db *sqlx.DB) *Store[model.StudentAppointment] {
	return NewStore[model.StudentAppointment](db, nil)
}

func NewEmployeeAppointmentStore(db *sqlx.DB) *Store[model.EmployeeAppointment] {
	return NewStore[model.EmployeeAppointment](db, nil)
}

func NewVisitorAppointmentStore(db *sqlx.DB) *Store[model.VisitorAppointment] {
	return NewStore[model.VisitorAppointment](db, nil)
}

// Each loader fetches the relation for the whole batch in one query.

func loadStudentClassGroups(ctx context.Context, ext sqlx.ExtContext, recs []*model.Student) error {
	ids := make([]string, 0, len(recs))
	seen := make(map[string]bool)
	for _, s := range recs {
		if s.ClassGroupID != nil && !seen[*s.ClassGroupID] {
			seen[*s.ClassGroupID] = true
			ids = append(ids, *s.ClassGroupID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var groups []model.ClassGroup
	query := `SELECT * FROM class_groups WHERE id = ANY($1)`
	if err := sqlx.SelectContext(ctx, ext, &groups, query, pq.Array(ids)); err != nil {
		return err
	}

	byID := make(map[string]*model.ClassGroup, len(groups))
	for i := range groups {
		byID[groups[i].ID] = &groups[i]
	}
	for _, s := range recs {
		if s.ClassGroupID != nil {
			s.ClassGroup = byID[*s.ClassGroupID]
		}
	}
	return nil
}

func loadStudentInfos(ctx context.Context, ext sqlx.ExtContext, recs []*model.Student) error {
	ids := make([]string, 0, len(recs))
	for _, s := range recs {
		ids = append(ids, s.ID)
	}

	var infos []model.StudentInfo
	query := `SELECT * FROM student_infos WHERE student_id = ANY($1)`
	if err := sqlx.SelectContext(ctx, ext, &infos, query, pq.Array(ids)); err != nil {
		return err
	}

	byOwner := make(map[string]*model.StudentInfo, len(infos))
	for i := range infos {
		byOwner[infos[i].StudentID] = &infos[i]
	}
	for _, s := range recs {
		s.Info = byOwner[s.ID]
	}
	return nil
}

func loadEmployeeDepartments(ctx context.Context, ext sqlx.ExtContext, recs []*model.Employee) error {
	ids := make([]string, 0, len(recs))
	seen := make(map[string]bool)
	for _, e := range recs {
		if e.DepartmentID != nil && !seen[*e.DepartmentID] {
			seen[*e.DepartmentID] = true
			ids = append(ids, *e.DepartmentID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var departments []model.Department
	query := `SELECT * FROM departments WHERE id = ANY($1)`
	if err := sqlx.SelectContext(ctx, ext, &departments, query, pq.Array(ids)); err != nil {
		return err
	}

	byID := make(map[string]*model.Department, len(departments))
	for i := range departments {
		byID[departments[i].ID] = &departments[i]
	}
	for _, e := range recs {
		if e.DepartmentID != nil {
			e.Department = byID[*e.DepartmentID]
		}
	}
	return nil
}

func loadEmployeeInfos(ctx context.Context, ext sqlx.ExtContext, recs []*model.Employee) error {
	ids := make([]string, 0, len(recs))
	for _, e := range recs {
		ids = append(ids, e.ID)
	}

	var infos []model.EmployeeInfo
	query := `SELECT * FROM employee_infos WHERE employee_id = ANY($1)`
	if err := sqlx.SelectContext(ctx, ext, &infos, query, pq.Array(ids)); err != nil {
		return err
	}

	byOwner := make(map[string]*model.EmployeeInfo, len(infos))
	for i := range infos {
		byOwner[infos[i].EmployeeID] = &infos[i]
	}
	for _, e := range recs {
		e.Info = byOwner[e.ID]
	}
	return nil
}
