package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a school staff member. The registry is the badge number
// issued by the school system.
type Employee struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name" binding:"required"`
	Age          int        `db:"age" json:"age"`
	Gender       string     `db:"gender" json:"gender"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Registry     string     `db:"registry" json:"registry" binding:"required"`
	DepartmentID *string    `db:"department_id" json:"department_id,omitempty"`
	Position     *string    `db:"position" json:"position,omitempty"`
	BirthDate    *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Base

	Department *Department   `db:"-" json:"department,omitempty"`
	Info       *EmployeeInfo `db:"-" json:"info,omitempty"`
}

func (Employee) TableName() string { return "employees" }
func (Employee) KeyColumn() string { return "registry" }

func (e *Employee) EnsureID() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
}

type EmployeePatch struct {
	Name         *string    `db:"name" json:"name"`
	Age          *int       `db:"age" json:"age"`
	Gender       *string    `db:"gender" json:"gender"`
	Email        *string    `db:"email" json:"email"`
	DepartmentID *string    `db:"department_id" json:"department_id"`
	Position     *string    `db:"position" json:"position"`
	BirthDate    *time.Time `db:"birth_date" json:"birth_date"`
}

// EmployeeInfo is the one-to-one medical notes record for an employee.
type EmployeeInfo struct {
	ID         uuid.UUID `db:"id" json:"id"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	Allergies  string    `db:"allergies" json:"allergies"`
	Notes      string    `db:"notes" json:"notes"`
	Base
}

func (EmployeeInfo) TableName() string { return "employee_infos" }

func (i *EmployeeInfo) EnsureID() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
}

func (i *EmployeeInfo) SetOwner(id string) { i.EmployeeID = id }
func (i *EmployeeInfo) Details() (string, string) { return i.Allergies, i.Notes }
func (i *EmployeeInfo) SetDetails(allergies, notes string) {
	i.Allergies = allergies
	i.Notes = notes
}
