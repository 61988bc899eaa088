package model

import (
	"time"

	"github.com/google/uuid"
)

// Person type labels used in the unified report feed.
const (
	PersonTypeStudent  = "student"
	PersonTypeEmployee = "employee"
	PersonTypeVisitor  = "visitor"
)

// StudentAppointment is one infirmary visit by a student. Infirmary and
// nurse are recorded as free text as of visit time; current_class is
// denormalized for the same reason.
type StudentAppointment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id" validate:"required"`
	Infirmary    string    `db:"infirmary" json:"infirmary" validate:"required"`
	Nurse        string    `db:"nurse" json:"nurse" validate:"required"`
	CurrentClass string    `db:"current_class" json:"current_class"`
	Date         time.Time `db:"date" json:"date" validate:"required"`
	Reason       string    `db:"reason" json:"reason" validate:"required"`
	Treatment    string    `db:"treatment" json:"treatment"`
	Notes        string    `db:"notes" json:"notes"`
	Revaluation  bool      `db:"revaluation" json:"revaluation"`

	// ContactParents is student-only: flags that guardians were (or must
	// be) contacted about the visit.
	ContactParents bool `db:"contact_parents" json:"contact_parents"`
	Base
}

func (StudentAppointment) TableName() string { return "student_appointments" }

func (a *StudentAppointment) EnsureID() {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
}

// EmployeeAppointment is one infirmary visit by an employee.
type EmployeeAppointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	EmployeeID  string    `db:"employee_id" json:"employee_id" validate:"required"`
	Infirmary   string    `db:"infirmary" json:"infirmary" validate:"required"`
	Nurse       string    `db:"nurse" json:"nurse" validate:"required"`
	Date        time.Time `db:"date" json:"date" validate:"required"`
	Reason      string    `db:"reason" json:"reason" validate:"required"`
	Treatment   string    `db:"treatment" json:"treatment"`
	Notes       string    `db:"notes" json:"notes"`
	Revaluation bool      `db:"revaluation" json:"revaluation"`
	Base
}

func (EmployeeAppointment) TableName() string { return "employee_appointments" }

func (a *EmployeeAppointment) EnsureID() {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
}

// VisitorAppointment is one infirmary visit by a visitor.
type VisitorAppointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	VisitorID   uuid.UUID `db:"visitor_id" json:"visitor_id" validate:"required"`
	Infirmary   string    `db:"infirmary" json:"infirmary" validate:"required"`
	Nurse       string    `db:"nurse" json:"nurse" validate:"required"`
	Date        time.Time `db:"date" json:"date" validate:"required"`
	Reason      string    `db:"reason" json:"reason" validate:"required"`
	Treatment   string    `db:"treatment" json:"treatment"`
	Notes       string    `db:"notes" json:"notes"`
	Revaluation bool      `db:"revaluation" json:"revaluation"`
	Base
}

func (VisitorAppointment) TableName() string { return "visitor_appointments" }

func (a *VisitorAppointment) EnsureID() {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
}

// AppointmentFilter is the required filter set of the report feed: an
// inclusive date range, a set of infirmary names, and an optional
// free-text term.
type AppointmentFilter struct {
	From        time.Time
	To          time.Time
	Infirmaries []string
	Term        string
}

// ReportRow is the common shape every appointment type is mapped into for
// the unified feed. Extra carries the type-specific label/value pair
// (class, department or relationship); fields that do not apply to a type
// are left blank.
type ReportRow struct {
	Type           string    `json:"type"`
	Name           string    `json:"name"`
	ExtraLabel     string    `json:"extra_label"`
	ExtraValue     string    `json:"extra_value"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	Date           time.Time `json:"date"`
	Reason         string    `json:"reason"`
	Treatment      string    `json:"treatment"`
	Notes          string    `json:"notes"`
	Infirmary      string    `json:"infirmary"`
	Nurse          string    `json:"nurse"`
	Revaluation    bool      `json:"revaluation"`
	ContactParents bool      `json:"contact_parents"`
}

// StudentAppointmentRow is a feed query result: the appointment joined
// with its student and the student's class group.
type StudentAppointmentRow struct {
	StudentAppointment
	StudentName    string  `db:"student_name"`
	StudentAge     int     `db:"student_age"`
	StudentGender  string  `db:"student_gender"`
	ClassGroupName *string `db:"class_group_name"`
}

type EmployeeAppointmentRow struct {
	EmployeeAppointment
	EmployeeName   string  `db:"employee_name"`
	EmployeeAge    int     `db:"employee_age"`
	EmployeeGender string  `db:"employee_gender"`
	DepartmentName *string `db:"department_name"`
}

type VisitorAppointmentRow struct {
	VisitorAppointment
	VisitorName    string `db:"visitor_name"`
	VisitorAge     int    `db:"visitor_age"`
	VisitorGender  string `db:"visitor_gender"`
	Relationship   string `db:"relationship"`
}

// DashboardSummary is the headline counter set: totals for the current
// calendar year and for today, optionally scoped to one infirmary. The
// scoped counters are zero when no infirmary was requested.
type DashboardSummary struct {
	YearTotal      int    `json:"year_total"`
	TodayTotal     int    `json:"today_total"`
	Infirmary      string `json:"infirmary,omitempty"`
	InfirmaryYear  int    `json:"infirmary_year"`
	InfirmaryToday int    `json:"infirmary_today"`
}

// NurseCount is one row of the per-nurse visit tally.
type NurseCount struct {
	Nurse string `json:"nurse"`
	Count int    `json:"count"`
}

// ChartData buckets visit counts by infirmary category for the dashboard
// chart.
type ChartData struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}
