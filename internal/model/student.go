package model

import (
	"time"

	"github.com/google/uuid"
)

// Student is a school student registered with the infirmary. The registry
// is the school system's unique business key; the primary key is the
// school system's id when imported, or a generated uuid for manual entry.
type Student struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name" binding:"required"`
	Age          int        `db:"age" json:"age"`
	Gender       string     `db:"gender" json:"gender"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Registry     string     `db:"registry" json:"registry" binding:"required"`
	ClassGroupID *string    `db:"class_group_id" json:"class_group_id,omitempty"`
	CurrentClass string     `db:"current_class" json:"current_class"`
	BirthDate    *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	FatherName   *string    `db:"father_name" json:"father_name,omitempty"`
	FatherPhone  *string    `db:"father_phone" json:"father_phone,omitempty"`
	MotherName   *string    `db:"mother_name" json:"mother_name,omitempty"`
	MotherPhone  *string    `db:"mother_phone" json:"mother_phone,omitempty"`
	Base

	// Loaded on demand, never stored on this table.
	ClassGroup *ClassGroup  `db:"-" json:"class_group,omitempty"`
	Info       *StudentInfo `db:"-" json:"info,omitempty"`
}

func (Student) TableName() string { return "students" }
func (Student) KeyColumn() string { return "registry" }

func (s *Student) EnsureID() {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
}

// StudentPatch is applied field-by-field by the persistence layer; nil
// fields are left untouched.
type StudentPatch struct {
	Name         *string    `db:"name" json:"name"`
	Age          *int       `db:"age" json:"age"`
	Gender       *string    `db:"gender" json:"gender"`
	Email        *string    `db:"email" json:"email"`
	ClassGroupID *string    `db:"class_group_id" json:"class_group_id"`
	CurrentClass *string    `db:"current_class" json:"current_class"`
	BirthDate    *time.Time `db:"birth_date" json:"birth_date"`
	FatherName   *string    `db:"father_name" json:"father_name"`
	FatherPhone  *string    `db:"father_phone" json:"father_phone"`
	MotherName   *string    `db:"mother_name" json:"mother_name"`
	MotherPhone  *string    `db:"mother_phone" json:"mother_phone"`
}

// StudentInfo is the one-to-one medical notes record for a student,
// created lazily on first write.
type StudentInfo struct {
	ID        uuid.UUID `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Allergies string    `db:"allergies" json:"allergies"`
	Notes     string    `db:"notes" json:"notes"`
	Base
}

func (StudentInfo) TableName() string { return "student_infos" }

func (i *StudentInfo) EnsureID() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
}

func (i *StudentInfo) SetOwner(id string) { i.StudentID = id }
func (i *StudentInfo) Details() (string, string) { return i.Allergies, i.Notes }
func (i *StudentInfo) SetDetails(allergies, notes string) {
	i.Allergies = allergies
	i.Notes = notes
}
