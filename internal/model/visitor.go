package model

import (
	"github.com/google/uuid"
)

// Visitor is an outside person seen by the infirmary (a parent, a
// contractor). Visitors have no separate info record; allergies and notes
// live on the row itself. Email is the unique business key.
type Visitor struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name" binding:"required"`
	Age          int       `db:"age" json:"age"`
	Gender       string    `db:"gender" json:"gender"`
	Email        string    `db:"email" json:"email" binding:"required,email"`
	Relationship string    `db:"relationship" json:"relationship"`
	Allergies    string    `db:"allergies" json:"allergies"`
	Notes        string    `db:"notes" json:"notes"`
	Base
}

func (Visitor) TableName() string { return "visitors" }
func (Visitor) KeyColumn() string { return "email" }

func (v *Visitor) EnsureID() {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
}

type VisitorPatch struct {
	Name         *string `db:"name" json:"name"`
	Age          *int    `db:"age" json:"age"`
	Gender       *string `db:"gender" json:"gender"`
	Relationship *string `db:"relationship" json:"relationship"`
	Allergies    *string `db:"allergies" json:"allergies"`
	Notes        *string `db:"notes" json:"notes"`
}
