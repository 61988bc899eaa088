package model

import "github.com/google/uuid"

// Infirmary is a reference-list entry for a physical infirmary location.
// Appointments record the infirmary name as free text, not a foreign key;
// this list only drives data entry.
type Infirmary struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Name     string    `db:"name" json:"name" binding:"required"`
	Location string    `db:"location" json:"location"`
	Base
}

func (Infirmary) TableName() string { return "infirmaries" }
func (Infirmary) KeyColumn() string { return "name" }

func (i *Infirmary) EnsureID() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
}

type InfirmaryPatch struct {
	Name     *string `db:"name" json:"name"`
	Location *string `db:"location" json:"location"`
}

// Nurse is a reference-list entry for clinical staff, keyed by badge.
type Nurse struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name" binding:"required"`
	BadgeNumber string    `db:"badge_number" json:"badge_number" binding:"required"`
	Base
}

func (Nurse) TableName() string { return "nurses" }
func (Nurse) KeyColumn() string { return "badge_number" }

func (n *Nurse) EnsureID() {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
}

type NursePatch struct {
	Name        *string `db:"name" json:"name"`
	BadgeNumber *string `db:"badge_number" json:"badge_number"`
}
