package model

// ClassGroup is the school class a student belongs to. IDs are the school
// system's own identifiers, not generated here.
type ClassGroup struct {
	ID       string `db:"id" json:"id" binding:"required"`
	Name     string `db:"name" json:"name" binding:"required"`
	Segment  string `db:"segment" json:"segment"`
	Director string `db:"director" json:"director"`
	Base
}

func (ClassGroup) TableName() string { return "class_groups" }
func (ClassGroup) KeyColumn() string { return "name" }

type ClassGroupPatch struct {
	Name     *string `db:"name" json:"name"`
	Segment  *string `db:"segment" json:"segment"`
	Director *string `db:"director" json:"director"`
}

// Department is the organizational unit an employee belongs to.
type Department struct {
	ID       string `db:"id" json:"id" binding:"required"`
	Name     string `db:"name" json:"name" binding:"required"`
	Director string `db:"director" json:"director"`
	Base
}

func (Department) TableName() string { return "departments" }
func (Department) KeyColumn() string { return "name" }

type DepartmentPatch struct {
	Name     *string `db:"name" json:"name"`
	Director *string `db:"director" json:"director"`
}
