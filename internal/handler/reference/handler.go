package reference

import (
	"github.com/gin-gonic/gin"

	"github.com/schoolcare/infirmary-api/internal/handler"
	"github.com/schoolcare/infirmary-api/internal/model"
	patientsvc "github.com/schoolcare/infirmary-api/internal/service/patient"
)

// Handler serves the reference lists the rest of the app points at:
// class groups, departments, infirmaries and nurses.
type Handler struct {
	classGroups *patientsvc.Service[model.ClassGroup]
	departments *patientsvc.Service[model.Department]
	infirmaries *patientsvc.Service[model.Infirmary]
	nurses      *patientsvc.Service[model.Nurse]
}

func NewHandler(
	classGroups *patientsvc.Service[model.ClassGroup],
	departments *patientsvc.Service[model.Department],
	infirmaries *patientsvc.Service[model.Infirmary],
	nurses *patientsvc.Service[model.Nurse],
) *Handler {
	return &Handler{
		classGroups: classGroups,
		departments: departments,
		infirmaries: infirmaries,
		nurses:      nurses,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	handler.RegisterFamily[model.ClassGroup, model.ClassGroupPatch](rg, handler.FamilyConfig{
		Path: "class-groups",
	}, h.classGroups)
	handler.RegisterFamily[model.Department, model.DepartmentPatch](rg, handler.FamilyConfig{
		Path: "departments",
	}, h.departments)
	handler.RegisterFamily[model.Infirmary, model.InfirmaryPatch](rg, handler.FamilyConfig{
		Path: "infirmaries",
	}, h.infirmaries)
	handler.RegisterFamily[model.Nurse, model.NursePatch](rg, handler.FamilyConfig{
		Path:     "nurses",
		KeyQuery: "badge_number",
	}, h.nurses)
}
