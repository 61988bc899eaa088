package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolcare/infirmary-api/internal/handler"
	"github.com/schoolcare/infirmary-api/internal/model"
	medicalsvc "github.com/schoolcare/infirmary-api/internal/service/medical"
	patientsvc "github.com/schoolcare/infirmary-api/internal/service/patient"
)

// Handler serves the three person-record families and their medical info
// sub-records.
type Handler struct {
	students  *patientsvc.Service[model.Student]
	employees *patientsvc.Service[model.Employee]
	visitors  *patientsvc.Service[model.Visitor]

	studentInfo  *medicalsvc.Service[model.StudentInfo, *model.StudentInfo]
	employeeInfo *medicalsvc.Service[model.EmployeeInfo, *model.EmployeeInfo]
}

func NewHandler(
	students *patientsvc.Service[model.Student],
	employees *patientsvc.Service[model.Employee],
	visitors *patientsvc.Service[model.Visitor],
	studentInfo *medicalsvc.Service[model.StudentInfo, *model.StudentInfo],
	employeeInfo *medicalsvc.Service[model.EmployeeInfo, *model.EmployeeInfo],
) *Handler {
	return &Handler{
		students:     students,
		employees:    employees,
		visitors:     visitors,
		studentInfo:  studentInfo,
		employeeInfo: employeeInfo,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	handler.RegisterFamily[model.Student, model.StudentPatch](rg, handler.FamilyConfig{
		Path:     "students",
		KeyQuery: "registry",
	}, h.students)
	handler.RegisterFamily[model.Employee, model.EmployeePatch](rg, handler.FamilyConfig{
		Path:     "employees",
		KeyQuery: "registry",
	}, h.employees)
	handler.RegisterFamily[model.Visitor, model.VisitorPatch](rg, handler.FamilyConfig{
		Path:    "visitors",
		ByEmail: true,
	}, h.visitors)

	students := rg.Group("/students")
	{
		students.GET("/:id/info", getInfo(h.studentInfo))
		students.PUT("/:id/info", putInfo(h.studentInfo))
	}
	employees := rg.Group("/employees")
	{
		employees.GET("/:id/info", getInfo(h.employeeInfo))
		employees.PUT("/:id/info", putInfo(h.employeeInfo))
	}

	rg.PUT("/visitors", h.upsertVisitor)
}

type infoRequest struct {
	Allergies string `json:"allergies"`
	Notes     string `json:"notes"`
}

func getInfo[T any, PT interface {
	*T
	medicalsvc.Record
}](svc *medicalsvc.Service[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(rec))
	}
}

func putInfo[T any, PT interface {
	*T
	medicalsvc.Record
}](svc *medicalsvc.Service[T, PT]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req infoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
		rec, wrote, err := svc.UpdateOrCreate(c.Request.Context(), c.Param("id"), req.Allergies, req.Notes)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		resp := handler.NewSuccessResponse(rec)
		if !wrote {
			resp.Message = "no changes"
		}
		c.JSON(http.StatusOK, resp)
	}
}

// upsertVisitor registers a walk-in visitor: a new record when the email
// is unknown, an overwrite of the existing one otherwise.
func (h *Handler) upsertVisitor(c *gin.Context) {
	var v model.Visitor
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patch := model.VisitorPatch{
		Name:         &v.Name,
		Age:          &v.Age,
		Gender:       &v.Gender,
		Relationship: &v.Relationship,
		Allergies:    &v.Allergies,
		Notes:        &v.Notes,
	}
	rec, created, err := h.visitors.UpsertByEmail(c.Request.Context(), v.Email, v, &patch)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, handler.NewSuccessResponse(rec))
}
