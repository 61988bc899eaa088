package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolcare/infirmary-api/internal/handler"
	"github.com/schoolcare/infirmary-api/internal/model"
	appointmentsvc "github.com/schoolcare/infirmary-api/internal/service/appointment"
	reportsvc "github.com/schoolcare/infirmary-api/internal/service/report"
)

const historyDateLayout = "2006-01-02"

// Handler books appointments and serves per-person visit history.
type Handler struct {
	appointments *appointmentsvc.Service
	reports      *reportsvc.Service
}

func NewHandler(appointments *appointmentsvc.Service, reports *reportsvc.Service) *Handler {
	return &Handler{appointments: appointments, reports: reports}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	appts := rg.Group("/appointments")
	{
		appts.POST("/students", h.createStudentAppointment)
		appts.POST("/employees", h.createEmployeeAppointment)
		appts.POST("/visitors", h.createVisitorAppointment)
	}

	records := rg.Group("/records")
	{
		records.GET("/students/:id/appointments", h.studentHistory)
		records.GET("/employees/:id/appointments", h.employeeHistory)
		records.GET("/visitors/:id/appointments", h.visitorHistory)
	}
}

func (h *Handler) createStudentAppointment(c *gin.Context) {
	var appt model.StudentAppointment
	if err := c.ShouldBindJSON(&appt); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	created, err := h.appointments.CreateStudentAppointment(c.Request.Context(), appt)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) createEmployeeAppointment(c *gin.Context) {
	var appt model.EmployeeAppointment
	if err := c.ShouldBindJSON(&appt); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	created, err := h.appointments.CreateEmployeeAppointment(c.Request.Context(), appt)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) createVisitorAppointment(c *gin.Context) {
	var appt model.VisitorAppointment
	if err := c.ShouldBindJSON(&appt); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	created, err := h.appointments.CreateVisitorAppointment(c.Request.Context(), appt)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

// historyDate parses the optional ?date= filter. The second return is
// false when the value is present but malformed.
func historyDate(c *gin.Context) (*time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse(historyDateLayout, raw)
	if err != nil {
		return nil, false
	}
	return &d, true
}

func (h *Handler) studentHistory(c *gin.Context) {
	onDate, ok := historyDate(c)
	if !ok {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date must be formatted as 2006-01-02"))
		return
	}
	appts, err := h.reports.StudentHistory(c.Request.Context(), c.Param("id"), onDate)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appts))
}

func (h *Handler) employeeHistory(c *gin.Context) {
	onDate, ok := historyDate(c)
	if !ok {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date must be formatted as 2006-01-02"))
		return
	}
	appts, err := h.reports.EmployeeHistory(c.Request.Context(), c.Param("id"), onDate)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appts))
}

func (h *Handler) visitorHistory(c *gin.Context) {
	onDate, ok := historyDate(c)
	if !ok {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date must be formatted as 2006-01-02"))
		return
	}
	appts, err := h.reports.VisitorHistory(c.Request.Context(), c.Param("id"), onDate)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appts))
}
