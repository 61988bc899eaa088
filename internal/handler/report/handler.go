package report

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolcare/infirmary-api/internal/handler"
	"github.com/schoolcare/infirmary-api/internal/model"
	reportsvc "github.com/schoolcare/infirmary-api/internal/service/report"
	"github.com/schoolcare/infirmary-api/pkg/metrics"
)

const (
	reportDateLayout = "2006-01-02"
	pageSize         = 100
)

// Handler serves the unified appointment report and the dashboard.
type Handler struct {
	reports *reportsvc.Service
	metrics *metrics.Metrics
}

func NewHandler(reports *reportsvc.Service, m *metrics.Metrics) *Handler {
	return &Handler{reports: reports, metrics: m}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reports/appointments", h.searchAppointments)

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/summary", h.summary)
		dashboard.GET("/nurses", h.nurseCounts)
		dashboard.GET("/chart", h.chart)
	}
}

type searchRequest struct {
	DateBegin   string   `json:"date_begin" binding:"required"`
	DateEnd     string   `json:"date_end" binding:"required"`
	Infirmaries []string `json:"infirmaries" binding:"required,min=1"`
	SearchTerm  string   `json:"search_term"`
	Page        int      `json:"page"`
}

type searchResponse struct {
	Items    []model.ReportRow `json:"items"`
	PageInfo model.PageInfo    `json:"page_info"`
}

func (h *Handler) searchAppointments(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	from, err := time.Parse(reportDateLayout, req.DateBegin)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date_begin must be formatted as 2006-01-02"))
		return
	}
	to, err := time.Parse(reportDateLayout, req.DateEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date_end must be formatted as 2006-01-02"))
		return
	}

	rows, err := h.reports.SearchAll(c.Request.Context(), model.AppointmentFilter{
		From:        from,
		To:          to,
		Infirmaries: req.Infirmaries,
		Term:        req.SearchTerm,
	})
	if err != nil {
		h.metrics.ReportQueries.WithLabelValues("error").Inc()
		handler.RespondError(c, err)
		return
	}
	h.metrics.ReportQueries.WithLabelValues("success").Inc()

	page := req.Page
	if page < 1 {
		page = 1
	}
	items, info := paginate(rows, page)
	h.metrics.ReportRowsServed.Add(float64(len(items)))

	c.JSON(http.StatusOK, handler.NewSuccessResponse(searchResponse{
		Items:    items,
		PageInfo: info,
	}))
}

// paginate slices one page out of the full result. Pages past the end
// come back empty rather than failing, matching how report viewers walk
// forward through results.
func paginate(rows []model.ReportRow, page int) ([]model.ReportRow, model.PageInfo) {
	total := len(rows)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return rows[start:end], model.PageInfo{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

func (h *Handler) summary(c *gin.Context) {
	sum, err := h.reports.Summary(c.Request.Context(), c.Query("infirmary"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(sum))
}

func (h *Handler) nurseCounts(c *gin.Context) {
	counts, err := h.reports.NurseCounts(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(counts))
}

func (h *Handler) chart(c *gin.Context) {
	data, err := h.reports.ChartData(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(data))
}
