package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolcare/infirmary-api/internal/model"
	reportsvc "github.com/schoolcare/infirmary-api/internal/service/report"
	"github.com/schoolcare/infirmary-api/pkg/metrics"
)

// Registered once; prometheus rejects duplicate collector registration.
var testMetrics = metrics.NewMetrics("test_report_handler", "api")

type stubRepo struct {
	students []model.StudentAppointmentRow
	count    int
	nurses   []string
}

func (s *stubRepo) SearchStudents(_ context.Context, _ model.AppointmentFilter) ([]model.StudentAppointmentRow, error) {
	return s.students, nil
}

func (s *stubRepo) SearchEmployees(_ context.Context, _ model.AppointmentFilter) ([]model.EmployeeAppointmentRow, error) {
	return nil, nil
}

func (s *stubRepo) SearchVisitors(_ context.Context, _ model.AppointmentFilter) ([]model.VisitorAppointmentRow, error) {
	return nil, nil
}

func (s *stubRepo) StudentHistory(_ context.Context, _ string, _ *time.Time) ([]model.StudentAppointment, error) {
	return []model.StudentAppointment{}, nil
}

func (s *stubRepo) EmployeeHistory(_ context.Context, _ string, _ *time.Time) ([]model.EmployeeAppointment, error) {
	return []model.EmployeeAppointment{}, nil
}

func (s *stubRepo) VisitorHistory(_ context.Context, _ string, _ *time.Time) ([]model.VisitorAppointment, error) {
	return []model.VisitorAppointment{}, nil
}

func (s *stubRepo) Count(_ context.Context, _ string, _, _ time.Time, _ string) (int, error) {
	return s.count, nil
}

func (s *stubRepo) NurseVisits(_ context.Context, _ string, _, _ time.Time) ([]string, error) {
	return s.nurses, nil
}

func newTestRouter(repo *stubRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(reportsvc.NewService(repo, []string{"Elementary"}), testMetrics)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestSearchAppointmentsPaginates(t *testing.T) {
	repo := &stubRepo{}
	for i := 0; i < 120; i++ {
		repo.students = append(repo.students, model.StudentAppointmentRow{
			StudentAppointment: model.StudentAppointment{
				Date: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
			},
			StudentName: fmt.Sprintf("student-%d", i),
		})
	}
	engine := newTestRouter(repo)

	w := postJSON(t, engine, "/api/v1/reports/appointments", map[string]any{
		"date_begin":  "2024-08-01",
		"date_end":    "2024-08-31",
		"infirmaries": []string{"Main"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Items    []model.ReportRow `json:"items"`
			PageInfo model.PageInfo    `json:"page_info"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Len(t, body.Data.Items, 100)
	assert.Equal(t, 120, body.Data.PageInfo.TotalItems)
	assert.Equal(t, 2, body.Data.PageInfo.TotalPages)

	// Newest visit first.
	assert.Equal(t, "student-119", body.Data.Items[0].Name)

	w = postJSON(t, engine, "/api/v1/reports/appointments", map[string]any{
		"date_begin":  "2024-08-01",
		"date_end":    "2024-08-31",
		"infirmaries": []string{"Main"},
		"page":        2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data.Items, 20)
	assert.Equal(t, 2, body.Data.PageInfo.Page)
}

func TestSearchAppointmentsRejectsBadInput(t *testing.T) {
	engine := newTestRouter(&stubRepo{})

	w := postJSON(t, engine, "/api/v1/reports/appointments", map[string]any{
		"date_begin": "2024-08-01",
		"date_end":   "2024-08-31",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, engine, "/api/v1/reports/appointments", map[string]any{
		"date_begin":  "01/08/2024",
		"date_end":    "2024-08-31",
		"infirmaries": []string{"Main"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardEndpoints(t *testing.T) {
	repo := &stubRepo{count: 2, nurses: []string{"Rita", "Rita", "Paulo"}}
	engine := newTestRouter(repo)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary?infirmary=Main", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var sumBody struct {
		Data model.DashboardSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sumBody))
	assert.Equal(t, 6, sumBody.Data.YearTotal)
	assert.Equal(t, 6, sumBody.Data.InfirmaryYear)
	assert.Equal(t, "Main", sumBody.Data.Infirmary)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/nurses", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var nurseBody struct {
		Data []model.NurseCount `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nurseBody))
	require.Len(t, nurseBody.Data, 2)
	assert.Equal(t, model.NurseCount{Nurse: "Rita", Count: 6}, nurseBody.Data[0])

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/chart", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var chartBody struct {
		Data model.ChartData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chartBody))
	assert.Equal(t, []string{"Elementary"}, chartBody.Data.Labels)
	assert.Equal(t, []int{6}, chartBody.Data.Counts)
}
