package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/schoolcare/infirmary-api/pkg/errors"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondError(c, err)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondErrorNotFound(t *testing.T) {
	w, body := respond(t, apperrors.NotFound("student", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", body.Status)
	assert.Contains(t, body.Message, "student")
}

func TestRespondErrorBadRequest(t *testing.T) {
	w, body := respond(t, apperrors.BadRequest("an identifying parameter is required"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "an identifying parameter is required", body.Message)
}

func TestRespondErrorValidation(t *testing.T) {
	w, body := respond(t, apperrors.Validation("invalid appointment",
		map[string]string{"nurse": "failed required validation"}, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "failed required validation", body.Errors["nurse"])
}

func TestRespondErrorUnknownIsInternal(t *testing.T) {
	w, body := respond(t, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Internal details never leak into the envelope.
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, body.Message, "pq:")
}
