package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/schoolcare/infirmary-api/pkg/errors"
)

type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError translates the core layer's typed failures into response
// envelopes. The core never renders user-facing text itself; this is the
// single place status codes are chosen.
func RespondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
		_ = c.Error(err)
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrBadRequest, apperrors.ErrValidation:
		status = http.StatusBadRequest
	}

	c.JSON(status, &Response{
		Status:  "error",
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
}
