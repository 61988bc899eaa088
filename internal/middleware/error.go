package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/schoolcare/infirmary-api/internal/handler"
)

// ErrorHandler logs errors that handlers attached to the context. Handlers
// write their own response bodies; this only fills in a 500 when one of
// them aborted without writing anything.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("Request error")
		}

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError,
				handler.NewErrorResponse("internal server error"))
		}
	}
}
