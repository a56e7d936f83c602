package middleware

import (
	"net/http"
	"time"

	"campuscrafter.id/academy/pkg/apperror"
	"campuscrafter.id/academy/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id, attaches a request-scoped logger to the
// context and logs one line when the request completes.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)

		requestLog := log.With().Str("request_id", reqID).Logger()
		c.Request = c.Request.WithContext(requestLog.WithContext(c.Request.Context()))

		start := time.Now()
		c.Next()

		// The auth middleware may have enriched the logger further down the chain.
		entry := zerolog.Ctx(c.Request.Context()).Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry = zerolog.Ctx(c.Request.Context()).Error()
		}
		entry.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("ip", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Int("bytes", c.Writer.Size()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}

// Recovery logs panics with the request logger and answers with the standard error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rvr any) {
		zerolog.Ctx(c.Request.Context()).Error().
			Interface("recover", rvr).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("panic recovered")
		response.Message(c, http.StatusInternalServerError, apperror.ErrInternal.Error())
		c.Abort()
	})
}
