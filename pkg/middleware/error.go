package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/pSite/pkg/errors"
)

func errorBody(e *errors.StatusError) gin.H {
	body := gin.H{
		"code":    e.Code,
		"message": e.Message,
	}
	if e.Reason != "" {
		body["reason"] = e.Reason
	}
	if e.RetryAfter > 0 {
		body["retryAfter"] = e.RetryAfter
	}
	return gin.H{"error": body}
}

// ErrorMiddleware renders the last error a handler pushed with c.Error.
// Only the StatusError part of an error chain reaches the client; the full
// chain is logged.
func ErrorMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		e := errors.StatusOf(err)
		if e == nil {
			e = errors.ErrInternal
		}

		level := slog.LevelInfo
		if e.Code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", e.Code,
			"error", err.Error(),
		)

		if c.Writer.Written() {
			return
		}
		if e.Code == http.StatusServiceUnavailable && e.RetryAfter == 0 {
			e = e.WithRetryAfter(1)
		}
		if e.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(e.RetryAfter))
		}
		c.JSON(e.Code, errorBody(e))
	}
}
