package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contact-tracer/backend/internal/graph"
	apperrors "contact-tracer/backend/pkg/errors"
)

// statusFor maps repository errors onto HTTP status codes
func statusFor(err error) int {
	var dup graph.ErrDuplicatePhone
	switch {
	case graph.IsNotFound(err):
		return http.StatusNotFound
	case errors.As(err, &dup):
		return http.StatusConflict
	case apperrors.IsErrorType(err, apperrors.ErrorTypeContext):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides infrastructure details behind a generic message
func publicMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return "The contact database is unavailable, please try again later."
	}
	return err.Error()
}

func (h *Handler) logFailure(c *gin.Context, msg string, err error, status int) {
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("request_id", c.GetString(requestIDKey)),
	}
	if op, ok := apperrors.OperationOf(err); ok {
		fields = append(fields, zap.String("operation", op))
	}
	if status >= http.StatusInternalServerError {
		h.log.Error(msg, fields...)
		return
	}
	h.log.Warn(msg, fields...)
}

// renderError renders the HTML error page for err
func (h *Handler) renderError(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	h.logFailure(c, msg, err, status)
	c.HTML(status, "error.html", gin.H{
		"status":  status,
		"message": publicMessage(err, status),
	})
}

// renderBadRequest renders the HTML error page for an invalid form
func (h *Handler) renderBadRequest(c *gin.Context, err error) {
	h.log.Debug("Invalid form submission", zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.HTML(http.StatusBadRequest, "error.html", gin.H{
		"status":  http.StatusBadRequest,
		"message": err.Error(),
	})
}

// jsonError writes a JSON error body for err
func (h *Handler) jsonError(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	h.logFailure(c, msg, err, status)
	c.JSON(status, gin.H{"error": publicMessage(err, status)})
}
