package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/api/internal/middleware"
	"jobboard/api/internal/service"
)

// writeError maps service errors to a status and a fixed message. Anything
// unrecognised is logged and reported as internal_error along with the
// request id.
func (h HandlerSet) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "already exists"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrProtected):
		// these messages are built from request data only
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		requestID := middleware.RequestIDFrom(c)
		h.log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Str("request_id", requestID).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "requestId": requestID})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "details": err.Error()})
}
