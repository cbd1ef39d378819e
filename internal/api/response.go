package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-dashboard/internal/storage"
)

func errorBody(msg string) gin.H {
	return gin.H{"success": false, "error": msg}
}

// statusFor maps storage errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrInvalidInput), errors.Is(err, storage.ErrMalformedJSON):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error response.
// Server-side failures are logged and their detail is not echoed to the client.
func (s *Server) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", zap.Error(err))
		switch {
		case errors.Is(err, storage.ErrDataAccess):
			msg = "database error"
		case errors.Is(err, storage.ErrIO):
			msg = "file system error"
		default:
			msg = "internal server error"
		}
	}
	c.JSON(status, errorBody(msg))
}
