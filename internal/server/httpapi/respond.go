package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/walletapi/internal/common"
	"github.com/dmitrijs2005/walletapi/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Envelope is the body shape of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Error   any    `json:"error,omitempty"`
}

// InternalError is the only detail a client sees about a server-side
// failure. Reference matches the id in the server log.
type InternalError struct {
	Code      string `json:"code"`
	Reference string `json:"reference"`
}

func writeSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Status: status, Data: data})
}

func writeFailure(c *gin.Context, status int, message string, detail any) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message, Status: status, Error: detail})
}

// writeError maps service errors to status codes. Anything unrecognised is
// logged under a fresh reference and reported as an opaque 500.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	var verr *services.ValidationError

	switch {
	case errors.As(err, &verr):
		writeFailure(c, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, common.ErrorValidation):
		writeFailure(c, http.StatusBadRequest, "validation failed", nil)
	case errors.Is(err, common.ErrorUnauthorized):
		writeFailure(c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenRevoked),
		errors.Is(err, common.ErrInvalidToken):
		writeFailure(c, http.StatusUnauthorized, "authentication required", nil)
	case errors.Is(err, common.ErrorNotFound):
		writeFailure(c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, common.ErrorAlreadyExists):
		writeFailure(c, http.StatusConflict, "email already registered", nil)
	default:
		ref := uuid.NewString()
		s.logger.Error(c.Request.Context(), "request failed",
			"reference", ref, "method", c.Request.Method, "path", c.FullPath(), "error", err)
		writeFailure(c, http.StatusInternalServerError, "internal server error",
			InternalError{Code: "internal_error", Reference: ref})
	}
}
