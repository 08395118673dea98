package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
)

// Caller-facing messages. Details stay in the server log.
const (
	msgBadBody            = "invalid request body"
	msgInvalidRequest     = "invalid request"
	msgEmailTaken         = "Email already registered"
	msgInvalidCredentials = "Invalid credentials"
	msgUserNotFound       = "User not found"
	msgServerError        = "Server error"
	msgNoToken            = "No token provided"
	msgInvalidToken       = "Invalid token"
)

// Outcome labels for metrics.
const (
	outcomeSuccess      = "success"
	outcomeValidation   = "validation"
	outcomeConflict     = "conflict"
	outcomeUnauthorized = "unauthorized"
	outcomeNotFound     = "not_found"
	outcomeError        = "error"
)

// writeError maps a service error to a status code and a generic message.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	var (
		status  int
		msg     string
		outcome string
		ve      *common.ValidationError
	)

	switch {
	case errors.As(err, &ve):
		status, msg, outcome = http.StatusBadRequest, ve.Message, outcomeValidation
	case errors.Is(err, common.ErrorValidation):
		status, msg, outcome = http.StatusBadRequest, msgInvalidRequest, outcomeValidation
	case errors.Is(err, common.ErrorAlreadyExists):
		status, msg, outcome = http.StatusConflict, msgEmailTaken, outcomeConflict
	case errors.Is(err, common.ErrorUnauthorized):
		status, msg, outcome = http.StatusUnauthorized, msgInvalidCredentials, outcomeUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		status, msg, outcome = http.StatusNotFound, msgUserNotFound, outcomeNotFound
	default:
		status, msg, outcome = http.StatusInternalServerError, msgServerError, outcomeError
		h.logger.Error(c.Request.Context(), "request failed", "op", op, "error", err.Error())
	}

	h.metrics.RecordOutcome(op, outcome)
	c.JSON(status, errorResponse{Error: msg})
}
