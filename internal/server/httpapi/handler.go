// Package httpapi is the JSON-over-HTTP transport for the account operations.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/auth"
	"github.com/dmitrijs2005/healthkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/dmitrijs2005/healthkeeper/internal/server/services"
)

type userService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	ChangeName(ctx context.Context, userID, name string) (*models.User, error)
	ChangeEmail(ctx context.Context, userID, newEmail, password string) (*models.User, error)
}

// Handler serves /api/auth.
type Handler struct {
	users   userService
	metrics *metrics.Metrics
	logger  logging.Logger
}

func NewHandler(us userService, m *metrics.Metrics, l logging.Logger) *Handler {
	return &Handler{
		users:   us,
		metrics: m,
		logger:  l.With("module", "http_handler"),
	}
}

type registerRequest struct {
	Name         string `json:"name" form:"name"`
	Email        string `json:"email" form:"email"`
	Password     string `json:"password" form:"password"`
	Role         string `json:"role" form:"role"`
	ConsentGiven bool   `json:"consentGiven" form:"consentGiven"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type editNameRequest struct {
	Name string `json:"name" form:"name"`
}

type editEmailRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if !h.bind(c, "register", &req) {
		return
	}

	res, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		ConsentGiven: req.ConsentGiven,
	})
	if err != nil {
		h.writeError(c, "register", err)
		return
	}

	h.metrics.RecordOutcome("register", outcomeSuccess)
	h.logger.Info(c.Request.Context(), "Registered", "user_id", res.User.ID, "role", res.User.Role)

	c.JSON(http.StatusCreated, authResponse{User: newUserResponse(res.User), Token: res.Token})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, "login", &req) {
		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, "login", err)
		return
	}

	h.metrics.RecordOutcome("login", outcomeSuccess)
	h.logger.Info(c.Request.Context(), "Logged in", "user_id", res.User.ID)

	c.JSON(http.StatusOK, authResponse{User: newUserResponse(res.User), Token: res.Token})
}

func (h *Handler) me(c *gin.Context) {
	id, _ := auth.IdentityFromContext(c.Request.Context())

	user, err := h.users.Profile(c.Request.Context(), id.UserID)
	if err != nil {
		h.writeError(c, "me", err)
		return
	}

	h.metrics.RecordOutcome("me", outcomeSuccess)
	c.JSON(http.StatusOK, userEnvelope{User: newUserResponse(user)})
}

func (h *Handler) editName(c *gin.Context) {
	var req editNameRequest
	if !h.bind(c, "editname", &req) {
		return
	}

	id, _ := auth.IdentityFromContext(c.Request.Context())

	user, err := h.users.ChangeName(c.Request.Context(), id.UserID, req.Name)
	if err != nil {
		h.writeError(c, "editname", err)
		return
	}

	h.metrics.RecordOutcome("editname", outcomeSuccess)
	c.JSON(http.StatusOK, userEnvelope{User: newUserResponse(user)})
}

func (h *Handler) editEmail(c *gin.Context) {
	var req editEmailRequest
	if !h.bind(c, "editemail", &req) {
		return
	}

	id, _ := auth.IdentityFromContext(c.Request.Context())

	user, err := h.users.ChangeEmail(c.Request.Context(), id.UserID, req.Email, req.Password)
	if err != nil {
		h.writeError(c, "editemail", err)
		return
	}

	h.metrics.RecordOutcome("editemail", outcomeSuccess)
	h.logger.Info(c.Request.Context(), "Email changed", "user_id", user.ID)

	c.JSON(http.StatusOK, userEnvelope{User: newUserResponse(user)})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bind decodes a JSON or form body. An empty body decodes to the zero
// request so that the operation reports its own missing-field error.
func (h *Handler) bind(c *gin.Context, op string, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBind(dst); err != nil && !errors.Is(err, io.EOF) {
		h.metrics.RecordOutcome(op, outcomeValidation)
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadBody})
		return false
	}
	return true
}
