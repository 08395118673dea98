package httpapi

import (
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

// userResponse is the public shape of a user. It has no password field.
type userResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ConsentGiven bool      `json:"consentGiven"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		ConsentGiven: u.ConsentGiven,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type userEnvelope struct {
	User userResponse `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}
