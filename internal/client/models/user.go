// Package models holds the client-side view of server resources.
package models

import "time"

// User is the account as returned by the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ConsentGiven bool      `json:"consentGiven"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	ConsentGiven bool   `json:"consentGiven"`
}

// Session is a signed-in user and the token that proves it.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
