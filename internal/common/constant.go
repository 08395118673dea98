// Package common contains shared constants and sentinel errors used across
// healthkeeper components.
package common

// AuthorizationHeaderName is the HTTP header carrying the session token,
// either as "Bearer <token>" or as a bare token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the scheme prefix written by clients in front of the token.
const BearerScheme = "Bearer"

// Role values accepted at registration.
const (
	RolePatient  = "patient"
	RoleProvider = "provider"
)
