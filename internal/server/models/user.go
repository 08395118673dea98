// Package models defines server-side data models persisted in the database.
package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
)

// Role is the account kind chosen at registration. It never changes afterwards.
type Role string

const (
	RolePatient  Role = common.RolePatient
	RoleProvider Role = common.RoleProvider
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleProvider
}

// User is a stored account. Email is always kept normalized.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name"`
	Role         Role      `db:"role"`
	ConsentGiven bool      `db:"consent_given"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// NormalizeEmail lower-cases and trims an email address. Every read and write
// of User.Email goes through it, otherwise lookups and the unique index
// disagree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
