// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "github.com/google/uuid"

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleViewer
}

// User represents an account in the CMS. Content mutation is restricted
// to admins; viewers can authenticate, read, and comment.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	Audit

	// Virtual counts populated by store methods on detail/list reads.
	ArticleCount int `json:"article_count"`
	CommentCount int `json:"comment_count"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
