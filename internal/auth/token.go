// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth issues and verifies the signed bearer tokens used by the
// API. Tokens are HS256 JWTs carrying the subject id, username, and role.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"inkwell/internal/models"
)

// ScopeTwoFA marks a token issued after password verification but before
// the TOTP code has been checked. It is only accepted by the 2FA endpoints.
const ScopeTwoFA = "2fa"

// twoFATokenTTL bounds how long a pending-2FA token stays usable.
const twoFATokenTTL = 5 * time.Minute

// Claims is the JWT payload. Subject holds the user id.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Scope    string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the token subject into a UUID.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// IsAdmin returns true if the token carries the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == string(models.RoleAdmin)
}

// Manager signs and verifies tokens with a shared HMAC secret.
type Manager struct {
	secret []byte
	expiry time.Duration
}

// NewManager creates a token manager. expiry applies to full-scope tokens.
func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{secret: []byte(secret), expiry: expiry}
}

// Issue creates a full-scope access token for the user.
func (m *Manager) Issue(user *models.User) (string, error) {
	return m.sign(user, "", m.expiry)
}

// IssueTwoFA creates a short-lived token accepted only by the 2FA
// verification endpoint.
func (m *Manager) IssueTwoFA(user *models.User) (string, error) {
	return m.sign(user, ScopeTwoFA, twoFATokenTTL)
}

func (m *Manager) sign(user *models.User, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: user.Email,
		Role:     string(user.Role),
		Scope:    scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token signature and expiry and returns its claims.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
