// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func testUser(role models.Role) *models.User {
	return &models.User{
		ID:    uuid.New(),
		Email: "writer@example.com",
		Role:  role,
	}
}

func TestIssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	user := testUser(models.RoleAdmin)

	token, err := m.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if claims.Username != user.Email {
		t.Errorf("username: got %q, want %q", claims.Username, user.Email)
	}
	if !claims.IsAdmin() {
		t.Error("expected admin claims")
	}
	if claims.Scope != "" {
		t.Errorf("scope: got %q, want empty", claims.Scope)
	}

	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID: %v", err)
	}
	if id != user.ID {
		t.Errorf("user id: got %s, want %s", id, user.ID)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(testUser(models.RoleViewer))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewManager("secret-b", time.Hour).Parse(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Issue(testUser(models.RoleViewer))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m.Parse(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Parse(tok); err == nil {
			t.Errorf("expected error for %q", tok)
		}
	}
}

func TestIssueTwoFAScope(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.IssueTwoFA(testUser(models.RoleViewer))
	if err != nil {
		t.Fatalf("IssueTwoFA: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Scope != ScopeTwoFA {
		t.Errorf("scope: got %q, want %q", claims.Scope, ScopeTwoFA)
	}

	// Pending-2FA tokens are short-lived.
	if claims.ExpiresAt.Sub(claims.IssuedAt.Time) > 10*time.Minute {
		t.Error("2fa token TTL too long")
	}
}

func TestTokenShape(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	token, err := m.Issue(testUser(models.RoleViewer))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("expected three-segment JWT, got %q", token)
	}
}
