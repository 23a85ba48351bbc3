// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, name, email, password_hash, role, is_active, totp_secret, totp_enabled,
       created_on, created_by, updated_on, updated_by, is_deleted, deleted_on, deleted_by`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.TOTPSecret, &u.TOTPEnabled,
		&u.CreatedOn, &u.CreatedBy, &u.UpdatedOn, &u.UpdatedBy,
		&u.IsDeleted, &u.DeletedOn, &u.DeletedBy,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail retrieves a user by email regardless of active state; the
// caller decides whether an inactive account may authenticate. Returns nil
// if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByEmailOrName looks for any row claiming the email or name, used for
// duplicate checks at registration and profile update. excludeID skips the
// user's own row on updates (pass uuid.Nil to check all rows).
func (s *UserStore) FindByEmailOrName(email, name string, excludeID uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE (email = $1 OR name = $2) AND id <> $3 LIMIT 1`,
		email, name, excludeID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email or name: %w", err)
	}
	return u, nil
}

// FindByID retrieves an active, non-deleted user with article and comment
// counts. Returns nil if absent, inactive, or soft-deleted.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(`
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.is_active,
		       u.totp_secret, u.totp_enabled,
		       u.created_on, u.created_by, u.updated_on, u.updated_by,
		       u.is_deleted, u.deleted_on, u.deleted_by,
		       (SELECT COUNT(*) FROM articles a WHERE a.author_id = u.id AND a.is_deleted = FALSE),
		       (SELECT COUNT(*) FROM comments c WHERE c.author_id = u.id AND c.is_deleted = FALSE)
		FROM users u
		WHERE u.id = $1 AND u.is_active = TRUE AND u.is_deleted = FALSE
	`, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.TOTPSecret, &u.TOTPEnabled,
		&u.CreatedOn, &u.CreatedBy, &u.UpdatedOn, &u.UpdatedBy,
		&u.IsDeleted, &u.DeletedOn, &u.DeletedBy,
		&u.ArticleCount, &u.CommentCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// List returns active users ordered by creation date descending, with an
// optional role filter, plus the total for pagination meta.
func (s *UserStore) List(page, limit int, role models.Role) ([]models.User, int, error) {
	where := `is_active = TRUE AND is_deleted = FALSE`
	args := []any{}
	if role != "" {
		args = append(args, role)
		where += fmt.Sprintf(" AND role = $%d", len(args))
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s FROM users
		WHERE %s
		ORDER BY created_on DESC
		LIMIT $%d OFFSET $%d
	`, userColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

// Create inserts a new user with a bcrypt-hashed password.
func (s *UserStore) Create(name, email, password string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := scanUser(s.db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		name, email, string(hash), role))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UpdateProfile changes a user's name and/or email. Empty values keep the
// current column value.
func (s *UserStore) UpdateProfile(id uuid.UUID, name, email string, actor uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`
		UPDATE users SET
			name = COALESCE(NULLIF($1, ''), name),
			email = COALESCE(NULLIF($2, ''), email),
			updated_by = $3, updated_on = NOW()
		WHERE id = $4 AND is_active = TRUE AND is_deleted = FALSE
		RETURNING `+userColumns,
		name, email, actor, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// UpdateRole sets a user's role. Admin-only at the API layer.
func (s *UserStore) UpdateRole(id uuid.UUID, role models.Role, actor uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`
		UPDATE users SET role = $1, updated_by = $2, updated_on = NOW()
		WHERE id = $3 AND is_active = TRUE AND is_deleted = FALSE
		RETURNING `+userColumns,
		role, actor, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}
	return u, nil
}

// ChangePassword stores a new bcrypt hash for the user.
func (s *UserStore) ChangePassword(id uuid.UUID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE users SET password_hash = $1, updated_by = $2, updated_on = NOW()
		WHERE id = $3
	`, string(hash), id, id)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// SoftDelete deactivates a user and records the deletion metadata.
// The row remains so authored articles and comments keep a valid reference.
func (s *UserStore) SoftDelete(id uuid.UUID, actor uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET is_active = FALSE, is_deleted = TRUE,
			deleted_on = NOW(), deleted_by = $1
		WHERE id = $2
	`, actor, id)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	return nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(id uuid.UUID, secret string) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_secret = $1, updated_on = NOW() WHERE id = $2
	`, secret, id)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_enabled = TRUE, updated_on = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// CountActive returns the number of active, non-deleted users.
func (s *UserStore) CountActive() (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM users WHERE is_active = TRUE AND is_deleted = FALSE
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
