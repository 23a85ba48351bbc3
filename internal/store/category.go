// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// CategoryStore handles all category-related database operations.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore creates a new CategoryStore with the given database connection.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, color, is_active,
       created_on, created_by, updated_on, updated_by, is_deleted, deleted_on, deleted_by`

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	c := &models.Category{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.IsActive,
		&c.CreatedOn, &c.CreatedBy, &c.UpdatedOn, &c.UpdatedBy,
		&c.IsDeleted, &c.DeletedOn, &c.DeletedBy,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListActive returns all active categories with their article counts.
func (s *CategoryStore) ListActive() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.color, c.is_active,
		       c.created_on, c.created_by, c.updated_on, c.updated_by,
		       c.is_deleted, c.deleted_on, c.deleted_by,
		       (SELECT COUNT(*) FROM articles a
		        WHERE a.category_id = c.id AND a.is_active = TRUE AND a.is_deleted = FALSE)
		FROM categories c
		WHERE c.is_active = TRUE AND c.is_deleted = FALSE
		ORDER BY c.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.IsActive,
			&c.CreatedOn, &c.CreatedBy, &c.UpdatedOn, &c.UpdatedBy,
			&c.IsDeleted, &c.DeletedOn, &c.DeletedBy,
			&c.ArticleCount,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves an active category. Returns nil if absent or soft-deleted.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRow(
		`SELECT `+categoryColumns+` FROM categories
		 WHERE id = $1 AND is_active = TRUE AND is_deleted = FALSE`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByName looks for any non-deleted row with the name, for duplicate checks.
func (s *CategoryStore) FindByName(name string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRow(
		`SELECT `+categoryColumns+` FROM categories
		 WHERE name = $1 AND is_deleted = FALSE`, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// Create inserts a new category.
func (s *CategoryStore) Create(c *models.Category, actor uuid.UUID) (*models.Category, error) {
	created, err := scanCategory(s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, color, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Color, actor))
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

// Update persists the category's mutable fields.
func (s *CategoryStore) Update(c *models.Category, actor uuid.UUID) (*models.Category, error) {
	updated, err := scanCategory(s.db.QueryRow(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, color = $4,
			updated_by = $5, updated_on = NOW()
		WHERE id = $6 AND is_active = TRUE AND is_deleted = FALSE
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Color, actor, c.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return updated, nil
}

// CountActive returns the number of active, non-deleted categories.
func (s *CategoryStore) CountActive() (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM categories WHERE is_active = TRUE AND is_deleted = FALSE
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}

// SoftDelete hides the category from default reads. Articles keep their
// category_id reference.
func (s *CategoryStore) SoftDelete(id uuid.UUID, actor uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE categories SET is_active = FALSE, is_deleted = TRUE,
			deleted_on = NOW(), deleted_by = $1
		WHERE id = $2
	`, actor, id)
	if err != nil {
		return fmt.Errorf("soft delete category: %w", err)
	}
	return nil
}
