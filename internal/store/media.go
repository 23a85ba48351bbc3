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

// MediaStore handles media metadata persistence. The file bytes live in
// object storage; rows here record URL, names, and the owning article.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

const mediaColumns = `id, url, filename, original_name, type, article_id,
       created_on, created_by, updated_on, updated_by, is_deleted, deleted_on, deleted_by`

func scanMedia(row interface{ Scan(...any) error }) (*models.Media, error) {
	m := &models.Media{}
	err := row.Scan(
		&m.ID, &m.URL, &m.Filename, &m.OriginalName, &m.Type, &m.ArticleID,
		&m.CreatedOn, &m.CreatedBy, &m.UpdatedOn, &m.UpdatedBy,
		&m.IsDeleted, &m.DeletedOn, &m.DeletedBy,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create records an uploaded file's metadata.
func (s *MediaStore) Create(m *models.Media, actor uuid.UUID) (*models.Media, error) {
	created, err := scanMedia(s.db.QueryRow(`
		INSERT INTO media (url, filename, original_name, type, article_id, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+mediaColumns,
		m.URL, m.Filename, m.OriginalName, m.Type, m.ArticleID, actor))
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

// ListByArticle returns all non-deleted media owned by the article.
func (s *MediaStore) ListByArticle(articleID uuid.UUID) ([]models.Media, error) {
	rows, err := s.db.Query(
		`SELECT `+mediaColumns+` FROM media
		 WHERE article_id = $1 AND is_deleted = FALSE
		 ORDER BY created_on ASC`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}
