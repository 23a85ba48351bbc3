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

// CommentStore handles all comment-related database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, content, article_id, author_id,
       created_on, created_by, updated_on, updated_by, is_deleted, deleted_on, deleted_by`

func scanComment(row interface{ Scan(...any) error }) (*models.Comment, error) {
	c := &models.Comment{}
	err := row.Scan(
		&c.ID, &c.Content, &c.ArticleID, &c.AuthorID,
		&c.CreatedOn, &c.CreatedBy, &c.UpdatedOn, &c.UpdatedBy,
		&c.IsDeleted, &c.DeletedOn, &c.DeletedBy,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all non-deleted comments, newest first. An optional article
// id narrows the listing to one article's thread.
func (s *CommentStore) List(articleID uuid.UUID) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE is_deleted = FALSE`
	var args []any
	if articleID != uuid.Nil {
		query += ` AND article_id = $1`
		args = append(args, articleID)
	}
	query += ` ORDER BY created_on DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a non-deleted comment. Returns nil if absent or deleted.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	c, err := scanComment(s.db.QueryRow(
		`SELECT `+commentColumns+` FROM comments WHERE id = $1 AND is_deleted = FALSE`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a new comment authored by the given user.
func (s *CommentStore) Create(content string, articleID, authorID uuid.UUID) (*models.Comment, error) {
	c, err := scanComment(s.db.QueryRow(`
		INSERT INTO comments (content, article_id, author_id, created_by, updated_by)
		VALUES ($1, $2, $3, $3, $3)
		RETURNING `+commentColumns,
		content, articleID, authorID))
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// Update changes a comment's content.
func (s *CommentStore) Update(id uuid.UUID, content string, actor uuid.UUID) (*models.Comment, error) {
	c, err := scanComment(s.db.QueryRow(`
		UPDATE comments SET content = $1, updated_by = $2, updated_on = NOW()
		WHERE id = $3 AND is_deleted = FALSE
		RETURNING `+commentColumns,
		content, actor, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return c, nil
}

// CountActive returns the number of non-deleted comments.
func (s *CommentStore) CountActive() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM comments WHERE is_deleted = FALSE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}

// SoftDelete hides the comment from default reads and records who removed it.
func (s *CommentStore) SoftDelete(id uuid.UUID, actor uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE comments SET is_deleted = TRUE, deleted_on = NOW(), deleted_by = $1
		WHERE id = $2
	`, actor, id)
	if err != nil {
		return fmt.Errorf("soft delete comment: %w", err)
	}
	return nil
}
