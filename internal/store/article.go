// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// ArticleFilter captures the optional query parameters of the public
// article listing. Zero values mean "no filter".
type ArticleFilter struct {
	Search        string // matches title or content, case-insensitive
	Status        models.ArticleStatus
	AuthorID      uuid.UUID
	Category      []string // category ids; any match
	Tags          []string // tag overlap
	PublishedFrom *time.Time
	PublishedTo   *time.Time
	SortBy        string // whitelisted; falls back to created_on
	SortOrder     string // "asc" or anything else for desc
	Page          int
	Limit         int
}

// sortFields whitelists sortable columns; unknown fields fall back to
// created_on so client input never reaches the ORDER BY clause directly.
var sortFields = map[string]string{
	"created_on":   "a.created_on",
	"updated_on":   "a.updated_on",
	"title":        "a.title",
	"published_at": "a.published_at",
	"views_count":  "a.views_count",
}

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// articleSelect joins the author and category references included in every
// article response. Tags are flattened to a comma-joined string so the row
// scans with database/sql alone.
const articleSelect = `
	SELECT a.id, a.title, a.slug, a.content, a.excerpt,
	       array_to_string(a.tags, ','), a.featured_image, a.status,
	       a.published_at, a.views_count, a.is_active, a.author_id, a.category_id,
	       a.created_on, a.created_by, a.updated_on, a.updated_by,
	       a.is_deleted, a.deleted_on, a.deleted_by,
	       u.name, u.email, c.name
	FROM articles a
	JOIN users u ON u.id = a.author_id
	LEFT JOIN categories c ON c.id = a.category_id
`

func scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	a := &models.Article{}
	var tags string
	var authorName, authorEmail string
	var categoryName *string

	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt,
		&tags, &a.FeaturedImage, &a.Status,
		&a.PublishedAt, &a.ViewsCount, &a.IsActive, &a.AuthorID, &a.CategoryID,
		&a.CreatedOn, &a.CreatedBy, &a.UpdatedOn, &a.UpdatedBy,
		&a.IsDeleted, &a.DeletedOn, &a.DeletedBy,
		&authorName, &authorEmail, &categoryName,
	)
	if err != nil {
		return nil, err
	}

	if tags != "" {
		a.Tags = strings.Split(tags, ",")
	} else {
		a.Tags = []string{}
	}
	a.Author = &models.AuthorRef{ID: a.AuthorID, Name: authorName, Email: authorEmail}
	if a.CategoryID != nil && categoryName != nil {
		a.Category = &models.CategoryRef{ID: *a.CategoryID, Name: *categoryName}
	}
	return a, nil
}

// List returns the filtered, sorted page of active articles plus the total
// count matching the filter.
func (s *ArticleStore) List(f ArticleFilter) ([]models.Article, int, error) {
	conditions := []string{"a.is_active = TRUE", "a.is_deleted = FALSE"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conditions = append(conditions, fmt.Sprintf("(a.title ILIKE %s OR a.content ILIKE %s)", p, p))
	}
	if f.Status != "" {
		conditions = append(conditions, "a.status = "+arg(f.Status))
	}
	if f.AuthorID != uuid.Nil {
		conditions = append(conditions, "a.author_id = "+arg(f.AuthorID))
	}
	if len(f.Category) > 0 {
		p := arg(strings.Join(f.Category, ","))
		conditions = append(conditions, fmt.Sprintf("a.category_id = ANY(string_to_array(%s, ',')::uuid[])", p))
	}
	if len(f.Tags) > 0 {
		p := arg(strings.Join(f.Tags, ","))
		conditions = append(conditions, fmt.Sprintf("a.tags && string_to_array(%s, ',')", p))
	}
	if f.PublishedFrom != nil {
		conditions = append(conditions, "a.published_at >= "+arg(*f.PublishedFrom))
	}
	if f.PublishedTo != nil {
		conditions = append(conditions, "a.published_at <= "+arg(*f.PublishedTo))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM articles a WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	orderBy, ok := sortFields[f.SortBy]
	if !ok {
		orderBy = sortFields["created_on"]
	}
	direction := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		direction = "ASC"
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY %s %s NULLS LAST LIMIT %s OFFSET %s",
		articleSelect, where, orderBy, direction,
		arg(f.Limit), arg((f.Page-1)*f.Limit))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, total, rows.Err()
}

// FindByID retrieves an active article by id. Returns nil if absent or
// soft-deleted.
func (s *ArticleStore) FindByID(id uuid.UUID) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRow(
		articleSelect+`WHERE a.id = $1 AND a.is_active = TRUE AND a.is_deleted = FALSE`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// FindBySlug retrieves an active article by slug. Returns nil if absent or
// soft-deleted.
func (s *ArticleStore) FindBySlug(slug string) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRow(
		articleSelect+`WHERE a.slug = $1 AND a.is_active = TRUE AND a.is_deleted = FALSE`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return a, nil
}

// IncrementViews adds exactly one to the article's view counter and returns
// the new value. The increment is a single statement, so concurrent detail
// reads never lose an update.
func (s *ArticleStore) IncrementViews(id uuid.UUID) (int, error) {
	var views int
	err := s.db.QueryRow(`
		UPDATE articles SET views_count = views_count + 1
		WHERE id = $1
		RETURNING views_count
	`, id).Scan(&views)
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}

// Create inserts a new article and returns it with joined references.
// If created directly in published status without an explicit timestamp,
// published_at is set to now.
func (s *ArticleStore) Create(a *models.Article) (*models.Article, error) {
	if a.Status == models.ArticleStatusPublished && a.PublishedAt == nil {
		now := time.Now()
		a.PublishedAt = &now
	}

	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO articles (title, slug, content, excerpt, tags, featured_image,
		                      status, published_at, author_id, category_id, created_by, updated_by)
		VALUES ($1, $2, $3, $4, string_to_array($5, ','), $6, $7, $8, $9, $10, $11, $11)
		RETURNING id
	`, a.Title, a.Slug, a.Content, a.Excerpt, strings.Join(a.Tags, ","), a.FeaturedImage,
		a.Status, a.PublishedAt, a.AuthorID, a.CategoryID, a.AuthorID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return s.FindByID(id)
}

// Update persists the article's mutable fields. The caller merges partial
// input and handles the draft→published transition before calling.
func (s *ArticleStore) Update(a *models.Article, actor uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE articles SET
			title = $1, slug = $2, content = $3, excerpt = $4,
			tags = string_to_array($5, ','), featured_image = $6, status = $7,
			published_at = $8, category_id = $9,
			updated_by = $10, updated_on = NOW()
		WHERE id = $11
	`, a.Title, a.Slug, a.Content, a.Excerpt, strings.Join(a.Tags, ","),
		a.FeaturedImage, a.Status, a.PublishedAt, a.CategoryID, actor, a.ID)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// SoftDelete hides the article from all default reads and records the
// deletion metadata. The row and its foreign keys remain intact.
func (s *ArticleStore) SoftDelete(id uuid.UUID, actor uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE articles SET is_active = FALSE, is_deleted = TRUE,
			deleted_on = NOW(), deleted_by = $1
		WHERE id = $2
	`, actor, id)
	if err != nil {
		return fmt.Errorf("soft delete article: %w", err)
	}
	return nil
}

// CountActive returns the number of active, non-deleted articles.
func (s *ArticleStore) CountActive() (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM articles WHERE is_active = TRUE AND is_deleted = FALSE
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// SumViews returns the total view count across active articles.
func (s *ArticleStore) SumViews() (int, error) {
	var sum int
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(views_count), 0) FROM articles
		WHERE is_active = TRUE AND is_deleted = FALSE
	`).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum views: %w", err)
	}
	return sum, nil
}
