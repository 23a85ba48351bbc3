// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus represents the publishing state of an article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusArchived  ArticleStatus = "archived"
	ArticleStatusScheduled ArticleStatus = "scheduled"
)

// Valid reports whether the status is one of the known values.
func (s ArticleStatus) Valid() bool {
	switch s {
	case ArticleStatusDraft, ArticleStatusPublished, ArticleStatusArchived, ArticleStatusScheduled:
		return true
	}
	return false
}

// AuthorRef is the subset of user fields embedded in article responses.
type AuthorRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// CategoryRef is the subset of category fields embedded in article responses.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Article represents a blog post. The slug is derived from the title at
// create/update time; published_at is set exactly once, on the first
// transition into published status.
type Article struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Content       string        `json:"content"`
	Excerpt       *string       `json:"excerpt,omitempty"`
	Tags          []string      `json:"tags"`
	FeaturedImage *string       `json:"featured_image,omitempty"`
	Status        ArticleStatus `json:"status"`
	PublishedAt   *time.Time    `json:"published_at,omitempty"`
	ViewsCount    int           `json:"views_count"`
	IsActive      bool          `json:"is_active"`
	AuthorID      uuid.UUID     `json:"author_id"`
	CategoryID    *uuid.UUID    `json:"category_id,omitempty"`
	Audit

	// Virtual fields populated by store joins.
	Author   *AuthorRef   `json:"author,omitempty"`
	Category *CategoryRef `json:"category,omitempty"`

	// Rendered markdown, populated only on slug-detail responses.
	ContentHTML string `json:"content_html,omitempty"`
}

// IsPublished returns true if the article is in published status.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}
