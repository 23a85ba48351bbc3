package api

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "page=2&limit=5", 2, 5},
		{"zero page falls back", "page=0", 1, 10},
		{"negative limit falls back", "limit=-3", 1, 10},
		{"garbage falls back", "page=abc&limit=xyz", 1, 10},
		{"limit clamped", "limit=5000", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			page, limit := parsePagination(q)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("got (%d, %d), want (%d, %d)", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestParseArticleFilter(t *testing.T) {
	authorID := uuid.New()
	catID := uuid.New()

	q, _ := url.ParseQuery("search=go&status=published&author_id=" + authorID.String() +
		"&category=" + catID.String() + "&tags=go,web&sort_by=views_count&sort_order=asc&page=3&limit=20")

	f := parseArticleFilter(q)

	if f.Search != "go" {
		t.Errorf("search: got %q", f.Search)
	}
	if f.Status != models.ArticleStatusPublished {
		t.Errorf("status: got %q", f.Status)
	}
	if f.AuthorID != authorID {
		t.Errorf("author: got %v", f.AuthorID)
	}
	if len(f.Category) != 1 || f.Category[0] != catID.String() {
		t.Errorf("category: got %v", f.Category)
	}
	if len(f.Tags) != 2 || f.Tags[0] != "go" || f.Tags[1] != "web" {
		t.Errorf("tags: got %v", f.Tags)
	}
	if f.SortBy != "views_count" || f.SortOrder != "asc" {
		t.Errorf("sort: got %q %q", f.SortBy, f.SortOrder)
	}
	if f.Page != 3 || f.Limit != 20 {
		t.Errorf("pagination: got (%d, %d)", f.Page, f.Limit)
	}
}

func TestParseArticleFilterIgnoresInvalidValues(t *testing.T) {
	q, _ := url.ParseQuery("status=bogus&author_id=not-a-uuid&category=also-not-a-uuid")

	f := parseArticleFilter(q)

	if f.Status != "" {
		t.Errorf("invalid status should be dropped, got %q", f.Status)
	}
	if f.AuthorID != uuid.Nil {
		t.Errorf("invalid author should be dropped, got %v", f.AuthorID)
	}
	if len(f.Category) != 0 {
		t.Errorf("invalid category ids should be dropped, got %v", f.Category)
	}
}

func TestParseArticleFilterPublishedRange(t *testing.T) {
	q, _ := url.ParseQuery("published_at=2026-01-01,2026-01-31")

	f := parseArticleFilter(q)

	if f.PublishedFrom == nil || !f.PublishedFrom.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from: got %v", f.PublishedFrom)
	}
	// The end bound covers the whole final day.
	if f.PublishedTo == nil || !f.PublishedTo.Equal(time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("to: got %v", f.PublishedTo)
	}
}

func TestParseArticleFilterOpenEndedRange(t *testing.T) {
	q, _ := url.ParseQuery("published_at=2026-01-01,")
	f := parseArticleFilter(q)
	if f.PublishedFrom == nil {
		t.Error("from should be set")
	}
	if f.PublishedTo != nil {
		t.Errorf("to should be nil, got %v", f.PublishedTo)
	}
}
