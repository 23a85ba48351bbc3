// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// parsePagination reads page and limit query parameters, clamping both to
// sane bounds. Unparseable values fall back to the defaults.
func parsePagination(q url.Values) (page, limit int) {
	page = defaultPage
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		page = v
	}

	limit = defaultLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// parseArticleFilter builds the store filter from listing query parameters.
// Invalid values are silently ignored so a bad filter narrows nothing
// instead of failing the request.
func parseArticleFilter(q url.Values) store.ArticleFilter {
	f := store.ArticleFilter{
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	f.Page, f.Limit = parsePagination(q)

	if s := models.ArticleStatus(q.Get("status")); s.Valid() {
		f.Status = s
	}
	if id, err := uuid.Parse(q.Get("author_id")); err == nil {
		f.AuthorID = id
	}
	if v := q.Get("category"); v != "" {
		f.Category = splitValid(v, func(s string) bool {
			_, err := uuid.Parse(s)
			return err == nil
		})
	}
	if v := q.Get("tags"); v != "" {
		f.Tags = splitValid(v, func(s string) bool { return s != "" })
	}

	// published_at takes a "start,end" date pair; either side may be empty.
	// The end date is pushed to the last second of the day so a same-day
	// range still matches articles published during that day.
	if v := q.Get("published_at"); v != "" {
		from, to, _ := strings.Cut(v, ",")
		if t, err := time.Parse("2006-01-02", strings.TrimSpace(from)); err == nil {
			f.PublishedFrom = &t
		}
		if t, err := time.Parse("2006-01-02", strings.TrimSpace(to)); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			f.PublishedTo = &end
		}
	}

	return f
}

// splitValid splits a comma-separated value, trims entries, and keeps those
// passing the predicate.
func splitValid(v string, keep func(string) bool) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); keep(p) {
			out = append(out, p)
		}
	}
	return out
}
