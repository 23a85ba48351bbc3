// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"net/http"

	"inkwell/internal/cache"
)

// dashboardStats holds the admin landing-page totals.
type dashboardStats struct {
	Users      int `json:"users"`
	Articles   int `json:"articles"`
	Categories int `json:"categories"`
	Comments   int `json:"comments"`
	TotalViews int `json:"total_views"`
}

// dashboard serves the admin totals, cached alongside the article listings
// and invalidated with them on any article mutation.
func (a *API) dashboard(w http.ResponseWriter, r *http.Request) {
	key := cache.StatsKey()
	if a.cache != nil {
		if body, ok := a.cache.Get(r.Context(), key); ok {
			writeRaw(w, http.StatusOK, body)
			return
		}
	}

	var stats dashboardStats
	var err error

	if stats.Users, err = a.users.CountActive(); err != nil {
		writeErr(w, r, err)
		return
	}
	if stats.Articles, err = a.articles.CountActive(); err != nil {
		writeErr(w, r, err)
		return
	}
	if stats.Categories, err = a.categories.CountActive(); err != nil {
		writeErr(w, r, err)
		return
	}
	if stats.Comments, err = a.comments.CountActive(); err != nil {
		writeErr(w, r, err)
		return
	}
	if stats.TotalViews, err = a.articles.SumViews(); err != nil {
		writeErr(w, r, err)
		return
	}

	body, err := marshalEnvelope(http.StatusOK, "", stats, nil)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if a.cache != nil {
		a.cache.Set(r.Context(), key, body)
	}
	writeRaw(w, http.StatusOK, body)
}
