// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"fmt"
	"time"

	"inkwell/internal/slug"
)

const (
	// TempFolder is the prefix for editor uploads that have no owning
	// article yet. MoveTemp relocates them once the article is saved.
	TempFolder = "tmp"

	// UploadsFolder is the default prefix for standalone uploads.
	UploadsFolder = "uploads"
)

// ObjectName builds a collision-resistant object key under the folder:
// a yymmddhhmmss timestamp followed by the sanitized original file name.
func ObjectName(folder, originalName string, now time.Time) string {
	return fmt.Sprintf("%s/%s-%s", folder, now.Format("060102150405"), slug.SanitizeFilename(originalName))
}

// ArticleFolder returns the permanent prefix for objects owned by an article.
func ArticleFolder(articleID string) string {
	return "articles/" + articleID
}
