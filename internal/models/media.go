// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// MediaType classifies an uploaded file.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// MediaTypeFromContentType maps a sniffed MIME type to a media type.
// Returns ("", false) for types outside the allow-list.
func MediaTypeFromContentType(contentType string) (MediaType, bool) {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return MediaTypeImage, true
	case "video/mp4", "video/webm":
		return MediaTypeVideo, true
	}
	return "", false
}

// Media records a file stored in the object-storage bucket. The row holds
// metadata and the public URL; the bytes live in the bucket.
type Media struct {
	ID           uuid.UUID  `json:"id"`
	URL          string     `json:"url"`
	Filename     string     `json:"filename"`
	OriginalName string     `json:"original_name"`
	Type         MediaType  `json:"type"`
	ArticleID    *uuid.UUID `json:"article_id,omitempty"`
	Audit
}
