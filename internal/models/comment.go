// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// Comment is a reader comment attached to an article. Any authenticated
// user may create one; only its author or an admin may modify it.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	ArticleID uuid.UUID `json:"article_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Audit
}
