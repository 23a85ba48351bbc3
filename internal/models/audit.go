// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit holds the bookkeeping columns shared by every persisted entity:
// creator/updater references and the soft-delete triple. Soft-deleted rows
// stay in the table so foreign keys from other entities remain valid;
// stores exclude them from every default read.
type Audit struct {
	CreatedOn time.Time  `json:"created_on"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	UpdatedOn time.Time  `json:"updated_on"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
	IsDeleted bool       `json:"-"`
	DeletedOn *time.Time `json:"-"`
	DeletedBy *uuid.UUID `json:"-"`
}
