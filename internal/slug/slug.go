// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly identifier generation from titles
// and object-storage-safe file name sanitization.
package slug

import (
	"regexp"
	"strings"
)

var (
	// whitespace matches runs of whitespace characters.
	whitespace = regexp.MustCompile(`\s+`)
	// unsafeChars matches anything that isn't a lowercase letter, digit, dot, or hyphen.
	unsafeChars = regexp.MustCompile(`[^a-z0-9.-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// FromTitle derives an article or category slug from its title. Whitespace
// runs become a single hyphen; case and punctuation are kept so the title
// can be recovered by replacing hyphens with spaces.
// Example: "Hello World" → "Hello-World"
func FromTitle(title string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(title), "-")
}

// ToTitle reverses FromTitle by turning hyphens back into spaces.
func ToTitle(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

// SanitizeFilename makes a file name safe for use in an object-storage key:
// lowercase, whitespace → hyphen, anything outside [a-z0-9.-] stripped,
// hyphen runs collapsed.
func SanitizeFilename(name string) string {
	result := strings.ToLower(strings.TrimSpace(name))
	result = whitespace.ReplaceAllString(result, "-")
	result = unsafeChars.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
