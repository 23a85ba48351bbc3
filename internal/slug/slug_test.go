// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import "testing"

func TestFromTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "Hello-World"},
		{"Hello   World", "Hello-World"},
		{"  Leading and trailing  ", "Leading-and-trailing"},
		{"Already-Hyphenated Title", "Already-Hyphenated-Title"},
		{"UPPER case Kept", "UPPER-case-Kept"},
		{"Tabs\tand\nnewlines", "Tabs-and-newlines"},
		{"single", "single"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FromTitle(tt.in); got != tt.want {
			t.Errorf("FromTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromTitleRoundTrip(t *testing.T) {
	title := "Hello World"
	if got := ToTitle(FromTitle(title)); got != title {
		t.Errorf("round trip: got %q, want %q", got, title)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Photo.JPG", "my-photo.jpg"},
		{"weird  name!!.png", "weird-name.png"},
		{"Ünicode café.webp", "nicode-caf.webp"},
		{"a---b.mp4", "a-b.mp4"},
		{"  spaces.gif ", "spaces.gif"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
