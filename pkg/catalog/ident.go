package catalog

import (
	"regexp"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// idLength is the length of generated document identifiers.
const idLength = 8

// NewID returns a fresh document identifier: 8 random characters drawn
// from the URL-safe alphabet A-Za-z0-9_-. Identifiers are not sequential
// and are never reused; at this length collisions are statistically
// negligible and are not checked against existing documents.
func NewID() (string, error) {
	return gonanoid.New(idLength)
}

var (
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9_-]`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slugify derives a URL slug from a display name: lower-cased and trimmed,
// internal whitespace runs become single hyphens, characters outside
// [a-z0-9_-] are dropped, and hyphen runs collapse to one.
//
//	Slugify("  Ethiopia   Yirgacheffe!!") == "ethiopia-yirgacheffe"
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugHyphens.ReplaceAllString(s, "-")
	return s
}
