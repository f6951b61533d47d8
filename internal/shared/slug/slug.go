package slug

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmptySlug = errors.New("slug cannot be empty")
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Make normalizes input into a URL slug, falling back to fallback when input
// has no usable characters.
func Make(input, fallback string) (string, error) {
	s := slugify(input)
	if s == "" {
		s = slugify(fallback)
	}
	if s == "" {
		return "", ErrEmptySlug
	}
	return s, nil
}

func slugify(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	out := nonSlugChars.ReplaceAllString(lower, "-")
	return strings.Trim(out, "-")
}
