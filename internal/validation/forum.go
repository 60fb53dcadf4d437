package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Forum content limits, in characters.
const (
	MaxTopicTitleLength   = 300
	MaxContentLength      = 50000
	MaxReplyLength        = 10000
	MaxPlaylistNameLength = 120
	MaxTagsPerTopic       = 5
)

var (
	slugRegex      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugStripRegex = regexp.MustCompile(`[^a-z0-9]+`)
	hexColorRegex  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

var reservedSlugs = map[string]struct{}{
	"admin":    {},
	"api":      {},
	"new":      {},
	"search":   {},
	"stats":    {},
	"tags":     {},
	"ws":       {},
	"swagger":  {},
	"metrics":  {},
	"login":    {},
	"signup":   {},
	"settings": {},
}

// ValidateSlug validates slug format and reserved names.
func ValidateSlug(slug string) error {
	if len(slug) < 2 || len(slug) > 100 {
		return fmt.Errorf("slug must be 2-100 characters")
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug must contain only lowercase letters, numbers, and single hyphens between them")
	}
	if _, exists := reservedSlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}
	return nil
}

// Slugify lowercases s and collapses everything that is not [a-z0-9] into
// single hyphens. Accents are dropped, not transliterated.
func Slugify(s string) string {
	slug := slugStripRegex.ReplaceAllString(strings.ToLower(s), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}
	return slug
}

// UniqueSlug derives a slug from title with a short random suffix, used after
// the plain slug collided. Titles with no usable characters get a suffix only.
func UniqueSlug(title string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	base := Slugify(title)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// ValidateTopic checks a topic title and body.
func ValidateTopic(title, content string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTopicTitleLength {
		return fmt.Errorf("title too long (max %d characters)", MaxTopicTitleLength)
	}
	return ValidateContent(content, MaxContentLength)
}

// ValidateContent checks that a body is non-blank and within max characters.
func ValidateContent(content string, max int) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	if utf8.RuneCountInString(content) > max {
		return fmt.Errorf("content too long (max %d characters)", max)
	}
	return nil
}

// ValidateHexColor accepts "" or a #rrggbb color.
func ValidateHexColor(color string) error {
	if color == "" || hexColorRegex.MatchString(color) {
		return nil
	}
	return fmt.Errorf("color must be a #rrggbb hex value")
}

// ValidatePlaylistName checks a playlist name.
func ValidatePlaylistName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(name) > MaxPlaylistNameLength {
		return fmt.Errorf("name too long (max %d characters)", MaxPlaylistNameLength)
	}
	return nil
}
