// Package slug builds the SEO slugs used in catalog URLs and maps them back to
// TMDB ids.
package slug

import (
	"errors"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"hangiplatform/models"
)

const (
	MovieSuffix  = "-filmi-hangi-platformda"
	TVSuffix     = "-dizisi-hangi-platformda"
	PersonSuffix = "-filmleri-dizileri"
)

var (
	ErrInvalidSlug = errors.New("invalid slug")
	ErrNoMatch     = errors.New("no matching title")
)

var (
	disallowedChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	dashRun         = regexp.MustCompile(`-+`)
)

var turkishReplacer = strings.NewReplacer(
	"ş", "s", "Ş", "S",
	"ı", "i", "İ", "I",
	"ğ", "g", "Ğ", "G",
	"ü", "u", "Ü", "U",
	"ö", "o", "Ö", "O",
	"ç", "c", "Ç", "C",
)

// Normalize reduces text to the dash-separated ASCII form used in slugs.
// Turkish letters map to their dotless ASCII forms; other accented letters are
// transliterated.
func Normalize(text string) string {
	s := turkishReplacer.Replace(text)
	s = unidecode.Unidecode(s)
	s = strings.ToLower(s)
	s = disallowedChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), "-")
	s = dashRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CreateSlug returns the content page slug for a movie or TV title.
func CreateSlug(title string, kind models.MediaKind) string {
	suffix := MovieSuffix
	if kind == models.MediaKindTV {
		suffix = TVSuffix
	}
	return Normalize(title) + suffix
}

// CreatePersonSlug returns the person page slug for a name.
func CreatePersonSlug(name string) string {
	return Normalize(name) + PersonSuffix
}

// ParseSlug recovers the searchable title and content kind from a content slug.
// The movie suffix is tried before the TV suffix.
func ParseSlug(s string) (string, models.MediaKind, error) {
	clean := strings.Trim(strings.TrimSpace(s), "-")
	if clean == "" {
		return "", "", ErrInvalidSlug
	}

	var (
		title string
		kind  models.MediaKind
	)
	switch {
	case strings.HasSuffix(clean, MovieSuffix):
		title, kind = strings.TrimSuffix(clean, MovieSuffix), models.MediaKindMovie
	case strings.HasSuffix(clean, TVSuffix):
		title, kind = strings.TrimSuffix(clean, TVSuffix), models.MediaKindTV
	default:
		return "", "", ErrInvalidSlug
	}

	title = strings.TrimSpace(strings.Trim(title, "-"))
	if title == "" {
		return "", "", ErrInvalidSlug
	}
	return strings.ReplaceAll(title, "-", " "), kind, nil
}

// ParsePersonSlug recovers the searchable name from a person slug. A slug
// without the person suffix is read as a bare name.
func ParsePersonSlug(s string) (string, error) {
	name := strings.TrimSuffix(strings.TrimSpace(s), PersonSuffix)
	name = strings.TrimSpace(strings.ReplaceAll(name, "-", " "))
	if name == "" {
		return "", ErrInvalidSlug
	}
	return name, nil
}
