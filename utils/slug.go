package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

const (
	// SlugFallback replaces a base slug that normalizes to nothing.
	SlugFallback = "item"
	// MaxSlugAttempts bounds how many writes are tried when the unique index rejects a slug.
	MaxSlugAttempts = 5
)

var (
	slugWhitespace = regexp.MustCompile(`[\s\p{Z}\v]+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphens    = regexp.MustCompile(`-{2,}`)
)

// SlugExistsFunc reports whether candidate is taken by a record other than excludeID.
// excludeID is zero for records that are not stored yet.
type SlugExistsFunc func(candidate string, excludeID uint) (bool, error)

// SlugSaveFunc persists the record carrying slug.
type SlugSaveFunc func(slug string) error

// NormalizeSlugPart lower-cases s, turns whitespace runs into single hyphens and drops
// everything outside [a-z0-9-]. Repeated and edge hyphens are removed too, so the
// result is a fixed point: NormalizeSlugPart(NormalizeSlugPart(s)) == NormalizeSlugPart(s).
func NormalizeSlugPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// BaseSlug joins the normalized title and auxiliary parts, in that order.
func BaseSlug(title string, aux ...string) string {
	parts := make([]string, 0, len(aux)+1)
	for _, p := range append([]string{title}, aux...) {
		if n := NormalizeSlugPart(p); n != "" {
			parts = append(parts, n)
		}
	}
	if len(parts) == 0 {
		return SlugFallback
	}
	return strings.Join(parts, "-")
}

func slugCandidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// nextFreeSlug walks base, base-1, base-2... starting at counter from and returns the
// first candidate exists reports as free, with its counter. The walk itself is
// unbounded; AssignUniqueSlug bounds the number of writes instead.
func nextFreeSlug(base string, from int, excludeID uint, exists SlugExistsFunc) (string, int, error) {
	for n := from; ; n++ {
		candidate := slugCandidate(base, n)
		taken, err := exists(candidate, excludeID)
		if err != nil {
			return "", n, PersistenceError("Failed to check slug availability", err)
		}
		if !taken {
			return candidate, n, nil
		}
	}
}

// GenerateUniqueSlug returns the first free slug for title and aux.
func GenerateUniqueSlug(title string, aux []string, excludeID uint, exists SlugExistsFunc) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", InvalidInputError("Title is required", nil)
	}
	slug, _, err := nextFreeSlug(BaseSlug(title, aux...), 0, excludeID, exists)
	return slug, err
}

// AssignUniqueSlug generates a slug and hands it to save. The lookup is only a fast
// path: when save reports a duplicate key the next counter is tried, up to
// MaxSlugAttempts writes, after which a Conflict error is returned.
func AssignUniqueSlug(title string, aux []string, excludeID uint, exists SlugExistsFunc, save SlugSaveFunc) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", InvalidInputError("Title is required", nil)
	}
	base := BaseSlug(title, aux...)
	next := 0
	for attempt := 1; attempt <= MaxSlugAttempts; attempt++ {
		slug, n, err := nextFreeSlug(base, next, excludeID, exists)
		if err != nil {
			return "", err
		}

		err = save(slug)
		if err == nil {
			return slug, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			if GetAppError(err) != nil {
				return "", err
			}
			return "", PersistenceError("Failed to save record", err)
		}

		LogError("Slug conflict on %q (attempt %d/%d)", slug, attempt, MaxSlugAttempts)
		next = n + 1
	}
	return "", ConflictError("Could not allocate a unique slug, please retry with a different title", nil)
}

// SlugExistsIn builds a SlugExistsFunc over the slug column of model's table.
func SlugExistsIn(db *gorm.DB, model interface{}) SlugExistsFunc {
	return func(candidate string, excludeID uint) (bool, error) {
		var count int64
		q := db.Unscoped().Model(model).Where("slug = ?", candidate)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
}
