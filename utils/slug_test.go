package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// takenSet is an in-memory slug column
type takenSet map[string]uint

func (s takenSet) exists(candidate string, excludeID uint) (bool, error) {
	id, ok := s[candidate]
	return ok && id != excludeID, nil
}

func TestNormalizeSlugPart(t *testing.T) {
	cases := map[string]string{
		"Sunrise Villa":          "sunrise-villa",
		"  Lots   of   space  ":  "lots-of-space",
		"3BHK @ Baner, Pune!":    "3bhk-baner-pune",
		"already-a-slug":         "already-a-slug",
		"--edge--hyphens--":      "edge-hyphens",
		"Ünïcode Çity":           "ncode-ity",
		"":                       "",
		"!!!":                    "",
		"Tab\tand\nnewline":      "tab-and-newline",
		"mixed - spaced - parts": "mixed-spaced-parts",
		"Sea\u00a0View":          "sea-view",
		"Sea\u2003View":          "sea-view",
		"Sea\vView":              "sea-view",
		"Sea \u00a0\u2009 View":  "sea-view",
	}
	for in, want := range cases {
		got := NormalizeSlugPart(in)
		assert.Equal(t, want, got, "input %q", in)
		assert.Equal(t, got, NormalizeSlugPart(got), "normalizing %q twice", in)
		assert.Regexp(t, `^[a-z0-9-]*$`, got)
	}
}

func TestBaseSlug(t *testing.T) {
	assert.Equal(t, "sunrise-villa-apartment-pune", BaseSlug("Sunrise Villa", "Apartment", "Pune"))
	assert.Equal(t, "sunrise-villa-pune", BaseSlug("Sunrise Villa", "", "Pune"))
	assert.Equal(t, "pune", BaseSlug("!!!", "Pune"))
	assert.Equal(t, SlugFallback, BaseSlug("!!!"))
}

func TestGenerateUniqueSlug(t *testing.T) {
	taken := takenSet{}

	slug, err := GenerateUniqueSlug("Sunrise Villa", nil, 0, taken.exists)
	require.NoError(t, err)
	assert.Equal(t, "sunrise-villa", slug)
	taken[slug] = 1

	slug, err = GenerateUniqueSlug("Sunrise Villa", nil, 0, taken.exists)
	require.NoError(t, err)
	assert.Equal(t, "sunrise-villa-1", slug)
	taken[slug] = 2

	slug, err = GenerateUniqueSlug("Sunrise  VILLA", nil, 0, taken.exists)
	require.NoError(t, err)
	assert.Equal(t, "sunrise-villa-2", slug)
}

func TestGenerateUniqueSlugKeepsOwnSlug(t *testing.T) {
	taken := takenSet{"sunrise-villa": 7}

	slug, err := GenerateUniqueSlug("Sunrise Villa", nil, 7, taken.exists)
	require.NoError(t, err)
	assert.Equal(t, "sunrise-villa", slug)
}

func TestGenerateUniqueSlugRequiresTitle(t *testing.T) {
	_, err := GenerateUniqueSlug("   ", nil, 0, takenSet{}.exists)
	assert.True(t, IsKind(err, KindInvalidInput))
}

func TestGenerateUniqueSlugLookupFailure(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := GenerateUniqueSlug("Villa", nil, 0, func(string, uint) (bool, error) { return false, boom })
	assert.True(t, IsKind(err, KindPersistence))
	assert.ErrorIs(t, err, boom)
}

func TestAssignUniqueSlugRetriesOnDuplicate(t *testing.T) {
	UseLogOutput(discard{})
	taken := takenSet{}
	var saved []string

	// The first two writes lose a race to a concurrent writer.
	slug, err := AssignUniqueSlug("Green Acres", nil, 0, taken.exists, func(s string) error {
		saved = append(saved, s)
		if len(saved) <= 2 {
			taken[s] = 99
			return gorm.ErrDuplicatedKey
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"green-acres", "green-acres-1", "green-acres-2"}, saved)
	assert.Equal(t, "green-acres-2", slug)
}

func TestAssignUniqueSlugGivesUpWithConflict(t *testing.T) {
	UseLogOutput(discard{})
	attempts := 0
	_, err := AssignUniqueSlug("Green Acres", nil, 0, takenSet{}.exists, func(string) error {
		attempts++
		return fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)
	})
	assert.True(t, IsKind(err, KindConflict))
	assert.Equal(t, MaxSlugAttempts, attempts)
}

func TestAssignUniqueSlugPassesThroughOtherErrors(t *testing.T) {
	_, err := AssignUniqueSlug("Green Acres", nil, 0, takenSet{}.exists, func(string) error {
		return errors.New("disk full")
	})
	assert.True(t, IsKind(err, KindPersistence))

	_, err = AssignUniqueSlug("Green Acres", nil, 0, takenSet{}.exists, func(string) error {
		return InvalidInputError("bad record", nil)
	})
	assert.True(t, IsKind(err, KindInvalidInput))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
