package utils

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
)

// Title converts the first letter of each word to uppercase and the rest to lowercase.
func Title(s string) string {
	return strings.Join(titleWords(strings.Fields(s)), " ")
}

func titleWords(words []string) []string {
	for i, word := range words {
		if len(word) == 0 {
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		words[i] = string(runes)
	}
	return words
}

// ParseIDParam reads a positive numeric path parameter.
func ParseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, InvalidInputError(ErrInvalidID, nil)
	}
	return uint(id), nil
}

// NonEmpty returns the trimmed values that are not blank.
func NonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
