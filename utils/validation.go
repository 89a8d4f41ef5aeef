package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	htmlTagRegex  = regexp.MustCompile(`<[^>]*>`)
	xssPatterns   = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script.*?>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)vbscript:`),
		regexp.MustCompile(`(?i)on(load|error|click)\s*=`),
	}
)

// RegisterValidators adds the custom binding tags used by request structs:
// indian_phone and iso_currency.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("indian_phone", validateIndianPhone); err != nil {
		return err
	}
	return v.RegisterValidation("iso_currency", validateISOCurrency)
}

func validateIndianPhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true
	}
	_, err := FormatPhoneNumber(phone)
	return err == nil
}

func validateISOCurrency(fl validator.FieldLevel) bool {
	cur := fl.Field().String()
	return cur == "" || currencyRegex.MatchString(cur)
}

// BindingErrorMessages turns validator errors into field -> message pairs.
func BindingErrorMessages(err error) map[string]string {
	out := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["body"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "is required"
		case "email":
			out[fe.Field()] = ErrInvalidEmail
		case "oneof":
			out[fe.Field()] = "must be one of: " + fe.Param()
		case "min", "gte", "gt":
			out[fe.Field()] = "must be at least " + fe.Param()
		case "max", "lte":
			out[fe.Field()] = "must be at most " + fe.Param()
		case "indian_phone":
			out[fe.Field()] = "must be a valid 10 digit phone number"
		case "iso_currency":
			out[fe.Field()] = "must be a 3 letter ISO currency code"
		default:
			out[fe.Field()] = "failed on " + fe.Tag()
		}
	}
	return out
}

// SanitizeString escapes HTML and strips any remaining tags
func SanitizeString(input string) string {
	sanitized := html.EscapeString(strings.TrimSpace(input))
	return htmlTagRegex.ReplaceAllString(sanitized, "")
}

// ValidateXSS checks for common XSS attack patterns
func ValidateXSS(input string) (bool, string) {
	for _, p := range xssPatterns {
		if p.MatchString(input) {
			return false, "Potentially unsafe content detected"
		}
	}
	return true, ""
}

// ValidateUsername checks if the username meets the requirements
func ValidateUsername(username string) (bool, string) {
	if !usernameRegex.MatchString(username) {
		return false, "Username must be 3-30 characters of letters, numbers, dots or underscores"
	}
	return true, ""
}

// ValidateEmail checks if the email is valid
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(email) {
		return false, ErrInvalidEmail
	}
	return true, ""
}

// ValidatePassword checks the password length
func ValidatePassword(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}
	return true, ""
}

// FormatPhoneNumber formats and validates an Indian phone number
func FormatPhoneNumber(phone string) (string, error) {
	phone = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if len(phone) == 12 && strings.HasPrefix(phone, "91") {
		phone = phone[2:]
	}
	if len(phone) == 11 && strings.HasPrefix(phone, "0") {
		phone = phone[1:]
	}

	if len(phone) != 10 {
		return "", fmt.Errorf("phone number must be exactly 10 digits")
	}
	if phone[0] < '6' || phone[0] > '9' {
		return "", fmt.Errorf("phone number must start with 6, 7, 8, or 9")
	}
	return phone, nil
}

// ValidateRating validates a testimonial rating
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

// CheckEnum returns an InvalidInput error when value is set and not one of allowed.
func CheckEnum(field, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return InvalidInputError(fmt.Sprintf("Invalid %s", field), fmt.Errorf("%q is not one of %s", value, strings.Join(allowed, ", ")))
}
