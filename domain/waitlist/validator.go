package waitlist

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pomiya/landing/pkg/apperror"
)

// emailPattern is a syntactic sanity check: one local part, one "@", and a
// domain holding a dot between a non-empty label and a non-empty suffix.
// It is not RFC 5322 validation. RE2's \s is ASCII only, so NormalizeEmail
// also rejects any Unicode space.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace and checks the result. The
// returned address is the value that must be submitted; callers never trim
// again.
func NormalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if strings.IndexFunc(email, isSpace) >= 0 || !emailPattern.MatchString(email) {
		return "", apperror.ErrValidation.WithDetails(map[string]any{"field": "email"})
	}
	return email, nil
}

// isSpace matches the whitespace set browsers use for form input, which adds
// the byte order mark to Unicode's White_Space.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// IsValidEmail reports whether raw would be accepted by NormalizeEmail.
func IsValidEmail(raw string) bool {
	_, err := NormalizeEmail(raw)
	return err == nil
}
