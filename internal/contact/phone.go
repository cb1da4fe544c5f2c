package contact

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPhone indicates a phone number that cannot be normalized into
// the canonical form. It is detected before anything reaches storage.
var ErrInvalidPhone = errors.New("invalid phone number")

// Bounds on plausible phone lengths after normalization. E.164 allows up to
// 15 digits; anything under 7 is a short code, not a subscriber number.
const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// NormalizePhone returns the canonical digits-only form of a phone number.
// It accepts numbers with or without a leading '+' and strips spaces,
// dashes, dots, and parentheses. Returns ErrInvalidPhone when the residual
// characters are not all digits or the length is implausible.
//
//	"+57 (300) 123-4567" -> "573001234567"
//	"573001234567"       -> "573001234567"
func NormalizePhone(phone string) (string, error) {
	s := strings.TrimSpace(phone)
	s = strings.TrimPrefix(s, "+")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '-', '.', '(', ')':
			continue
		default:
			if r < '0' || r > '9' {
				return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
			}
			b.WriteRune(r)
		}
	}

	normalized := b.String()
	if len(normalized) < minPhoneDigits || len(normalized) > maxPhoneDigits {
		return "", fmt.Errorf("%w: %q has %d digits", ErrInvalidPhone, phone, len(normalized))
	}
	return normalized, nil
}
