package valueobject

import (
	"regexp"
	"strings"

	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

var mobileNumberRegex = regexp.MustCompile(`^254[17]\d{8}$`)

// NormalizeMobileNumber converts a Kenyan mobile number written as 07XXXXXXXX,
// +2547XXXXXXXX, 7XXXXXXXX or 2547XXXXXXXX into the 2547XXXXXXXX form the gateway expects.
func NormalizeMobileNumber(raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		if r == ' ' || r == '-' || r == '+' || r == '(' || r == ')' {
			return -1
		}
		return 'x'
	}, strings.TrimSpace(raw))

	switch {
	case strings.HasPrefix(digits, "0") && len(digits) == 10:
		digits = "254" + digits[1:]
	case len(digits) == 9:
		digits = "254" + digits
	}

	if !mobileNumberRegex.MatchString(digits) {
		return "", domainerror.ErrInvalidPhoneNumber
	}
	return digits, nil
}
