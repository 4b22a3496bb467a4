package leads

import (
	"regexp"
	"strings"
)

var (
	digitsRe = regexp.MustCompile(`\D`)
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizePhone strips every non-digit from raw, drops one leading trunk
// digit ("7" or "8") if present, and returns the remaining digits. ok is
// true only when exactly 10 local digits remain.
func NormalizePhone(raw string) (string, bool) {
	digits := digitsRe.ReplaceAllString(raw, "")
	if len(digits) > 0 && (digits[0] == '7' || digits[0] == '8') {
		digits = digits[1:]
	}
	return digits, len(digits) == 10
}

// Validate checks a draft application and returns field-level errors.
// Pure: it never touches the store and never mutates the draft.
func Validate(req *CreateApplicationRequest) FieldErrors {
	errs := FieldErrors{}

	if len(strings.TrimSpace(req.Name)) < 2 {
		errs["name"] = "name must be at least 2 characters"
	}

	if strings.TrimSpace(req.Phone) == "" {
		errs["phone"] = "phone is required"
	} else if _, ok := NormalizePhone(req.Phone); !ok {
		errs["phone"] = "phone must contain 10 digits after the country code"
	}

	if email := strings.TrimSpace(req.Email); email != "" && !emailRe.MatchString(email) {
		errs["email"] = "email address is not valid"
	}

	if len(strings.TrimSpace(req.Message)) < 10 {
		errs["message"] = "message must be at least 10 characters"
	}

	return errs
}
