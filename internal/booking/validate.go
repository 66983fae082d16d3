package booking

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// emailPattern accepts local@domain.tld shapes over a restricted
// character set. Anything outside the whitelist (including embedded
// whitespace) fails; the separate whitespace check below exists only
// to produce a clearer message for the most common bad input.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// validateCreate checks a booking payload before the transaction is
// opened. The first offending field aborts the whole request; nothing
// reaches storage on a validation failure.
func validateCreate(v *validator.Validate, in *CreateBookingInput) error {
	if err := v.Struct(in); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return &ValidationError{
				Field:  fieldName(first),
				Reason: "failed '" + first.Tag() + "' validation",
			}
		}
		return &ValidationError{Field: "payload", Reason: "invalid request"}
	}
	for i, p := range in.Parents {
		if err := validateEmail(fmt.Sprintf("parents[%d].email", i), p.Email); err != nil {
			return err
		}
	}
	return nil
}

// validateEmail enforces the email rules for parent contacts:
// non-empty, no embedded whitespace, whitelisted characters only and
// an RFC-shaped local@domain.tld structure.
func validateEmail(field, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: field, Reason: "email is required"}
	}
	if strings.ContainsAny(email, " \t") {
		return &ValidationError{Field: field, Reason: "email must not contain spaces"}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: field, Reason: "email format is invalid"}
	}
	return nil
}

// fieldName turns a validator namespace like
// CreateBookingInput.Students[0].FirstName into students[0].first_name.
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	var b strings.Builder
	for i, r := range ns {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && ns[i-1] != '.' && ns[i-1] != '[' {
				b.WriteByte('_')
			}
			b.WriteRune(r + 32)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
