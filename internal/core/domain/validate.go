package domain

import (
	"strings"
	"unicode/utf8"
)

// Validatable is the validation capability implemented by entities that can
// report business-rule violations. Validate collects, never raises: the
// result maps a field name to zero-or-more human-readable messages, and an
// absent key means the field is valid.
type Validatable interface {
	Validate() map[string][]string
}

// Validate checks the user's fields against the business rules and returns
// the violations per field. It is a pure check: no mutation, no error return.
func (u *User) Validate() map[string][]string {
	errs := map[string][]string{}

	if u.Email == "" || !strings.Contains(u.Email, "@") {
		errs["email"] = append(errs["email"], "valid email address is required")
	}
	if utf8.RuneCountInString(u.Username) < 3 {
		errs["username"] = append(errs["username"], "username must be at least 3 characters")
	}
	if u.FirstName == "" {
		errs["first_name"] = append(errs["first_name"], "first name is required")
	}
	if !u.Role.Valid() {
		errs["role"] = append(errs["role"], "invalid user role")
	}
	if !u.Status.Valid() {
		errs["status"] = append(errs["status"], "invalid user status")
	}

	return errs
}
