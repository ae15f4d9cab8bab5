package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidRole = errors.New("invalid user role")
var ErrInvalidStatus = errors.New("invalid user status")
var ErrMissingID = errors.New("user has no assigned id")
var ErrForbidden = errors.New("access forbidden")

// ValidationError wraps the per-field violations reported by Validate when a
// caller needs them on an error path (e.g. rejecting a create request).
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}
