package domain

import "fmt"

// ValidationError reports a value object whose invariant was violated
// while it was being constructed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("domain: invalid %s: %s", e.Field, e.Reason)
}

// MappingError reports a raw storage record that cannot be turned into a
// Design: a required column is missing or holds an unrecognized token.
type MappingError struct {
	Field  string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("domain: cannot map %s: %s", e.Field, e.Reason)
}
