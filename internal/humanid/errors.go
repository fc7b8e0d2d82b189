package humanid

import "fmt"

// InvalidInputError reports a precondition violation on a derivation input.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}
