package model

import (
	"fmt"
	"strings"
)

// NotFoundError reports that a required input file does not exist.
type NotFoundError struct {
	// Path is the file that was looked up.
	Path string

	// Err is the underlying filesystem error.
	Err error
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("required file not found: %s", e.Path)
}

// Unwrap returns the underlying filesystem error so that
// errors.Is(err, fs.ErrNotExist) keeps working.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Violation is a single broken descriptor invariant.
type Violation struct {
	// Fields names every field involved. Ordering violations name both sides.
	Fields []string `json:"fields"`

	// Message is the complete human-readable description,
	// e.g. "minSdk <= targetSdk violated: 30 > 21".
	Message string `json:"message"`
}

// ValidationError aggregates every violated invariant found during one
// resolution, so the operator can fix them all in a single pass.
type ValidationError struct {
	Violations []Violation
}

// Error joins all violation messages.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("build descriptor validation failed: %s", strings.Join(msgs, "; "))
}

// Has reports whether any violation names the given field.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		for _, f := range v.Fields {
			if f == field {
				return true
			}
		}
	}
	return false
}

// Add records a violation for a single field. The message is prefixed with
// the field name.
func (e *ValidationError) Add(field, format string, args ...interface{}) {
	e.Violations = append(e.Violations, Violation{
		Fields:  []string{field},
		Message: field + ": " + fmt.Sprintf(format, args...),
	})
}

// AddOrdering records a broken "lower <= upper" relation between two fields.
func (e *ValidationError) AddOrdering(lower, upper string, lowerVal, upperVal int) {
	e.Violations = append(e.Violations, Violation{
		Fields:  []string{lower, upper},
		Message: fmt.Sprintf("%s <= %s violated: %d > %d", lower, upper, lowerVal, upperVal),
	})
}

// ErrOrNil returns the ValidationError when it holds at least one
// violation, and nil otherwise.
func (e *ValidationError) ErrOrNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
