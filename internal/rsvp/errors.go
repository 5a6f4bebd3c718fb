package rsvp

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// ErrStorage wraps any failure to persist a submission.
var ErrStorage = errors.New("rsvp storage failed")

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	fields := slices.Sorted(maps.Keys(e.Details))
	return "invalid rsvp: " + strings.Join(fields, ", ")
}
