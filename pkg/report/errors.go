package report

import (
	"fmt"
	"strings"
)

// ParseError is a malformed row or sheet shape: a missing required
// column, or a line-item row with no preceding container row.
type ParseError struct {
	Sheet string
	Row   int
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("parse: %s row %d: %s", e.Sheet, e.Row, e.Msg)
	}
	return fmt.Sprintf("parse: %s: %s", e.Sheet, e.Msg)
}

// ReferenceResolutionError is a natural-key reference that matches no
// known entity.
type ReferenceResolutionError struct {
	Sheet string
	Row   int
	Ref   string
	Msg   string
}

func (e *ReferenceResolutionError) Error() string {
	return fmt.Sprintf("unresolved reference: %s row %d: %q: %s", e.Sheet, e.Row, e.Ref, e.Msg)
}

// AmbiguousReferenceError is a natural-key reference matching more than
// one candidate entity. There is no disambiguation rule; the run fails.
type AmbiguousReferenceError struct {
	Sheet      string
	Row        int
	Ref        string
	Candidates []string
}

func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("ambiguous reference: %s row %d: %q matches %s",
		e.Sheet, e.Row, e.Ref, strings.Join(e.Candidates, ", "))
}

// ValidationError is an input value with no entry in a fixed mapping
// table. Mappings never fall back to a default.
type ValidationError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: no mapping for %s %q", e.Entity, e.Field, e.Value)
}

// IntegrityError is a post-pruning dangling reference or a surrogate-id
// collision. These indicate engine bugs or a corrupt base dataset and
// always fail the run.
type IntegrityError struct {
	Msg string
}

func (e *IntegrityError) Error() string {
	return "integrity: " + e.Msg
}
