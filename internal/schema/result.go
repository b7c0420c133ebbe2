// Package schema checks a configuration against the link page schema and
// reports every violation it finds in a single pass.
package schema

import (
	"fmt"

	"go.uber.org/multierr"
)

// Code classifies an issue.
type Code string

const (
	CodeRequired Code = "required"
	CodeType     Code = "type"
	CodeLength   Code = "length"
	CodeFormat   Code = "format"
	CodeEnum     Code = "enum"
	CodeCount    Code = "count"
	CodeUnsafe   Code = "unsafe"
	CodeUnknown  Code = "unknown"
	CodeAdvisory Code = "advisory"
)

// Issue is a single error or warning. Field is a dotted path into the
// document, with numeric segments for link indices ("links.2.url").
type Issue struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Code       Code   `json:"code"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// Result is the outcome of a validation pass. Warnings never affect Valid.
type Result struct {
	Valid    bool    `json:"isValid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Err combines all errors into one, or returns nil when r is valid.
func (r Result) Err() error {
	var err error
	for _, is := range r.Errors {
		err = multierr.Append(err, is)
	}
	return err
}

// Merge returns a result holding the issues of both r and other.
func (r Result) Merge(other Result) Result {
	out := Result{
		Errors:   append(append([]Issue{}, r.Errors...), other.Errors...),
		Warnings: append(append([]Issue{}, r.Warnings...), other.Warnings...),
	}
	out.Valid = len(out.Errors) == 0
	return out
}

// collector accumulates issues without stopping at the first one.
type collector struct {
	errors   []Issue
	warnings []Issue
}

func (c *collector) fail(field string, code Code, format string, args ...any) *Issue {
	c.errors = append(c.errors, Issue{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
	return &c.errors[len(c.errors)-1]
}

func (c *collector) warn(field string, code Code, format string, args ...any) *Issue {
	c.warnings = append(c.warnings, Issue{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
	return &c.warnings[len(c.warnings)-1]
}

func (c *collector) result() Result {
	return Result{
		Valid:    len(c.errors) == 0,
		Errors:   append([]Issue{}, c.errors...),
		Warnings: append([]Issue{}, c.warnings...),
	}
}
