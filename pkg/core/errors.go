package core

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the pipeline and its adapters.
var (
	// ErrBadSchema reports a missing column or a column of the wrong type.
	ErrBadSchema = errors.New("bad schema")
	// ErrMalformedFA reports a fatty acid that could not be parsed or violates
	// its invariants.
	ErrMalformedFA = errors.New("malformed fatty acid")
	// ErrArithmeticDomain is returned only by callers that refuse NaN or
	// infinite outputs; the stages themselves propagate NaN.
	ErrArithmeticDomain = errors.New("arithmetic domain")
)

// SchemaError describes a structural problem with an input or stage table.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("bad schema: column %s: %s", e.Column, e.Reason)
}

// Unwrap allows errors.Is(err, ErrBadSchema).
func (e *SchemaError) Unwrap() error {
	return ErrBadSchema
}

// ParseError describes a fatty acid that failed admission.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed fatty acid '%s': %s", e.Input, e.Reason)
}

// Unwrap allows errors.Is(err, ErrMalformedFA).
func (e *ParseError) Unwrap() error {
	return ErrMalformedFA
}

// ValidationError represents an error found during sample validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}
