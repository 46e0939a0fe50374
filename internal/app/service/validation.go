package service

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries field-level messages for input rejected before any write.
type ValidationError struct {
	Fields map[string][]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// orNil returns e when it holds messages, nil otherwise.
func (e *ValidationError) orNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

// FieldError builds a single-field ValidationError.
func FieldError(field, message string) *ValidationError {
	e := newValidationError()
	e.Add(field, message)
	return e
}
