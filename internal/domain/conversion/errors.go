package conversion

import (
	"errors"
	"strings"
)

var (
	ErrConvertFileNotFound = errors.New("convert file not found")
	ErrPropertyNotFound    = errors.New("conversion property not found")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)

type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every invalid field of one input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Field+": "+field.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
