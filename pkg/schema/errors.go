package schema

import (
	"errors"
	"fmt"
)

// Code identifies the kind of a check failure. Codes are stable and meant for
// programmatic matching.
type Code string

const (
	CodeNoPayload             Code = "NO_PAYLOAD"
	CodeMissingMandatoryField Code = "NOT_CONTAIN_MANDATORY_FIELD"
	CodeTypeMismatch          Code = "DATA_TYPE_NOT_MATCH"
)

// Sentinels for errors.Is. They match any *Error with the same Code.
var (
	ErrNoPayload             = &Error{Code: CodeNoPayload}
	ErrMissingMandatoryField = &Error{Code: CodeMissingMandatoryField}
	ErrTypeMismatch          = &Error{Code: CodeTypeMismatch}
)

// Error represents a single check failure.
type Error struct {
	Code     Code   // Failure kind
	Field    string // Offending field, empty for NO_PAYLOAD
	Expected string // Descriptor name, set for DATA_TYPE_NOT_MATCH
	Got      Tag    // Runtime type of the offending value, set for DATA_TYPE_NOT_MATCH
}

func (e *Error) Error() string {
	switch {
	case e.Field == "" && e.Expected == "":
		return string(e.Code)
	case e.Expected == "":
		return fmt.Sprintf("%s: field %q", e.Code, e.Field)
	case e.Field == "":
		return fmt.Sprintf("%s: expected %s, got %s", e.Code, e.Expected, e.Got)
	default:
		return fmt.Sprintf("%s: field %q: expected %s, got %s", e.Code, e.Field, e.Expected, e.Got)
	}
}

// Is matches target when it is an *Error with the same Code and either no
// Field or the same Field.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Field == "" || t.Field == e.Field)
}

// CodeOf returns the Code carried by err, or "" when err is not a check failure.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// FieldOf returns the field named by err, or "".
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
