package event

import (
	"errors"
	"fmt"
)

// Pipeline error kinds. Every error returned by UseCase matches exactly one of these with errors.Is.
var (
	ErrImageRead     = errors.New("image could not be read")
	ErrExtraction    = errors.New("vision model request failed")
	ErrParse         = errors.New("model reply is not a JSON object")
	ErrValidation    = errors.New("extracted event is invalid")
	ErrAuth          = errors.New("calendar authorization failed")
	ErrCalendarWrite = errors.New("calendar rejected the event")
)

// Validation failure reasons.
const (
	ReasonMissing   = "missing"
	ReasonMalformed = "malformed"
)

// ParseError carries the reply that could not be decoded.
type ParseError struct {
	Reply string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", ErrParse, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ValidationError names the first field that failed.
// Field is one of summary, start, end, start.dateTime, end.dateTime.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s: %v", ErrValidation, e.Reason, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Reason, e.Field)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
