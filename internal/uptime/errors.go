package uptime

import (
	"errors"
	"fmt"
)

// ErrMissingReferenceTime is returned when there are no status observations
// from which to derive the reference instant.
var ErrMissingReferenceTime = errors.New("no status observations: cannot derive reference time")

// Kinds of malformed input. Match them with errors.Is.
var (
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrMalformedTimezone  = errors.New("malformed timezone")
	ErrMalformedHours     = errors.New("malformed business hours")
	ErrMalformedStatus    = errors.New("malformed status")
)

// MalformedError describes an input record that could not be interpreted.
type MalformedError struct {
	StoreID string
	Field   string
	Value   string
	Kind    error
	Err     error
}

func (e *MalformedError) Error() string {
	msg := fmt.Sprintf("store %s: %v in %s (%q)", e.StoreID, e.Kind, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the error kind.
func (e *MalformedError) Is(target error) bool {
	return target == e.Kind
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

func malformed(kind error, storeID, field, value string, err error) *MalformedError {
	return &MalformedError{StoreID: storeID, Field: field, Value: value, Kind: kind, Err: err}
}
