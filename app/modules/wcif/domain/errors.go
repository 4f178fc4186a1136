package wcifdomain

import (
	"errors"
	"strconv"
)

var (
	// ErrMalformedAttemptResult is returned for attempt results that are not
	// integers or are negative values other than -1 (DNF) and -2 (DNS).
	ErrMalformedAttemptResult = errors.New("malformed attempt result")

	// ErrMalformedWCAID is returned when a WCA ID is not of the form YYYYAAAANN.
	ErrMalformedWCAID = errors.New("malformed WCA ID")

	// ErrNonUTCTimestamp is returned for timestamps without a trailing Z.
	ErrNonUTCTimestamp = errors.New("timestamp is not in UTC")

	// ErrMalformedTimestamp is returned for UTC timestamps that are not ISO-8601.
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrMalformedDate is returned for dates not of the form YYYY-MM-DD.
	ErrMalformedDate = errors.New("malformed date")

	// ErrInvalidRoundFormat is returned when a round format is not a single character.
	ErrInvalidRoundFormat = errors.New("round format must be a single character")

	// ErrUnknownAdvancementType is returned for advancement conditions with an unknown type tag.
	ErrUnknownAdvancementType = errors.New("unknown advancement condition type")

	// ErrInvalidTimeRange is returned for activities that end before they start.
	ErrInvalidTimeRange = errors.New("activity ends before it starts")

	// ErrNotObject is returned when a record is decoded from anything but a JSON object.
	ErrNotObject = errors.New("expected JSON object")

	// ErrNotArray is returned when a sequence is decoded from anything but a JSON array.
	ErrNotArray = errors.New("expected JSON array")

	// ErrDuplicateKey is returned when a JSON object repeats a key.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrNullField is returned when a required field is null.
	ErrNullField = errors.New("required field is null")
)

// PathError locates a decoding failure inside a WCIF document.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func atField(name string, err error) error {
	if pe, ok := err.(*PathError); ok {
		if len(pe.Path) > 0 && pe.Path[0] == '[' {
			return &PathError{Path: name + pe.Path, Err: pe.Err}
		}
		return &PathError{Path: name + "." + pe.Path, Err: pe.Err}
	}
	return &PathError{Path: name, Err: err}
}

func atIndex(i int, err error) error {
	idx := "[" + strconv.Itoa(i) + "]"
	if pe, ok := err.(*PathError); ok {
		if len(pe.Path) > 0 && pe.Path[0] == '[' {
			return &PathError{Path: idx + pe.Path, Err: pe.Err}
		}
		return &PathError{Path: idx + "." + pe.Path, Err: pe.Err}
	}
	return &PathError{Path: idx, Err: err}
}
