// Package parser turns text lines received from a device into sample tuples.
//
// A line carries its payload after the first ':' as comma separated numbers,
// e.g. "temp:21.5,22.0,19.75". Everything before the separator is a free-form
// label and is ignored.
package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	Separator      = ':'
	FieldSeparator = ","
)

var (
	ErrNoSeparator  = errors.New("line has no ':' separator")
	ErrEmptyPayload = errors.New("line has an empty payload")
	ErrNoNumbers    = errors.New("payload has no numeric fields")
	ErrBadField     = errors.New("payload field is not a number")
)

// Tuple is the ordered set of values parsed from one line.
type Tuple []float64

// Parse extracts the tuple from line in a single pass. Empty and unparsable
// fields are skipped. A line is rejected when it has no separator, when the
// payload is blank or when no field at all is a number.
func Parse(line string) (Tuple, error) {
	payload, err := payloadOf(line)
	if err != nil {
		return nil, err
	}

	tuple := make(Tuple, 0, strings.Count(payload, FieldSeparator)+1)
	for _, field := range strings.Split(payload, FieldSeparator) {
		value, ok := parseField(field)
		if !ok {
			continue
		}
		tuple = append(tuple, value)
	}

	if len(tuple) == 0 {
		return nil, ErrNoNumbers
	}
	return tuple, nil
}

// ExtractNumbers never fails, it returns an empty tuple for anything Parse
// would reject.
func ExtractNumbers(line string) Tuple {
	tuple, err := Parse(line)
	if err != nil {
		return Tuple{}
	}
	return tuple
}

// Validate is the strict form of Parse: every non-empty field has to be a
// number. It is only advisory, the plotter accepts anything Parse accepts.
func Validate(line string) error {
	payload, err := payloadOf(line)
	if err != nil {
		return err
	}
	for i, field := range strings.Split(payload, FieldSeparator) {
		if strings.TrimSpace(field) == "" {
			continue
		}
		if _, ok := parseField(field); !ok {
			return fmt.Errorf("field %d %q: %w", i, strings.TrimSpace(field), ErrBadField)
		}
	}
	return nil
}

func payloadOf(line string) (string, error) {
	idx := strings.IndexByte(line, Separator)
	if idx == -1 {
		return "", ErrNoSeparator
	}
	payload := strings.TrimSpace(line[idx+1:])
	if payload == "" {
		return "", ErrEmptyPayload
	}
	return payload, nil
}

// parseField reports ok=false for blank fields and anything that isn't a
// finite number.
func parseField(field string) (float64, bool) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
