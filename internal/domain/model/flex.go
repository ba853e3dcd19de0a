package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ID is an identifier the backend may send as a number or a string.
type ID string

// UnmarshalJSON accepts 12, "12" and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	s, err := flexText(b)
	if err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// FlexString holds text the backend sends with inconsistent JSON types:
// strings, numbers, booleans or arrays of those (joined with ", ").
type FlexString string

// UnmarshalJSON never fails on a well-formed JSON value.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	s, err := flexText(b)
	if err != nil {
		return err
	}
	*f = FlexString(s)
	return nil
}

// String returns the text.
func (f FlexString) String() string { return string(f) }

func flexText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return s, nil
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(b, &parts); err != nil {
			return "", err
		}
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			s, err := flexText(p)
			if err != nil {
				return "", err
			}
			if s != "" {
				out = append(out, s)
			}
		}
		return strings.Join(out, ", "), nil
	case '{':
		return "", nil
	}
	// numbers and booleans keep their literal text
	return string(b), nil
}

// RawScore is the backend's similarity score of ambiguous unit. Values that
// are missing, null or non-numeric decode to NaN so normalization yields 0.
type RawScore float64

// UnmarshalJSON accepts numbers, numeric strings and null.
func (r *RawScore) UnmarshalJSON(b []byte) error {
	s, err := flexText(b)
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*r = RawScore(math.NaN())
		return nil
	}
	*r = RawScore(v)
	return nil
}

// Float returns the raw value.
func (r RawScore) Float() float64 { return float64(r) }

// MarshalJSON writes null for values JSON cannot carry.
func (r RawScore) MarshalJSON() ([]byte, error) {
	v := float64(r)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
}
