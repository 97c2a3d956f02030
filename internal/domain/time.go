package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// isoLayout is the wire layout for timestamps: zoneless ISO-8601 wall time,
// with a fractional part only when sub-second precision is present.
const isoLayout = "2006-01-02T15:04:05.999999999"

// DecodeError marks a stored timestamp value that could not be parsed. The
// raw value is preserved on the record and re-encoded unchanged; the error
// exists so callers can surface the problem instead of mis-bucketing dates.
type DecodeError struct {
	Raw string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unparsable timestamp %q", e.Raw)
}

// Time is a wire-safe timestamp. Decoding parses ISO-8601 strings into an
// absolute time; any other value (unparsable string, number, null) is kept
// as raw JSON and encoded back byte for byte, so
// encode(decode(x)) == x holds even for malformed data. A value that was
// decoded from a string also remembers that exact string and re-encodes to
// it, which keeps repeated save/load cycles stable.
type Time struct {
	t     time.Time
	raw   json.RawMessage
	valid bool
}

// NewTime wraps an absolute timestamp.
func NewTime(t time.Time) Time {
	return Time{t: t, valid: true}
}

// Std returns the parsed timestamp. Only meaningful when Valid.
func (t Time) Std() time.Time { return t.t }

// Valid reports whether the value holds a parsed absolute timestamp.
func (t Time) Valid() bool { return t.valid }

// IsZero reports whether the value holds neither a timestamp nor raw data.
func (t Time) IsZero() bool { return !t.valid && len(t.raw) == 0 }

// Err returns a DecodeError when the decoded value was present but did not
// parse as a timestamp, nil otherwise.
func (t Time) Err() error {
	if t.valid || len(t.raw) == 0 || bytes.Equal(t.raw, []byte("null")) {
		return nil
	}
	return &DecodeError{Raw: string(t.raw)}
}

// Add returns the timestamp shifted by d.
func (t Time) Add(d time.Duration) Time {
	return NewTime(t.t.Add(d))
}

// DateKey returns the calendar date of the timestamp as "2006-01-02".
func (t Time) DateKey() string {
	return t.t.Format("2006-01-02")
}

// SameDate reports whether the timestamp falls on the same calendar date
// as day.
func (t Time) SameDate(day time.Time) bool {
	y1, m1, d1 := t.t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// String formats the timestamp for display, or echoes the raw value when it
// never parsed.
func (t Time) String() string {
	if !t.valid {
		return string(t.raw)
	}
	return t.t.Format(isoLayout)
}

// Format is like time.Time.Format but falls back to the raw value for
// unparsable data, matching the export contract of keeping malformed
// timestamps as-is.
func (t Time) Format(layout string) string {
	if !t.valid {
		return rawDisplay(t.raw)
	}
	return t.t.Format(layout)
}

func rawDisplay(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// UnmarshalJSON parses an ISO-8601 string. Non-string or unparsable values
// pass through unchanged.
func (t *Time) UnmarshalJSON(b []byte) error {
	t.raw = append(json.RawMessage(nil), b...)
	t.valid = false

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	parsed, err := parseISO(s)
	if err != nil {
		return nil
	}
	t.t = parsed
	t.valid = true
	return nil
}

// MarshalJSON writes the remembered raw form when present, otherwise the
// timestamp as an ISO-8601 string.
func (t Time) MarshalJSON() ([]byte, error) {
	if len(t.raw) > 0 {
		return t.raw, nil
	}
	if !t.valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.t.Format(isoLayout))
}

func parseISO(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	return time.Parse(isoLayout, s)
}

// ParseTime parses a timestamp from user input, accepting the wire layouts
// plus the common minute-precision form.
func ParseTime(s string) (Time, error) {
	if ts, err := parseISO(s); err == nil {
		return NewTime(ts), nil
	}
	ts, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		return Time{}, &DecodeError{Raw: s}
	}
	return NewTime(ts), nil
}
