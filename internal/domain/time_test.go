package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTimeRoundTrip(t *testing.T) {
	cases := []string{
		`"2024-01-01T10:00:00"`,
		`"2024-01-01T10:00:00.500000"`,
		`"2024-06-15T22:30:00+05:30"`,
		`"not a timestamp"`,
		`42`,
		`null`,
	}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			var ts Time
			if err := json.Unmarshal([]byte(raw), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) returned error: %v", raw, err)
			}
			out, err := json.Marshal(ts)
			if err != nil {
				t.Fatalf("Marshal returned error: %v", err)
			}
			if string(out) != raw {
				t.Errorf("Expected round-trip to yield %s, but got %s", raw, out)
			}
		})
	}
}

func TestTimeParsesISO(t *testing.T) {
	var ts Time
	if err := json.Unmarshal([]byte(`"2024-01-01T10:00:00"`), &ts); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if !ts.Valid() {
		t.Fatal("Expected timestamp to be valid after decoding an ISO string")
	}
	expected := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if !ts.Std().Equal(expected) {
		t.Errorf("Expected %v, but got %v", expected, ts.Std())
	}
	if ts.Err() != nil {
		t.Errorf("Expected no decode error, but got %v", ts.Err())
	}
}

func TestTimeKeepsUnparsableValues(t *testing.T) {
	var ts Time
	if err := json.Unmarshal([]byte(`"soon"`), &ts); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if ts.Valid() {
		t.Error("Expected an unparsable string to stay invalid")
	}
	if ts.Err() == nil {
		t.Error("Expected a decode error for an unparsable string")
	}
	var decodeErr *DecodeError
	if !errors.As(ts.Err(), &decodeErr) {
		t.Fatalf("Expected a *DecodeError, but got %T", ts.Err())
	}
	if decodeErr.Raw != `"soon"` {
		t.Errorf("Expected raw value '\"soon\"', but got %q", decodeErr.Raw)
	}
	if got := ts.Format("02/01/06 03:04 PM"); got != "soon" {
		t.Errorf("Expected Format to echo the raw string 'soon', but got %q", got)
	}
}

func TestTimeMarshalFresh(t *testing.T) {
	ts := NewTime(time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC))
	out, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(out) != `"2024-01-01T22:00:00"` {
		t.Errorf("Expected '\"2024-01-01T22:00:00\"', but got %s", out)
	}
}

func TestCollectionNormalize(t *testing.T) {
	c := Collection{"Botany": nil}
	c.Normalize()
	for _, subj := range Subjects {
		if c[subj] == nil {
			t.Errorf("Expected subject %s to have a non-nil chapter list", subj)
		}
	}
}

func TestCollectionCloneIsDeep(t *testing.T) {
	c := NewCollection()
	c["Botany"] = []Chapter{{
		ChapterName: "Cell Biology",
		Reminders:   []Reminder{{ReminderID: 1, Status: StatusPending}},
	}}
	clone := c.Clone()
	clone["Botany"][0].Reminders[0].Status = StatusRevised
	if c["Botany"][0].Reminders[0].Status != StatusPending {
		t.Error("Expected clone mutation to leave the original untouched")
	}
}
