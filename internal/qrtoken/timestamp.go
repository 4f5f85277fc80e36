package qrtoken

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// isoLayout is the JavaScript Date.toISOString form: UTC, always three
// fractional digits, literal Z.
const isoLayout = "2006-01-02T15:04:05.000Z"

// Timestamp is a UTC instant with millisecond precision. Construct it with
// NewTimestamp so that values survive an encode/decode cycle unchanged.
type Timestamp struct {
	t time.Time
}

// NewTimestamp normalizes t to UTC and truncates it to milliseconds.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{t: t.UTC().Truncate(time.Millisecond)}
}

// ParseTimestamp parses an ISO-8601 / RFC 3339 instant.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, err
	}
	return NewTimestamp(t), nil
}

func (ts Timestamp) Time() time.Time { return ts.t }

func (ts Timestamp) IsZero() bool { return ts.t.IsZero() }

func (ts Timestamp) Equal(o Timestamp) bool { return ts.t.Equal(o.t) }

func (ts Timestamp) String() string { return ts.t.Format(isoLayout) }

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.t.Format(isoLayout) + `"`), nil
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
