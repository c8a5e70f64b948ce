package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp is a publication time as received from the wire.
//
// The catalog sends timestamps as text; decoding keeps that text unparsed
// in Text. Coerce turns it into a structured Time. A JSON number is taken as
// epoch milliseconds and is structured from the start.
type Timestamp struct {
	Text string
	Time time.Time
}

// layouts accepted by Coerce, most specific first.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewTimestamp returns a structured Timestamp.
func NewTimestamp(t time.Time) *Timestamp { return &Timestamp{Time: t} }

// Clone returns a copy of t, or nil when t is nil.
func (t *Timestamp) Clone() *Timestamp {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// Structured reports whether Time has been set.
func (t *Timestamp) Structured() bool { return t != nil && !t.Time.IsZero() }

// Coerce parses Text into Time when the timestamp is not structured yet.
// Nil, structured and empty timestamps are left untouched, and so is text
// that matches none of the known layouts. Calling it twice is a no-op.
func (t *Timestamp) Coerce() {
	if t == nil || t.Structured() || t.Text == "" {
		return
	}
	for _, layout := range layouts {
		if v, err := time.Parse(layout, t.Text); err == nil {
			t.Time = v
			return
		}
	}
}

// MarshalJSON writes a structured time as RFC 3339 and raw text as is.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Time.IsZero() {
		return json.Marshal(t.Time.Format(time.RFC3339Nano))
	}
	if t.Text != "" {
		return json.Marshal(t.Text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON keeps a string as raw Text and reads a number as epoch
// milliseconds.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		return nil
	case b[0] == '"':
		return json.Unmarshal(b, &t.Text)
	default:
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return fmt.Errorf("model: invalid timestamp %s: %w", b, err)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}
}

// Published is implemented by entities carrying a publication timestamp.
type Published interface {
	Published() *Timestamp
}
