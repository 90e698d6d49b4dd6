package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// DateTimeLayout is the display format for timestamps.
	DateTimeLayout = "2006-01-02 15:04:05"
	// DateLayout is the display and input format for calendar dates.
	DateLayout = "2006-01-02"
)

var jsonNull = []byte("null")

// DateTime renders a timestamp as "YYYY-MM-DD HH:MM:SS" in UTC.
type DateTime time.Time

// NewDateTime wraps t.
func NewDateTime(t time.Time) DateTime { return DateTime(t) }

// Time returns the wrapped timestamp.
func (d DateTime) Time() time.Time { return time.Time(d) }

func (d DateTime) MarshalJSON() ([]byte, error) {
	t := time.Time(d)
	if t.IsZero() {
		return jsonNull, nil
	}
	return json.Marshal(t.UTC().Format(DateTimeLayout))
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*d = DateTime{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return fmt.Errorf("invalid datetime %q: expected YYYY-MM-DD HH:MM:SS", raw)
	}
	*d = DateTime(parsed)
	return nil
}

// Date renders a calendar date as "YYYY-MM-DD".
type Date time.Time

// Time returns the wrapped date at midnight UTC.
func (d Date) Time() time.Time { return time.Time(d) }

func (d Date) MarshalJSON() ([]byte, error) {
	t := time.Time(d)
	if t.IsZero() {
		return jsonNull, nil
	}
	return json.Marshal(t.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	*d = Date(parsed)
	return nil
}

// DatePtr converts an optional date column into its display form.
func DatePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := Date(*t)
	return &d
}

// NullableDate distinguishes an absent field (Set=false) from an explicit null (Set=true,
// Value=nil) in partial updates.
type NullableDate struct {
	Set   bool
	Value *time.Time
}

func (n *NullableDate) UnmarshalJSON(data []byte) error {
	n.Set = true
	var d Date
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	if t := d.Time(); !t.IsZero() {
		n.Value = &t
	} else {
		n.Value = nil
	}
	return nil
}

// NullableID distinguishes an absent foreign key from an explicit null in partial updates.
type NullableID struct {
	Set   bool
	Value *uint
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		n.Value = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("invalid identifier: %w", err)
	}
	n.Value = &id
	return nil
}
