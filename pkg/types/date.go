package types

import (
	"fmt"
	"strings"
	"time"
)

// Layouts seen in spreadsheet exports, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06",
	"1/2/06 15:04",
	"01/02/2006 15:04",
	"1/2/2006",
	"01/02/2006",
}

// Date is a calendar date that marshals to "2006-01-02" or JSON null.
type Date struct {
	Time  time.Time
	Valid bool
}

func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// ParseDate parses a spreadsheet cell into a Date. Empty cells yield the
// null Date without error.
func ParseDate(v string) (Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return Date{}, nil
	}
	t, err := parseAny(v)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

// ParseDateTime keeps the time-of-day component.
func ParseDateTime(v string) (DateTime, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return DateTime{}, nil
	}
	t, err := parseAny(v)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{Time: t.UTC(), Valid: true}, nil
}

func parseAny(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", v)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return err
	}
	*d = NewDate(t)
	return nil
}

func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// After reports whether d is a valid date strictly after t.
func (d Date) After(t time.Time) bool {
	return d.Valid && d.Time.After(t)
}

// Max returns the later of d and o, preferring whichever is valid.
func (d Date) Max(o Date) Date {
	if !d.Valid {
		return o
	}
	if !o.Valid {
		return d
	}
	if o.Time.After(d.Time) {
		return o
	}
	return d
}

// DateTime marshals to an ISO-8601 timestamp without zone suffix, the
// format the downstream loader expects for time entries, or JSON null.
type DateTime struct {
	Time  time.Time
	Valid bool
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.UTC(), Valid: true}
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format("2006-01-02T15:04:05") + `"`), nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*d = DateTime{}
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	if err != nil {
		return err
	}
	*d = NewDateTime(t)
	return nil
}
