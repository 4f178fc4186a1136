package wcifdomain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Timestamp is a UTC instant encoded as ISO-8601 with a mandatory Z suffix.
type Timestamp struct {
	time.Time
}

// NewTimestamp converts t to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp decodes a WCIF timestamp such as 2020-06-12T10:00:00Z.
func ParseTimestamp(s string) (Timestamp, error) {
	if !strings.HasSuffix(s, "Z") {
		return Timestamp{}, fmt.Errorf("%w: %q", ErrNonUTCTimestamp, s)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return Timestamp{Time: t.UTC()}, nil
}

func (t Timestamp) String() string {
	return t.Time.UTC().Format(time.RFC3339Nano)
}

// Add returns t+d.
func (t Timestamp) Add(d time.Duration) Timestamp {
	return Timestamp{Time: t.Time.Add(d)}
}

// Sub returns the duration t-u.
func (t Timestamp) Sub(u Timestamp) time.Duration {
	return t.Time.Sub(u.Time)
}

func (t Timestamp) Before(u Timestamp) bool { return t.Time.Before(u.Time) }
func (t Timestamp) After(u Timestamp) bool  { return t.Time.After(u.Time) }
func (t Timestamp) Equal(u Timestamp) bool  { return t.Time.Equal(u.Time) }

func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Timestamp) UnmarshalText(text []byte) error {
	parsed, err := ParseTimestamp(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedTimestamp, err)
	}
	return t.UnmarshalText([]byte(s))
}

// Date is a calendar date without a time zone.
type Date struct {
	time.Time
}

// NewDate builds a date from its calendar parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate decodes YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Time.Format(time.DateOnly)
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) Equal(o Date) bool { return d.Time.Equal(o.Time) }

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDate, err)
	}
	return d.UnmarshalText([]byte(s))
}
