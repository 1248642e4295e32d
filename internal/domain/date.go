package domain

import (
	"bytes"
	"fmt"
	"time"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day or zone
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day, keeping t's wall-clock date
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Equal reports whether both values denote the same day
func (d Date) Equal(other Date) bool {
	return d.Year() == other.Year() && d.YearDay() == other.YearDay()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected a YYYY-MM-DD string", data)
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
