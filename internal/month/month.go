// Package month maps calendar dates to "YYYY-MM" month keys and back to
// inclusive date ranges.
package month

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// ErrInvalidFormat is returned when a month key is not two integers in
// "YYYY-MM" shape, or names a month outside 1-12.
var ErrInvalidFormat = errors.New("month key must be in YYYY-MM format")

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// Of returns the month containing d.
func Of(d civil.Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// Current returns the month containing now.
func Current(now time.Time) Month {
	return Month{Year: now.Year(), Month: now.Month()}
}

// Key returns the "YYYY-MM" key for the month containing d.
func Key(d civil.Date) string {
	return Of(d).String()
}

// Parse parses a month key. The month part may omit its leading zero
// ("2024-1"); surrounding whitespace is ignored.
func Parse(key string) (Month, error) {
	y, m, ok := strings.Cut(strings.TrimSpace(key), "-")
	if !ok {
		return Month{}, ErrInvalidFormat
	}
	if len(y) != 4 || !digits(y) || len(m) > 2 || !digits(m) {
		return Month{}, ErrInvalidFormat
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return Month{}, ErrInvalidFormat
	}
	mon, err := strconv.Atoi(m)
	if err != nil || mon < 1 || mon > 12 {
		return Month{}, ErrInvalidFormat
	}
	return Month{Year: year, Month: time.Month(mon)}, nil
}

// digits reports whether s is non-empty and holds only ASCII digits.
func digits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Range resolves a month key to the first and last calendar day of that
// month, both inclusive.
func Range(key string) (civil.Date, civil.Date, error) {
	m, err := Parse(key)
	if err != nil {
		return civil.Date{}, civil.Date{}, err
	}
	return m.First(), m.Last(), nil
}

// String returns the zero-padded "YYYY-MM" key.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// First returns day 1 of the month.
func (m Month) First() civil.Date {
	return civil.Date{Year: m.Year, Month: m.Month, Day: 1}
}

// Last returns the day before the first day of the following month.
func (m Month) Last() civil.Date {
	return m.Add(1).First().AddDays(-1)
}

// LastDay returns the number of days in the month.
func (m Month) LastDay() int {
	return m.Last().Day
}

// Clamp returns the date for day within the month, pulling days past the
// end of the month back to its last day and days below 1 up to day 1.
func (m Month) Clamp(day int) civil.Date {
	if last := m.LastDay(); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return civil.Date{Year: m.Year, Month: m.Month, Day: day}
}

// Add returns the month n months after m (n may be negative).
func (m Month) Add(n int) Month {
	t := time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Contains reports whether d falls within the month.
func (m Month) Contains(d civil.Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}
