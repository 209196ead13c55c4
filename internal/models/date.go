package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Date is a calendar date without time or zone. It is stored as canonical
// zero-padded "YYYY-MM-DD" text so that string comparison in SQL orders
// dates chronologically on every backend.
type Date struct {
	civil.Date
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{civil.Date{Year: year, Month: month, Day: day}}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date{civil.DateOf(t)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return Date{}, err
	}
	return Date{d}, nil
}

// GormDataType sets the column type used by AutoMigrate.
func (Date) GormDataType() string {
	return "varchar(10)"
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("invalid date %v", d.Date)
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case time.Time:
		d.Date = civil.DateOf(v)
		return nil
	case nil:
		d.Date = civil.Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) parse(s string) error {
	if len(s) > 10 {
		s = s[:10]
	}
	parsed, err := civil.ParseDate(s)
	if err != nil {
		return err
	}
	d.Date = parsed
	return nil
}
