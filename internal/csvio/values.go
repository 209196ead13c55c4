package csvio

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order. Slash-separated dates are read month
// first; day first only matches when the leading part cannot be a month.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"2/1/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate reads a calendar date in any of the accepted layouts. Time of
// day, if present, is dropped.
func ParseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("unrecognised date %q", s)
}

// ParseAmount converts a positive decimal in major units to minor units,
// rounding half away from zero.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.New("not a number")
	}
	cents := d.Shift(2).Round(0)
	if !cents.IsPositive() {
		return 0, errors.New("must be greater than zero")
	}
	if cents.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, errors.New("out of range")
	}
	return cents.IntPart(), nil
}

// FormatAmount renders minor units as a major-unit decimal with two places.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
