package month

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "2024-01", Key(civil.Date{Year: 2024, Month: time.January, Day: 31}))
	assert.Equal(t, "0999-12", Key(civil.Date{Year: 999, Month: time.December, Day: 1}))
}

func TestRange(t *testing.T) {
	tests := []struct {
		key       string
		wantFirst string
		wantLast  string
	}{
		{"2024-01", "2024-01-01", "2024-01-31"},
		{"2024-02", "2024-02-01", "2024-02-29"},
		{"2023-02", "2023-02-01", "2023-02-28"},
		{"1900-02", "1900-02-01", "1900-02-28"},
		{"2000-02", "2000-02-01", "2000-02-29"},
		{"2024-04", "2024-04-01", "2024-04-30"},
		{"2024-12", "2024-12-01", "2024-12-31"},
		{"2024-1", "2024-01-01", "2024-01-31"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			first, last, err := Range(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFirst, first.String())
			assert.Equal(t, tt.wantLast, last.String())
		})
	}
}

func TestRange_AllMonths(t *testing.T) {
	for year := 1999; year <= 2030; year++ {
		for mon := time.January; mon <= time.December; mon++ {
			m := Month{Year: year, Month: mon}
			first, last, err := Range(m.String())
			require.NoError(t, err)

			assert.Equal(t, civil.Date{Year: year, Month: mon, Day: 1}, first)
			// The day after the last day must be the first of the following month.
			next := last.AddDays(1)
			assert.Equal(t, 1, next.Day, "month %s", m)
			assert.Equal(t, m.Add(1), Of(next), "month %s", m)
			assert.True(t, m.Contains(last))
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, key := range []string{"", "2024", "2024-13", "2024-00", "24-01", "2024-x1", "abcd-01", "2024-001", "2024/01", "2024-01-05", "+999-01", "-999-01", "2024-+1", "2024- 1", "2024-"} {
		t.Run(key, func(t *testing.T) {
			_, err := Parse(key)
			assert.ErrorIs(t, err, ErrInvalidFormat)

			_, _, err = Range(key)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestClamp(t *testing.T) {
	apr := Month{Year: 2024, Month: time.April}
	assert.Equal(t, "2024-04-30", apr.Clamp(31).String())
	assert.Equal(t, "2024-04-15", apr.Clamp(15).String())
	assert.Equal(t, "2024-04-01", apr.Clamp(0).String())

	feb := Month{Year: 2023, Month: time.February}
	assert.Equal(t, "2023-02-28", feb.Clamp(31).String())
	assert.Equal(t, "2024-02-29", Month{Year: 2024, Month: time.February}.Clamp(30).String())
}

func TestAdd(t *testing.T) {
	dec := Month{Year: 2024, Month: time.December}
	assert.Equal(t, Month{Year: 2025, Month: time.January}, dec.Add(1))
	assert.Equal(t, Month{Year: 2024, Month: time.June}, dec.Add(-6))
	assert.Equal(t, Month{Year: 2023, Month: time.December}, dec.Add(-12))
}

func TestBefore(t *testing.T) {
	assert.True(t, Month{Year: 2023, Month: time.December}.Before(Month{Year: 2024, Month: time.January}))
	assert.True(t, Month{Year: 2024, Month: time.January}.Before(Month{Year: 2024, Month: time.February}))
	assert.False(t, Month{Year: 2024, Month: time.March}.Before(Month{Year: 2024, Month: time.March}))
}

func TestCurrent(t *testing.T) {
	now := time.Date(2026, time.October, 17, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2026-10", Current(now).String())
}
