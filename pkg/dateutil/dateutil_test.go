package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestAgeCalculation tests the age calculation function with various scenarios
func TestAgeCalculation(t *testing.T) {
	tests := []struct {
		name        string
		birthDate   time.Time
		atDate      time.Time
		expectedAge int
	}{
		{
			name:        "Same month and day",
			birthDate:   time.Date(1965, 2, 25, 0, 0, 0, 0, time.UTC),
			atDate:      time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC),
			expectedAge: 60,
		},
		{
			name:        "Day before birthday",
			birthDate:   time.Date(1965, 2, 25, 0, 0, 0, 0, time.UTC),
			atDate:      time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC),
			expectedAge: 59,
		},
		{
			name:        "Month before birthday",
			birthDate:   time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC),
			atDate:      time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
			expectedAge: 35,
		},
		{
			name:        "Leap day birth on Feb 28",
			birthDate:   time.Date(1964, 2, 29, 0, 0, 0, 0, time.UTC),
			atDate:      time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
			expectedAge: 60,
		},
		{
			name:        "Leap day birth on Mar 1",
			birthDate:   time.Date(1964, 2, 29, 0, 0, 0, 0, time.UTC),
			atDate:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			expectedAge: 61,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedAge, Age(tt.birthDate, tt.atDate))
		})
	}
}

func TestISOWeekday(t *testing.T) {
	// 2026-10-12 is a Monday
	monday := time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i+1, ISOWeekday(monday.AddDate(0, 0, i)))
	}
}

func TestStartAndEndOfWeek(t *testing.T) {
	tests := []struct {
		name  string
		date  time.Time
		start time.Time
		end   time.Time
	}{
		{
			name:  "Monday morning",
			date:  time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC),
			start: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 10, 18, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:  "Sunday night",
			date:  time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC),
			start: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 10, 18, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:  "Week spanning year end",
			date:  time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
			start: time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 1, 4, 23, 59, 59, 999000000, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.start.Equal(StartOfWeek(tt.date)), "start: got %s", StartOfWeek(tt.date))
			assert.True(t, tt.end.Equal(EndOfWeek(tt.date)), "end: got %s", EndOfWeek(tt.date))
		})
	}
}

func TestStartOfWeekAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// DST ends on Sunday 2026-10-25 in Berlin
	sunday := time.Date(2026, 10, 25, 18, 0, 0, 0, loc)
	start := StartOfWeek(sunday)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, loc), start)
	assert.Equal(t, 0, start.Hour())
}

func TestDaysBetween(t *testing.T) {
	dob := time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysBetween(dob, dob))
	assert.Equal(t, 1, DaysBetween(dob, dob.Add(24*time.Hour)))
	assert.Equal(t, 0, DaysBetween(dob, dob.Add(23*time.Hour)))
	assert.Equal(t, -1, DaysBetween(dob, dob.Add(-time.Minute)))
	assert.Equal(t, 28672, DaysBetween(dob, AddDays(dob, 28672)))
}

func TestDaysBetweenIgnoresDSTHourShift(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	from := time.Date(2026, 3, 7, 0, 0, 0, 0, loc)
	to := time.Date(2026, 3, 9, 0, 0, 0, 0, loc)
	assert.Equal(t, 2, DaysBetween(from, to))
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 2, FloorDiv(14, 7))
	assert.Equal(t, 1, FloorDiv(13, 7))
	assert.Equal(t, 0, FloorDiv(0, 7))
	assert.Equal(t, -1, FloorDiv(-1, 7))
	assert.Equal(t, -1, FloorDiv(-7, 7))
	assert.Equal(t, -2, FloorDiv(-8, 7))
}
