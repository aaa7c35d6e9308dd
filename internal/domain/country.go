package domain

import (
	"strings"
	"time"
)

const (
	// MinMeasurementYear is the first year of the World Bank life expectancy series.
	MinMeasurementYear = 1960
	// MaxLifeExpectancyYears bounds any life expectancy figure the engine accepts.
	MaxLifeExpectancyYears = 150.0
	// FreshnessWindow is how long a computed value is considered current.
	FreshnessWindow = 30 * 24 * time.Hour
)

// CountryLifeExpectancyEntry is one row of the bundled life expectancy dataset
type CountryLifeExpectancyEntry struct {
	CountryCode     string    `json:"country_code"`
	Name            string    `json:"name"`
	ISO3            string    `json:"iso3"`
	YearsAtBirth    float64   `json:"years_at_birth"`
	MeasurementYear int       `json:"measurement_year"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// IsValid checks the entry against the dataset invariants as of now.
func (e CountryLifeExpectancyEntry) IsValid(now time.Time) bool {
	return ValidLifeExpectancy(e.YearsAtBirth) &&
		e.MeasurementYear >= MinMeasurementYear &&
		e.MeasurementYear <= now.Year() &&
		IsCountryCode(e.CountryCode)
}

// IsFresh reports whether the entry was fetched less than 30 days before now.
func (e CountryLifeExpectancyEntry) IsFresh(now time.Time) bool {
	return now.Sub(e.FetchedAt) < FreshnessWindow
}

// IsCountryCode reports whether code is a two-letter uppercase code.
func IsCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	return code == strings.ToUpper(code) && isLetter(code[0]) && isLetter(code[1])
}

// ValidLifeExpectancy reports whether years lies in (0, 150].
func ValidLifeExpectancy(years float64) bool {
	return years > 0 && years <= MaxLifeExpectancyYears
}

func isLetter(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
