package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserProjectionState is the persisted projection for the single app user.
// Every field is optional; a zero value is a user who has not set anything up.
type UserProjectionState struct {
	DateOfBirth         *time.Time `json:"date_of_birth,omitempty"`
	CountryCode         *string    `json:"country_code,omitempty"`
	LifeExpectancyYears *float64   `json:"life_expectancy_years,omitempty"`
	DeathDate           *time.Time `json:"death_date,omitempty"`
	LastCalculatedAt    *time.Time `json:"last_calculated_at,omitempty"`
}

// HasBasicSetup reports whether both date of birth and country are known.
func (s UserProjectionState) HasBasicSetup() bool {
	return s.DateOfBirth != nil && s.CountryCode != nil && *s.CountryCode != ""
}

// IsCalculationFresh reports whether the projection was calculated less than
// 30 days before now.
func (s UserProjectionState) IsCalculationFresh(now time.Time) bool {
	if s.LastCalculatedAt == nil {
		return false
	}
	return now.Sub(*s.LastCalculatedAt) < FreshnessWindow
}

// IsValid reports whether Validate would succeed.
func (s UserProjectionState) IsValid(now time.Time) bool {
	return s.Validate(now) == nil
}

// Validate returns a validation error naming the first broken invariant.
func (s UserProjectionState) Validate(now time.Time) error {
	if s.DateOfBirth != nil && s.DateOfBirth.After(now) {
		return NewValidationError("date of birth %s is in the future", s.DateOfBirth.Format(time.DateOnly))
	}
	if s.DateOfBirth != nil && s.DeathDate != nil && s.DeathDate.Before(*s.DateOfBirth) {
		return NewValidationError("death date %s is before date of birth %s",
			s.DeathDate.Format(time.DateOnly), s.DateOfBirth.Format(time.DateOnly))
	}
	if s.LifeExpectancyYears != nil && !ValidLifeExpectancy(*s.LifeExpectancyYears) {
		return NewValidationError("life expectancy %.2f must be in (0, %.0f]", *s.LifeExpectancyYears, MaxLifeExpectancyYears)
	}
	return nil
}

// WeekSpan is one Monday-to-Sunday week of the remaining-life timeline.
type WeekSpan struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	WeekIndex int       `json:"week_index"`
	IsPast    bool      `json:"is_past"`
	IsCurrent bool      `json:"is_current"`
}

// ProjectionStats summarises a projection relative to a point in time.
type ProjectionStats struct {
	TotalDays       int             `json:"total_days"`
	TotalWeeks      int             `json:"total_weeks"`
	DaysLived       int             `json:"days_lived"`
	WeeksLived      int             `json:"weeks_lived"`
	DaysRemaining   int             `json:"days_remaining"`
	WeeksRemaining  int             `json:"weeks_remaining"`
	PercentageLived decimal.Decimal `json:"percentage_lived"`
	CurrentAge      int             `json:"current_age"`
}
