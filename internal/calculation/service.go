package calculation

import (
	"context"
	"iter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lifeweeks/lifeweeks/internal/domain"
	"github.com/lifeweeks/lifeweeks/internal/platform/logger"
	"github.com/lifeweeks/lifeweeks/pkg/dateutil"
)

// CountryTable looks up life expectancy per country.
type CountryTable interface {
	Lookup(code string) (domain.CountryLifeExpectancyEntry, error)
}

// CountryResolver supplies a country code when the caller gives none.
type CountryResolver interface {
	DetectCountryCode(ctx context.Context) (string, error)
}

// ProjectionService turns a birth date and country into a projection and
// answers timeline and statistics queries over it. It holds no mutable
// state; persistence is left to the caller.
type ProjectionService struct {
	table    CountryTable
	resolver CountryResolver
	now      func() time.Time
	logger   logger.Logger
}

// ServiceOption customises a ProjectionService.
type ServiceOption func(*ProjectionService)

// WithNow overrides the service clock.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *ProjectionService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithServiceLogger attaches a logger.
func WithServiceLogger(l logger.Logger) ServiceOption {
	return func(s *ProjectionService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewProjectionService creates a service over the given table and resolver.
func NewProjectionService(table CountryTable, resolver CountryResolver, opts ...ServiceOption) *ProjectionService {
	s := &ProjectionService{
		table:    table,
		resolver: resolver,
		now:      time.Now,
		logger:   logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service's current time.
func (s *ProjectionService) Now() time.Time {
	return s.now()
}

// ComputeProjection derives a fresh projection. An empty countryCode is
// resolved through the resolver; resolver and lookup failures are returned
// unchanged.
func (s *ProjectionService) ComputeProjection(ctx context.Context, dateOfBirth time.Time, countryCode string) (domain.UserProjectionState, error) {
	now := s.now()
	if dateOfBirth.After(now) {
		return domain.UserProjectionState{}, domain.NewValidationError("date of birth %s is in the future", dateOfBirth.Format(time.DateOnly))
	}

	if countryCode == "" {
		if s.resolver == nil {
			return domain.UserProjectionState{}, domain.NewValidationError("country code is required when no locale resolver is configured")
		}
		code, err := s.resolver.DetectCountryCode(ctx)
		if err != nil {
			return domain.UserProjectionState{}, err
		}
		s.logger.Debugf("resolved country %s from locale", code)
		countryCode = code
	}

	entry, err := s.table.Lookup(countryCode)
	if err != nil {
		return domain.UserProjectionState{}, err
	}

	years := entry.YearsAtBirth
	deathDate := ProjectDeathDate(dateOfBirth, years)
	dob := dateOfBirth
	s.logger.Infof("projected %s for %s born %s (%.2f years)",
		deathDate.Format(time.DateOnly), countryCode, dob.Format(time.DateOnly), years)

	return domain.UserProjectionState{
		DateOfBirth:         &dob,
		CountryCode:         &countryCode,
		LifeExpectancyYears: &years,
		DeathDate:           &deathDate,
		LastCalculatedAt:    &now,
	}, nil
}

// RefreshIfNeeded recomputes the projection unless it is still fresh and
// force is false, in which case state is returned as is.
func (s *ProjectionService) RefreshIfNeeded(ctx context.Context, state domain.UserProjectionState, force bool) (domain.UserProjectionState, error) {
	if state.DateOfBirth == nil {
		return state, domain.NewValidationError("date of birth is not set")
	}
	if state.CountryCode == nil || *state.CountryCode == "" {
		return state, domain.NewValidationError("country code is not set")
	}
	if !force && state.IsCalculationFresh(s.now()) {
		s.logger.Debugf("projection calculated at %s is still fresh", state.LastCalculatedAt.Format(time.RFC3339))
		return state, nil
	}
	return s.ComputeProjection(ctx, *state.DateOfBirth, *state.CountryCode)
}

// WeeklyTimelineSeq returns the remaining weeks of state lazily. A nil
// startFrom means now.
func (s *ProjectionService) WeeklyTimelineSeq(state domain.UserProjectionState, startFrom *time.Time) (iter.Seq[domain.WeekSpan], error) {
	if err := requireTimeline(state); err != nil {
		return nil, err
	}
	from := s.now()
	if startFrom != nil {
		from = *startFrom
	}
	return GenerateWeeks(*state.DateOfBirth, *state.DeathDate, from), nil
}

// WeeklyTimeline collects the remaining weeks of state, at most maxWeeks of
// them when maxWeeks > 0.
func (s *ProjectionService) WeeklyTimeline(state domain.UserProjectionState, startFrom *time.Time, maxWeeks int) ([]domain.WeekSpan, error) {
	seq, err := s.WeeklyTimelineSeq(state, startFrom)
	if err != nil {
		return nil, err
	}
	return Take(seq, maxWeeks), nil
}

// Statistics summarises state relative to now.
func (s *ProjectionService) Statistics(state domain.UserProjectionState) (domain.ProjectionStats, error) {
	if err := requireTimeline(state); err != nil {
		return domain.ProjectionStats{}, err
	}
	return ComputeStatistics(*state.DateOfBirth, *state.DeathDate, s.now()), nil
}

func requireTimeline(state domain.UserProjectionState) error {
	if state.DateOfBirth == nil {
		return domain.NewValidationError("date of birth is not set")
	}
	if state.DeathDate == nil {
		return domain.NewValidationError("death date is not set; compute a projection first")
	}
	return nil
}

var hundred = decimal.NewFromInt(100)

// ComputeStatistics derives lived and remaining time between dateOfBirth and
// deathDate as of now. Day counts are whole calendar days.
func ComputeStatistics(dateOfBirth, deathDate, now time.Time) domain.ProjectionStats {
	totalDays := dateutil.DaysBetween(dateOfBirth, deathDate)
	daysLived := dateutil.DaysBetween(dateOfBirth, now)
	daysRemaining := max(0, dateutil.DaysBetween(now.In(dateOfBirth.Location()), deathDate))

	return domain.ProjectionStats{
		TotalDays:       totalDays,
		TotalWeeks:      dateutil.FloorDiv(totalDays, daysPerWeek),
		DaysLived:       daysLived,
		WeeksLived:      dateutil.FloorDiv(daysLived, daysPerWeek),
		DaysRemaining:   daysRemaining,
		WeeksRemaining:  daysRemaining / daysPerWeek,
		PercentageLived: percentageLived(daysLived, totalDays),
		CurrentAge:      dateutil.Age(dateOfBirth, now.In(dateOfBirth.Location())),
	}
}

// percentageLived is clamped to [0, 100] and rounded to two places.
func percentageLived(daysLived, totalDays int) decimal.Decimal {
	if totalDays <= 0 {
		if daysLived >= totalDays {
			return hundred
		}
		return decimal.Zero
	}
	pct := decimal.NewFromInt(int64(daysLived)).Div(decimal.NewFromInt(int64(totalDays))).Mul(hundred)
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct.Round(2)
}
