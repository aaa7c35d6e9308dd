package settings

import (
	"context"
	"errors"
	"time"

	"github.com/lifeweeks/lifeweeks/internal/domain"
)

// Setting keys used for the user's projection.
const (
	KeyDateOfBirth         = "date_of_birth"
	KeyDeathDate           = "death_date"
	KeyCountryCode         = "country_code"
	KeyLifeExpectancyYears = "life_expectancy_years"
	KeyLastCalculatedAt    = "last_calculated_at"
)

var projectionKeys = []string{
	KeyDateOfBirth,
	KeyDeathDate,
	KeyCountryCode,
	KeyLifeExpectancyYears,
	KeyLastCalculatedAt,
}

// ProjectionRepository maps a UserProjectionState onto individual settings.
type ProjectionRepository struct {
	store *Store
	loc   *time.Location
}

// NewProjectionRepository creates a repository over store. Dates of birth and
// death are stored as calendar days and restored as midnight in loc; the
// calculation timestamp is an instant converted to loc. A nil loc means
// time.Local.
func NewProjectionRepository(store *Store, loc *time.Location) *ProjectionRepository {
	if loc == nil {
		loc = time.Local
	}
	return &ProjectionRepository{store: store, loc: loc}
}

// Load reads the stored projection. Missing keys leave the field unset.
func (r *ProjectionRepository) Load(ctx context.Context) (domain.UserProjectionState, error) {
	var state domain.UserProjectionState
	var err error

	if state.DateOfBirth, err = r.optionalDate(ctx, KeyDateOfBirth); err != nil {
		return state, err
	}
	if state.DeathDate, err = r.optionalDate(ctx, KeyDeathDate); err != nil {
		return state, err
	}
	if state.LastCalculatedAt, err = r.optionalTime(ctx, KeyLastCalculatedAt); err != nil {
		return state, err
	}

	code, err := r.store.GetString(ctx, KeyCountryCode)
	switch {
	case err == nil:
		state.CountryCode = &code
	case !errors.Is(err, ErrNotFound):
		return state, err
	}

	years, err := r.store.GetFloat(ctx, KeyLifeExpectancyYears)
	switch {
	case err == nil:
		state.LifeExpectancyYears = &years
	case !errors.Is(err, ErrNotFound):
		return state, err
	}

	return state, nil
}

func (r *ProjectionRepository) optionalTime(ctx context.Context, key string) (*time.Time, error) {
	ts, err := r.store.GetTime(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ts = ts.In(r.loc)
	return &ts, nil
}

func (r *ProjectionRepository) optionalDate(ctx context.Context, key string) (*time.Time, error) {
	d, err := r.store.GetDate(ctx, key, r.loc)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Save writes every set field and deletes the keys of unset ones.
func (r *ProjectionRepository) Save(ctx context.Context, state domain.UserProjectionState) error {
	if err := r.putDate(ctx, KeyDateOfBirth, state.DateOfBirth); err != nil {
		return err
	}
	if err := r.putDate(ctx, KeyDeathDate, state.DeathDate); err != nil {
		return err
	}
	if err := r.putTime(ctx, KeyLastCalculatedAt, state.LastCalculatedAt); err != nil {
		return err
	}

	if state.CountryCode != nil {
		if err := r.store.SetString(ctx, KeyCountryCode, *state.CountryCode); err != nil {
			return err
		}
	} else if err := r.store.Delete(ctx, KeyCountryCode); err != nil {
		return err
	}

	if state.LifeExpectancyYears != nil {
		return r.store.SetFloat(ctx, KeyLifeExpectancyYears, *state.LifeExpectancyYears)
	}
	return r.store.Delete(ctx, KeyLifeExpectancyYears)
}

func (r *ProjectionRepository) putTime(ctx context.Context, key string, ts *time.Time) error {
	if ts == nil {
		return r.store.Delete(ctx, key)
	}
	return r.store.SetTime(ctx, key, *ts)
}

func (r *ProjectionRepository) putDate(ctx context.Context, key string, d *time.Time) error {
	if d == nil {
		return r.store.Delete(ctx, key)
	}
	return r.store.SetDate(ctx, key, *d)
}

// Clear removes every projection key.
func (r *ProjectionRepository) Clear(ctx context.Context) error {
	for _, key := range projectionKeys {
		if err := r.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
