package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeweeks/lifeweeks/internal/domain"
)

type harness struct {
	t      *testing.T
	db     string
	now    time.Time
	env    map[string]string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return &harness{
		t:   t,
		db:  filepath.Join(t.TempDir(), "settings.db"),
		now: time.Date(2026, 10, 14, 12, 0, 0, 0, time.Local),
		env: map[string]string{},
	}
}

func (h *harness) run(args ...string) error {
	h.stdout.Reset()
	h.stderr.Reset()
	a := &app{
		stdout: &h.stdout,
		stderr: &h.stderr,
		now:    func() time.Time { return h.now },
		env:    func(k string) string { return h.env[k] },
	}
	return a.run(append([]string{"--db", h.db}, args...))
}

func (h *harness) jsonOutput() map[string]any {
	h.t.Helper()
	var decoded map[string]any
	require.NoError(h.t, json.Unmarshal(h.stdout.Bytes(), &decoded), h.stdout.String())
	return decoded
}

func TestProjectStoresState(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("project", "--dob", "1990-05-15", "--country", "us", "--format", "json"))

	out := h.jsonOutput()
	state := out["state"].(map[string]any)
	assert.Equal(t, "US", state["country_code"])
	assert.InDelta(t, 77.43, state["life_expectancy_years"], 1e-9)
	assert.True(t, strings.HasPrefix(state["death_date"].(string), "2067-10-19"), state["death_date"])

	stats := out["stats"].(map[string]any)
	assert.EqualValues(t, 28281, stats["total_days"])
	assert.EqualValues(t, 36, stats["current_age"])

	require.NoError(t, h.run("show", "--format", "json"))
	shown := h.jsonOutput()["state"].(map[string]any)
	assert.Equal(t, state["death_date"], shown["death_date"])
}

func TestProjectUsesLocaleWhenCountryOmitted(t *testing.T) {
	h := newHarness(t)
	h.env["LANG"] = "ja_JP.UTF-8"
	require.NoError(t, h.run("project", "--dob", "1990-05-15", "--format", "json"))
	state := h.jsonOutput()["state"].(map[string]any)
	assert.Equal(t, "JP", state["country_code"])
}

func TestProjectErrors(t *testing.T) {
	h := newHarness(t)

	err := h.run("project", "--dob", "15/05/1990", "--country", "US")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = h.run("project", "--dob", "2030-01-01", "--country", "US")
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = h.run("project", "--dob", "1990-05-15", "--country", "XX")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = h.run("project", "--country", "US")
	assert.Error(t, err)
}

func TestProjectUndetectableLocale(t *testing.T) {
	h := newHarness(t)
	h.env["LANG"] = "C.UTF-8"
	err := h.run("project", "--dob", "1990-05-15")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "--country")
}

func TestRecalculated(t *testing.T) {
	at := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	sameInstant := at.In(time.FixedZone("CEST", 2*3600))
	later := at.Add(time.Hour)

	tests := []struct {
		name          string
		before, after *time.Time
		want          bool
	}{
		{"both unset", nil, nil, false},
		{"first calculation", nil, &at, true},
		{"same instant in another zone", &at, &sameInstant, false},
		{"recomputed", &at, &later, true},
		{"after unset", &at, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := domain.UserProjectionState{LastCalculatedAt: tt.before}
			after := domain.UserProjectionState{LastCalculatedAt: tt.after}
			assert.Equal(t, tt.want, recalculated(before, after))
		})
	}
}

func TestTimelineAfterProject(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("project", "--dob", "1990-05-15", "--country", "US"))

	require.NoError(t, h.run("timeline", "--max-weeks", "3", "--format", "csv"))
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "WeekIndex,StartDate,EndDate,IsCurrent", lines[0])
	assert.Contains(t, lines[1], ",2026-10-12,2026-10-18,true")
	assert.Contains(t, lines[2], ",2026-10-19,2026-10-25,false")

	require.NoError(t, h.run("timeline", "--from", "2067-10-01", "--max-weeks", "0", "--format", "json"))
	weeks := h.jsonOutput()["weeks"].([]any)
	assert.NotEmpty(t, weeks)
	assert.LessOrEqual(t, len(weeks), 4)
}

func TestTimelineWithoutProjection(t *testing.T) {
	h := newHarness(t)
	err := h.run("timeline")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStatsConsole(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("project", "--dob", "1990-05-15", "--country", "US"))
	require.NoError(t, h.run("stats"))
	assert.Contains(t, h.stdout.String(), "STATISTICS")
	assert.Contains(t, h.stdout.String(), "Current age:       36")
	assert.NotContains(t, h.stdout.String(), "LIFE PROJECTION")
}

func TestRefresh(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("project", "--dob", "1990-05-15", "--country", "US", "--format", "json"))
	first := h.jsonOutput()["state"].(map[string]any)["last_calculated_at"]

	h.now = h.now.Add(10 * 24 * time.Hour)
	require.NoError(t, h.run("refresh", "--format", "json"))
	assert.Equal(t, first, h.jsonOutput()["state"].(map[string]any)["last_calculated_at"])

	require.NoError(t, h.run("refresh", "--force", "--format", "json"))
	forced := h.jsonOutput()["state"].(map[string]any)["last_calculated_at"]
	assert.NotEqual(t, first, forced)

	h.now = h.now.Add(31 * 24 * time.Hour)
	require.NoError(t, h.run("refresh", "--format", "json"))
	assert.NotEqual(t, forced, h.jsonOutput()["state"].(map[string]any)["last_calculated_at"])
}

func TestCountries(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("countries", "--search", "japan"))
	assert.Contains(t, h.stdout.String(), "COUNTRIES (1)")
	assert.Contains(t, h.stdout.String(), "JP")

	require.NoError(t, h.run("countries", "--code", "us,jp,zz", "--format", "json"))
	countries := h.jsonOutput()["countries"].([]any)
	assert.Len(t, countries, 2)

	require.NoError(t, h.run("countries", "--search", "atlantis"))
	assert.Equal(t, "no matching countries\n", h.stdout.String())

	require.NoError(t, h.run("countries", "--format", "json"))
	assert.Greater(t, len(h.jsonOutput()["countries"].([]any)), 40)
}

func TestResetClearsState(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("project", "--dob", "1990-05-15", "--country", "US"))
	require.NoError(t, h.run("reset"))
	assert.Equal(t, "projection cleared\n", h.stdout.String())

	require.NoError(t, h.run("show"))
	assert.Contains(t, h.stdout.String(), "Date of birth:     not set")
	assert.NotContains(t, h.stdout.String(), "STATISTICS")
}

func TestUnknownFormat(t *testing.T) {
	h := newHarness(t)
	err := h.run("show", "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}
