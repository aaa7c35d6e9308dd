// Package lifeexpectancy serves life expectancy at birth per country from the
// bundled World Bank dataset.
package lifeexpectancy

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/lifeweeks/lifeweeks/internal/domain"
	"github.com/lifeweeks/lifeweeks/internal/platform/logger"
)

//go:embed data/life_expectancy.json
var bundledDataset []byte

// Source returns the raw bytes of a dataset document.
type Source func() ([]byte, error)

// EmbeddedSource reads the dataset compiled into the binary.
func EmbeddedSource() Source {
	return func() ([]byte, error) {
		if len(bundledDataset) == 0 {
			return nil, fs.ErrNotExist
		}
		return bundledDataset, nil
	}
}

// FileSource reads the dataset from a file on disk.
func FileSource(path string) Source {
	return func() ([]byte, error) {
		return os.ReadFile(path)
	}
}

// BytesSource serves a fixed document, mostly useful in tests.
func BytesSource(data []byte) Source {
	return func() ([]byte, error) {
		return data, nil
	}
}

// Metadata describes where the dataset came from.
type Metadata struct {
	Source         string    `json:"source"`
	Indicator      string    `json:"indicator"`
	GeneratedAt    time.Time `json:"generatedAt"`
	TotalCountries int       `json:"totalCountries"`
}

type datasetFile struct {
	Metadata  Metadata                 `json:"metadata"`
	Countries map[string]countryRecord `json:"countries"`
}

type countryRecord struct {
	Name           string  `json:"name"`
	ISO3           string  `json:"iso3"`
	LifeExpectancy float64 `json:"lifeExpectancy"`
	Year           int     `json:"year"`
	LastUpdated    string  `json:"lastUpdated"`
}

// Table is an immutable country → life expectancy lookup. It is loaded once
// and may be shared by concurrent readers afterwards.
type Table struct {
	source Source
	now    func() time.Time
	log    logger.Logger

	mu       sync.Mutex
	loaded   bool
	metadata Metadata
	entries  map[string]domain.CountryLifeExpectancyEntry
}

// Option customises a Table.
type Option func(*Table)

// WithLogger sets the logger used to report skipped entries.
func WithLogger(l logger.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.log = l
		}
	}
}

// WithClock sets the clock used to validate measurement years.
func WithClock(now func() time.Time) Option {
	return func(t *Table) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTable creates a table reading from src. Nothing is read until Load.
func NewTable(src Source, opts ...Option) *Table {
	t := &Table{
		source: src,
		now:    time.Now,
		log:    logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewBundledTable creates a table over the embedded dataset.
func NewBundledTable(opts ...Option) *Table {
	return NewTable(EmbeddedSource(), opts...)
}

// Load parses the dataset. Repeat calls after a successful load are no-ops;
// a failed load is retried on the next call.
func (t *Table) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded {
		return nil
	}

	if t.source == nil {
		return domain.NewDataSourceError("life expectancy dataset: no source configured")
	}
	data, err := t.source()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewDataSourceError("life expectancy dataset is missing: %v", err)
		}
		return domain.NewDataSourceError("failed to read life expectancy dataset: %v", err)
	}

	var doc datasetFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.NewDataSourceError("life expectancy dataset is not valid JSON: %v", err)
	}
	if doc.Countries == nil {
		return domain.NewDataSourceError("life expectancy dataset has no countries")
	}

	now := t.now()
	entries := make(map[string]domain.CountryLifeExpectancyEntry, len(doc.Countries))
	for code, rec := range doc.Countries {
		entry := domain.CountryLifeExpectancyEntry{
			CountryCode:     code,
			Name:            rec.Name,
			ISO3:            rec.ISO3,
			YearsAtBirth:    rec.LifeExpectancy,
			MeasurementYear: rec.Year,
			FetchedAt:       parseTimestamp(rec.LastUpdated, doc.Metadata.GeneratedAt),
		}
		if !entry.IsValid(now) {
			t.log.Warnf("skipping invalid life expectancy entry %q (years=%.2f, year=%d)", code, rec.LifeExpectancy, rec.Year)
			continue
		}
		entries[code] = entry
	}

	t.metadata = doc.Metadata
	t.entries = entries
	t.loaded = true
	t.log.Debugf("loaded %d life expectancy entries from %s", len(entries), doc.Metadata.Source)
	return nil
}

func parseTimestamp(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fallback
	}
	return ts
}

// Metadata returns the dataset metadata block.
func (t *Table) Metadata() (Metadata, error) {
	if err := t.Load(); err != nil {
		return Metadata{}, err
	}
	return t.metadata, nil
}

// Lookup returns the entry stored under code. Codes are matched exactly, so
// callers must pass the uppercase two-letter form.
func (t *Table) Lookup(code string) (domain.CountryLifeExpectancyEntry, error) {
	if err := t.Load(); err != nil {
		return domain.CountryLifeExpectancyEntry{}, err
	}
	entry, ok := t.entries[code]
	if !ok {
		return domain.CountryLifeExpectancyEntry{}, domain.NewNotFoundError("no life expectancy data for country %q", code)
	}
	return entry, nil
}

// LookupMany returns the entries for every code present in the table.
// Missing codes are left out of the result.
func (t *Table) LookupMany(codes []string) (map[string]domain.CountryLifeExpectancyEntry, error) {
	if err := t.Load(); err != nil {
		return nil, err
	}
	result := make(map[string]domain.CountryLifeExpectancyEntry, len(codes))
	for _, code := range codes {
		if entry, ok := t.entries[code]; ok {
			result[code] = entry
		}
	}
	return result, nil
}

// AllCountries returns every entry sorted by country code.
func (t *Table) AllCountries() ([]domain.CountryLifeExpectancyEntry, error) {
	if err := t.Load(); err != nil {
		return nil, err
	}
	all := make([]domain.CountryLifeExpectancyEntry, 0, len(t.entries))
	for _, entry := range t.entries {
		all = append(all, entry)
	}
	sortByCode(all)
	return all, nil
}

// Search returns entries whose name or code contains query, ignoring case.
func (t *Table) Search(query string) ([]domain.CountryLifeExpectancyEntry, error) {
	if err := t.Load(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	matches := []domain.CountryLifeExpectancyEntry{}
	for _, entry := range t.entries {
		if strings.Contains(strings.ToLower(entry.Name), q) || strings.Contains(strings.ToLower(entry.CountryCode), q) {
			matches = append(matches, entry)
		}
	}
	sortByCode(matches)
	return matches, nil
}

// Len returns the number of loaded entries.
func (t *Table) Len() (int, error) {
	if err := t.Load(); err != nil {
		return 0, fmt.Errorf("count countries: %w", err)
	}
	return len(t.entries), nil
}

func sortByCode(entries []domain.CountryLifeExpectancyEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].CountryCode < entries[j].CountryCode })
}
