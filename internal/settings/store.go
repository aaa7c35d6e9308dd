// Package settings persists typed key/value settings.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("settings: key not found")

// KV is a raw string key/value backend.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Store layers typed accessors over a KV backend. Values are stored as text:
// booleans as "true"/"false", numbers in their shortest decimal form and
// timestamps as RFC 3339 with nanoseconds.
type Store struct {
	kv KV
}

// New wraps kv in a typed store.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) GetString(ctx context.Context, key string) (string, error) {
	return s.kv.Get(ctx, key)
}

func (s *Store) SetString(ctx context.Context, key, value string) error {
	return s.kv.Put(ctx, key, value)
}

func (s *Store) GetBool(ctx context.Context, key string) (bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("settings: %s is not a bool: %w", key, err)
	}
	return v, nil
}

func (s *Store) SetBool(ctx context.Context, key string, value bool) error {
	return s.kv.Put(ctx, key, strconv.FormatBool(value))
}

func (s *Store) GetInt(ctx context.Context, key string) (int64, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("settings: %s is not an integer: %w", key, err)
	}
	return v, nil
}

func (s *Store) SetInt(ctx context.Context, key string, value int64) error {
	return s.kv.Put(ctx, key, strconv.FormatInt(value, 10))
}

func (s *Store) GetFloat(ctx context.Context, key string) (float64, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("settings: %s is not a number: %w", key, err)
	}
	return v, nil
}

func (s *Store) SetFloat(ctx context.Context, key string, value float64) error {
	return s.kv.Put(ctx, key, strconv.FormatFloat(value, 'g', -1, 64))
}

func (s *Store) GetTime(ctx context.Context, key string) (time.Time, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return time.Time{}, err
	}
	v, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("settings: %s is not a timestamp: %w", key, err)
	}
	return v, nil
}

func (s *Store) SetTime(ctx context.Context, key string, value time.Time) error {
	return s.kv.Put(ctx, key, value.Format(time.RFC3339Nano))
}

// GetDate reads a calendar date stored by SetDate as midnight in loc.
func (s *Store) GetDate(ctx context.Context, key string, loc *time.Location) (time.Time, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return time.Time{}, err
	}
	v, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("settings: %s is not a date: %w", key, err)
	}
	return v, nil
}

// SetDate stores the calendar date of value in value's own location, so the
// day survives a change of time zone between save and load.
func (s *Store) SetDate(ctx context.Context, key string, value time.Time) error {
	return s.kv.Put(ctx, key, value.Format(time.DateOnly))
}

// Delete removes key; deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, key)
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// MemoryKV is an in-process KV for tests and ephemeral runs.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV returns an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryKV) Close() error { return nil }
