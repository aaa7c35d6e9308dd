// Package locale maps the running environment's locale to a country code.
package locale

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/lifeweeks/lifeweeks/internal/domain"
)

// ErrUndetectable is returned when no country can be derived from the locale.
var ErrUndetectable = errors.New("locale: unable to detect country code")

// Resolver detects the user's two-letter country code.
type Resolver interface {
	DetectCountryCode(ctx context.Context) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context) (string, error)

func (f ResolverFunc) DetectCountryCode(ctx context.Context) (string, error) { return f(ctx) }

// StaticResolver always answers with the same code.
type StaticResolver string

func (s StaticResolver) DetectCountryCode(context.Context) (string, error) {
	if s == "" {
		return "", ErrUndetectable
	}
	return string(s), nil
}

// envKeys are consulted in POSIX precedence order.
var envKeys = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// EnvResolver reads the POSIX locale variables, e.g. LANG=en_US.UTF-8 → "US".
type EnvResolver struct {
	Getenv func(string) string
}

// NewEnvResolver returns a resolver backed by the process environment.
func NewEnvResolver() EnvResolver {
	return EnvResolver{Getenv: os.Getenv}
}

func (r EnvResolver) DetectCountryCode(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range envKeys {
		value := getenv(key)
		if value == "" {
			continue
		}
		if code, ok := CountryFromLocale(value); ok {
			return code, nil
		}
		// The first non-empty variable wins, even when it carries no region.
		return "", ErrUndetectable
	}
	return "", ErrUndetectable
}

// CountryFromLocale extracts the region of a locale tag such as "en_US.UTF-8",
// "pt-BR" or "de_DE@euro".
func CountryFromLocale(tag string) (string, bool) {
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}
	parts := strings.FieldsFunc(tag, func(r rune) bool { return r == '_' || r == '-' })
	if len(parts) < 2 {
		return "", false
	}
	for _, part := range parts[1:] {
		code := strings.ToUpper(part)
		if domain.IsCountryCode(code) {
			return code, true
		}
	}
	return "", false
}
