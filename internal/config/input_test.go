package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParser(t *testing.T) (*InputParser, string) {
	t.Helper()
	home := t.TempDir()
	return &InputParser{homeDir: func() (string, error) { return home, nil }}, home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lifeweeks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewInputParser(t *testing.T) {
	assert.NotNil(t, NewInputParser())
}

func TestLoadDefaults(t *testing.T) {
	parser, home := testParser(t)
	config, err := parser.Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".lifeweeks", "settings.db"), config.DatabasePath)
	assert.Equal(t, 52, config.MaxWeeks)
	assert.Equal(t, "warn", config.LogLevel)
	assert.Equal(t, "console", config.OutputFormat)
	assert.Empty(t, config.DatasetPath)
	assert.Empty(t, config.DefaultCountry)
}

func TestLoadFromFile_Success(t *testing.T) {
	path := writeConfig(t, "database_path: /tmp/lifeweeks-test.db\n"+
		"default_country: gb\n"+
		"max_weeks: 10\n"+
		"log_level: debug\n"+
		"output_format: json\n")

	parser, _ := testParser(t)
	config, err := parser.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/lifeweeks-test.db", config.DatabasePath)
	assert.Equal(t, "GB", config.DefaultCountry)
	assert.Equal(t, 10, config.MaxWeeks)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "json", config.OutputFormat)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	parser, _ := testParser(t)
	config, err := parser.Load(filepath.Join(t.TempDir(), "nonexistent_file.yaml"))
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "max_weeks: [unclosed\n")
	parser, _ := testParser(t)
	_, err := parser.Load(path)
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "max_weeks: 10\noutput_format: json\n")
	t.Setenv("LIFEWEEKS_MAX_WEEKS", "4")
	t.Setenv("LIFEWEEKS_DEFAULT_COUNTRY", "jp")
	t.Setenv("LIFEWEEKS_DATABASE_PATH", "/var/tmp/override.db")

	parser, _ := testParser(t)
	config, err := parser.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, config.MaxWeeks)
	assert.Equal(t, "JP", config.DefaultCountry)
	assert.Equal(t, "/var/tmp/override.db", config.DatabasePath)
	assert.Equal(t, "json", config.OutputFormat, "file value survives when env is unset")
}

func TestEnvironmentOverrideBadNumber(t *testing.T) {
	t.Setenv("LIFEWEEKS_MAX_WEEKS", "many")
	parser, _ := testParser(t)
	_, err := parser.Load("")
	assert.ErrorContains(t, err, "environment overrides")
}

func TestValidateConfiguration(t *testing.T) {
	parser, _ := testParser(t)

	tests := []struct {
		name    string
		mutate  func(*Configuration)
		wantErr string
	}{
		{name: "valid", mutate: func(*Configuration) {}},
		{name: "empty database path", mutate: func(c *Configuration) { c.DatabasePath = " " }, wantErr: "database path"},
		{name: "negative max weeks", mutate: func(c *Configuration) { c.MaxWeeks = -1 }, wantErr: "max weeks"},
		{name: "three letter country", mutate: func(c *Configuration) { c.DefaultCountry = "USA" }, wantErr: "two-letter"},
		{name: "bad log level", mutate: func(c *Configuration) { c.LogLevel = "shouty" }, wantErr: "log level"},
		{name: "bad format", mutate: func(c *Configuration) { c.OutputFormat = "pdf" }, wantErr: "unknown output format"},
		{name: "format alias", mutate: func(c *Configuration) { c.OutputFormat = "json-pretty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := parser.Default()
			require.NoError(t, err)
			tt.mutate(config)
			err = parser.ValidateConfiguration(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
