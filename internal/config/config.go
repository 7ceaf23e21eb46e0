// Package config loads billbook.yaml and the environment overrides that sit
// on top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside a project directory.
const FileName = "billbook.yaml"

// EnvFileName is the optional dotenv file next to FileName.
const EnvFileName = ".env"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config represents the top-level billbook.yaml configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Display   DisplayConfig   `yaml:"display"`
	Reminders RemindersConfig `yaml:"reminders"`
	Log       LogConfig       `yaml:"log"`
}

// StorageConfig selects where the bill and expense blobs live.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path"`    // relative to the project directory
}

// DisplayConfig controls how amounts are printed.
type DisplayConfig struct {
	Locale   string `yaml:"locale"`   // BCP 47, e.g. "tr"
	Currency string `yaml:"currency"` // appended after amounts
}

// RemindersConfig controls the upcoming-bills list.
type RemindersConfig struct {
	UpcomingDays int `yaml:"upcoming_days"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a billbook.yaml file from disk. Missing fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadDir loads the configuration of a project directory: billbook.yaml if
// present (defaults otherwise), then .env, then the process environment.
// The result is validated.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	dotenv, err := godotenv.Read(filepath.Join(dir, EnvFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", EnvFileName, err)
	}

	if err := cfg.ApplyEnv(envLookup(dotenv)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "data",
		},
		Display: DisplayConfig{
			Locale:   "tr",
			Currency: "TL",
		},
		Reminders: RemindersConfig{
			UpcomingDays: 3,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("BILLBOOK_STORAGE_BACKEND"); ok && v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := lookup("BILLBOOK_STORAGE_PATH"); ok && v != "" {
		c.Storage.Path = v
	}
	if v, ok := lookup("BILLBOOK_LOCALE"); ok && v != "" {
		c.Display.Locale = v
	}
	if v, ok := lookup("BILLBOOK_CURRENCY"); ok {
		c.Display.Currency = v
	}
	if v, ok := lookup("BILLBOOK_UPCOMING_DAYS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BILLBOOK_UPCOMING_DAYS %q: %w", v, err)
		}
		c.Reminders.UpcomingDays = n
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		problems = append(problems, fmt.Sprintf("invalid storage backend %q: must be %q or %q", c.Storage.Backend, BackendFile, BackendSQLite))
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		problems = append(problems, "storage path cannot be empty")
	}

	if _, err := language.Parse(c.Display.Locale); err != nil {
		problems = append(problems, fmt.Sprintf("invalid display locale %q: %v", c.Display.Locale, err))
	}

	if c.Reminders.UpcomingDays < 0 {
		problems = append(problems, fmt.Sprintf("invalid upcoming_days %d: must not be negative", c.Reminders.UpcomingDays))
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// StoragePath resolves the storage path against the project directory.
func (c *Config) StoragePath(dir string) string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(dir, c.Storage.Path)
}

// envLookup checks the process environment first, then the dotenv values,
// so real environment variables win over .env.
func envLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}
