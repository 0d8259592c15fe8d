// Package config provides configuration loading for arret.
// Settings come from .arret/config.yaml (working directory first, then the
// home directory), then ARRET_* environment variables, optionally read from
// a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DirName is the per-project and per-user configuration directory.
	DirName = ".arret"
	// FileName is the configuration file inside DirName.
	FileName = "config.yaml"
	// DefaultNATSSubject is the subject change events are published on.
	DefaultNATSSubject = "arret.changes"
)

// Config represents the arret configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Save     SaveSettings   `yaml:"save"`
	Calendar CalendarConfig `yaml:"calendar"`
	NATS     NATSConfig     `yaml:"nats"`
	Watch    WatchConfig    `yaml:"watch"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	// Path is the database file; relative paths resolve against the config directory.
	Path string `yaml:"path" validate:"required"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
	// File enables a rotated log file in addition to stderr.
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

// SaveSettings configures the write-ahead queue.
type SaveSettings struct {
	// Debounce is the quiet period after the last edit before a flush.
	Debounce time.Duration `yaml:"debounce" validate:"gte=0"`
}

// CalendarConfig configures calendar refreshes.
type CalendarConfig struct {
	// RefreshDelay postpones the calendar refresh after a day adjustment.
	RefreshDelay time.Duration `yaml:"refresh_delay" validate:"gte=0"`
}

// NATSConfig configures the cross-session change feed.
type NATSConfig struct {
	// URL of the NATS server; empty disables the feed.
	URL     string `yaml:"url,omitempty" validate:"omitempty,url"`
	Subject string `yaml:"subject" validate:"required"`
}

// WatchConfig configures the IW37N file watcher.
type WatchConfig struct {
	// Path of the workbook to watch; may be overridden on the command line.
	Path     string        `yaml:"path,omitempty"`
	Debounce time.Duration `yaml:"debounce" validate:"gte=0"`
}

// envOverrides maps ARRET_* variables. Values stay strings so that an unset
// variable is distinguishable from a zero value.
type envOverrides struct {
	DatabasePath string `env:"ARRET_DB_PATH"`
	LogLevel     string `env:"ARRET_LOG_LEVEL"`
	LogFile      string `env:"ARRET_LOG_FILE"`
	SaveDebounce string `env:"ARRET_SAVE_DEBOUNCE"`
	NATSURL      string `env:"ARRET_NATS_URL"`
	NATSSubject  string `env:"ARRET_NATS_SUBJECT"`
	Development  string `env:"ARRET_LOG_DEVELOPMENT"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "arret.db"},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Save:     SaveSettings{Debounce: 1500 * time.Millisecond},
		Calendar: CalendarConfig{RefreshDelay: 100 * time.Millisecond},
		NATS:     NATSConfig{Subject: DefaultNATSSubject},
		Watch:    WatchConfig{Debounce: 2 * time.Second},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ValidateDate reports whether s is a YYYY-MM-DD date, using the same rule
// as configuration validation.
func ValidateDate(s string) error {
	if err := validate.Var(s, "required,isodate"); err != nil {
		return fmt.Errorf("%q is not a YYYY-MM-DD date", s)
	}
	return nil
}

// Path returns the config file path under dir.
func Path(dir string) string {
	return filepath.Join(dir, DirName, FileName)
}

// LoadConfig reads .arret/config.yaml from the specified directory.
// Missing fields keep their defaults.
func LoadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Database.Path = resolvePath(filepath.Join(dir, DirName), cfg.Database.Path)
	cfg.Log.File = resolvePath(filepath.Join(dir, DirName), cfg.Log.File)

	return cfg, nil
}

// SaveConfig writes config.yaml under dir/.arret.
func SaveConfig(dir string, cfg *Config) error {
	arretDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(arretDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(arretDir, FileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Resolve loads the effective configuration.
// Resolution order: cwd, then $HOME, then defaults (database under
// $HOME/.arret); environment overrides apply last.
func Resolve(cwd string) (*Config, string, error) {
	var (
		cfg    *Config
		source string
	)
	home, homeErr := os.UserHomeDir()

	candidates := []string{cwd}
	if homeErr == nil && home != cwd {
		candidates = append(candidates, home)
	}
	for _, dir := range candidates {
		loaded, err := LoadConfig(dir)
		if err == nil {
			cfg, source = loaded, Path(dir)
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}
	}

	if cfg == nil {
		if homeErr != nil {
			return nil, "", fmt.Errorf("failed to get home directory: %w", homeErr)
		}
		cfg = DefaultConfig()
		cfg.Database.Path = resolvePath(filepath.Join(home, DirName), cfg.Database.Path)
		source = "defaults"
	}

	if err := ApplyEnv(cfg, filepath.Join(cwd, ".env")); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, source, nil
}

// ApplyEnv loads dotenv (when it exists, without overriding variables that
// are already set) and applies ARRET_* overrides to cfg.
func ApplyEnv(cfg *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", dotenv, err)
		}
	}

	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if o.DatabasePath != "" {
		cfg.Database.Path = o.DatabasePath
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	if o.NATSURL != "" {
		cfg.NATS.URL = o.NATSURL
	}
	if o.NATSSubject != "" {
		cfg.NATS.Subject = o.NATSSubject
	}
	if o.SaveDebounce != "" {
		d, err := time.ParseDuration(o.SaveDebounce)
		if err != nil {
			return fmt.Errorf("invalid ARRET_SAVE_DEBOUNCE: %w", err)
		}
		cfg.Save.Debounce = d
	}
	if o.Development != "" {
		b, err := strconv.ParseBool(o.Development)
		if err != nil {
			return fmt.Errorf("invalid ARRET_LOG_DEVELOPMENT: %w", err)
		}
		cfg.Log.Development = b
	}
	return nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
