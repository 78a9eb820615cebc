// Package config provides layered configuration for BrainVenture:
// defaults, then a YAML file, then .env and BRAINVENTURE_* variables, then
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/brainventure/internal/apperr"
	"github.com/abhisek/brainventure/internal/progress"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BRAINVENTURE_"

// Config is the complete application configuration.
type Config struct {
	// DataDir holds user_files/ and logs/. Empty means the XDG default.
	DataDir string `yaml:"data_dir"`
	// ContentDir overrides the embedded course content.
	ContentDir string `yaml:"content_dir"`
	// UserID selects the progress record while login is stubbed.
	UserID string `yaml:"user_id"`
	// TieBreaker is "random" or "priority".
	TieBreaker string    `yaml:"tie_breaker"`
	Log        LogConfig `yaml:"log"`
}

type LogConfig struct {
	// Mode is "dev" or "prod".
	Mode string `yaml:"mode"`
	// File overrides <DataDir>/logs/brainventure.log.
	File  string `yaml:"file"`
	Debug bool   `yaml:"debug"`
}

// Default returns a Config with defaults applied.
func Default() *Config {
	return &Config{
		UserID:     progress.DefaultUserID,
		TieBreaker: "random",
		Log:        LogConfig{Mode: "dev"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/brainventure/config.yaml, falling
// back to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "brainventure", "config.yaml"), nil
}

// Options controls where Load looks.
type Options struct {
	// Path is an explicit config file; it must exist when set.
	Path string
	// EnvFile is loaded into the environment if present. Defaults to ".env".
	EnvFile string
}

// Load builds the configuration from defaults, file and environment.
// Flags are applied afterwards by the caller via Merge.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		switch {
		case err == nil:
			cfg = fileCfg
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, apperr.Configuration("config_file", "Nie można wczytać pliku konfiguracji.", err).
				With("path", path)
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.Configuration("env_file", "Nie można wczytać pliku .env.", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes c as YAML, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"DATA_DIR":    &c.DataDir,
		"CONTENT_DIR": &c.ContentDir,
		"USER":        &c.UserID,
		"TIE_BREAKER": &c.TieBreaker,
		"LOG_MODE":    &c.Log.Mode,
		"LOG_FILE":    &c.Log.File,
	}
	for key, dst := range str {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv(EnvPrefix + "DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return apperr.Configuration("env_debug", EnvPrefix+"DEBUG musi mieć wartość true lub false.", err)
		}
		c.Log.Debug = b
	}
	return nil
}

// Merge overlays the non-zero fields of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
	if other.ContentDir != "" {
		c.ContentDir = other.ContentDir
	}
	if other.UserID != "" {
		c.UserID = other.UserID
	}
	if other.TieBreaker != "" {
		c.TieBreaker = other.TieBreaker
	}
	if other.Log.Mode != "" {
		c.Log.Mode = other.Log.Mode
	}
	if other.Log.File != "" {
		c.Log.File = other.Log.File
	}
	if other.Log.Debug {
		c.Log.Debug = true
	}
}

// Validate checks field values and resolves the data directory.
func (c *Config) Validate() error {
	if err := progress.ValidateUserID(c.UserID); err != nil {
		return err
	}
	switch c.TieBreaker {
	case "random", "priority":
	default:
		return apperr.Configuration("tie_breaker",
			fmt.Sprintf("Nieznana strategia rozstrzygania remisów: %q (dozwolone: random, priority).", c.TieBreaker), nil)
	}
	switch c.Log.Mode {
	case "dev", "prod":
	default:
		return apperr.Configuration("log_mode",
			fmt.Sprintf("Nieznany tryb logowania: %q (dozwolone: dev, prod).", c.Log.Mode), nil)
	}
	if c.DataDir == "" {
		dir, err := progress.DefaultDataDir()
		if err != nil {
			return apperr.Configuration("data_dir", "Nie można ustalić katalogu danych.", err)
		}
		c.DataDir = dir
	}
	return nil
}

// LogFile returns the log destination for interactive mode.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "logs", "brainventure.log")
}
