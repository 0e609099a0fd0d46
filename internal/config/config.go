package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTarget is the marketing tag stripped when no target is configured
const DefaultTarget = "【同步更新微信api315全部课程9.9】"

type LoggingCfg struct {
	File         string `yaml:"file" json:"file"`                   // Optional log file, stderr is always written
	RotationDays int    `yaml:"rotation_days" json:"rotation_days"` // Days to keep logs before rotation
}

type Config struct {
	Target          string     `yaml:"target" json:"target"`
	ContinueOnError bool       `yaml:"continue_on_error" json:"continue_on_error"` // false = abort on first rename failure
	DatabasePath    string     `yaml:"database_path" json:"database_path"`         // Path to SQLite rename history, empty disables it
	MetricsTextfile string     `yaml:"metrics_textfile" json:"metrics_textfile"`   // node_exporter textfile output, empty disables it
	Logging         LoggingCfg `yaml:"logging" json:"logging"`
}

var (
	errEmptyTarget     = errors.New("target must not be empty")
	errTargetSeparator = errors.New("target must not contain a path separator")
	errInvalidPath     = errors.New("path must not be empty")
)

// Default returns the configuration used when no config file is given
func Default() *Config {
	cfg := &Config{Target: DefaultTarget}
	// Defaults cannot fail validation.
	_ = cfg.validateAndDefault()
	return cfg
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(cfg); err != nil {
		// An empty file is a valid, all-defaults config
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

// Override applies command-line values on top of the loaded config and
// re-validates the result
func (c *Config) Override(target string, continueOnError bool) error {
	if target != "" {
		c.Target = target
	}
	if continueOnError {
		c.ContinueOnError = true
	}
	return c.validateAndDefault()
}

func (c *Config) validateAndDefault() error {
	if c.Target == "" {
		c.Target = DefaultTarget
	}
	if strings.TrimSpace(c.Target) == "" {
		return errEmptyTarget
	}
	if strings.ContainsRune(c.Target, '/') || strings.ContainsRune(c.Target, filepath.Separator) {
		return fmt.Errorf("%w: %q", errTargetSeparator, c.Target)
	}

	if c.Logging.RotationDays <= 0 {
		c.Logging.RotationDays = 30 // Default: keep logs for 30 days
	}

	if c.DatabasePath != "" {
		p, err := cleanPath(c.DatabasePath)
		if err != nil {
			return fmt.Errorf("database_path: %w", err)
		}
		c.DatabasePath = p
	}
	if c.MetricsTextfile != "" {
		p, err := cleanPath(c.MetricsTextfile)
		if err != nil {
			return fmt.Errorf("metrics_textfile: %w", err)
		}
		c.MetricsTextfile = p
	}
	if c.Logging.File != "" {
		p, err := cleanPath(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = p
	}

	return nil
}

func cleanPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errInvalidPath
	}
	return filepath.Clean(p), nil
}
