// Package config loads the interpreter's YAML settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcarmo/go-wish/pkg/core/cmdline"
	"github.com/rcarmo/go-wish/pkg/core/jobs"
)

// Prompt modes.
const (
	PromptAlways = "always"
	PromptAuto   = "auto"
	PromptNever  = "never"
)

const (
	EnvConfig   = "WISH_CONFIG"
	EnvLogLevel = "WISH_LOG_LEVEL"
)

// Config is the full settings file.
type Config struct {
	Prompt            string    `yaml:"prompt"`
	PromptMode        string    `yaml:"prompt_mode"`
	MaxBackgroundJobs int       `yaml:"max_background_jobs"`
	MaxArgs           int       `yaml:"max_args"`
	NullDevice        string    `yaml:"null_device"`
	Log               LogConfig `yaml:"log"`

	// Source is the file the settings came from, or "" for defaults.
	Source string `yaml:"-"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Defaults returns the settings used when no file is present.
func Defaults() Config {
	return Config{
		Prompt:            ": ",
		PromptMode:        PromptAlways,
		MaxBackgroundJobs: jobs.DefaultCapacity,
		MaxArgs:           cmdline.DefaultMaxArgs,
		NullDevice:        os.DevNull,
		Log: LogConfig{
			Level: "WARN",
		},
	}
}

// Load reads path on top of Defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Source = path
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the first config file found in the search path. With no
// file it returns Defaults. An explicit $WISH_CONFIG must exist.
func Discover() (Config, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return Load(path)
	}
	for _, path := range searchPath() {
		cfg, err := Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	cfg := Defaults()
	cfg.applyEnv()
	return cfg, nil
}

func searchPath() []string {
	var paths []string
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		paths = append(paths, filepath.Join(dir, "wish", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "wish", "config.yaml"))
	}
	return paths
}

func (c *Config) applyEnv() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.PromptMode {
	case PromptAlways, PromptAuto, PromptNever:
	default:
		return fmt.Errorf("prompt_mode must be %s, %s or %s, got %q", PromptAlways, PromptAuto, PromptNever, c.PromptMode)
	}
	if c.MaxBackgroundJobs < 1 {
		return fmt.Errorf("max_background_jobs must be positive, got %d", c.MaxBackgroundJobs)
	}
	if c.MaxArgs < 1 {
		return fmt.Errorf("max_args must be positive, got %d", c.MaxArgs)
	}
	if c.NullDevice == "" {
		return errors.New("null_device must not be empty")
	}
	switch strings.ToUpper(c.Log.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("log.level must be DEBUG, INFO, WARN or ERROR, got %q", c.Log.Level)
	}
	return nil
}
