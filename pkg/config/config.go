package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// Config holds the settings read from config.ini
type Config struct {
	ProbeTimeout   time.Duration
	ArchiveBackend string
	ArchiveTimeout time.Duration
	LogLevel       string
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		ProbeTimeout:   DefaultProbeTimeout,
		ArchiveBackend: DefaultArchiveBackend,
		ArchiveTimeout: DefaultArchiveTimeout,
		LogLevel:       DefaultLogLevel,
	}
}

func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(LocalConfigDir, LocalConfigFile)
	}
	return filepath.Join(homeDir, LocalConfigDir, LocalConfigFile)
}

// LoadConfig reads path, or the default location when path is empty.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	detect := file.Section("detect")
	if config.ProbeTimeout, err = durationKey(detect, "probe_timeout", DefaultProbeTimeout); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	archive := file.Section("archive")
	config.ArchiveBackend = strings.ToLower(archive.Key("backend").MustString(DefaultArchiveBackend))
	if config.ArchiveTimeout, err = durationKey(archive, "timeout", DefaultArchiveTimeout); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	config.LogLevel = strings.ToLower(file.Section("log").Key("level").MustString(DefaultLogLevel))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

// durationKey reads a Go duration such as "30s". An absent or empty key gives def;
// a value without a unit is an error rather than a silent fallback.
func durationKey(sec *ini.Section, name string, def time.Duration) (time.Duration, error) {
	if !sec.HasKey(name) || sec.Key(name).String() == "" {
		return def, nil
	}
	d, err := sec.Key(name).Duration()
	if err != nil {
		return 0, fmt.Errorf("[%s] %s: %w", sec.Name(), name, err)
	}
	return d, nil
}

// Validate checks the values a config file may carry
func (c *Config) Validate() error {
	switch c.ArchiveBackend {
	case "native", "command":
	default:
		return fmt.Errorf("unsupported archive backend: %s", c.ArchiveBackend)
	}

	if c.ProbeTimeout < 0 || c.ArchiveTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("unsupported log level: %s", c.LogLevel)
	}

	return nil
}

func (c *Config) SaveConfig(path string) error {
	if path == "" {
		path = GetConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, PermDirectory); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file := ini.Empty()
	file.Section("detect").Key("probe_timeout").SetValue(c.ProbeTimeout.String())
	file.Section("archive").Key("backend").SetValue(c.ArchiveBackend)
	file.Section("archive").Key("timeout").SetValue(c.ArchiveTimeout.String())
	file.Section("log").Key("level").SetValue(c.LogLevel)

	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(path, PermConfigFile); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}
