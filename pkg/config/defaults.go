package config

import "time"

// Timeouts & Durations
const (
	// DefaultProbeTimeout bounds a single archive listing made during detection
	DefaultProbeTimeout = 30 * time.Second

	// DefaultArchiveTimeout bounds pack and unpack runs of the archive backend
	DefaultArchiveTimeout = 2 * time.Minute
)

// File Permissions
const (
	// PermDirectory is the file permission for directories
	PermDirectory = 0755

	// PermConfigFile is the file permission for config files
	PermConfigFile = 0644
)

// Path Constants - Local
const (
	// LocalConfigDir is the base directory for appdetect configuration
	LocalConfigDir = ".appdetect"

	// LocalConfigFile is the filename for the main config
	LocalConfigFile = "config.ini"
)

// Default Values
const (
	// DefaultArchiveBackend is the archive implementation used when none is configured
	DefaultArchiveBackend = "native"

	// DefaultLogLevel is the log level used when none is configured
	DefaultLogLevel = "info"
)
