package config

import (
	"github.com/nibzard/todolist/internal/appdir"
	"github.com/nibzard/todolist/internal/todo"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
	// Unknown lists keys found in config files that no field consumes.
	Unknown []string
}

// Default values.
const (
	DefaultDataFile    = appdir.DefaultDataFile
	DefaultLogDir      = "~/" + appdir.Dir
	DefaultActivityLog = true
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// DefaultCategories returns the categories offered when none are configured.
func DefaultCategories() []string {
	return append([]string(nil), todo.DefaultCategories...)
}

// Config holds the full configuration for todolist.
type Config struct {
	// Paths
	DataFile   string `toml:"data_file"`
	SchemaFile string `toml:"schema_file"` // Empty uses the embedded schema
	LogDir     string `toml:"log_dir"`

	// Categories offered by the form; the first is the default.
	Categories []string `toml:"categories"`

	// Record every mutation in a rotated JSONL journal under LogDir.
	ActivityLog bool `toml:"activity_log"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// DefaultCategory returns the category used when none is given.
func (c *Config) DefaultCategory() string {
	if len(c.Categories) == 0 {
		return todo.DefaultCategories[0]
	}
	return c.Categories[0]
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_file",
		"schema_file",
		"log_dir",
		"categories",
		"activity_log",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
