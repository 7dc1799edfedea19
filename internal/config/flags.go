package config

import (
	"flag"
	"strings"

	"github.com/nibzard/todolist/internal/utils"
)

// parseFlags defines the global flags on fs, parses args, and applies
// only the flags that were set. If sources is non-nil, it tracks the
// source of each applied value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todolist", flag.ContinueOnError)
	}

	dataFile := fs.String("data", cfg.DataFile, "Path to tasks file")
	schemaFile := fs.String("schema", cfg.SchemaFile, "Path to an external JSON Schema for the tasks file")
	logDir := fs.String("log-dir", cfg.LogDir, "Log directory")
	categories := fs.String("categories", strings.Join(cfg.Categories, ","), "Comma-separated categories; the first is the default")
	activityLog := fs.Bool("activity-log", cfg.ActivityLog, "Record every change in the activity log")

	// Logging
	logLevel := fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	logTimestamps := fs.Bool("log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	logCaller := fs.Bool("log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"data":           "data_file",
		"schema":         "schema_file",
		"log-dir":        "log_dir",
		"categories":     "categories",
		"activity-log":   "activity_log",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"log-caller":     "log_caller",
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.DataFile = *dataFile
		case "schema":
			cfg.SchemaFile = *schemaFile
		case "log-dir":
			cfg.LogDir = *logDir
		case "categories":
			cfg.Categories = utils.SplitAndTrim(*categories, ",")
		case "activity-log":
			cfg.ActivityLog = *activityLog
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		case "log-timestamps":
			cfg.LogTimestamps = *logTimestamps
		case "log-caller":
			cfg.LogCaller = *logCaller
		default:
			return
		}
		if sources != nil {
			sources[flagToSource[f.Name]] = SourceFlag
		}
	})

	return nil
}
