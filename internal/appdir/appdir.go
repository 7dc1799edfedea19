// Package appdir provides constants and utilities for the per-user
// .todolist directory structure.
package appdir

import "path/filepath"

const (
	// Dir is the name of the todolist state directory.
	Dir = ".todolist"

	// DefaultDataFile is the default tasks file name.
	DefaultDataFile = "tasks.json"

	// DefaultConfigFile is the config file name, both inside Dir and in
	// a project directory.
	DefaultConfigFile = "todolist.toml"
)

// DirPath returns the .todolist directory under home.
func DirPath(home string) string {
	if home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// ConfigPath returns the user config file path under home.
func ConfigPath(home string) string {
	return filepath.Join(DirPath(home), DefaultConfigFile)
}

// HiddenConfigFile returns the dot-prefixed project config file name.
func HiddenConfigFile() string {
	return "." + DefaultConfigFile
}
