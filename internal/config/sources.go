package config

import (
	"os"
	"path/filepath"

	"github.com/nibzard/todolist/internal/appdir"
)

// ProjectConfigNames are the project-level config file names, preferred first.
var ProjectConfigNames = []string{appdir.DefaultConfigFile, appdir.HiddenConfigFile()}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	return firstRegularFile(ProjectConfigNames)
}

// findUserConfigFile looks for a user-level config file:
// ~/.todolist/todolist.toml, then todolist/todolist.toml under the OS
// config dir (XDG_CONFIG_HOME, Application Support or APPDATA).
func findUserConfigFile() string {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, appdir.ConfigPath(home))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "todolist", appdir.DefaultConfigFile))
	}
	return firstRegularFile(candidates)
}

// firstRegularFile returns the first of paths that names an existing
// file, or "".
func firstRegularFile(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
