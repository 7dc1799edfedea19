// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

// isolate points HOME and the config dirs at an empty temp dir and
// moves into a fresh working directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range []string{
		"TODOLIST_DATA", "TODOLIST_SCHEMA", "TODOLIST_LOG_DIR", "TODOLIST_CATEGORIES",
		"TODOLIST_ACTIVITY_LOG", "TODOLIST_LOG_LEVEL", "TODOLIST_LOG_FORMAT",
		"TODOLIST_LOG_TIMESTAMPS", "TODOLIST_LOG_CALLER",
	} {
		t.Setenv(key, "")
	}
	wd := t.TempDir()
	chdir(t, wd)
	// t.TempDir may be reached through a symlink; compare against what Getwd reports.
	resolved, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	return resolved
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.DataFile != DefaultDataFile {
		t.Errorf("DataFile: got %q, want %q", cfg.DataFile, DefaultDataFile)
	}
	if cfg.LogDir != DefaultLogDir {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, DefaultLogDir)
	}
	if !reflect.DeepEqual(cfg.Categories, []string{"Work", "Personal", "Urgent"}) {
		t.Errorf("Categories: got %v", cfg.Categories)
	}
	if cfg.ActivityLog != true {
		t.Errorf("ActivityLog: got %v, want true", cfg.ActivityLog)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging defaults: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.DefaultCategory() != "Work" {
		t.Errorf("DefaultCategory: got %q", cfg.DefaultCategory())
	}
}

func TestLoadDefaults(t *testing.T) {
	wd := isolate(t)

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config
	if cfg.ProjectRoot != wd {
		t.Errorf("ProjectRoot: got %q, want %q", cfg.ProjectRoot, wd)
	}
	if cfg.DataFile != filepath.Join(wd, "tasks.json") {
		t.Errorf("DataFile: got %q", cfg.DataFile)
	}
	if cfg.SchemaFile != "" {
		t.Errorf("SchemaFile: got %q, want empty", cfg.SchemaFile)
	}
	home, _ := os.UserHomeDir()
	if cfg.LogDir != filepath.Join(home, ".todolist") {
		t.Errorf("LogDir: got %q", cfg.LogDir)
	}
	for _, field := range configFields() {
		if cws.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, cws.Sources[field])
		}
	}
	if len(cws.Files) != 0 {
		t.Errorf("Files: got %v, want none", cws.Files)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TODOLIST_DATA", "custom.json")
	t.Setenv("TODOLIST_CATEGORIES", "Home, Errands")
	t.Setenv("TODOLIST_ACTIVITY_LOG", "false")
	t.Setenv("TODOLIST_LOG_LEVEL", "debug")
	t.Setenv("TODOLIST_LOG_TIMESTAMPS", "yes")

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	loadFromEnv(cfg, sources)

	if cfg.DataFile != "custom.json" {
		t.Errorf("DataFile: got %q, want custom.json", cfg.DataFile)
	}
	if !reflect.DeepEqual(cfg.Categories, []string{"Home", "Errands"}) {
		t.Errorf("Categories: got %v", cfg.Categories)
	}
	if cfg.ActivityLog {
		t.Error("ActivityLog: got true, want false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q", cfg.LogLevel)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
	for _, field := range []string{"data_file", "categories", "activity_log", "log_level", "log_timestamps"} {
		if sources[field] != SourceEnv {
			t.Errorf("source of %s: got %q, want environment", field, sources[field])
		}
	}
	if _, ok := sources["log_dir"]; ok {
		t.Error("log_dir should not be tracked as environment")
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)

	err := parseFlags(cfg, fs, []string{"-data", "flag.json", "-categories", "A,B", "-log-format", "json", "ls", "-v"}, sources)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.DataFile != "flag.json" {
		t.Errorf("DataFile: got %q", cfg.DataFile)
	}
	if !reflect.DeepEqual(cfg.Categories, []string{"A", "B"}) {
		t.Errorf("Categories: got %v", cfg.Categories)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %q", cfg.LogFormat)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unset flag changed LogLevel: %q", cfg.LogLevel)
	}
	if got := fs.Args(); !reflect.DeepEqual(got, []string{"ls", "-v"}) {
		t.Errorf("remaining args: got %v", got)
	}
	if sources["data_file"] != SourceFlag || sources["log_format"] != SourceFlag {
		t.Errorf("sources: got %v", sources)
	}
	if _, ok := sources["log_level"]; ok {
		t.Error("log_level should not be tracked as flag")
	}
}

func TestLoadPriority(t *testing.T) {
	wd := isolate(t)
	home, _ := os.UserHomeDir()

	userDir := filepath.Join(home, ".todolist")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	userConfig := `data_file = "user.json"
categories = ["Home"]
log_level = "warn"
log_caller = true
`
	if err := os.WriteFile(filepath.Join(userDir, "todolist.toml"), []byte(userConfig), 0644); err != nil {
		t.Fatal(err)
	}

	projectConfig := `data_file = "project.json"
log_level = "error"
surprise = 1
`
	if err := os.WriteFile(filepath.Join(wd, "todolist.toml"), []byte(projectConfig), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TODOLIST_LOG_LEVEL", "debug")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"-log-format", "logfmt"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.DataFile != filepath.Join(wd, "project.json") {
		t.Errorf("DataFile: got %q", cfg.DataFile)
	}
	if !reflect.DeepEqual(cfg.Categories, []string{"Home"}) {
		t.Errorf("Categories: got %v", cfg.Categories)
	}
	if !cfg.LogCaller {
		t.Error("LogCaller: got false, want true from user file")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug from env", cfg.LogLevel)
	}
	if cfg.LogFormat != "logfmt" {
		t.Errorf("LogFormat: got %q, want logfmt from flag", cfg.LogFormat)
	}

	wantSources := map[string]ConfigSource{
		"data_file":    SourceProjFile,
		"categories":   SourceUserFile,
		"log_caller":   SourceUserFile,
		"log_level":    SourceEnv,
		"log_format":   SourceFlag,
		"log_dir":      SourceDefault,
		"activity_log": SourceDefault,
	}
	for field, want := range wantSources {
		if got := cws.Sources[field]; got != want {
			t.Errorf("source of %s: got %q, want %q", field, got, want)
		}
	}

	if len(cws.Files) != 2 || cws.Files[1] != "todolist.toml" {
		t.Errorf("Files: got %v", cws.Files)
	}
	if len(cws.Unknown) != 1 || !strings.HasSuffix(cws.Unknown[0], "surprise") {
		t.Errorf("Unknown: got %v", cws.Unknown)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"log level", []string{"-log-level", "loud"}, "log_level"},
		{"log format", []string{"-log-format", "xml"}, "log_format"},
		{"empty data file", []string{"-data", "  "}, "data_file"},
		{"unknown flag", []string{"-nope"}, "parsing flags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(&strings.Builder{})
			_, err := LoadWithSources(fs, tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	wd := isolate(t)
	if err := os.WriteFile(filepath.Join(wd, ".todolist.toml"), []byte("data_file = "), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err == nil || !strings.Contains(err.Error(), "project config file") {
		t.Errorf("expected project config error, got %v", err)
	}
}

func TestFinalizeConfig(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{
		DataFile:    "sub/tasks.json",
		SchemaFile:  "tasks.schema.json",
		LogDir:      "logs",
		Categories:  []string{" Work ", "work", "", "Home", "Home"},
		LogLevel:    " INFO ",
		LogFormat:   "Text",
		ProjectRoot: root,
	}
	if err := finalizeConfig(cfg); err != nil {
		t.Fatalf("finalizeConfig: %v", err)
	}
	if cfg.DataFile != filepath.Join(root, "sub", "tasks.json") {
		t.Errorf("DataFile: got %q", cfg.DataFile)
	}
	if cfg.SchemaFile != filepath.Join(root, "tasks.schema.json") {
		t.Errorf("SchemaFile: got %q", cfg.SchemaFile)
	}
	if cfg.LogDir != filepath.Join(root, "logs") {
		t.Errorf("LogDir: got %q", cfg.LogDir)
	}
	if !reflect.DeepEqual(cfg.Categories, []string{"Work", "Home"}) {
		t.Errorf("Categories: got %v", cfg.Categories)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}

	empty := &Config{DataFile: "tasks.json", LogLevel: "info", LogFormat: "text", ProjectRoot: root}
	if err := finalizeConfig(empty); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(empty.Categories, DefaultCategories()) {
		t.Errorf("empty categories: got %v", empty.Categories)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("TODOLIST_TEST_DIR", "/var/tmp")

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"~", home},
		{"~/logs", filepath.Join(home, "logs")},
		{"$TODOLIST_TEST_DIR/x", "/var/tmp/x"},
		{"plain/path", "plain/path"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandPercentVars(t *testing.T) {
	t.Setenv("TODOLIST_A", "alpha")
	t.Setenv("TODOLIST_B", "beta")

	tests := []struct {
		in, want string
	}{
		{`%TODOLIST_A%\logs`, `alpha\logs`},
		{"%TODOLIST_A%%TODOLIST_B%", "alphabeta"},
		{"%TODOLIST_UNSET%/x", "%TODOLIST_UNSET%/x"},
		{"100%", "100%"},
		{"%%", "%%"},
		{"no vars", "no vars"},
	}
	for _, tt := range tests {
		if got := expandPercentVars(tt.in); got != tt.want {
			t.Errorf("expandPercentVars(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	cfg := &Config{}
	md, err := toml.Decode(ExampleConfig(), cfg)
	if err != nil {
		t.Fatalf("example config does not parse: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		t.Errorf("example config has unknown keys: %v", undecoded)
	}
	if cfg.DataFile != DefaultDataFile || !cfg.ActivityLog {
		t.Errorf("example config drifted from defaults: %+v", cfg)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
