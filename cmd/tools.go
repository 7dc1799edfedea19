package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nibzard/todolist/internal/config"
	"github.com/nibzard/todolist/internal/export"
	"github.com/nibzard/todolist/internal/logging"
	"github.com/nibzard/todolist/internal/todo"
	"github.com/nibzard/todolist/internal/ui"
)

// exportCommand writes the collection in another format.
func exportCommand(cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("todolist export", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var names []string
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}
	formatArg := flags.String("format", "", "Output format ("+strings.Join(names, "|")+")")
	output := flags.String("o", "", "Output file (default: stdout)")
	title := flags.String("title", "To-Do List", "Report title (pdf only)")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if len(flags.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", flags.Args())
	}

	toStdout := *output == "" || *output == "-"
	formatName := *formatArg
	if formatName == "" {
		formatName = string(export.FormatJSON)
		if !toStdout && filepath.Ext(*output) != "" {
			formatName = filepath.Ext(*output)
		}
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if format == export.FormatPDF && toStdout && ui.IsTTY(stdout) {
		return fmt.Errorf("refusing to write a PDF to the terminal; use -o")
	}

	store, closeStore := openStore(cfg, newLogger(cfg))
	defer closeStore()
	tasks := store.List()
	opts := export.Options{Title: *title, Now: now()}

	if toStdout {
		return export.Write(stdout, format, tasks, opts)
	}

	path := cfg.ResolvePath(*output)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := export.Write(f, format, tasks, opts); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("export %s: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	fmt.Fprintf(stdout, "Exported %d tasks to %s (%s)\n", len(tasks), path, format)
	return nil
}

// logCommand prints the activity journal of the tasks file.
func logCommand(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("todolist log", flag.ContinueOnError)
	flags.SetOutput(stderr)
	follow := flags.Bool("f", false, "Follow the log (like tail -f)")
	flags.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := flags.Int("n", 0, "Number of lines to show (0 = all)")

	if err := flags.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.DataFile)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No activity recorded yet.")
		return nil
	}

	if *follow {
		fmt.Fprintf(stderr, "Tailing: %s (Ctrl+C to stop)\n", logPath)
	}
	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}

// initCommand writes an example config file and an empty tasks file.
// Existing files are left alone.
func initCommand(cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("todolist init", flag.ContinueOnError)
	flags.SetOutput(stderr)
	force := flags.Bool("force", false, "Overwrite an existing todolist.toml and tasks.schema.json")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if len(flags.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", flags.Args())
	}

	configPath := cfg.ResolvePath(config.ProjectConfigNames[0])
	if err := writeStarter(configPath, []byte(config.ExampleConfig()), *force); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	schemaPath := filepath.Join(filepath.Dir(cfg.DataFile), todo.SchemaFileName)
	if err := writeStarter(schemaPath, []byte(todo.Schema()), *force); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}

	// The tasks file is never overwritten, even with -force.
	if exists(cfg.DataFile) {
		fmt.Fprintf(stdout, "Skipped %s (already exists)\n", cfg.DataFile)
		return nil
	}
	if err := todo.Save(cfg.DataFile, nil); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	fmt.Fprintf(stdout, "Created %s\n", cfg.DataFile)
	return nil
}

// writeStarter writes data to path unless the file exists and
// overwrite is false.
func writeStarter(path string, data []byte, overwrite bool) error {
	if exists(path) && !overwrite {
		fmt.Fprintf(stdout, "Skipped %s (already exists)\n", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Created %s\n", path)
	return nil
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	cfg := cws.Config

	fmt.Fprintln(stdout, "Config files:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "  (none)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(stdout, "  %s\n", f)
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Settings:")
	for _, field := range cws.SortedFields() {
		fmt.Fprintf(stdout, "  %-15s = %-40s (%s)\n", field, configValue(cfg, field), cws.Sources[field])
	}

	if len(cws.Unknown) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Unknown keys (ignored):")
		for _, key := range cws.Unknown {
			fmt.Fprintf(stdout, "  %s\n", key)
		}
	}
	return nil
}

func configValue(cfg *config.Config, field string) string {
	switch field {
	case "data_file":
		return cfg.DataFile
	case "schema_file":
		if cfg.SchemaFile == "" {
			return "(embedded)"
		}
		return cfg.SchemaFile
	case "log_dir":
		return cfg.LogDir
	case "categories":
		return strings.Join(cfg.Categories, ", ")
	case "activity_log":
		return fmt.Sprint(cfg.ActivityLog)
	case "log_level":
		return cfg.LogLevel
	case "log_format":
		return cfg.LogFormat
	case "log_timestamps":
		return fmt.Sprint(cfg.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(cfg.LogCaller)
	}
	return ""
}

// doctorCommand checks the config, the tasks file and the log directory.
func doctorCommand(cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("todolist doctor", flag.ContinueOnError)
	flags.SetOutput(stderr)
	verbose := flags.Bool("v", false, "Verbose output")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if len(flags.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", flags.Args())
	}

	w := stdout
	fmt.Fprintln(w, "todolist Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	fmt.Fprintf(w, "  ✅ Categories: %s (default: %s)\n", strings.Join(cfg.Categories, ", "), cfg.DefaultCategory())
	fmt.Fprintf(w, "  ✅ Logging: %s, %s\n", cfg.LogLevel, cfg.LogFormat)
	fmt.Fprintln(w)

	// Check schema file
	if cfg.SchemaFile == "" {
		fmt.Fprintln(w, "Schema file: (embedded)")
		fmt.Fprintln(w, "  ✅ OK")
	} else {
		fmt.Fprintf(w, "Schema file: %s\n", cfg.SchemaFile)
		if !checkRegularFile(w, cfg.SchemaFile, "Not found (minimal checks will be used)") {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	// Check tasks file
	fmt.Fprintf(w, "Tasks file: %s\n", cfg.DataFile)
	if !checkTasksFile(w, cfg, *verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	// Check log directory
	fmt.Fprintf(w, "Log directory: %s\n", cfg.LogDir)
	if info, err := os.Stat(cfg.LogDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first change)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	if !cfg.ActivityLog {
		fmt.Fprintln(w, "  ⚠️  Activity log disabled")
	} else if *verbose {
		if path, err := logging.ActivityLogPath(cfg.LogDir, cfg.DataFile); err == nil {
			fmt.Fprintf(w, "  Activity log: %s\n", path)
		}
	}
	fmt.Fprintln(w)

	// Check terminal
	fmt.Fprintln(w, "Terminal:")
	if ui.IsTTY(os.Stdout) {
		fmt.Fprintln(w, "  ✅ OK")
	} else {
		fmt.Fprintln(w, "  ⚠️  stdout is not a terminal (the ui command needs one)")
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. todolist may start with an empty list.")
	return fmt.Errorf("doctor checks failed")
}

// checkTasksFile validates the tasks file and reports the result.
func checkTasksFile(w io.Writer, cfg *config.Config, verbose bool) bool {
	if !checkRegularFile(w, cfg.DataFile, "Not found (will be created on first change)") {
		return false
	}
	data, err := os.ReadFile(cfg.DataFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true
		}
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		return false
	}

	result := todo.Validate(data, todo.ValidationOptions{SchemaPath: cfg.SchemaFile})
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Validation failed (the file will load as an empty list):")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintln(w, "  ✅ Valid")

	if verbose {
		tasks, err := todo.Load(cfg.DataFile)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
			return false
		}
		done := 0
		for _, t := range tasks {
			if t.Completed {
				done++
			}
		}
		fmt.Fprintf(w, "  Tasks: %d (%d completed)\n", len(tasks), done)
		for i, t := range tasks {
			fmt.Fprintf(w, "    %d. [%s] %s (%s)\n", i+1, t.StatusLabel(), t.Title, t.Category)
		}
	}
	return true
}

// checkRegularFile reports whether path is usable. A missing file is a
// warning, not a failure.
func checkRegularFile(w io.Writer, path, missing string) bool {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(w, "  ⚠️  %s\n", missing)
			return true
		}
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}
	fmt.Fprintln(w, "  ✅ OK")
	return true
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
