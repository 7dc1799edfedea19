// Package cmd implements the CLI command structure for todolist.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todolist/internal/config"
	"github.com/nibzard/todolist/internal/logging"
	"github.com/nibzard/todolist/internal/todo"
	"github.com/nibzard/todolist/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the todolist CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todolist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "ui" as default
	subcommand := "ui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	switch subcommand {
	case "ui":
		return uiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "done", "complete":
		return doneCommand(cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(cfg, remainingArgs)
	case "show":
		return showCommand(cfg, remainingArgs)
	case "export":
		return exportCommand(cfg, remainingArgs)
	case "log":
		return logCommand(ctx, cfg, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// uiCommand launches the interactive list.
func uiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist ui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inline := fs.Bool("inline", false, "Render inline instead of using the alternate screen")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		cfg.DataFile = cfg.ResolvePath(remaining[0])
	}

	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("the ui command needs a terminal; use add, ls, done or rm instead")
	}

	// The screen belongs to the UI; console logging would corrupt it.
	store, closeStore := openStore(cfg, logging.Discard())
	defer closeStore()

	return ui.RunTUI(ctx, store, ui.WithAltScreen(!*inline))
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "todolist version %s\n", Version)
	return nil
}

// newLogger builds the console logger described by cfg.
func newLogger(cfg *config.Config) *log.Logger {
	return logging.NewConsoleLogger(stderr, logging.ConsoleOptionsFromConfig(
		cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller))
}

// openStore opens the configured tasks file. The returned func closes
// the activity journal. A journal that cannot be opened is skipped.
func openStore(cfg *config.Config, logger *log.Logger) (*todo.Store, func()) {
	opts := []todo.Option{
		todo.WithLogger(logger),
		todo.WithCategories(cfg.Categories),
		todo.WithSchemaPath(cfg.SchemaFile),
	}

	closeFn := func() {}
	if cfg.ActivityLog {
		activity, err := logging.OpenActivityLog(cfg.LogDir, cfg.DataFile)
		if err != nil {
			logger.Warn("activity log disabled", "err", err)
		} else {
			opts = append(opts, todo.WithJournal(activity))
			closeFn = func() {
				if err := activity.Close(); err != nil {
					logger.Debug("closing activity log", "err", err)
				}
			}
		}
	}

	return todo.Open(cfg.DataFile, opts...), closeFn
}

// parsePosition reads the single 1-based task position in args and
// returns it as an index.
func parsePosition(command string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: todolist %s N", command)
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task number %q: expected a positive integer", args[0])
	}
	return n - 1, nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todolist - A small to-do list manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todolist [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  ui [file]        Launch the interactive list (default command)")
	fmt.Fprintln(w, "  add [title] [description]")
	fmt.Fprintln(w, "                   Add a task")
	fmt.Fprintln(w, "  ls               List tasks with their numbers")
	fmt.Fprintln(w, "  done N           Mark task N as completed")
	fmt.Fprintln(w, "  rm N             Delete task N")
	fmt.Fprintln(w, "  show N           Show all fields of task N")
	fmt.Fprintln(w, "  export           Write tasks as JSON, YAML or PDF")
	fmt.Fprintln(w, "  log              Show the activity log")
	fmt.Fprintln(w, "  init             Create todolist.toml, tasks.schema.json and an empty tasks file")
	fmt.Fprintln(w, "  config           Show the effective configuration and its sources")
	fmt.Fprintln(w, "  doctor           Check configuration and tasks file validity")
	fmt.Fprintln(w, "  version          Show version information")
	fmt.Fprintln(w, "  help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options:")
	fmt.Fprintln(w, "  -title string")
	fmt.Fprintln(w, "        Task title")
	fmt.Fprintln(w, "  -description string")
	fmt.Fprintln(w, "        Task description")
	fmt.Fprintln(w, "  -category string")
	fmt.Fprintln(w, "        Task category (default: first configured category)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -v    Show descriptions and timestamps")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format (json|yaml|pdf); inferred from -o when omitted")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Output file (default: stdout)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Log Options:")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
