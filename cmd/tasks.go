package cmd

import (
	"flag"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nibzard/todolist/internal/config"
	"github.com/nibzard/todolist/internal/todo"
	"github.com/nibzard/todolist/internal/utils"
)

// now is the clock used for relative ages.
var now = time.Now

// addCommand adds one task.
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	title := fs.String("title", "", "Task title")
	description := fs.String("description", "", "Task description")
	category := fs.String("category", "", "Task category (default: first configured category)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if *title == "" && len(remaining) > 0 {
		*title = remaining[0]
		remaining = remaining[1:]
	}
	if *description == "" && len(remaining) > 0 {
		*description = remaining[0]
		remaining = remaining[1:]
	}
	if len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	store, closeStore := openStore(cfg, newLogger(cfg))
	defer closeStore()

	task, err := store.Add(*title, *description, utils.MatchCategory(*category, cfg.Categories))
	if err != nil {
		if todo.IsValidationError(err) {
			return fmt.Errorf("title and description cannot be empty: %w", err)
		}
		return err
	}
	fmt.Fprintf(stdout, "Added task %d: %s [%s]\n", store.Len(), task.Title, task.Category)
	return nil
}

// lsCommand prints the numbered task list.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todolist ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Show descriptions and timestamps")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	store, closeStore := openStore(cfg, newLogger(cfg))
	defer closeStore()

	tasks := store.List()
	if len(tasks) == 0 {
		fmt.Fprintln(stdout, "No tasks found.")
		return nil
	}
	for i, task := range tasks {
		printTask(i, task, *verbose)
	}
	return nil
}

// doneCommand marks one task completed.
func doneCommand(cfg *config.Config, args []string) error {
	index, err := parsePosition("done", args)
	if err != nil {
		return err
	}
	store, closeStore := openStore(cfg, newLogger(cfg))
	defer closeStore()

	if err := store.Complete(index); err != nil {
		return err
	}
	task, _ := store.Get(index)
	fmt.Fprintf(stdout, "Task %d marked as completed: %s\n", index+1, task.Title)
	return nil
}

// rmCommand deletes one task.
func rmCommand(cfg *config.Config, args []string) error {
	index, err := parsePosition("rm", args)
	if err != nil {
		return err
	}
	store, closeStore := openStore(cfg, newLogger(cfg))
	defer closeStore()

	removed, err := store.Remove(index)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Deleted task %d: %s\n", index+1, removed.Title)
	return nil
}

// showCommand prints every field of one task.
func showCommand(cfg *config.Config, args []string) error {
	index, err := parsePosition("show", args)
	if err != nil {
		return err
	}
	store, closeStore := openStore(cfg, newLogger(cfg))
	defer closeStore()

	task, err := store.Get(index)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, task.Details())
	if age := taskAge(task); age != "" {
		fmt.Fprintf(stdout, "Age: %s\n", age)
	}
	return nil
}

// printTask prints a single numbered task.
func printTask(index int, t todo.Task, verbose bool) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	fmt.Fprintf(stdout, "%3d. [%s] %s (%s)\n", index+1, mark, t.Title, t.Category)

	if verbose {
		fmt.Fprintf(stdout, "       %s\n", t.Description)
		created := t.CreatedAt
		if age := taskAge(t); age != "" {
			created += ", " + age
		}
		fmt.Fprintf(stdout, "       Created: %s\n", created)
	}
}

// taskAge returns how long ago t was created, or "" for an unreadable
// timestamp.
func taskAge(t todo.Task) string {
	created, err := t.Created()
	if err != nil {
		return ""
	}
	return humanize.RelTime(created, now(), "ago", "from now")
}
