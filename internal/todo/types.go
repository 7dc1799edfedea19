package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the format of Task.CreatedAt.
const TimeLayout = "2006-01-02 15:04:05"

// DefaultCategories are offered when no categories are configured.
var DefaultCategories = []string{"Work", "Personal", "Urgent"}

// Status labels shown for the completed flag.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

var (
	// ErrEmptyTitle is returned when a task is created without a title.
	ErrEmptyTitle = errors.New("title cannot be empty")
	// ErrEmptyDescription is returned when a task is created without a description.
	ErrEmptyDescription = errors.New("description cannot be empty")
	// ErrIndexOutOfRange is returned when no task exists at a position.
	ErrIndexOutOfRange = errors.New("no task at that position")
)

// Task represents a single to-do item.
type Task struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Completed   bool   `json:"completed" yaml:"completed"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
}

// NewTask builds a pending task stamped with now. Title and description
// are trimmed and must not be empty.
func NewTask(title, description, category string, now time.Time) (Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return Task{}, &ValidationError{Path: "title", Err: ErrEmptyTitle}
	}
	if description == "" {
		return Task{}, &ValidationError{Path: "description", Err: ErrEmptyDescription}
	}
	return Task{
		Title:       title,
		Description: description,
		Category:    strings.TrimSpace(category),
		CreatedAt:   now.Format(TimeLayout),
	}, nil
}

// MarkCompleted sets the completed flag. Calling it again is a no-op.
func (t *Task) MarkCompleted() {
	t.Completed = true
}

// StatusLabel returns "Completed" or "Pending".
func (t Task) StatusLabel() string {
	if t.Completed {
		return StatusCompleted
	}
	return StatusPending
}

// Created parses CreatedAt in the local time zone.
func (t Task) Created() (time.Time, error) {
	return time.ParseInLocation(TimeLayout, t.CreatedAt, time.Local)
}

// Details renders every field, one per line.
func (t Task) Details() string {
	return fmt.Sprintf("Title: %s\nDescription: %s\nCategory: %s\nStatus: %s\nCreated: %s",
		t.Title, t.Description, t.Category, t.StatusLabel(), t.CreatedAt)
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err stems from rejected user input.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
