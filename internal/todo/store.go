package todo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Journal actions.
const (
	ActionAdd      = "add"
	ActionComplete = "complete"
	ActionRemove   = "remove"
)

// Journal receives a record for every persisted mutation.
type Journal interface {
	Record(action string, index int, task Task)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithJournal records every persisted mutation in j.
func WithJournal(j Journal) Option {
	return func(s *Store) {
		s.journal = j
	}
}

// WithCategories sets the offered categories. The first one is used
// when a task is added without a category.
func WithCategories(categories []string) Option {
	return func(s *Store) {
		if len(categories) > 0 {
			s.categories = append([]string(nil), categories...)
		}
	}
}

// WithSchemaPath validates the file against an external schema.
func WithSchemaPath(path string) Option {
	return func(s *Store) {
		s.schemaPath = path
	}
}

// WithClock overrides the time source used to stamp new tasks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is the in-memory task collection backed by a file. Every
// mutation rewrites the whole file before returning.
type Store struct {
	path       string
	tasks      []Task
	categories []string
	schemaPath string
	logger     *log.Logger
	journal    Journal
	now        func() time.Time
}

// Open loads the tasks file at path. It never fails: a file that is
// missing or cannot be used leaves the collection empty.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:       path,
		tasks:      []Task{},
		categories: append([]string(nil), DefaultCategories...),
		logger:     log.New(io.Discard),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("tasks file not found, starting empty", "path", s.path)
		} else {
			s.logger.Warn("cannot read tasks file, starting empty", "path", s.path, "err", err)
		}
		return
	}

	result := Validate(data, ValidationOptions{SchemaPath: s.schemaPath})
	for _, w := range result.Warnings {
		s.logger.Debug(w, "path", s.path)
	}
	if !result.Valid {
		s.logger.Warn("tasks file is invalid, starting empty", "path", s.path, "err", result.Err())
		return
	}

	tasks, err := decode(data)
	if err != nil {
		s.logger.Warn("tasks file is corrupt, starting empty", "path", s.path, "err", err)
		return
	}
	stamp := s.now().Format(TimeLayout)
	for i := range tasks {
		if tasks[i].CreatedAt == "" {
			tasks[i].CreatedAt = stamp
			s.logger.Debug("task has no created_at, stamping now", "position", i+1)
		}
		if _, err := tasks[i].Created(); err != nil {
			s.logger.Warn("task has an unreadable created_at", "position", i+1, "created_at", tasks[i].CreatedAt)
		}
	}
	s.tasks = tasks
	s.logger.Debug("loaded tasks", "path", s.path, "count", len(tasks))
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Categories returns the offered categories.
func (s *Store) Categories() []string {
	return append([]string(nil), s.categories...)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// List returns a copy of the tasks in insertion order.
func (s *Store) List() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task at index.
func (s *Store) Get(index int) (Task, error) {
	if err := s.checkIndex(index); err != nil {
		return Task{}, err
	}
	return s.tasks[index], nil
}

// Add validates and appends a new task, then persists the collection.
// A rejected task leaves the collection and the file untouched.
func (s *Store) Add(title, description, category string) (Task, error) {
	task, err := NewTask(title, description, category, s.now())
	if err != nil {
		return Task{}, err
	}
	if task.Category == "" && len(s.categories) > 0 {
		task.Category = s.categories[0]
	}

	s.tasks = append(s.tasks, task)
	if err := s.Save(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return Task{}, err
	}
	index := len(s.tasks) - 1
	s.record(ActionAdd, index, task)
	return task, nil
}

// Complete marks the task at index as completed and persists the
// collection. Completing a completed task still rewrites the file.
func (s *Store) Complete(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	prev := s.tasks[index]
	s.tasks[index].MarkCompleted()
	if err := s.Save(); err != nil {
		s.tasks[index] = prev
		return err
	}
	s.record(ActionComplete, index, s.tasks[index])
	return nil
}

// Remove deletes the task at index and persists the collection.
func (s *Store) Remove(index int) (Task, error) {
	if err := s.checkIndex(index); err != nil {
		return Task{}, err
	}
	prev := s.tasks
	removed := s.tasks[index]

	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:index]...)
	next = append(next, s.tasks[index+1:]...)
	s.tasks = next
	if err := s.Save(); err != nil {
		s.tasks = prev
		return Task{}, err
	}
	s.record(ActionRemove, index, removed)
	return removed, nil
}

// Save writes the whole collection to the backing file.
func (s *Store) Save() error {
	if err := Save(s.path, s.tasks); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.tasks) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index+1)
	}
	return nil
}

func (s *Store) record(action string, index int, task Task) {
	s.logger.Debug("task "+action, "index", index+1, "title", task.Title)
	if s.journal != nil {
		s.journal.Record(action, index, task)
	}
}
