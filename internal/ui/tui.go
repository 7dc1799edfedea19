// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/todolist/internal/todo"
)

// User-facing messages.
const (
	msgAdded       = "Task added successfully!"
	msgCompleted   = "Task marked as completed!"
	msgDeleted     = "Task deleted successfully!"
	msgEmptyFields = "Title and Description cannot be empty!"
	msgNoSelection = "Please select a task!"
)

// TaskStore is the part of todo.Store the interface drives.
type TaskStore interface {
	List() []todo.Task
	Get(index int) (todo.Task, error)
	Add(title, description, category string) (todo.Task, error)
	Complete(index int) error
	Remove(index int) (todo.Task, error)
	Save() error
	Categories() []string
	Path() string
}

var _ TaskStore = (*todo.Store)(nil)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	input     io.Reader
	output    io.Writer
	altScreen bool
	now       func() time.Time
}

// WithInput reads key presses from r instead of stdin.
func WithInput(r io.Reader) TUIOption {
	return func(c *tuiConfig) {
		c.input = r
	}
}

// WithOutput renders to w instead of stdout. A non-terminal writer
// skips the TTY check.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.output = w
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

// RunTUI runs the interactive list until the user quits. The collection
// is saved once more on exit.
func RunTUI(ctx context.Context, store TaskStore, opts ...TUIOption) error {
	c := &tuiConfig{
		altScreen: true,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.output == nil {
		if !IsTTY(os.Stdout) {
			return fmt.Errorf("tui requires a TTY")
		}
		c.output = os.Stdout
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(c.output)}
	if c.input != nil {
		programOpts = append(programOpts, tea.WithInput(c.input))
	}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	model := newTUIModel(store, c.now)
	finalModel, err := tea.NewProgram(model, programOpts...).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if m, ok := finalModel.(*tuiModel); ok && m.exitErr != nil {
		return m.exitErr
	}
	return nil
}

type mode int

const (
	modeList mode = iota
	modeForm
	modeDetails
	modeHelp
)

type flash struct {
	text  string
	isErr bool
}

type tuiModel struct {
	store   TaskStore
	tasks   []todo.Task
	cursor  int
	mode    mode
	form    taskForm
	detail  todo.Task
	flash   flash
	width   int
	height  int
	exitErr error
	now     func() time.Time
}

func newTUIModel(store TaskStore, now func() time.Time) *tuiModel {
	if now == nil {
		now = time.Now
	}
	m := &tuiModel{
		store: store,
		form:  newTaskForm(store.Categories()),
		now:   now,
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeDetails:
			return m.updateDetails(msg)
		case modeHelp:
			m.mode = modeList
			return m, nil
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		if len(m.tasks) > 0 {
			m.cursor = len(m.tasks) - 1
		}
	case "a", "n":
		m.form.reset()
		m.flash = flash{}
		m.mode = modeForm
	case "c", " ":
		m.completeSelected()
	case "d", "x", "delete":
		m.deleteSelected()
	case "enter", "v":
		m.showSelected()
	case "?", "h":
		m.mode = modeHelp
	}
	return m, nil
}

func (m *tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.flash = flash{}
		return m, nil
	case tea.KeyEnter:
		m.submitForm()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.form.nextField()
	case tea.KeyShiftTab, tea.KeyUp:
		m.form.prevField()
	case tea.KeyLeft:
		m.form.cycleCategory(-1)
	case tea.KeyRight:
		m.form.cycleCategory(1)
	case tea.KeyBackspace:
		m.form.backspace()
	case tea.KeyCtrlU:
		m.form.clearField()
	case tea.KeySpace:
		m.form.insert([]rune{' '})
	case tea.KeyRunes:
		m.form.insert(msg.Runes)
	}
	return m, nil
}

func (m *tuiModel) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "enter", "v", "backspace":
		m.mode = modeList
	}
	return m, nil
}

func (m *tuiModel) submitForm() {
	_, err := m.store.Add(m.form.title(), m.form.description(), m.form.category())
	if err != nil {
		if todo.IsValidationError(err) {
			m.flash = flash{text: msgEmptyFields, isErr: true}
		} else {
			m.flash = flash{text: err.Error(), isErr: true}
		}
		return
	}
	m.refresh()
	m.cursor = len(m.tasks) - 1
	m.form.clearText()
	m.mode = modeList
	m.flash = flash{text: msgAdded}
}

func (m *tuiModel) completeSelected() {
	if !m.hasSelection() {
		m.flash = flash{text: msgNoSelection, isErr: true}
		return
	}
	if err := m.store.Complete(m.cursor); err != nil {
		m.flash = flash{text: err.Error(), isErr: true}
		return
	}
	m.refresh()
	m.flash = flash{text: msgCompleted}
}

func (m *tuiModel) deleteSelected() {
	if !m.hasSelection() {
		m.flash = flash{text: msgNoSelection, isErr: true}
		return
	}
	if _, err := m.store.Remove(m.cursor); err != nil {
		m.flash = flash{text: err.Error(), isErr: true}
		return
	}
	m.refresh()
	m.flash = flash{text: msgDeleted}
}

func (m *tuiModel) showSelected() {
	if !m.hasSelection() {
		m.flash = flash{text: msgNoSelection, isErr: true}
		return
	}
	task, err := m.store.Get(m.cursor)
	if err != nil {
		m.flash = flash{text: err.Error(), isErr: true}
		return
	}
	m.detail = task
	m.flash = flash{}
	m.mode = modeDetails
}

func (m *tuiModel) hasSelection() bool {
	return m.cursor >= 0 && m.cursor < len(m.tasks)
}

// refresh re-reads the collection and keeps the cursor in range.
func (m *tuiModel) refresh() {
	m.tasks = m.store.List()
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// quit saves the collection and stops the program. A failed save is
// reported after the screen is restored.
func (m *tuiModel) quit() tea.Cmd {
	if err := m.store.Save(); err != nil {
		m.exitErr = err
	}
	return tea.Quit
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
