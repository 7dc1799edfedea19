package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todolist/internal/todo"
)

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
}

func newTestModel(t *testing.T, titles ...string) (*tuiModel, *todo.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	store := todo.Open(path, todo.WithClock(func() time.Time {
		return fixedNow().Add(-2 * time.Hour)
	}))
	for _, title := range titles {
		if _, err := store.Add(title, "about "+title, "Work"); err != nil {
			t.Fatalf("seed Add: %v", err)
		}
	}
	return newTUIModel(store, fixedNow), store
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *tuiModel, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func typeText(m *tuiModel, text string) {
	for _, r := range text {
		if r == ' ' {
			press(m, "space")
			continue
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestAddTaskThroughForm(t *testing.T) {
	m, store := newTestModel(t)

	press(m, "a")
	if m.mode != modeForm {
		t.Fatalf("mode: got %v, want form", m.mode)
	}
	typeText(m, "Buy milk")
	press(m, "tab")
	typeText(m, "Two liters")
	press(m, "tab", "right")
	press(m, "enter")

	if m.mode != modeList {
		t.Fatalf("mode after submit: got %v, want list", m.mode)
	}
	if m.flash.text != msgAdded || m.flash.isErr {
		t.Errorf("flash: got %+v", m.flash)
	}
	tasks := store.List()
	if len(tasks) != 1 {
		t.Fatalf("tasks: got %d, want 1", len(tasks))
	}
	want := todo.Task{Title: "Buy milk", Description: "Two liters", Category: "Personal", CreatedAt: "2024-05-01 10:00:00"}
	if tasks[0] != want {
		t.Errorf("task: got %+v, want %+v", tasks[0], want)
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Errorf("view does not list the new task:\n%s", m.View())
	}
}

func TestFormRejectsEmptyFields(t *testing.T) {
	m, store := newTestModel(t)

	press(m, "a")
	typeText(m, "Only title")
	press(m, "enter")

	if m.mode != modeForm {
		t.Errorf("mode: got %v, want form", m.mode)
	}
	if m.flash.text != msgEmptyFields || !m.flash.isErr {
		t.Errorf("flash: got %+v", m.flash)
	}
	if store.Len() != 0 {
		t.Errorf("Len: got %d, want 0", store.Len())
	}
	if !strings.Contains(m.View(), msgEmptyFields) {
		t.Error("view does not show the validation message")
	}
}

func TestFormEditing(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "a")
	typeText(m, "Tyop")
	press(m, "backspace", "backspace")
	typeText(m, "po")
	if got := m.form.title(); got != "Typo" {
		t.Errorf("title: got %q, want Typo", got)
	}

	press(m, "shift+tab")
	if m.form.focus != fieldCategory {
		t.Fatalf("focus: got %d, want category", m.form.focus)
	}
	press(m, "left")
	if got := m.form.category(); got != "Urgent" {
		t.Errorf("category after left: got %q, want Urgent", got)
	}

	m.form.clearField()
	typeText(m, "errands")
	if got := m.form.category(); got != "errands" {
		t.Errorf("free-text category: got %q", got)
	}
	m.form.clearField()
	typeText(m, "work")
	if got := m.form.category(); got != "Work" {
		t.Errorf("matched category: got %q, want Work", got)
	}

	press(m, "esc")
	if m.mode != modeList {
		t.Errorf("esc: mode %v, want list", m.mode)
	}
}

func TestCategoryTypingReplacesPreset(t *testing.T) {
	m, store := newTestModel(t)
	press(m, "a")
	typeText(m, "Call mum")
	press(m, "tab")
	typeText(m, "Sunday")
	press(m, "tab")

	typeText(m, "Home")
	if got := m.form.category(); got != "Home" {
		t.Fatalf("typed over preset: got %q, want Home", got)
	}

	m.form.clearField()
	typeText(m, "personal")
	press(m, "right")
	if got := m.form.category(); got != "Urgent" {
		t.Errorf("right after typing personal: got %q, want Urgent", got)
	}
	typeText(m, "Work")
	if got := m.form.category(); got != "Work" {
		t.Errorf("typed over cycled value: got %q, want Work", got)
	}
	press(m, "left")
	if got := m.form.category(); got != "Urgent" {
		t.Errorf("left after typing Work: got %q, want Urgent", got)
	}

	press(m, "backspace")
	if got := string(m.form.values[fieldCategory]); got != "Urgen" {
		t.Errorf("backspace on cycled value: got %q, want Urgen", got)
	}
	m.form.clearField()
	typeText(m, "Home")
	press(m, "enter")
	tasks := store.List()
	if len(tasks) != 1 || tasks[0].Category != "Home" {
		t.Errorf("stored tasks: got %+v", tasks)
	}
}

func TestCompleteAndDelete(t *testing.T) {
	m, store := newTestModel(t, "A", "B", "C")

	press(m, "down", "c")
	if m.flash.text != msgCompleted {
		t.Errorf("flash: got %+v", m.flash)
	}
	if got, _ := store.Get(1); !got.Completed {
		t.Error("task B not completed")
	}

	press(m, "j", "space")
	if got, _ := store.Get(2); !got.Completed {
		t.Error("task C not completed")
	}

	press(m, "d")
	if m.flash.text != msgDeleted {
		t.Errorf("flash: got %+v", m.flash)
	}
	if store.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", store.Len())
	}
	if m.cursor != 1 {
		t.Errorf("cursor after deleting last row: got %d, want 1", m.cursor)
	}

	press(m, "k", "x")
	if store.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", store.Len())
	}
	if got, _ := store.Get(0); got.Title != "B" {
		t.Errorf("remaining: got %q, want B", got.Title)
	}
}

func TestActionsWithoutSelection(t *testing.T) {
	for _, k := range []string{"c", "d", "enter"} {
		t.Run(k, func(t *testing.T) {
			m, _ := newTestModel(t)
			press(m, k)
			if m.flash.text != msgNoSelection || !m.flash.isErr {
				t.Errorf("flash: got %+v", m.flash)
			}
			if m.mode != modeList {
				t.Errorf("mode: got %v", m.mode)
			}
		})
	}
}

func TestCursorBounds(t *testing.T) {
	m, _ := newTestModel(t, "A", "B")
	press(m, "up", "k")
	if m.cursor != 0 {
		t.Errorf("cursor: got %d, want 0", m.cursor)
	}
	press(m, "down", "down", "down")
	if m.cursor != 1 {
		t.Errorf("cursor: got %d, want 1", m.cursor)
	}
	press(m, "g")
	if m.cursor != 0 {
		t.Errorf("cursor after g: got %d", m.cursor)
	}
	press(m, "G")
	if m.cursor != 1 {
		t.Errorf("cursor after G: got %d", m.cursor)
	}
}

func TestDetailsView(t *testing.T) {
	m, _ := newTestModel(t, "Read")
	press(m, "enter")
	if m.mode != modeDetails {
		t.Fatalf("mode: got %v, want details", m.mode)
	}
	view := m.View()
	for _, want := range []string{"Title: Read", "Description: about Read", "Status: Pending", "2 hours ago"} {
		if !strings.Contains(view, want) {
			t.Errorf("details view missing %q:\n%s", want, view)
		}
	}
	press(m, "esc")
	if m.mode != modeList {
		t.Errorf("mode after esc: got %v", m.mode)
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "?")
	if m.mode != modeHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown, mode %v", m.mode)
	}
	press(m, "z")
	if m.mode != modeList {
		t.Errorf("mode: got %v, want list", m.mode)
	}
}

func TestQuitSaves(t *testing.T) {
	m, store := newTestModel(t)
	if err := os.Remove(store.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Fatal(err)
	}

	if cmd := press(m, "q"); !isQuit(cmd) {
		t.Fatal("q did not quit")
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("quit did not save: %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("saved: got %q", data)
	}
	if m.exitErr != nil {
		t.Errorf("exitErr: %v", m.exitErr)
	}
}

func TestCtrlCQuitsFromForm(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "a")
	if cmd := press(m, "ctrl+c"); !isQuit(cmd) {
		t.Error("ctrl+c did not quit")
	}
}

func TestQuitReportsSaveError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.MkdirAll(filepath.Join(path, "blocker"), 0755); err != nil {
		t.Fatal(err)
	}
	m := newTUIModel(todo.Open(path), fixedNow)
	if cmd := press(m, "q"); !isQuit(cmd) {
		t.Fatal("q did not quit")
	}
	if m.exitErr == nil {
		t.Error("expected exitErr")
	}
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(t, "A")
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Errorf("size: got %dx%d", m.width, m.height)
	}
	view := m.View()
	for _, want := range []string{"Title", "Age", "2 hours ago"} {
		if !strings.Contains(view, want) {
			t.Errorf("list view missing %q:\n%s", want, view)
		}
	}
}

func TestRunTUIRequiresTTY(t *testing.T) {
	store := todo.Open(filepath.Join(t.TempDir(), "tasks.json"))
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer reported as TTY")
	}
	// Only meaningful when the test binary's stdout is not a terminal.
	if IsTTY(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	if err := RunTUI(context.Background(), store); err == nil {
		t.Error("expected error without a TTY")
	}
}

func TestRunTUIWithScriptedInput(t *testing.T) {
	store := todo.Open(filepath.Join(t.TempDir(), "tasks.json"))
	var out bytes.Buffer
	err := RunTUI(context.Background(), store,
		WithInput(strings.NewReader("q")),
		WithOutput(&out),
		WithAltScreen(false),
	)
	if err != nil {
		t.Fatalf("RunTUI: %v", err)
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("tasks file not saved on exit: %v", err)
	}
}
