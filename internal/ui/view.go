package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nibzard/todolist/internal/todo"
	"github.com/nibzard/todolist/internal/utils"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	labelStyle    = lipgloss.NewStyle().Bold(true)
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// Column widths of the task table.
const (
	colIndex    = 4
	colTitle    = 28
	colCategory = 12
	colStatus   = 10
	colCreated  = 19
	colAge      = 14
)

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)
	writeFlash(&b, m.flash)

	switch m.mode {
	case modeForm:
		writeForm(&b, &m.form)
		writeFooter(&b, "tab next field | ←/→ category | enter save | esc cancel")
	case modeDetails:
		writeDetails(&b, m.detail, m.now())
		writeFooter(&b, "esc back")
	case modeHelp:
		writeHelp(&b)
		writeFooter(&b, "press any key to return")
	default:
		writeTable(&b, m.tasks, m.cursor, m.width, m.now())
		writeSummary(&b, m.tasks, m.store.Path())
		writeFooter(&b, "a add | c complete | d delete | enter details | ? help | q quit")
	}
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("To-Do List") + "\n\n")
}

func writeFlash(b *strings.Builder, f flash) {
	if f.text == "" {
		return
	}
	if f.isErr {
		b.WriteString(errorStyle.Render(f.text))
	} else {
		b.WriteString(successStyle.Render(f.text))
	}
	b.WriteString("\n\n")
}

func writeTable(b *strings.Builder, tasks []todo.Task, cursor, width int, now time.Time) {
	titleWidth := colTitle
	if width > 0 {
		// Give spare terminal width to the title column.
		if extra := width - (colIndex + colTitle + colCategory + colStatus + colCreated + colAge + 5); extra > 0 {
			titleWidth += extra
		}
	}

	header := cell("#", colIndex) + " " +
		cell("Title", titleWidth) + " " +
		cell("Category", colCategory) + " " +
		cell("Status", colStatus) + " " +
		cell("Created", colCreated) + " " +
		cell("Age", colAge)
	b.WriteString(headerStyle.Render(header) + "\n")

	if len(tasks) == 0 {
		b.WriteString(hintStyle.Render("  No tasks yet. Press a to add one.") + "\n\n")
		return
	}

	for i, task := range tasks {
		row := cell(fmt.Sprintf("%d", i+1), colIndex) + " " +
			cell(task.Title, titleWidth) + " " +
			cell(task.Category, colCategory) + " " +
			cell(task.StatusLabel(), colStatus) + " " +
			cell(task.CreatedAt, colCreated) + " " +
			cell(age(task, now), colAge)
		switch {
		case i == cursor:
			row = selectedStyle.Render(row)
		case task.Completed:
			row = doneStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString("\n")
}

func writeSummary(b *strings.Builder, tasks []todo.Task, path string) {
	done := 0
	for _, task := range tasks {
		if task.Completed {
			done++
		}
	}
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d tasks, %d completed | %s", len(tasks), done, path)) + "\n\n")
}

func writeForm(b *strings.Builder, f *taskForm) {
	b.WriteString(labelStyle.Render("New Task") + "\n\n")
	for i := 0; i < fieldCount; i++ {
		label := fmt.Sprintf("%-12s", fieldLabels[i]+":")
		value := string(f.values[i])
		if i == f.focus {
			b.WriteString(focusStyle.Render("> "+label) + " " + value + "█\n")
		} else {
			b.WriteString("  " + label + " " + value + "\n")
		}
	}
	if len(f.categories) > 0 {
		b.WriteString("\n" + hintStyle.Render("  Categories: "+strings.Join(f.categories, ", ")) + "\n")
	}
	b.WriteString("\n")
}

func writeDetails(b *strings.Builder, task todo.Task, now time.Time) {
	b.WriteString(labelStyle.Render("Task Details") + "\n\n")
	for _, line := range strings.Split(task.Details(), "\n") {
		b.WriteString("  " + line + "\n")
	}
	if a := age(task, now); a != "" {
		b.WriteString("  " + hintStyle.Render(a) + "\n")
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString(labelStyle.Render("Keyboard Shortcuts") + "\n\n")
	b.WriteString("  a, n          Add a task\n")
	b.WriteString("  c, space      Mark selected task completed\n")
	b.WriteString("  d, x, delete  Delete selected task\n")
	b.WriteString("  enter, v      Show task details\n")
	b.WriteString("  up/k, down/j  Move selection\n")
	b.WriteString("  g, G          First / last task\n")
	b.WriteString("  h, ?          Toggle this help screen\n")
	b.WriteString("  q, ctrl+c     Save and quit\n\n")
}

func writeFooter(b *strings.Builder, hint string) {
	b.WriteString(hintStyle.Render(hint) + "\n")
}

// age returns how long ago task was created, or "" when its timestamp
// cannot be read.
func age(task todo.Task, now time.Time) string {
	created, err := task.Created()
	if err != nil {
		return ""
	}
	return humanize.RelTime(created, now, "ago", "from now")
}

// cell truncates s and pads it to width display columns.
func cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(utils.Truncate(s, width))
}
