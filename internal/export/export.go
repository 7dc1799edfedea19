// Package export renders the task collection in formats meant for other
// tools or for printing.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/todolist/internal/todo"
)

// Format names an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatPDF}
}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown export format %q (expected json|yaml|pdf)", s)
}

// Options controls rendering.
type Options struct {
	// Title heads the PDF report.
	Title string
	// Now stamps the PDF report. Zero means time.Now.
	Now time.Time
}

// Write renders tasks to w in format f.
func Write(w io.Writer, f Format, tasks []todo.Task, opts Options) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, tasks)
	case FormatYAML:
		return writeYAML(w, tasks)
	case FormatPDF:
		return writePDF(w, tasks, opts)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

func writeJSON(w io.Writer, tasks []todo.Task) error {
	data, err := todo.Encode(tasks)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writeYAML(w io.Writer, tasks []todo.Task) error {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writePDF(w io.Writer, tasks []todo.Task, opts Options) error {
	title := opts.Title
	if title == "" {
		title = "To-Do List"
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetCreationDate(now)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pending := 0
	for _, t := range tasks {
		if !t.Completed {
			pending++
		}
	}
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s - %d tasks, %d pending", now.Format(todo.TimeLayout), len(tasks), pending))
	pdf.Ln(10)

	if len(tasks) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(0, 8, "No tasks.")
	}

	for i, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s %s", i+1, box, t.Title)), "", "L", false)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s | %s | created %s", t.Category, t.StatusLabel(), t.CreatedAt)), "", "L", false)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(t.Description), "", "L", false)
		pdf.Ln(3)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
