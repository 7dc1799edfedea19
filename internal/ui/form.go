package ui

import (
	"strings"

	"github.com/nibzard/todolist/internal/utils"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldCategory
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Category"}

// taskForm holds the add-task inputs. The category field accepts free
// text; Left/Right cycles through the configured categories.
type taskForm struct {
	values     [fieldCount][]rune
	focus      int
	categories []string
	catIndex   int
	// catPreset is set while the category field still holds a value
	// picked by reset or cycling; the next typed rune replaces it.
	catPreset bool
}

func newTaskForm(categories []string) taskForm {
	f := taskForm{categories: categories}
	f.reset()
	return f
}

// reset clears every field and selects the first category.
func (f *taskForm) reset() {
	f.clearText()
	f.focus = fieldTitle
	f.catIndex = 0
	f.values[fieldCategory] = nil
	f.catPreset = false
	if len(f.categories) > 0 {
		f.values[fieldCategory] = []rune(f.categories[0])
		f.catPreset = true
	}
}

// clearText clears title and description and keeps the category.
func (f *taskForm) clearText() {
	f.values[fieldTitle] = nil
	f.values[fieldDescription] = nil
	f.focus = fieldTitle
}

func (f *taskForm) nextField() {
	f.focus = (f.focus + 1) % fieldCount
}

func (f *taskForm) prevField() {
	f.focus = (f.focus + fieldCount - 1) % fieldCount
}

func (f *taskForm) insert(r []rune) {
	if f.focus == fieldCategory && f.catPreset {
		f.values[fieldCategory] = nil
	}
	f.values[f.focus] = append(f.values[f.focus], r...)
	f.edited()
}

func (f *taskForm) backspace() {
	if n := len(f.values[f.focus]); n > 0 {
		f.values[f.focus] = f.values[f.focus][:n-1]
	}
	f.edited()
}

func (f *taskForm) clearField() {
	f.values[f.focus] = nil
	f.edited()
}

// edited resyncs catIndex after the category text changed by hand, so
// cycling continues from the category the text names.
func (f *taskForm) edited() {
	if f.focus != fieldCategory {
		return
	}
	f.catPreset = false
	match := f.category()
	for i, c := range f.categories {
		if c == match {
			f.catIndex = i
			return
		}
	}
}

// cycleCategory steps through the configured categories when the
// category field has focus.
func (f *taskForm) cycleCategory(step int) {
	if f.focus != fieldCategory || len(f.categories) == 0 {
		return
	}
	n := len(f.categories)
	f.catIndex = ((f.catIndex+step)%n + n) % n
	f.values[fieldCategory] = []rune(f.categories[f.catIndex])
	f.catPreset = true
}

func (f *taskForm) title() string {
	return string(f.values[fieldTitle])
}

func (f *taskForm) description() string {
	return string(f.values[fieldDescription])
}

// category returns the typed category, matched case-insensitively
// against the configured ones.
func (f *taskForm) category() string {
	return utils.MatchCategory(strings.TrimSpace(string(f.values[fieldCategory])), f.categories)
}
