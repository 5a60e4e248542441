// Package neditable is the file model behind editor views: it owns the
// document of one file, knows its path and language, collects checker
// results and remembers the primary view editing it.
package neditable

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/document"
)

// Check is one checker finding on a line. Col is a zero based rune column.
type Check struct {
	Message string
	Col     int
}

// Checker is the latest result set of one checker, keyed by line.
type Checker struct {
	Name     string
	Checks   map[int]Check
	Color    tcell.Color
	Priority int
}

// Lines returns the checked lines in ascending order.
func (c Checker) Lines() []int {
	lines := make([]int, 0, len(c.Checks))
	for line := range c.Checks {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// View is the editor side of the back reference.
type View interface {
	Document() *document.Document
}

type Editable struct {
	path     string
	language string
	doc      *document.Document
	editor   View

	checkers map[string]Checker
	handlers []checkerHandler
	nextID   int
}

type checkerHandler struct {
	id int
	fn func(*Editable)
}

// New wraps an in-memory document. path may be empty for scratch buffers.
func New(path, language string, doc *document.Document) *Editable {
	if doc == nil {
		doc = document.New("")
	}
	return &Editable{path: path, language: language, doc: doc, checkers: map[string]Checker{}}
}

// Open reads path and detects its language from langs. A missing file opens
// as an empty document bound to path.
func Open(path string, langs config.Languages) (*Editable, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	language := ""
	if l := langs.Match(abs); l != nil {
		language = l.Name
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(abs, language, nil), nil
		}
		return nil, fmt.Errorf("open %s: %w", abs, err)
	}
	return New(abs, language, document.New(string(data))), nil
}

func (e *Editable) Document() *document.Document { return e.doc }
func (e *Editable) FilePath() string             { return e.path }
func (e *Editable) Language() string             { return e.language }
func (e *Editable) SetLanguage(lang string)      { e.language = lang }

// Editor returns the primary view, nil before one was attached.
func (e *Editable) Editor() View {
	return e.editor
}

func (e *Editable) SetEditor(v View) {
	e.editor = v
}

// Save writes the document to its path and marks it unmodified.
func (e *Editable) Save() (err error) {
	if e.path == "" {
		return errors.New("save: no file path")
	}
	f, err := os.CreateTemp(filepath.Dir(e.path), ".nedit-*")
	if err != nil {
		return fmt.Errorf("save %s: %w", e.path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	_, werr := f.WriteString(e.doc.Text())
	if err = multierr.Combine(werr, f.Close()); err != nil {
		return fmt.Errorf("save %s: %w", e.path, err)
	}
	if info, statErr := os.Stat(e.path); statErr == nil {
		_ = os.Chmod(tmp, info.Mode().Perm())
	}
	if err = os.Rename(tmp, e.path); err != nil {
		return fmt.Errorf("save %s: %w", e.path, err)
	}
	e.doc.SetModified(false)
	return nil
}

// SetChecker replaces the results of c.Name and notifies subscribers.
func (e *Editable) SetChecker(c Checker) {
	e.checkers[c.Name] = c
	e.notify()
}

func (e *Editable) RemoveChecker(name string) {
	if _, ok := e.checkers[name]; !ok {
		return
	}
	delete(e.checkers, name)
	e.notify()
}

// SortedCheckers returns the checkers by descending priority, then name.
func (e *Editable) SortedCheckers() []Checker {
	out := make([]Checker, 0, len(e.checkers))
	for _, c := range e.checkers {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// OnCheckersUpdated registers fn and returns a cancel func.
func (e *Editable) OnCheckersUpdated(fn func(*Editable)) func() {
	e.nextID++
	id := e.nextID
	e.handlers = append(e.handlers, checkerHandler{id: id, fn: fn})
	return func() {
		for i, h := range e.handlers {
			if h.id == id {
				e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
				return
			}
		}
	}
}

func (e *Editable) notify() {
	hs := append([]checkerHandler(nil), e.handlers...)
	for _, h := range hs {
		h.fn(e)
	}
}
