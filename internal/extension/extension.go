// Package extension holds the toggleable behaviors attached to an editor
// view: current line highlight, brace matching, right margin, indentation
// guides and auto-closing of brackets and quotes.
package extension

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/event"
	"github.com/kobzarvs/nedit/internal/indenter"
	"github.com/kobzarvs/nedit/internal/logger"
	"github.com/kobzarvs/nedit/internal/overlay"
)

var log = logger.Named("extension")

// Host is the editor an extension is bound to.
type Host interface {
	Document() *document.Document
	Selection() document.Selection
	SetSelection(sel document.Selection)
	Overlays() *overlay.Manager
	Bus() *event.Bus
	Indenter() indenter.Indenter
	// IsCode reports whether (line, col) is outside comments and strings
	IsCode(line, col int) bool
	Color(role string) tcell.Color
	TabWidth() int
}

type Extension interface {
	Name() string

	// Initialize binds the extension to h. It is called exactly once, by
	// the registry.
	Initialize(h Host)

	Active() bool
	SetActive(active bool)

	// Close drops the event subscriptions taken in Initialize
	Close()
}

// base carries the state every extension shares. Hooks return early while
// the extension is inactive.
type base struct {
	name   string
	active bool
	host   Host
	subs   []func()
}

func (b *base) Name() string          { return b.name }
func (b *base) Active() bool          { return b.active }
func (b *base) SetActive(active bool) { b.active = active }

func (b *base) bind(h Host) {
	b.host = h
}

func (b *base) track(cancel func()) {
	b.subs = append(b.subs, cancel)
}

func (b *base) Close() {
	for _, cancel := range b.subs {
		cancel()
	}
	b.subs = nil
}

type Registry struct {
	host  Host
	exts  map[string]Extension
	order []string
}

func NewRegistry(h Host) *Registry {
	return &Registry{host: h, exts: map[string]Extension{}}
}

// Register initializes ext against the registry's host, stores it by name
// and returns it so the caller keeps the concrete type. Registering a name
// twice replaces the previous instance.
func Register[T Extension](r *Registry, ext T) T {
	name := ext.Name()
	if old, ok := r.exts[name]; ok {
		old.Close()
	} else {
		r.order = append(r.order, name)
	}
	r.exts[name] = ext
	ext.Initialize(r.host)
	return ext
}

func (r *Registry) Get(name string) (Extension, bool) {
	ext, ok := r.exts[name]
	return ext, ok
}

// Names lists the registered extensions in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Enable toggles the named extension. Unknown names are logged and ignored.
func (r *Registry) Enable(name string, active bool) bool {
	ext, ok := r.exts[name]
	if !ok {
		log.Error("extension not found", "name", name)
		return false
	}
	ext.SetActive(active)
	return true
}

func (r *Registry) Close() {
	for _, name := range r.order {
		r.exts[name].Close()
	}
}
