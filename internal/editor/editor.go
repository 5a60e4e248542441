// Package editor is the text editing view: it owns the selection, the overlay
// groups, the side area and scrollbar of one document view, dispatches keys
// through its extensions and default editing behavior, and renders to a tcell
// screen.
package editor

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/event"
	"github.com/kobzarvs/nedit/internal/extension"
	"github.com/kobzarvs/nedit/internal/indenter"
	"github.com/kobzarvs/nedit/internal/logger"
	"github.com/kobzarvs/nedit/internal/neditable"
	"github.com/kobzarvs/nedit/internal/overlay"
	"github.com/kobzarvs/nedit/internal/scrollbar"
	"github.com/kobzarvs/nedit/internal/sidearea"
	"github.com/kobzarvs/nedit/internal/syntax"
	"github.com/kobzarvs/nedit/internal/viewport"
)

var log = logger.Named("editor")

const (
	markerCurrentLine = "current_line"
	markerChecker     = "checker"
	markerOccurrence  = "occurrence"
)

// Clipboard is the system clipboard as the editor uses it.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// systemClipboard falls back to an in-process buffer where the platform has
// no clipboard utility.
type systemClipboard struct {
	fallback string
}

func (c *systemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return c.fallback, nil
	}
	return clipboard.ReadAll()
}

func (c *systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		c.fallback = text
		return nil
	}
	return clipboard.WriteAll(text)
}

type Option func(*Editor)

func WithLanguages(langs config.Languages) Option {
	return func(e *Editor) { e.langs = langs }
}

func WithClipboard(c Clipboard) Option {
	return func(e *Editor) { e.clipboard = c }
}

// WithClock replaces time.Now for the editor's timers.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.timers.now = now }
}

// WithWaker is called with the delay of every timer the editor starts so the
// UI loop can schedule a Tick.
func WithWaker(wake func(time.Duration)) Option {
	return func(e *Editor) { e.timers.wake = wake }
}

type styles struct {
	text       tcell.Style
	selection  tcell.Style
	whitespace tcell.Style
	kinds      map[string]tcell.Style
}

type Editor struct {
	cfg       config.Config
	opts      []Option
	langs     config.Languages
	editable  *neditable.Editable
	doc       *document.Document
	sel       document.Selection
	lastLine  int
	language  string
	indenter  indenter.Indenter
	highlight *syntax.Highlighter
	styles    styles

	bus       *event.Bus
	overlays  *overlay.Manager
	scrollbar *scrollbar.Overlay

	side        *sidearea.Manager
	textChanges *sidearea.TextChanges
	markers     *sidearea.Markers
	lineNumbers *sidearea.LineNumbers
	folding     *sidearea.CodeFolding

	extensions  *extension.Registry
	currentLine *extension.CurrentLine
	braces      *extension.SymbolHighlighter
	margin      *extension.RightMargin
	guides      *extension.IndentationGuide
	autoBraces  *extension.AutocompleteBraces
	autoQuotes  *extension.AutocompleteQuotes

	timers          *timers
	occurrenceTimer timerID
	runCursorTimer  timerID

	clipboard  Clipboard
	keymap     map[string]string
	actionHook func(action string)

	area       viewport.Area
	textArea   viewport.Area
	blocks     []viewport.Block
	scroll     int
	freeScroll bool

	fontSize        int
	showWhitespaces bool
	lastFind        *findQuery
	subs            []func()
	closed          bool
}

// New creates a view over ed. The first view of an editable becomes its
// primary editor; later views share the document.
func New(ed *neditable.Editable, cfg config.Config, opts ...Option) *Editor {
	if ed == nil {
		ed = neditable.New("", "", nil)
	}
	e := &Editor{
		cfg:       cfg,
		opts:      opts,
		langs:     config.DefaultLanguages(),
		editable:  ed,
		doc:       ed.Document(),
		language:  ed.Language(),
		bus:       event.NewBus(),
		overlays:  overlay.NewManager(),
		scrollbar: scrollbar.New(),
		side:      sidearea.NewManager(),
		timers:    newTimers(time.Now, nil),
		clipboard: &systemClipboard{},
		keymap:    cfg.Keymap,
		fontSize:  cfg.Editor.FontSize,
	}
	if e.keymap == nil {
		e.keymap = config.DefaultKeymap()
	}
	if e.fontSize < 1 {
		e.fontSize = 1
	}
	for _, opt := range opts {
		opt(e)
	}
	e.showWhitespaces = cfg.Editor.ShowWhitespaces
	e.indenter = e.loadIndenter(e.language)
	e.restyle()
	e.registerSyntax(e.language, false)

	if ed.Editor() == nil {
		ed.SetEditor(e)
	}

	e.textChanges = sidearea.NewTextChanges(e)
	e.textChanges.SetVisible(cfg.Editor.ShowTextChanges)
	e.side.Add(e.textChanges)
	e.markers = sidearea.NewMarkers(e)
	e.side.Add(e.markers)
	e.lineNumbers = sidearea.NewLineNumbers(e)
	e.lineNumbers.SetVisible(cfg.Editor.ShowLineNumbers)
	e.side.Add(e.lineNumbers)
	e.folding = sidearea.NewCodeFolding(e)
	e.side.Add(e.folding)

	e.extensions = extension.NewRegistry(e)
	e.currentLine = extension.Register(e.extensions, extension.NewCurrentLine(cfg.Editor.CurrentLineMode))
	e.braces = extension.Register(e.extensions, extension.NewSymbolHighlighter())
	e.margin = extension.Register(e.extensions, extension.NewRightMargin(cfg.Editor.MarginLine))
	e.margin.SetBackground(cfg.Editor.MarginLineBackground)
	e.guides = extension.Register(e.extensions, extension.NewIndentationGuide())
	e.autoBraces = extension.Register(e.extensions, extension.NewAutocompleteBraces())
	e.autoQuotes = extension.Register(e.extensions, extension.NewAutocompleteQuotes())
	e.currentLine.SetActive(cfg.Editor.HighlightCurrentLine)
	e.braces.SetActive(cfg.Editor.BraceMatching)
	e.margin.SetActive(cfg.Editor.ShowMarginLine)
	e.guides.SetActive(cfg.Editor.ShowIndentationGuides)
	e.autoBraces.SetActive(cfg.Editor.AutocompleteBrackets)
	e.autoQuotes.SetActive(cfg.Editor.AutocompleteQuotes)

	e.subs = append(e.subs,
		e.doc.Subscribe(e.onDocumentChange),
		ed.OnCheckersUpdated(func(*neditable.Editable) { e.HighlightCheckers() }),
	)
	return e
}

func (e *Editor) Document() *document.Document    { return e.doc }
func (e *Editor) Editable() *neditable.Editable   { return e.editable }
func (e *Editor) Selection() document.Selection   { return e.sel }
func (e *Editor) Overlays() *overlay.Manager      { return e.overlays }
func (e *Editor) Bus() *event.Bus                 { return e.bus }
func (e *Editor) Indenter() indenter.Indenter     { return e.indenter }
func (e *Editor) Scrollbar() *scrollbar.Overlay   { return e.scrollbar }
func (e *Editor) SideArea() *sidearea.Manager     { return e.side }
func (e *Editor) Extensions() *extension.Registry { return e.extensions }
func (e *Editor) Language() string                { return e.language }
func (e *Editor) CursorLine() int                 { return e.sel.Cursor.Line }
func (e *Editor) FontSize() int                   { return e.fontSize }

func (e *Editor) TabWidth() int {
	if e.indenter != nil && e.indenter.Width() > 0 {
		return e.indenter.Width()
	}
	return e.cfg.Editor.TabWidth
}

func (e *Editor) Color(role string) tcell.Color {
	return e.cfg.Theme.Color(role)
}

// CursorPosition returns the caret as line and column.
func (e *Editor) CursorPosition() (int, int) {
	return e.sel.Cursor.Line, e.sel.Cursor.Col
}

// SetCursorPosition moves the caret, clamping to the document.
func (e *Editor) SetCursorPosition(line, col int) {
	e.SetSelection(document.Caret(document.Position{Line: line, Col: col}))
}

// SetSelection replaces the selection. Both ends are clamped.
func (e *Editor) SetSelection(sel document.Selection) {
	sel.Anchor = e.doc.Clamp(sel.Anchor)
	sel.Cursor = e.doc.Clamp(sel.Cursor)
	if sel == e.sel {
		return
	}
	e.sel = sel
	e.cursorMoved()
}

func (e *Editor) cursorMoved() {
	e.clearOccurrences()
	caret := e.sel.Cursor
	e.bus.Publish(event.CursorPositionChanged{Line: caret.Line, Col: caret.Col})
	if caret.Line != e.lastLine {
		e.lastLine = caret.Line
		e.bus.Publish(event.CurrentLineChanged{Line: caret.Line})
	}
	e.updateCurrentLineMarker()
	e.timers.stop(e.occurrenceTimer)
	e.occurrenceTimer = e.timers.after(delayOr(e.cfg.Editor.OccurrenceDelayMs, defaultOccurrenceDelay), func() {
		e.occurrenceTimer = 0
		e.HighlightSelectedWord("")
	})
}

func (e *Editor) updateCurrentLineMarker() {
	e.scrollbar.RemoveMarker(markerCurrentLine)
	if e.scrollbar.Maximum() == 0 {
		return
	}
	e.scrollbar.AddMarker(markerCurrentLine, scrollbar.Marker{
		Line:     e.sel.Cursor.Line,
		Color:    e.Color(config.RoleCurrentLineMarker),
		Priority: 2,
	})
}

// onDocumentChange keeps the selection inside the document when another view
// or an undo shrinks it.
func (e *Editor) onDocumentChange(document.Change) {
	anchor, cursor := e.doc.Clamp(e.sel.Anchor), e.doc.Clamp(e.sel.Cursor)
	if anchor == e.sel.Anchor && cursor == e.sel.Cursor {
		return
	}
	e.sel = document.Selection{Anchor: anchor, Cursor: cursor}
	e.bus.Defer(e.cursorMoved)
}

// Tick fires the timers due at now. The UI loop calls it after a wake-up.
func (e *Editor) Tick(now time.Time) int {
	return e.timers.fire(now)
}

// NextDeadline returns when the earliest pending timer is due.
func (e *Editor) NextDeadline() (time.Time, bool) {
	return e.timers.next()
}

func (e *Editor) loadIndenter(language string) indenter.Indenter {
	width, useTabs := e.langs.ByName(language).Indent(e.cfg.Editor)
	return indenter.Load(language, indenter.Options{Width: width, UseTabs: useTabs})
}

// SetLanguage switches highlighting and indentation to language.
func (e *Editor) SetLanguage(language string) {
	e.language = language
	e.editable.SetLanguage(language)
	e.indenter = e.loadIndenter(language)
	e.registerSyntax(language, false)
}

// registerSyntax installs the highlighter for language. An unknown language
// leaves the view without one.
func (e *Editor) registerSyntax(language string, force bool) {
	if e.highlight != nil {
		e.highlight.Close()
		e.highlight = nil
	}
	g := syntax.Build(language, force)
	if g == nil {
		return
	}
	e.highlight = syntax.NewHighlighter(e.doc, g)
}

// Restyle rebuilds the styles from the current theme and reruns the
// highlighter.
func (e *Editor) Restyle() {
	e.restyle()
	e.registerSyntax(e.language, true)
}

// SetTheme applies theme and restyles the view.
func (e *Editor) SetTheme(theme config.Theme) {
	e.cfg.Theme = theme
	e.Restyle()
}

func (e *Editor) restyle() {
	base := tcell.StyleDefault.
		Foreground(e.Color(config.RoleDefault)).
		Background(e.Color(config.RoleEditorBackground))
	e.styles = styles{
		text: base,
		selection: base.
			Foreground(e.Color(config.RoleEditorSelectionColor)).
			Background(e.Color(config.RoleEditorSelectionBackground)),
		whitespace: base.Foreground(e.Color(config.RoleWhitespace)),
		kinds:      map[string]tcell.Style{},
	}
	for kind := range e.cfg.Theme.Colors {
		e.styles.kinds[kind] = base.Foreground(e.Color(kind))
	}
	e.scrollbar.TrackStyle = base.Foreground(e.Color(config.RoleScrollbarTrack))
	e.scrollbar.ThumbStyle = base.Foreground(e.Color(config.RoleDefault))
}

// IsCode reports whether (line, col) is outside comments and strings. Without
// a highlighter everything counts as code.
func (e *Editor) IsCode(line, col int) bool {
	if e.highlight == nil {
		return true
	}
	return e.highlight.IsCode(line, col)
}

// IsComment reports whether line starts with a comment. Without a
// highlighter the language's comment token decides.
func (e *Editor) IsComment(line int) bool {
	if e.highlight != nil {
		return e.highlight.IsComment(line)
	}
	lang := e.langs.ByName(e.language)
	if lang == nil || lang.CommentToken == "" {
		return false
	}
	return strings.HasPrefix(strings.TrimLeft(e.doc.Line(line), " \t"), lang.CommentToken)
}

// UserData returns the user data of line, nil when line is out of range.
func (e *Editor) UserData(line int) *document.UserData {
	b := e.doc.Block(line)
	if b == nil {
		return nil
	}
	return b.UserData()
}

// Clone opens another view on the same document, keeping the caret and the
// overlay groups.
func (e *Editor) Clone() *Editor {
	c := New(e.editable, e.cfg, e.opts...)
	c.fontSize = e.fontSize
	c.SetSelection(document.Caret(e.sel.Cursor))
	for key, sels := range e.overlays.AllGroups() {
		if key == overlay.GroupCurrentLine || key == overlay.GroupBraces {
			continue
		}
		copied := make([]overlay.ExtraSelection, 0, len(sels))
		for _, s := range sels {
			start, end := s.Range()
			copied = append(copied, overlay.NewSelection(c.doc, start, end, s.Style, s.Order))
		}
		c.overlays.SetGroup(key, copied)
	}
	return c
}

// Focus notifies listeners that the view became the active one.
func (e *Editor) Focus() {
	e.bus.Publish(event.FocusObtained{})
}

// HighlightCheckers redraws the checker underlines and scrollbar markers from
// the editable's current results.
func (e *Editor) HighlightCheckers() {
	e.overlays.ClearGroup(overlay.GroupChecker)
	e.scrollbar.RemoveMarker(markerChecker)
	var sels []overlay.ExtraSelection
	for _, c := range e.editable.SortedCheckers() {
		for _, line := range c.Lines() {
			if line < 0 || line >= e.doc.LineCount() {
				continue
			}
			e.scrollbar.AddMarker(markerChecker, scrollbar.Marker{Line: line, Color: c.Color, Priority: 1})
			start := e.doc.Clamp(document.Position{Line: line, Col: c.Checks[line].Col})
			end := document.Position{Line: line, Col: e.doc.LineLen(line)}
			sels = append(sels, overlay.NewSelection(e.doc, start, end, overlay.Style{Underline: c.Color}, overlay.OrderChecker))
		}
	}
	e.overlays.SetGroup(overlay.GroupChecker, sels)
	e.bus.Publish(event.CheckersUpdated{})
}

// Close releases the view: timers, extensions, subscriptions and the
// highlighter. Calling it twice is harmless.
func (e *Editor) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.timers.stopAll()
	e.extensions.Close()
	for _, cancel := range e.subs {
		cancel()
	}
	e.subs = nil
	e.textChanges.Close()
	if e.highlight != nil {
		e.highlight.Close()
		e.highlight = nil
	}
	e.overlays.Clear()
	if e.editable.Editor() == neditable.View(e) {
		e.editable.SetEditor(nil)
	}
	log.Debug("editor closed", "path", e.editable.FilePath())
}
