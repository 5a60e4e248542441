package syntax

import (
	"strings"

	"github.com/kobzarvs/nedit/internal/document"
)

// batch is how many lines a cache miss tokenizes at once.
const batch = 64

// Highlighter keeps a grammar in step with a document and caches spans for
// the lines that were asked for.
type Highlighter struct {
	doc         *document.Document
	grammar     Grammar
	spans       map[int][]Span
	unsubscribe func()
}

func NewHighlighter(doc *document.Document, g Grammar) *Highlighter {
	h := &Highlighter{doc: doc, grammar: g}
	h.Rehighlight()
	h.unsubscribe = doc.Subscribe(h.onChange)
	return h
}

func (h *Highlighter) Grammar() Grammar {
	return h.grammar
}

func (h *Highlighter) onChange(ch document.Change) {
	switch ch.Kind {
	case document.ChangeEdit:
		h.grammar.Parse([]byte(h.doc.Text()), ch.Edit)
		h.spans = map[int][]Span{}
	case document.ChangeReset:
		h.Rehighlight()
	}
}

// Rehighlight drops the parse state and tokenizes the whole document again.
func (h *Highlighter) Rehighlight() {
	h.grammar.Parse([]byte(h.doc.Text()), nil)
	h.spans = map[int][]Span{}
}

// Spans returns the spans of line.
func (h *Highlighter) Spans(line int) []Span {
	if spans, ok := h.spans[line]; ok {
		return spans
	}
	h.Prefetch(line, line+batch-1)
	return h.spans[line]
}

// Prefetch tokenizes lines from..to into the cache.
func (h *Highlighter) Prefetch(from, to int) {
	if last := h.doc.LineCount() - 1; to > last {
		to = last
	}
	if from < 0 || to < from {
		return
	}
	got := h.grammar.Highlights(from, to)
	for line := from; line <= to; line++ {
		h.spans[line] = got[line]
	}
}

// KindAt classifies the rune at (line, col).
func (h *Highlighter) KindAt(line, col int) (string, bool) {
	return KindAt(h.Spans(line), col)
}

// IsCode reports whether (line, col) is outside comments and strings.
func (h *Highlighter) IsCode(line, col int) bool {
	kind, ok := h.KindAt(line, col)
	return !ok || (kind != KindComment && kind != KindString)
}

// IsComment reports whether the first non-blank rune of line is a comment.
func (h *Highlighter) IsComment(line int) bool {
	text := h.doc.Line(line)
	trimmed := strings.TrimLeft(text, " \t")
	if trimmed == "" {
		return false
	}
	col := len([]rune(text)) - len([]rune(trimmed))
	kind, ok := h.KindAt(line, col)
	return ok && kind == KindComment
}

func (h *Highlighter) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
	h.grammar.Close()
}
