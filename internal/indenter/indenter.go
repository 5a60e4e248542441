// Package indenter holds the per-language indentation policies: how wide an
// indentation step is, whether it is a tab, and what a new line starts with.
package indenter

import (
	"strings"

	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/logger"
)

var log = logger.Named("indenter")

// NewLine is what Enter inserts: Text replaces the selection and the caret
// ends Cursor runes into Text.
type NewLine struct {
	Text   string
	Cursor int
}

type Indenter interface {
	Language() string
	Width() int
	SetWidth(w int)
	UseTabs() bool
	SetUseTabs(tabs bool)

	// Text is one indentation step: a tab or Width spaces
	Text() string

	// IndentBlock computes the line break plus indentation for Enter pressed
	// between before and after (the text left and right of the caret)
	IndentBlock(before, after string) (NewLine, bool)

	// Indent inserts one step at the caret, aligned to the next tab stop
	Indent(doc *document.Document, sel document.Selection) document.Selection

	// IndentSelection prefixes every line touched by sel with one step
	IndentSelection(doc *document.Document, sel document.Selection) document.Selection

	// Unindent removes up to one step from every line touched by sel
	Unindent(doc *document.Document, sel document.Selection) document.Selection
}

type Options struct {
	Width   int
	UseTabs bool
}

type factory func(language string, opts Options) Indenter

var factories = map[string]factory{
	"python": newPython,
}

func init() {
	for _, lang := range braceLanguages {
		factories[lang] = newBrace
	}
}

// Load returns a fresh indenter for language. Languages without a dedicated
// policy get the basic one, which keeps the previous line's indentation.
func Load(language string, opts Options) Indenter {
	language = strings.ToLower(language)
	if f, ok := factories[language]; ok {
		return f(language, opts)
	}
	if language != "" {
		log.Debug("no indenter for language, using basic", "language", language)
	}
	return newBasic(language, opts)
}

// Basic keeps the indentation of the current line.
type Basic struct {
	language string
	width    int
	useTabs  bool
}

func newBasic(language string, opts Options) Indenter {
	b := &Basic{language: language}
	b.SetWidth(opts.Width)
	b.useTabs = opts.UseTabs
	return b
}

func (b *Basic) Language() string { return b.language }
func (b *Basic) Width() int       { return b.width }
func (b *Basic) UseTabs() bool    { return b.useTabs }

func (b *Basic) SetWidth(w int) {
	if w < 1 {
		w = 4
	}
	b.width = w
}

func (b *Basic) SetUseTabs(tabs bool) { b.useTabs = tabs }

func (b *Basic) Text() string {
	if b.useTabs {
		return "\t"
	}
	return strings.Repeat(" ", b.width)
}

func (b *Basic) IndentBlock(before, _ string) (NewLine, bool) {
	text := "\n" + LeadingWhitespace(before)
	return NewLine{Text: text, Cursor: len([]rune(text))}, true
}

func (b *Basic) Indent(doc *document.Document, sel document.Selection) document.Selection {
	if !sel.IsEmpty() {
		return b.IndentSelection(doc, sel)
	}
	unit := b.Text()
	if !b.useTabs {
		col := VisualColumn(doc.Line(sel.Cursor.Line)[:byteIndex(doc.Line(sel.Cursor.Line), sel.Cursor.Col)], b.width)
		unit = strings.Repeat(" ", b.width-col%b.width)
	}
	end := doc.Insert(sel.Cursor, unit)
	return document.Caret(end)
}

func (b *Basic) IndentSelection(doc *document.Document, sel document.Selection) document.Selection {
	first, last := LineSpan(sel)
	unit := b.Text()
	n := len([]rune(unit))
	doc.Edit(func() {
		for line := first; line <= last; line++ {
			doc.Insert(document.Position{Line: line}, unit)
		}
	})
	shift := func(p document.Position) document.Position {
		if p.Line >= first && p.Line <= last {
			p.Col += n
		}
		return p
	}
	return document.Selection{Anchor: shift(sel.Anchor), Cursor: shift(sel.Cursor)}
}

func (b *Basic) Unindent(doc *document.Document, sel document.Selection) document.Selection {
	first, last := LineSpan(sel)
	removed := map[int]int{}
	doc.Edit(func() {
		for line := first; line <= last; line++ {
			text := []rune(doc.Line(line))
			n := 0
			if len(text) > 0 && text[0] == '\t' {
				n = 1
			} else {
				for n < b.width && n < len(text) && text[n] == ' ' {
					n++
				}
			}
			if n == 0 {
				continue
			}
			doc.Delete(document.Position{Line: line}, document.Position{Line: line, Col: n})
			removed[line] = n
		}
	})
	shift := func(p document.Position) document.Position {
		if n, ok := removed[p.Line]; ok {
			p.Col -= n
			if p.Col < 0 {
				p.Col = 0
			}
		}
		return p
	}
	return document.Selection{Anchor: shift(sel.Anchor), Cursor: shift(sel.Cursor)}
}

// LineSpan returns the lines covered by sel. A multi-line selection ending at
// column 0 does not cover its last line.
func LineSpan(sel document.Selection) (int, int) {
	start, end := sel.Start(), sel.End()
	last := end.Line
	if end.Col == 0 && end.Line > start.Line {
		last--
	}
	return start.Line, last
}

// LeadingWhitespace returns the run of spaces and tabs that starts s.
func LeadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

// VisualColumn is the display width of s with tabs expanded to width.
func VisualColumn(s string, width int) int {
	col := 0
	for _, r := range s {
		if r == '\t' {
			col += width - col%width
			continue
		}
		col++
	}
	return col
}

func byteIndex(s string, col int) int {
	i := 0
	for idx := range s {
		if i == col {
			return idx
		}
		i++
	}
	return len(s)
}
