// Package search compiles find/replace patterns and matches them line by
// line against a document.
package search

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/kobzarvs/nedit/internal/document"
)

var ErrEmptyPattern = errors.New("empty search pattern")

type Options struct {
	CaseSensitive bool
	WholeWord     bool
	// Regex treats the expression as a regular expression instead of text.
	Regex bool
}

// Match is a hit on one line, in rune columns.
type Match struct {
	Line int
	Col  int
	Len  int
}

func (m Match) Start() document.Position {
	return document.Position{Line: m.Line, Col: m.Col}
}

func (m Match) End() document.Position {
	return document.Position{Line: m.Line, Col: m.Col + m.Len}
}

type Pattern struct {
	re *regexp.Regexp
	// head and after match only at the start of their input; after first
	// consumes the rune left of the candidate so \b sees its context.
	head  *regexp.Regexp
	after *regexp.Regexp
}

func Compile(expr string, opts Options) (*Pattern, error) {
	if expr == "" {
		return nil, ErrEmptyPattern
	}
	src := expr
	if !opts.Regex {
		src = regexp.QuoteMeta(expr)
	}
	if opts.WholeWord {
		src = `\b(?:` + src + `)\b`
	}
	flags := ""
	if !opts.CaseSensitive {
		flags = "(?i)"
	}
	re, err := regexp.Compile(flags + src)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	return &Pattern{
		re:    re,
		head:  regexp.MustCompile(flags + `^(?:` + src + `)`),
		after: regexp.MustCompile(flags + `^(?s:.)(?:` + src + `)`),
	}, nil
}

// Line returns the non-empty matches of one line as rune column pairs.
func (p *Pattern) Line(text string) [][2]int {
	var out [][2]int
	for _, m := range p.re.FindAllStringIndex(text, -1) {
		if m[0] == m[1] {
			continue
		}
		start := utf8.RuneCountInString(text[:m[0]])
		out = append(out, [2]int{start, start + utf8.RuneCountInString(text[m[0]:m[1]])})
	}
	return out
}

// FindAll returns up to limit matches in document order. limit <= 0 means
// no limit.
func (p *Pattern) FindAll(doc *document.Document, limit int) []Match {
	var out []Match
	for line := 0; line < doc.LineCount(); line++ {
		for _, m := range p.Line(doc.Line(line)) {
			out = append(out, Match{Line: line, Col: m[0], Len: m[1] - m[0]})
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}

// Next finds the first match starting at or after from, or with backward
// set the last match ending at or before from. Matches may overlap earlier
// ones: every start position is tried, not only the ends of previous hits.
func (p *Pattern) Next(doc *document.Document, from document.Position, backward bool) (Match, bool) {
	if backward {
		for line := from.Line; line >= 0; line-- {
			text := doc.Line(line)
			limit := len(text)
			if line == from.Line {
				limit = byteOffset(text, from.Col)
			}
			if s, e, ok := p.lastBefore(text, limit); ok {
				return lineMatch(line, text, s, e), true
			}
		}
		return Match{}, false
	}
	for line := from.Line; line < doc.LineCount(); line++ {
		text := doc.Line(line)
		off := 0
		if line == from.Line {
			off = byteOffset(text, from.Col)
		}
		if s, e, ok := p.firstFrom(text, off); ok {
			return lineMatch(line, text, s, e), true
		}
	}
	return Match{}, false
}

// firstFrom returns the byte span of the leftmost non-empty match that
// starts at or after off.
func (p *Pattern) firstFrom(text string, off int) (int, int, bool) {
	for c := off; c <= len(text); {
		prev := c - lastRuneLen(text[:c])
		loc := p.re.FindStringIndex(text[prev:])
		if loc == nil {
			return 0, 0, false
		}
		s, e := prev+loc[0], prev+loc[1]
		switch {
		case s >= c && e > s:
			return s, e, true
		case s < c:
			if end, ok := p.matchAt(text, c); ok {
				return c, end, true
			}
		default:
			c = s
		}
		if c == len(text) {
			break
		}
		_, size := utf8.DecodeRuneInString(text[c:])
		c += size
	}
	return 0, 0, false
}

// lastBefore returns the byte span of the match with the greatest start
// that ends at or before limit.
func (p *Pattern) lastBefore(text string, limit int) (int, int, bool) {
	if !p.re.MatchString(text) {
		return 0, 0, false
	}
	bs, be, found := 0, 0, false
	for c := 0; c < limit; {
		if end, ok := p.matchAt(text, c); ok && end <= limit {
			bs, be, found = c, end, true
		}
		_, size := utf8.DecodeRuneInString(text[c:])
		c += size
	}
	return bs, be, found
}

// matchAt reports the end of a non-empty match starting exactly at byte c.
func (p *Pattern) matchAt(text string, c int) (int, bool) {
	if c == 0 {
		loc := p.head.FindStringIndex(text)
		if loc == nil || loc[1] == 0 {
			return 0, false
		}
		return loc[1], true
	}
	prev := c - lastRuneLen(text[:c])
	loc := p.after.FindStringIndex(text[prev:])
	if loc == nil || prev+loc[1] <= c {
		return 0, false
	}
	return prev + loc[1], true
}

func lineMatch(line int, text string, s, e int) Match {
	col := utf8.RuneCountInString(text[:s])
	return Match{Line: line, Col: col, Len: utf8.RuneCountInString(text[s:e])}
}

func lastRuneLen(s string) int {
	_, size := utf8.DecodeLastRuneInString(s)
	return size
}

func byteOffset(text string, col int) int {
	for i := range text {
		if col == 0 {
			return i
		}
		col--
	}
	return len(text)
}

// Expand applies the pattern's submatch template to matched text for regex
// replacements ($1, ${name}).
func (p *Pattern) Expand(matched, template string) string {
	idx := p.re.FindStringSubmatchIndex(matched)
	if idx == nil {
		return template
	}
	return string(p.re.ExpandString(nil, template, matched, idx))
}

// WordAt returns the identifier under col: a letter or underscore followed
// by letters, digits or underscores. ok is false when col is not on a word.
func WordAt(text string, col int) (start, end int, ok bool) {
	runes := []rune(text)
	if col > len(runes) {
		col = len(runes)
	}
	start, end = col, col
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	for start < end && unicode.IsDigit(runes[start]) {
		start++
	}
	return start, end, start < end
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
