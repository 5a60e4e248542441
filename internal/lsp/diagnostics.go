package lsp

import (
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/nedit/internal/neditable"
)

// CheckerName is the checker key diagnostics of severity sev are stored
// under.
func CheckerName(sev Severity) string {
	switch sev {
	case SeverityError:
		return "lsp-error"
	case SeverityWarning:
		return "lsp-warning"
	default:
		return "lsp-info"
	}
}

var checkerStyles = map[string]struct {
	color    tcell.Color
	priority int
}{
	"lsp-error":   {tcell.ColorRed, 3},
	"lsp-warning": {tcell.ColorYellow, 2},
	"lsp-info":    {tcell.ColorSteelBlue, 1},
}

// Apply replaces the diagnostics checkers of ed with diags. Diagnostics are
// grouped by severity. When several land on one line the leftmost column is
// kept and the messages are joined.
func Apply(ed *neditable.Editable, diags []Diagnostic) {
	doc := ed.Document()
	checkers := map[string]neditable.Checker{}
	sorted := append([]Diagnostic(nil), diags...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Range.Start, sorted[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
	for _, d := range sorted {
		line := d.Range.Start.Line
		if line < 0 || line >= doc.LineCount() {
			continue
		}
		name := CheckerName(d.Severity)
		c, ok := checkers[name]
		if !ok {
			look := checkerStyles[name]
			c = neditable.Checker{Name: name, Color: look.color, Priority: look.priority, Checks: map[int]neditable.Check{}}
		}
		msg := d.Message
		if d.Source != "" {
			msg = d.Source + ": " + msg
		}
		if prev, dup := c.Checks[line]; dup {
			prev.Message = strings.Join([]string{prev.Message, msg}, "\n")
			c.Checks[line] = prev
		} else {
			c.Checks[line] = neditable.Check{Message: msg, Col: RuneColumn(doc.Line(line), d.Range.Start.Character)}
		}
		checkers[name] = c
	}
	for name := range checkerStyles {
		if c, ok := checkers[name]; ok {
			ed.SetChecker(c)
		} else {
			ed.RemoveChecker(name)
		}
	}
}

// RuneColumn converts a UTF-16 offset into line to a rune column.
func RuneColumn(line string, units int) int {
	col, n := 0, 0
	for _, r := range line {
		if n >= units {
			break
		}
		n += utf16.RuneLen(r)
		col++
	}
	return col
}

// UTF16Column converts a rune column of line to UTF-16 code units.
func UTF16Column(line string, col int) int {
	n := 0
	for i, r := range []rune(line) {
		if i >= col {
			break
		}
		n += utf16.RuneLen(r)
	}
	return n
}
