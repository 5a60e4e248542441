package indenter

import "strings"

var pythonDedent = []string{"return", "pass", "break", "continue", "raise"}

// Python indents after a line ending in ':' or an unclosed bracket and
// dedents after statements that end a block.
type Python struct {
	*Basic
}

func newPython(language string, opts Options) Indenter {
	if opts.Width < 1 {
		opts.Width = 4
	}
	return &Python{Basic: newBasic(language, opts).(*Basic)}
}

func (p *Python) IndentBlock(before, after string) (NewLine, bool) {
	indent := LeadingWhitespace(before)
	trimmed := strings.TrimSpace(stripComment(before))
	switch {
	case strings.HasSuffix(trimmed, ":"):
		indent += p.Text()
	case openBrackets(trimmed) > 0:
		indent += p.Text()
	case isDedent(trimmed):
		indent = dedent(indent, p.Text())
	}
	if c := strings.TrimLeft(after, " \t"); c != "" && strings.ContainsRune(")]}", rune(c[0])) && openBrackets(trimmed) > 0 {
		// split a bracket pair: the closer goes on its own line
		outer := LeadingWhitespace(before)
		text := "\n" + indent
		return NewLine{Text: text + "\n" + outer, Cursor: len([]rune(text))}, true
	}
	text := "\n" + indent
	return NewLine{Text: text, Cursor: len([]rune(text))}, true
}

func isDedent(trimmed string) bool {
	for _, kw := range pythonDedent {
		if trimmed == kw || strings.HasPrefix(trimmed, kw+" ") || strings.HasPrefix(trimmed, kw+"(") {
			return true
		}
	}
	return false
}

func dedent(indent, unit string) string {
	if strings.HasSuffix(indent, unit) {
		return indent[:len(indent)-len(unit)]
	}
	if strings.HasSuffix(indent, "\t") {
		return indent[:len(indent)-1]
	}
	return indent
}

func stripComment(line string) string {
	inString := rune(0)
	for i, r := range line {
		switch {
		case inString != 0:
			if r == inString {
				inString = 0
			}
		case r == '"' || r == '\'':
			inString = r
		case r == '#':
			return line[:i]
		}
	}
	return line
}

// openBrackets counts brackets opened and not closed on the line.
func openBrackets(s string) int {
	depth := 0
	for _, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth
}
