package indenter

import "strings"

var braceLanguages = []string{
	"go", "c", "cpp", "c++", "java", "javascript", "typescript", "json", "rust", "css", "csharp", "kotlin", "swift",
}

// Brace indents after an opening bracket and dedents a line that starts with
// a closing one.
type Brace struct {
	*Basic
}

func newBrace(language string, opts Options) Indenter {
	return &Brace{Basic: newBasic(language, opts).(*Basic)}
}

func (b *Brace) IndentBlock(before, after string) (NewLine, bool) {
	outer := LeadingWhitespace(before)
	trimmed := strings.TrimRight(before, " \t")
	indent := outer
	opens := strings.HasSuffix(trimmed, "{") || strings.HasSuffix(trimmed, "(") || strings.HasSuffix(trimmed, "[")
	if opens {
		indent += b.Text()
	}
	next := strings.TrimLeft(after, " \t")
	if opens && next != "" && strings.ContainsRune("})]", rune(next[0])) {
		text := "\n" + indent
		return NewLine{Text: text + "\n" + outer, Cursor: len([]rune(text))}, true
	}
	text := "\n" + indent
	return NewLine{Text: text, Cursor: len([]rune(text))}, true
}
