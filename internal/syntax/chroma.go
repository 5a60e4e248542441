package syntax

import (
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"

	"github.com/kobzarvs/nedit/internal/document"
)

// chromaGrammar tokenizes the whole source on every parse. It backs
// languages without a tree-sitter grammar.
type chromaGrammar struct {
	name  string
	lexer chroma.Lexer
	spans map[int][]Span
}

func newChromaGrammar(name string, lexer chroma.Lexer) *chromaGrammar {
	return &chromaGrammar{name: name, lexer: chroma.Coalesce(lexer)}
}

func (g *chromaGrammar) Language() string { return g.name }

func (g *chromaGrammar) Parse(src []byte, _ *document.ByteEdit) {
	iter, err := g.lexer.Tokenise(nil, string(src))
	if err != nil {
		log.Warn("tokenise failed", "language", g.name, "error", err)
		return
	}
	spans := map[int][]Span{}
	line, col := 0, 0
	for tok := iter(); tok != chroma.EOF; tok = iter() {
		kind := chromaKind(tok.Type)
		value := tok.Value
		for len(value) > 0 {
			r, size := utf8.DecodeRuneInString(value)
			value = value[size:]
			if r == '\n' {
				line++
				col = 0
				continue
			}
			if kind != "" {
				row := spans[line]
				if n := len(row); n > 0 && row[n-1].Kind == kind && row[n-1].EndCol == col {
					row[n-1].EndCol++
				} else {
					row = append(row, Span{StartCol: col, EndCol: col + 1, Kind: kind})
				}
				spans[line] = row
			}
			col++
		}
	}
	g.spans = spans
}

func chromaKind(t chroma.TokenType) string {
	switch t.Category() {
	case chroma.Keyword:
		switch t {
		case chroma.KeywordType:
			return KindType
		case chroma.KeywordConstant:
			return KindConstant
		}
		return KindKeyword
	case chroma.Name:
		switch t {
		case chroma.NameFunction, chroma.NameFunctionMagic:
			return KindFunction
		case chroma.NameBuiltin, chroma.NameBuiltinPseudo:
			return KindBuiltin
		case chroma.NameClass:
			return KindType
		case chroma.NameConstant:
			return KindConstant
		case chroma.NameAttribute, chroma.NameProperty:
			return KindField
		}
		return ""
	case chroma.Literal:
		switch t.SubCategory() {
		case chroma.LiteralString:
			return KindString
		case chroma.LiteralNumber:
			return KindNumber
		}
		return ""
	case chroma.Operator:
		return KindOperator
	case chroma.Punctuation:
		return KindPunctuation
	case chroma.Comment:
		return KindComment
	}
	return ""
}

func (g *chromaGrammar) Highlights(start, end int) map[int][]Span {
	out := make(map[int][]Span)
	for row := start; row <= end; row++ {
		if spans, ok := g.spans[row]; ok {
			out[row] = spans
		}
	}
	return out
}

func (g *chromaGrammar) Close() {
	g.spans = nil
}
