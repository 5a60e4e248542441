// Package syntax tokenizes documents for highlighting. Grammars come from
// tree-sitter where a grammar and highlight query exist and from chroma
// lexers otherwise.
package syntax

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/lexers"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kobzarvs/nedit/internal/document"
	"github.com/kobzarvs/nedit/internal/logger"
)

var log = logger.Named("syntax")

// Token kinds shared by every grammar.
const (
	KindComment     = "comment"
	KindString      = "string"
	KindKeyword     = "keyword"
	KindConstant    = "constant"
	KindBuiltin     = "builtin"
	KindParameter   = "parameter"
	KindType        = "type"
	KindFunction    = "function"
	KindNumber      = "number"
	KindField       = "field"
	KindVariable    = "variable"
	KindOperator    = "operator"
	KindPunctuation = "punctuation"
)

// Span is a highlighted run on one line, in rune columns, end exclusive.
type Span struct {
	StartCol int
	EndCol   int
	Kind     string
}

// Grammar tokenizes one document.
type Grammar interface {
	Language() string

	// Parse tokenizes src. edit describes how src differs from the
	// previously parsed source; nil forces a full parse.
	Parse(src []byte, edit *document.ByteEdit)

	// Highlights returns the spans of lines start..end inclusive.
	Highlights(start, end int) map[int][]Span

	Close()
}

type compiled struct {
	lang  *sitter.Language
	query *sitter.Query
}

var (
	mu    sync.Mutex
	cache = map[string]*compiled{}
)

// Build returns a grammar for language, or nil when the language is unknown.
// Compiled tree-sitter queries are cached per language; force recompiles.
func Build(language string, force bool) Grammar {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return nil
	}
	if c := compile(language, force); c != nil {
		return newTreeSitterGrammar(language, c)
	}
	if lexer := lexers.Get(language); lexer != nil {
		return newChromaGrammar(language, lexer)
	}
	log.Warn("no grammar for language", "language", language)
	return nil
}

func compile(language string, force bool) *compiled {
	mu.Lock()
	defer mu.Unlock()
	if c, ok := cache[language]; ok && !force {
		return c
	}
	def, ok := treeSitterLanguages[language]
	if !ok {
		return nil
	}
	lang := def.language()
	query, err := sitter.NewQuery([]byte(def.query), lang)
	if err != nil {
		log.Warn("highlight query failed", "language", language, "error", err)
		cache[language] = nil
		return nil
	}
	c := &compiled{lang: lang, query: query}
	cache[language] = c
	return c
}

// Priority orders overlapping kinds; the higher one is shown.
func Priority(kind string) int {
	switch kind {
	case KindComment:
		return 7
	case KindString:
		return 6
	case KindKeyword:
		return 5
	case KindConstant, KindBuiltin:
		return 4
	case KindParameter, KindType, KindFunction, KindNumber:
		return 3
	case KindField, KindVariable:
		return 2
	case KindOperator, KindPunctuation:
		return 1
	default:
		return 0
	}
}

// KindAt picks the highest priority kind covering col.
func KindAt(spans []Span, col int) (string, bool) {
	best := ""
	bestPriority := 0
	for _, span := range spans {
		if col < span.StartCol || col >= span.EndCol {
			continue
		}
		if p := Priority(span.Kind); p > bestPriority {
			bestPriority = p
			best = span.Kind
		}
	}
	return best, best != ""
}
