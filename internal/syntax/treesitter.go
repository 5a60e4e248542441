package syntax

import (
	"bytes"
	"context"
	"math"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/kobzarvs/nedit/internal/document"
)

type treeSitterDef struct {
	language func() *sitter.Language
	query    string
}

var treeSitterLanguages = map[string]treeSitterDef{
	"go":         {golang.GetLanguage, goHighlightQuery},
	"python":     {python.GetLanguage, pythonHighlightQuery},
	"javascript": {javascript.GetLanguage, javascriptHighlightQuery},
	"bash":       {bash.GetLanguage, bashHighlightQuery},
	"yaml":       {yaml.GetLanguage, yamlHighlightQuery},
	"toml":       {toml.GetLanguage, tomlHighlightQuery},
}

type treeSitterGrammar struct {
	name   string
	query  *sitter.Query
	parser *sitter.Parser
	tree   *sitter.Tree
	source []byte
	lines  [][]byte
}

func newTreeSitterGrammar(name string, c *compiled) *treeSitterGrammar {
	p := sitter.NewParser()
	p.SetLanguage(c.lang)
	return &treeSitterGrammar{name: name, query: c.query, parser: p}
}

func (g *treeSitterGrammar) Language() string { return g.name }

func (g *treeSitterGrammar) Parse(src []byte, edit *document.ByteEdit) {
	prev := g.tree
	if edit == nil {
		prev = nil
	}
	if prev != nil {
		prev.Edit(sitter.EditInput{
			StartIndex:  uint32(edit.StartByte),
			OldEndIndex: uint32(edit.OldEndByte),
			NewEndIndex: uint32(edit.NewEndByte),
			StartPoint:  sitter.Point{Row: uint32(edit.StartRow), Column: uint32(edit.StartColBytes)},
			OldEndPoint: sitter.Point{Row: uint32(edit.OldEndRow), Column: uint32(edit.OldEndColBytes)},
			NewEndPoint: sitter.Point{Row: uint32(edit.NewEndRow), Column: uint32(edit.NewEndColBytes)},
		})
	}
	tree, err := g.parser.ParseCtx(context.Background(), prev, src)
	if err != nil {
		log.Warn("parse failed", "language", g.name, "error", err)
		return
	}
	if g.tree != nil && g.tree != tree {
		g.tree.Close()
	}
	g.tree = tree
	g.source = src
	g.lines = bytes.Split(src, []byte{'\n'})
}

func (g *treeSitterGrammar) Highlights(start, end int) map[int][]Span {
	if g.tree == nil || start < 0 || end < start {
		return nil
	}
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(start), Column: 0},
		sitter.Point{Row: uint32(end + 1), Column: 0},
	)
	cursor.Exec(g.query, g.tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, g.source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := g.query.CaptureNameForId(capture.Index)
			from := capture.Node.StartPoint()
			to := capture.Node.EndPoint()
			for row := int(from.Row); row <= int(to.Row); row++ {
				if row < start || row > end {
					continue
				}
				startCol, endCol := 0, math.MaxInt32
				if row == int(from.Row) {
					startCol = int(from.Column)
				}
				if row == int(to.Row) {
					endCol = int(to.Column)
				}
				out[row] = append(out[row], Span{
					StartCol: g.runeCol(row, startCol),
					EndCol:   g.runeCol(row, endCol),
					Kind:     kind,
				})
			}
		}
	}
	return out
}

// runeCol converts a byte column reported by tree-sitter to a rune column.
func (g *treeSitterGrammar) runeCol(row, col int) int {
	if row >= len(g.lines) {
		return col
	}
	line := g.lines[row]
	if col > len(line) {
		col = len(line)
	}
	return utf8.RuneCount(line[:col])
}

func (g *treeSitterGrammar) Close() {
	if g.tree != nil {
		g.tree.Close()
		g.tree = nil
	}
	g.parser.Close()
}
