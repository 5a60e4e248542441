package extension

import (
	"strings"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/event"
	"github.com/kobzarvs/nedit/internal/indenter"
)

const (
	NameIndentationGuide = "indentation_guides"
	guideChar            = '│'
)

// IndentationGuide draws a vertical guide at every indentation stop inside
// a line's leading whitespace. Blank lines take the indentation of the next
// non-blank line so guides do not break across empty lines.
type IndentationGuide struct {
	base
}

func NewIndentationGuide() *IndentationGuide {
	return &IndentationGuide{base: base{name: NameIndentationGuide}}
}

func (g *IndentationGuide) Initialize(h Host) {
	g.bind(h)
	g.track(event.On(h.Bus(), g.paint))
}

func (g *IndentationGuide) step() int {
	if ind := g.host.Indenter(); ind != nil && ind.Width() > 0 {
		return ind.Width()
	}
	if w := g.host.TabWidth(); w > 0 {
		return w
	}
	return 4
}

// depth returns the visual width of the indentation that applies to line.
func (g *IndentationGuide) depth(line int) int {
	doc := g.host.Document()
	tab := g.host.TabWidth()
	for l := line; l < doc.LineCount(); l++ {
		text := doc.Line(l)
		if strings.TrimSpace(text) == "" {
			continue
		}
		return indenter.VisualColumn(indenter.LeadingWhitespace(text), tab)
	}
	return 0
}

func (g *IndentationGuide) paint(ev event.Painted) {
	if !g.active || ev.Screen == nil {
		return
	}
	step := g.step()
	s := ev.Screen
	color := g.host.Color(config.RoleIndentationGuide)
	for _, b := range ev.Blocks {
		y := ev.Area.Y + b.Top
		depth := g.depth(b.Line)
		for col := 0; col < depth; col += step {
			x := ev.Area.X + col
			if x >= ev.Area.X+ev.Area.W {
				break
			}
			mainc, combc, st, _ := s.GetContent(x, y)
			if mainc != ' ' && mainc != 0 {
				continue
			}
			s.SetContent(x, y, guideChar, combc, st.Foreground(color))
		}
	}
}
