package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/nedit/internal/config"
)

// drawStatus paints the last screen row: file, branch and message on the
// left, caret, zoom and language on the right.
func (a *App) drawStatus() {
	w, h := a.screen.Size()
	if h < 1 {
		return
	}
	y := h - 1
	st := tcell.StyleDefault.
		Background(a.ed.Color(config.RoleCurrentLine)).
		Foreground(a.ed.Color(config.RoleDefault))
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, st)
	}

	name := "[scratch]"
	if p := a.editable.FilePath(); p != "" {
		name = filepath.Base(p)
	}
	if a.editable.Document().Modified() {
		name += " *"
	}
	left := []string{name}
	if a.branch != "" {
		left = append(left, "["+a.branch+"]")
	}
	if msg := a.message(); msg != "" {
		left = append(left, msg)
	}

	line, col := a.ed.CursorPosition()
	right := fmt.Sprintf("Ln %d, Col %d  %d%%", line+1, col+1, a.ed.ZoomPercent())
	if lang := a.ed.Language(); lang != "" {
		right += "  " + lang
	}
	rightX := w - runewidth.StringWidth(right) - 1
	drawText(a.screen, 1, y, rightX-1, strings.Join(left, "  "), st)
	drawText(a.screen, rightX, y, w, right, st)
}

// message is the app status, or the checker finding on the caret line.
func (a *App) message() string {
	if a.status != "" {
		return a.status
	}
	line := a.ed.CursorLine()
	for _, c := range a.editable.SortedCheckers() {
		if check, ok := c.Checks[line]; ok {
			msg, _, _ := strings.Cut(check.Message, "\n")
			return msg
		}
	}
	return ""
}

func drawText(s tcell.Screen, x, y, limit int, text string, st tcell.Style) {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > limit {
			return
		}
		s.SetContent(x, y, r, nil, st)
		x += rw
	}
}
