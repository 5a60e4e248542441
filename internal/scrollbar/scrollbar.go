// Package scrollbar draws the vertical scroll track with its thumb and the
// per-line markers (checker results, current line) painted on top of it.
package scrollbar

import (
	"github.com/gdamore/tcell/v2"
)

const (
	thumbChar  = '┃'
	trackChar  = '│'
	markerChar = '■'
)

type Marker struct {
	Line     int
	Color    tcell.Color
	Priority int
}

type Overlay struct {
	markers map[string][]Marker
	keys    []string

	maximum      int
	value        int
	visibleRange float64
	rangeOffset  float64
	lineMap      func(line int) int

	TrackStyle tcell.Style
	ThumbStyle tcell.Style
}

func New() *Overlay {
	return &Overlay{
		markers:    map[string][]Marker{},
		TrackStyle: tcell.StyleDefault.Foreground(tcell.ColorGray),
		ThumbStyle: tcell.StyleDefault.Foreground(tcell.ColorSilver),
	}
}

func (o *Overlay) AddMarker(key string, m Marker) {
	if _, ok := o.markers[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.markers[key] = append(o.markers[key], m)
}

// RemoveMarker drops every marker stored under key.
func (o *Overlay) RemoveMarker(key string) {
	if _, ok := o.markers[key]; !ok {
		return
	}
	delete(o.markers, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			return
		}
	}
}

func (o *Overlay) Markers(key string) []Marker {
	return o.markers[key]
}

// SetRange sets the scroll maximum: the first line of the last page.
func (o *Overlay) SetRange(maximum int) {
	if maximum < 0 {
		maximum = 0
	}
	o.maximum = maximum
	if o.value > maximum {
		o.value = maximum
	}
}

func (o *Overlay) Maximum() int {
	return o.maximum
}

func (o *Overlay) SetValue(v int) {
	if v < 0 {
		v = 0
	}
	if v > o.maximum {
		v = o.maximum
	}
	o.value = v
}

func (o *Overlay) Value() int {
	return o.value
}

// SetVisibleRange sets how many lines one page shows.
func (o *Overlay) SetVisibleRange(lines float64) {
	o.visibleRange = lines
}

// SetRangeOffset shifts markers by a partial line scroll.
func (o *Overlay) SetRangeOffset(lines float64) {
	o.rangeOffset = lines
}

// SetLineMap installs the document-line to visual-line mapping used when
// some lines are hidden. nil means identity.
func (o *Overlay) SetLineMap(fn func(line int) int) {
	o.lineMap = fn
}

// Row maps a document line onto a row of a track height rows tall, or -1
// when the document does not scroll.
func (o *Overlay) Row(line, height int) int {
	total := float64(o.maximum) + o.visibleRange
	if total <= 0 || height <= 0 {
		return -1
	}
	if o.lineMap != nil {
		line = o.lineMap(line)
	}
	row := int((float64(line) - o.rangeOffset) / total * float64(height))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

// RowMarkers resolves every marker to a row, keeping the highest priority
// marker when several land on the same row.
func (o *Overlay) RowMarkers(height int) map[int]Marker {
	rows := map[int]Marker{}
	for _, k := range o.keys {
		for _, m := range o.markers[k] {
			row := o.Row(m.Line, height)
			if row < 0 {
				continue
			}
			if cur, ok := rows[row]; ok && cur.Priority >= m.Priority {
				continue
			}
			rows[row] = m
		}
	}
	return rows
}

func (o *Overlay) thumb(height int) (int, int) {
	total := o.maximum + int(o.visibleRange)
	if total <= 0 {
		return 0, height
	}
	size := height * int(o.visibleRange) / total
	if size < 1 {
		size = 1
	}
	if size > height {
		size = height
	}
	maxScroll := o.maximum
	if maxScroll < 1 {
		maxScroll = 1
	}
	pos := o.value * (height - size) / maxScroll
	if pos < 0 {
		pos = 0
	}
	if pos+size > height {
		pos = height - size
	}
	return pos, size
}

// Paint draws the track in column x from row y, height rows tall.
func (o *Overlay) Paint(s tcell.Screen, x, y, height int) {
	if height < 1 || o.maximum == 0 {
		return
	}
	pos, size := o.thumb(height)
	for row := 0; row < height; row++ {
		if row >= pos && row < pos+size {
			s.SetContent(x, y+row, thumbChar, nil, o.ThumbStyle)
		} else {
			s.SetContent(x, y+row, trackChar, nil, o.TrackStyle)
		}
	}
	for row, m := range o.RowMarkers(height) {
		s.SetContent(x, y+row, markerChar, nil, o.TrackStyle.Foreground(m.Color))
	}
}
