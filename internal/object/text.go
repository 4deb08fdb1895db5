package object

import (
	"github.com/mattn/go-runewidth"
	"github.com/tomz197/shootblitz/internal/draw"
)

// Text is a line of overlay text drawn over the canvas.
// Coordinates are 1-based terminal positions.
type Text struct {
	Col   int
	Row   int
	Value string
	Style string // ANSI escape applied before Value, reset after
}

// CenteredText places value horizontally centred on row of a terminal
// termWidth columns wide.
func CenteredText(row, termWidth int, value, style string) Text {
	col := (termWidth-runewidth.StringWidth(value))/2 + 1
	return Text{Col: max(col, 1), Row: row, Value: value, Style: style}
}

// RightAlignedText places value so that it ends at column termWidth-margin.
func RightAlignedText(row, termWidth, margin int, value, style string) Text {
	col := termWidth - margin - runewidth.StringWidth(value) + 1
	return Text{Col: max(col, 1), Row: row, Value: value, Style: style}
}

// Width is the number of terminal columns the text occupies.
func (t Text) Width() int {
	return runewidth.StringWidth(t.Value)
}

// Draw queues the text on cw and marks the covered canvas cells dirty so the
// canvas repaints them once the text is gone.
func (t Text) Draw(cw *draw.ChunkWriter, canvas *draw.Canvas) {
	if t.Value == "" {
		return
	}
	col := max(t.Col, 1)
	row := max(t.Row, 1)
	cw.MoveCursor(col, row)
	if t.Style != "" {
		cw.WriteString(t.Style)
	}
	cw.WriteString(t.Value)
	if t.Style != "" {
		cw.WriteString(draw.ColorReset)
	}
	if canvas != nil {
		canvas.MarkTextDirty(col, row, t.Width())
	}
}
