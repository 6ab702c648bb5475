package app

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
	styleOverlay = tcell.StyleDefault.Background(tcell.ColorDarkBlue).
			Foreground(tcell.ColorWhite)
)

// render draws the whole demo screen.
func (a *App) render() {
	s := a.screen
	s.Clear()
	width, height := s.Size()
	if height < 4 {
		s.Show()
		return
	}

	view := a.editor.Snapshot()

	drawText(s, 0, 0, width, styleTitle, view.Title())

	// Buffer content.
	maxLines := height - 3
	for i, line := range view.Lines {
		if i >= maxLines {
			break
		}
		drawText(s, 0, i+1, width, styleDefault, line)
	}

	if view.Popup {
		drawBox(s, width/4, 2, []string{" completion ", " item one   ", " item two   "}, styleOverlay)
	}
	if view.Overlay {
		drawBox(s, width/6, 4, helpLines(), styleOverlay)
	}

	// Command line.
	if view.Command != "" {
		drawText(s, 0, height-2, width, styleDefault, view.Command)
	} else if view.Notice != "" {
		drawText(s, 0, height-2, width, styleDefault, view.Notice)
	}

	drawText(s, 0, height-1, width, styleStatus, a.statusLine(view))

	s.Show()
}

// statusLine summarizes mode, buffer and the live level of every path.
func (a *App) statusLine(view EditorView) string {
	var b strings.Builder
	fmt.Fprintf(&b, " %s | %s", strings.ToUpper(view.Mode.String()), view.BufferName)

	levels := a.dispatcher.Levels()
	for _, name := range a.dispatcher.Paths() {
		fmt.Fprintf(&b, " | %s:%d", name, levels[name])
	}

	snap := a.dispatcher.Metrics().Snapshot()
	fmt.Fprintf(&b, " | triggers:%d dispatches:%d", snap.TotalTriggers, snap.TotalDispatches)
	return b.String()
}

// helpLines is the overlay content.
func helpLines() []string {
	return []string{
		" keyladder demo                       ",
		"                                      ",
		" i/v/t/:  enter insert/visual/term/cmd",
		" Tab      next buffer                 ",
		" F1       toggle this help            ",
		" Ctrl+Space  fake completion popup    ",
		"                                      ",
		" Press a trigger key repeatedly to    ",
		" climb its escalation ladder.         ",
	}
}

// drawText writes a clipped single line.
func drawText(s tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		if col >= x+maxWidth {
			return
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
	// Status bars fill to the edge.
	if style == styleStatus {
		for ; col < x+maxWidth; col++ {
			s.SetContent(col, y, ' ', nil, style)
		}
	}
}

// drawBox draws a floating block of lines at the given origin.
func drawBox(s tcell.Screen, x, y int, lines []string, style tcell.Style) {
	width, height := s.Size()
	for i, line := range lines {
		if y+i >= height {
			return
		}
		col := x
		for _, r := range line {
			if col >= width {
				break
			}
			s.SetContent(col, y+i, r, nil, style)
			col++
		}
	}
}
