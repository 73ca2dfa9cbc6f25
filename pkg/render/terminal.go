package render

import (
	"fmt"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// TerminalSurface presents frames into a terminal using half-block cells,
// so one cell holds two pixels stacked vertically.
type TerminalSurface struct {
	term *uv.Terminal
}

// NewTerminalSurface wraps a started terminal.
func NewTerminalSurface(term *uv.Terminal) *TerminalSurface {
	return &TerminalSurface{term: term}
}

// Size returns the terminal size in pixels: columns by twice the rows.
func (s *TerminalSurface) Size() (int, int, error) {
	cols, rows, err := s.term.GetSize()
	if err != nil {
		return 0, 0, fmt.Errorf("get terminal size: %w", err)
	}
	return cols, rows * 2, nil
}

// Configure resizes the terminal screen buffer to hold width x height pixels.
func (s *TerminalSurface) Configure(width, height int) error {
	s.term.Erase()
	s.term.Resize(width, (height+1)/2)
	return nil
}

// Present draws the framebuffer and flushes it to the terminal.
func (s *TerminalSurface) Present(fb *Framebuffer) error {
	fb.Draw(s.term, uv.Rect(0, 0, fb.Width, (fb.Height+1)/2))
	return s.term.Display()
}
