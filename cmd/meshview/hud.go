package main

import (
	"fmt"
	"io"
	"time"

	"github.com/taigrr/meshview/pkg/rendermode"
	"github.com/taigrr/meshview/pkg/viewer"
)

// HUD renders an overlay with model info and controls
type HUD struct {
	out       io.Writer
	filename  string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(out io.Writer, filename string, polyCount int) *HUD {
	return &HUD{
		out:       out,
		filename:  filename,
		polyCount: polyCount,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD overlay directly to the terminal. width and height
// are in cells.
func (h *HUD) Render(width, height int, st *viewer.State) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Fprint(h.out, moveTo(1, 1)+clearLine)
	fmt.Fprint(h.out, moveTo(height, 1)+clearLine)

	if !st.ShowHUD {
		return
	}

	// Top left: FPS
	fmt.Fprintf(h.out, "%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	// Top middle: filename
	titleCol := max((width-len(h.filename)-2)/2, 1)
	fmt.Fprintf(h.out, "%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.filename, reset)

	// Top right: triangle count
	polyStr := fmt.Sprintf(" %d tris ", h.polyCount)
	polyCol := max(width-len(polyStr)+1, 1)
	fmt.Fprintf(h.out, "%s%s%s%s%s%s", moveTo(1, polyCol), bgBlack, fgCyan, bold, polyStr, reset)

	// Bottom: mode checkbox and zoom
	checkWire := "[ ]"
	if st.Modes.Mode() == rendermode.Wireframe {
		checkWire = "[✓]"
	}
	fmt.Fprintf(h.out, "%s%s%s %s X-Ray (wireframe)  zoom %.3g %s",
		moveTo(height, 1), bgBlack, fgWhite, checkWire, st.Camera.Zoom, reset)

	hint := "R: reset  ?: HUD"
	hintCol := max(width-len(hint)-1, 1)
	fmt.Fprintf(h.out, "%s%s%s%s %s %s", moveTo(height, hintCol), bgBlack, dim, fgYellow, hint, reset)
}
