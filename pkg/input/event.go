// Package input defines the backend-neutral input events the viewer reacts
// to, the key bindings that give them meaning, and the translation from
// terminal events.
package input

import "fmt"

// Kind identifies the type of an Event.
type Kind int

const (
	KindNone Kind = iota
	KeyDown
	KeyUp
	MouseDown
	MouseUp
	MouseMove
	Scroll
	Magnify
	Resize
	CloseRequested
)

var kindNames = [...]string{
	KindNone:       "none",
	KeyDown:        "key-down",
	KeyUp:          "key-up",
	MouseDown:      "mouse-down",
	MouseUp:        "mouse-up",
	MouseMove:      "mouse-move",
	Scroll:         "scroll",
	Magnify:        "magnify",
	Resize:         "resize",
	CloseRequested: "close-requested",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Button identifies a mouse button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// Event is a single input event. Which fields are meaningful depends on
// Kind:
//
//	KeyDown, KeyUp       Key, Repeat
//	MouseDown, MouseUp   Button, X, Y
//	MouseMove            X, Y
//	Scroll               Delta in lines, positive zooms in
//	Magnify              Delta, positive zooms in
//	Resize               Width, Height in surface pixels
type Event struct {
	Kind   Kind
	Key    string
	Button Button
	X, Y   int
	Delta  float64
	Width  int
	Height int
	Repeat bool
}

func (e Event) String() string {
	switch e.Kind {
	case KeyDown, KeyUp:
		if e.Repeat {
			return fmt.Sprintf("%s %q (repeat)", e.Kind, e.Key)
		}
		return fmt.Sprintf("%s %q", e.Kind, e.Key)
	case MouseDown, MouseUp:
		return fmt.Sprintf("%s %s (%d,%d)", e.Kind, e.Button, e.X, e.Y)
	case MouseMove:
		return fmt.Sprintf("%s (%d,%d)", e.Kind, e.X, e.Y)
	case Scroll, Magnify:
		return fmt.Sprintf("%s %g", e.Kind, e.Delta)
	case Resize:
		return fmt.Sprintf("%s %dx%d", e.Kind, e.Width, e.Height)
	default:
		return e.Kind.String()
	}
}

// KeyPress returns a KeyDown event.
func KeyPress(key string, repeat bool) Event {
	return Event{Kind: KeyDown, Key: key, Repeat: repeat}
}

// KeyRelease returns a KeyUp event.
func KeyRelease(key string) Event {
	return Event{Kind: KeyUp, Key: key}
}

// MousePress returns a MouseDown event.
func MousePress(b Button, x, y int) Event {
	return Event{Kind: MouseDown, Button: b, X: x, Y: y}
}

// MouseRelease returns a MouseUp event.
func MouseRelease(b Button, x, y int) Event {
	return Event{Kind: MouseUp, Button: b, X: x, Y: y}
}

// MouseMotion returns a MouseMove event.
func MouseMotion(x, y int) Event {
	return Event{Kind: MouseMove, X: x, Y: y}
}

// Wheel returns a Scroll event of the given number of lines.
func Wheel(lines float64) Event {
	return Event{Kind: Scroll, Delta: lines}
}

// Pinch returns a Magnify event.
func Pinch(amount float64) Event {
	return Event{Kind: Magnify, Delta: amount}
}

// WindowResize returns a Resize event.
func WindowResize(width, height int) Event {
	return Event{Kind: Resize, Width: width, Height: height}
}

// Close returns a CloseRequested event.
func Close() Event {
	return Event{Kind: CloseRequested}
}
