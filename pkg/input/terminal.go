package input

import (
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

// DefaultReleaseTimeout is how long a key counts as held after its last
// press when the terminal does not report key releases.
const DefaultReleaseTimeout = 500 * time.Millisecond

// Translator converts terminal events into Events. It is owned by the
// goroutine reading the terminal.
//
// Resize events are reported in surface pixels: each terminal cell holds two
// vertically stacked pixels.
//
// Most terminals never send key releases. Until the first real release is
// seen, a held key gets a synthesized KeyUp once ReleaseTimeout passes
// without the key being pressed again (auto-repeat refreshes it).
type Translator struct {
	ReleaseTimeout time.Duration

	keys     []string
	held     map[string]time.Time
	releases bool
}

// NewTranslator returns a translator that reports the keys of b.
func NewTranslator(b Bindings, releaseTimeout time.Duration) *Translator {
	if releaseTimeout <= 0 {
		releaseTimeout = DefaultReleaseTimeout
	}
	return &Translator{
		ReleaseTimeout: releaseTimeout,
		keys:           b.KeyNames(),
		held:           make(map[string]time.Time),
	}
}

// matcher is implemented by the terminal's key press and release events.
type matcher interface {
	MatchString(s ...string) bool
}

func (t *Translator) match(ev matcher) (string, bool) {
	for _, k := range t.keys {
		if ev.MatchString(k) {
			return k, true
		}
	}
	return "", false
}

// Translate converts one terminal event. Unbound keys and unknown events
// produce nothing.
func (t *Translator) Translate(ev uv.Event, now time.Time) []Event {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		return []Event{WindowResize(ev.Width, ev.Height*2)}

	case uv.KeyPressEvent:
		if ev.MatchString("ctrl+c") {
			return []Event{Close()}
		}
		key, ok := t.match(ev)
		if !ok {
			return nil
		}
		repeat := ev.IsRepeat
		if !t.releases {
			// Without releases, a press of a held key is auto-repeat.
			_, held := t.held[key]
			repeat = repeat || held
			t.held[key] = now
		}
		return []Event{KeyPress(key, repeat)}

	case uv.KeyReleaseEvent:
		t.releases = true
		clear(t.held)
		key, ok := t.match(ev)
		if !ok {
			return nil
		}
		return []Event{KeyRelease(key)}

	case uv.MouseClickEvent:
		return []Event{MousePress(mouseButton(ev.Button), ev.X, ev.Y)}

	case uv.MouseReleaseEvent:
		return []Event{MouseRelease(mouseButton(ev.Button), ev.X, ev.Y)}

	case uv.MouseMotionEvent:
		return []Event{MouseMotion(ev.X, ev.Y)}

	case uv.MouseWheelEvent:
		var lines float64
		switch ev.Button {
		case uv.MouseWheelUp:
			lines = 1
		case uv.MouseWheelDown:
			lines = -1
		default:
			return nil
		}
		if ev.Mod&uv.ModCtrl != 0 {
			return []Event{Pinch(lines)}
		}
		return []Event{Wheel(lines)}
	}
	return nil
}

// Expire returns KeyUp events for held keys whose timeout has passed.
func (t *Translator) Expire(now time.Time) []Event {
	var out []Event
	for key, pressed := range t.held {
		if now.Sub(pressed) >= t.ReleaseTimeout {
			delete(t.held, key)
			out = append(out, KeyRelease(key))
		}
	}
	return out
}

// Held reports whether key is currently considered held.
func (t *Translator) Held(key string) bool {
	_, ok := t.held[key]
	return ok
}

func mouseButton(b uv.MouseButton) Button {
	switch b {
	case uv.MouseLeft:
		return ButtonLeft
	case uv.MouseMiddle:
		return ButtonMiddle
	case uv.MouseRight:
		return ButtonRight
	default:
		return ButtonNone
	}
}
