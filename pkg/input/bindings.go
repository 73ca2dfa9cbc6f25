package input

import (
	"fmt"
	"sort"
	"strings"
)

// Action is what a bound key does.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBack
	ActionLeft
	ActionRight
	ActionUp
	ActionDown
	ActionToggleMode
	ActionReset
	ActionToggleHUD
	ActionExit
)

var actionNames = map[Action]string{
	ActionForward:    "forward",
	ActionBack:       "back",
	ActionLeft:       "left",
	ActionRight:      "right",
	ActionUp:         "up",
	ActionDown:       "down",
	ActionToggleMode: "toggle-mode",
	ActionReset:      "reset",
	ActionToggleHUD:  "toggle-hud",
	ActionExit:       "exit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "none"
}

// IsPan reports whether the action is one of the six camera pan axes.
func (a Action) IsPan() bool {
	return a >= ActionForward && a <= ActionDown
}

// ParseAction returns the action with the given name.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// Bindings map key names to actions and name the orbit mouse button. Key
// names use the terminal's keystroke syntax ("w", "up", "escape", "shift+/").
type Bindings struct {
	Keys  map[string]Action
	Orbit Button
}

// DefaultBindings returns the stock key map.
func DefaultBindings() Bindings {
	b := Bindings{Keys: make(map[string]Action), Orbit: ButtonLeft}
	b.Bind(ActionForward, "w", "up")
	b.Bind(ActionBack, "s", "down")
	b.Bind(ActionLeft, "a", "left")
	b.Bind(ActionRight, "d", "right")
	b.Bind(ActionUp, "e")
	b.Bind(ActionDown, "q")
	b.Bind(ActionToggleMode, "x")
	b.Bind(ActionReset, "r")
	b.Bind(ActionToggleHUD, "?", "shift+/")
	b.Bind(ActionExit, "escape")
	return b
}

// Bind assigns keys to an action. A key bound earlier to another action is
// rebound.
func (b *Bindings) Bind(a Action, keys ...string) {
	if b.Keys == nil {
		b.Keys = make(map[string]Action)
	}
	for _, k := range keys {
		b.Keys[strings.ToLower(k)] = a
	}
}

// Rebind replaces every key of an action with the given keys.
func (b *Bindings) Rebind(a Action, keys ...string) {
	for k, bound := range b.Keys {
		if bound == a {
			delete(b.Keys, k)
		}
	}
	b.Bind(a, keys...)
}

// Action returns the action bound to key.
func (b Bindings) Action(key string) Action {
	return b.Keys[strings.ToLower(key)]
}

// KeyNames returns the bound key names in a stable order, longest first, so
// that modified keystrokes are matched before their bare key.
func (b Bindings) KeyNames() []string {
	names := make([]string, 0, len(b.Keys))
	for k := range b.Keys {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// KeysFor returns the keys bound to an action, sorted.
func (b Bindings) KeysFor(a Action) []string {
	var keys []string
	for k, bound := range b.Keys {
		if bound == a {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
