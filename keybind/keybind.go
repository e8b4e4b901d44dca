// Package keybind maps normalized key names such as "ctrl+c", "pgdn" or "?"
// onto tcell key events.
package keybind

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
)

type Keybind struct {
	keys     []string
	help     Help
	disabled bool
}

type Option func(*Keybind)

func NewKeybind(options ...Option) Keybind {
	k := &Keybind{}
	for _, option := range options {
		option(k)
	}
	return *k
}

func WithKeys(keys ...string) Option {
	return func(k *Keybind) {
		k.keys = normalizeKeys(keys...)
	}
}

func WithHelp(key, desc string) Option {
	return func(k *Keybind) {
		k.help = Help{Key: key, Desc: desc}
	}
}

// WithDisabled creates the binding switched off.
func WithDisabled() Option {
	return func(k *Keybind) {
		k.disabled = true
	}
}

func (k Keybind) Keys() []string {
	return k.keys
}

func (k *Keybind) SetKeys(keys ...string) {
	k.keys = normalizeKeys(keys...)
}

func (k Keybind) Help() Help {
	return k.help
}

func (k *Keybind) SetHelp(key, desc string) {
	k.help = Help{Key: key, Desc: desc}
}

// Enabled reports whether the binding has keys and is switched on. Disabled
// bindings never match and are left out of help.
func (k Keybind) Enabled() bool {
	return !k.disabled && len(k.keys) > 0
}

func (k *Keybind) SetEnabled(enabled bool) {
	k.disabled = !enabled
}

type Help struct {
	Key  string
	Desc string
}

// Matches reports whether event triggers any of the enabled keybinds.
func Matches(event *tcell.EventKey, keybinds ...Keybind) bool {
	if event == nil {
		return false
	}

	key := EventKeyString(event)
	for _, keybind := range keybinds {
		if keybind.Enabled() && slices.Contains(keybind.keys, key) {
			return true
		}
	}
	return false
}

func normalizeKeys(keys ...string) []string {
	normalized := make([]string, 0, len(keys))
	for _, key := range keys {
		if key = normalizeKey(key); key != "" {
			normalized = append(normalized, key)
		}
	}
	return normalized
}

func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	// A lone plus is the key itself, not a separator.
	if key == "+" {
		return key
	}

	var mods []string
	primary := ""
	for _, part := range strings.Split(key, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		switch strings.ToLower(part) {
		case "ctrl", "control":
			mods = append(mods, "ctrl")
		case "alt":
			mods = append(mods, "alt")
		case "shift":
			mods = append(mods, "shift")
		case "meta":
			mods = append(mods, "meta")
		default:
			primary = normalizePrimaryKey(part)
		}
	}

	if primary == "" {
		return ""
	}
	if primary == "backtab" {
		mods = append(mods, "shift")
		primary = "tab"
	}
	if len(mods) > 0 && len([]rune(primary)) == 1 {
		primary = strings.ToLower(primary)
	}
	return joinKey(mods, primary)
}

func normalizePrimaryKey(key string) string {
	// tcell names rune events "Rune[x]".
	if strings.HasPrefix(key, "Rune[") && strings.HasSuffix(key, "]") && len(key) >= 7 {
		return key[5 : len(key)-1]
	}

	lower := strings.ToLower(key)
	switch lower {
	case "esc", "escape":
		return "esc"
	case "return":
		return "enter"
	case "pageup":
		return "pgup"
	case "pagedown":
		return "pgdn"
	case "space":
		return " "
	}

	if strings.HasPrefix(lower, "ctrl-") && len(key) > len("ctrl-") {
		return "ctrl+" + lower[len("ctrl-"):]
	}
	if len([]rune(key)) == 1 {
		return key
	}
	return lower
}

func joinKey(mods []string, primary string) string {
	if len(mods) == 0 {
		return primary
	}
	seen := make(map[string]struct{}, len(mods))
	parts := make([]string, 0, len(mods)+1)
	for _, mod := range mods {
		if _, ok := seen[mod]; ok {
			continue
		}
		seen[mod] = struct{}{}
		parts = append(parts, mod)
	}
	return strings.Join(append(parts, primary), "+")
}

// EventKeyString returns the normalized name of event, in the same form
// WithKeys produces.
func EventKeyString(event *tcell.EventKey) string {
	if event == nil {
		return ""
	}

	var mods []string
	key := event.Key()
	primary := keyName(key)
	switch {
	case primary != "":
	case key == tcell.KeyBacktab:
		primary = "tab"
		mods = append(mods, "shift")
	case key == tcell.KeyRune:
		primary = string(event.Rune())
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		return "ctrl+" + string(rune('a'+(key-tcell.KeyCtrlA)))
	default:
		return normalizeKey(event.Name())
	}

	if event.Modifiers()&tcell.ModCtrl != 0 {
		mods = append(mods, "ctrl")
	}
	if event.Modifiers()&tcell.ModAlt != 0 {
		mods = append(mods, "alt")
	}
	if event.Modifiers()&tcell.ModShift != 0 && key != tcell.KeyRune {
		mods = append(mods, "shift")
	}
	if event.Modifiers()&tcell.ModMeta != 0 {
		mods = append(mods, "meta")
	}
	if len(mods) > 0 && len([]rune(primary)) == 1 {
		primary = strings.ToLower(primary)
	}
	return joinKey(mods, primary)
}

func keyName(key tcell.Key) string {
	switch key {
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyDelete:
		return "delete"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyInsert:
		return "insert"
	}
	return ""
}
