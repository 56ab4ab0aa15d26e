package layout

import "github.com/dasdy/softkbd/model"

// labels are the faces shown for keysym keys that do not set a display text.
var labels = map[string]string{
	"Shift_L":   "⇧",
	"Shift_R":   "R⇧",
	"Control_L": "^",
	"Control_R": "⌃",
	"Return":    "↵",
	"KP_Enter":  "↵",
	"Super_L":   "⌘",
	"Alt_L":     "⌥",
	"Alt_R":     "⌥",
	"BackSpace": "⌫",
	"Delete":    "⌦",
	"space":     "␣",
	"Tab":       "⇥",
	"Escape":    "Esc",
	"Caps_Lock": "⇪",

	"Right":     "→",
	"Left":      "←",
	"Up":        "↑",
	"Down":      "↓",
	"Home":      "⇱",
	"End":       "⇲",
	"Page_Up":   "⇞",
	"Page_Down": "⇟",
	"Insert":    "Ins",
	"Menu":      "☰",
}

// modifierLabels are the faces of modifier keys that do not set a display text.
var modifierLabels = map[model.ModType]string{
	model.ModShift:   "⇧",
	model.ModCaps:    "⇪",
	model.ModControl: "Ctrl",
	model.ModAlt:     "Alt",
	model.ModMod1:    "Fn",
	model.ModMod2:    "Sym",
	model.ModMod3:    "Alt Gr",
	model.ModLayout:  "🌐",
}

// KeySymLabel is the face used for a keysym key without a display text.
func KeySymLabel(ks model.KeySym) string {
	name := ks.Name()
	if v, ok := labels[name]; ok {
		return v
	}

	return name
}

// ModifierLabel is the face used for a modifier key without a display text.
func ModifierLabel(m model.ModType) string {
	if v, ok := modifierLabels[m]; ok {
		return v
	}

	return m.String()
}
