package model

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySym is an abstract key symbol identifier using X11 keysym values.
type KeySym uint32

const NoSymbol KeySym = 0

// Subset of the X11 keysym table that layouts reference by name.
var keysyms = map[string]KeySym{
	"BackSpace":   0xff08,
	"Tab":         0xff09,
	"Linefeed":    0xff0a,
	"Clear":       0xff0b,
	"Return":      0xff0d,
	"Pause":       0xff13,
	"Scroll_Lock": 0xff14,
	"Escape":      0xff1b,
	"Delete":      0xffff,
	"Home":        0xff50,
	"Left":        0xff51,
	"Up":          0xff52,
	"Right":       0xff53,
	"Down":        0xff54,
	"Page_Up":     0xff55,
	"Page_Down":   0xff56,
	"End":         0xff57,
	"Insert":      0xff63,
	"Menu":        0xff67,
	"Num_Lock":    0xff7f,
	"KP_Enter":    0xff8d,
	"F1":          0xffbe,
	"F2":          0xffbf,
	"F3":          0xffc0,
	"F4":          0xffc1,
	"F5":          0xffc2,
	"F6":          0xffc3,
	"F7":          0xffc4,
	"F8":          0xffc5,
	"F9":          0xffc6,
	"F10":         0xffc7,
	"F11":         0xffc8,
	"F12":         0xffc9,
	"Shift_L":     0xffe1,
	"Shift_R":     0xffe2,
	"Control_L":   0xffe3,
	"Control_R":   0xffe4,
	"Caps_Lock":   0xffe5,
	"Alt_L":       0xffe9,
	"Alt_R":       0xffea,
	"Super_L":     0xffeb,
	"space":       0x0020,
}

// ParseKeySym resolves a keysym name ("Return") or a numeric literal ("0xff0d").
func ParseKeySym(name string) (KeySym, error) {
	if ks, ok := keysyms[name]; ok {
		return ks, nil
	}

	for n, ks := range keysyms {
		if strings.EqualFold(n, name) {
			return ks, nil
		}
	}

	v, err := strconv.ParseUint(name, 0, 32)
	if err != nil {
		return NoSymbol, fmt.Errorf("unknown keysym %q", name)
	}

	return KeySym(v), nil
}

// Name returns the keysym name, or its hex value when it has none.
func (k KeySym) Name() string {
	for n, ks := range keysyms {
		if ks == k {
			return n
		}
	}

	return fmt.Sprintf("0x%04x", uint32(k))
}
