package model

import "strings"

// KeyState is one of the six face slots a key may carry a face and an action for.
type KeyState int

const (
	KeyStateNormal KeyState = iota
	KeyStateShifted
	KeyStateCaps
	KeyStateMod1
	KeyStateMod2
	KeyStateMod3

	NumKeyStates int = iota
)

var keyStateNames = [NumKeyStates]string{"normal", "shifted", "caps", "mod1", "mod2", "mod3"}

func (s KeyState) String() string {
	if s < 0 || int(s) >= NumKeyStates {
		return "unknown"
	}

	return keyStateNames[s]
}

// ParseKeyState maps a slot name as used in layout files to a KeyState.
func ParseKeyState(name string) (KeyState, bool) {
	for i, n := range keyStateNames {
		if strings.EqualFold(n, name) {
			return KeyState(i), true
		}
	}

	return KeyStateNormal, false
}

// KeyboardState is the live modifier bitmask. Several bits may be set at once.
type KeyboardState uint

const (
	StateNormal  KeyboardState = 0
	StateShifted KeyboardState = 1 << 1
	StateMod1    KeyboardState = 1 << 2
	StateMod2    KeyboardState = 1 << 3
	StateMod3    KeyboardState = 1 << 4
	StateCaps    KeyboardState = 1 << 5
	StateControl KeyboardState = 1 << 6
	StateAlt     KeyboardState = 1 << 7
)

// MomentaryStates are the bits cleared after a character is typed under the
// momentary modifier policy. Caps is never part of it.
const MomentaryStates = StateShifted | StateMod1 | StateMod2 | StateMod3 | StateControl | StateAlt

func (s KeyboardState) Has(bits KeyboardState) bool {
	return s&bits == bits
}

func (s KeyboardState) String() string {
	if s == StateNormal {
		return "normal"
	}

	names := []struct {
		bit  KeyboardState
		name string
	}{
		{StateShifted, "shift"},
		{StateMod1, "mod1"},
		{StateMod2, "mod2"},
		{StateMod3, "mod3"},
		{StateCaps, "caps"},
		{StateControl, "control"},
		{StateAlt, "alt"},
	}

	parts := make([]string, 0, len(names))

	for _, n := range names {
		if s&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}

	return strings.Join(parts, "+")
}

// FaceSlot derives the face slot consulted for a key from the modifier
// bitmask. Precedence, highest first: Caps (only when the key obeys caps),
// Mod3, Mod2, Mod1, Shifted, Normal.
func FaceSlot(state KeyboardState, obeyCaps bool) KeyState {
	switch {
	case obeyCaps && state&StateCaps != 0:
		return KeyStateCaps
	case state&StateMod3 != 0:
		return KeyStateMod3
	case state&StateMod2 != 0:
		return KeyStateMod2
	case state&StateMod1 != 0:
		return KeyStateMod1
	case state&StateShifted != 0:
		return KeyStateShifted
	default:
		return KeyStateNormal
	}
}

// ModType designates which modifier a modifier key acts on.
type ModType int

const (
	ModUnknown ModType = iota
	ModShift
	ModMod1
	ModMod2
	ModMod3
	ModCaps
	ModControl
	ModAlt
	ModLayout
)

var modNames = map[string]ModType{
	"shift":   ModShift,
	"mod1":    ModMod1,
	"mod2":    ModMod2,
	"mod3":    ModMod3,
	"caps":    ModCaps,
	"control": ModControl,
	"ctrl":    ModControl,
	"alt":     ModAlt,
	"layout":  ModLayout,
}

// ParseModType maps a modifier name to its designator. Unknown names yield
// ModUnknown, which presses as a no-op.
func ParseModType(name string) ModType {
	if m, ok := modNames[strings.ToLower(name)]; ok {
		return m
	}

	return ModUnknown
}

// StateBit is the bitmask bit a modifier designator toggles. ModLayout and
// ModUnknown have none.
func (m ModType) StateBit() KeyboardState {
	switch m {
	case ModShift:
		return StateShifted
	case ModMod1:
		return StateMod1
	case ModMod2:
		return StateMod2
	case ModMod3:
		return StateMod3
	case ModCaps:
		return StateCaps
	case ModControl:
		return StateControl
	case ModAlt:
		return StateAlt
	default:
		return StateNormal
	}
}

var modTypeNames = [...]string{
	ModUnknown: "unknown",
	ModShift:   "shift",
	ModMod1:    "mod1",
	ModMod2:    "mod2",
	ModMod3:    "mod3",
	ModCaps:    "caps",
	ModControl: "control",
	ModAlt:     "alt",
	ModLayout:  "layout",
}

func (m ModType) String() string {
	if m < 0 || int(m) >= len(modTypeNames) {
		return "unknown"
	}

	return modTypeNames[m]
}
