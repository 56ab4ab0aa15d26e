package model

import (
	"fmt"
	"strings"
)

type FaceType int

const (
	FaceNone FaceType = iota
	FaceGlyph
	FaceImage
)

// Image references a picture drawn on a key. The backend owns the pixels;
// the model only keeps where it lives and how big it is.
type Image struct {
	Path   string
	Width  int
	Height int
}

// Face is what a key shows in one slot.
type Face struct {
	Type  FaceType
	Glyph string
	Image *Image
}

type ActionType int

const (
	ActionNone ActionType = iota
	ActionGlyph
	ActionKeySym
	ActionModifier
)

func (a ActionType) String() string {
	switch a {
	case ActionGlyph:
		return "glyph"
	case ActionKeySym:
		return "keysym"
	case ActionModifier:
		return "modifier"
	default:
		return "none"
	}
}

// Action is what pressing a key does in one slot.
type Action struct {
	Type     ActionType
	Chars    string
	KeySym   KeySym
	Modifier ModType
}

// Injects reports whether the action synthesizes a key event.
func (a Action) Injects() bool {
	return a.Type == ActionGlyph || a.Type == ActionKeySym
}

// Content is the payload handed to an injector: either a UTF-8 character
// sequence or a key symbol.
type Content struct {
	Chars  string
	KeySym KeySym
}

func (c Content) IsKeySym() bool {
	return c.Chars == "" && c.KeySym != NoSymbol
}

func (c Content) String() string {
	if c.IsKeySym() {
		return c.KeySym.Name()
	}

	return c.Chars
}

func (a Action) Content() Content {
	switch a.Type {
	case ActionGlyph:
		return Content{Chars: a.Chars}
	case ActionKeySym:
		return Content{KeySym: a.KeySym}
	default:
		return Content{}
	}
}

type slotEntry struct {
	face       Face
	action     Action
	alternates []string
}

// Key is the smallest unit of a layout. It belongs to exactly one Row.
type Key struct {
	row *Row

	x, y          int
	width, height int

	// Sizing requests, read when geometry is computed.
	ReqUWidth      int
	ExtraWidthPad  int
	ExtraHeightPad int
	Fill           bool

	ObeyCaps bool
	Blank    bool
	Extended bool

	slots [NumKeyStates]slotEntry
}

func NewKey() *Key {
	return &Key{}
}

func (k *Key) Row() *Row {
	return k.row
}

func (k *Key) SetGeometry(x, y, width, height int) {
	k.x, k.y, k.width, k.height = x, y, width, height
}

// X is relative to the owning row.
func (k *Key) X() int { return k.x }

// Y is relative to the owning row.
func (k *Key) Y() int { return k.y }

func (k *Key) Width() int  { return k.width }
func (k *Key) Height() int { return k.height }

func (k *Key) AbsX() int {
	if k.row == nil {
		return k.x
	}

	return k.row.X + k.x
}

func (k *Key) AbsY() int {
	if k.row == nil {
		return k.y
	}

	return k.row.Y + k.y
}

// Contains reports whether the absolute point lies inside the key box.
func (k *Key) Contains(x, y int) bool {
	ax, ay := k.AbsX(), k.AbsY()

	return x >= ax && x < ax+k.width && y >= ay && y < ay+k.height
}

// Visible reports whether the key takes part in layout given the extended mode.
func (k *Key) Visible(extended bool) bool {
	return !k.Extended || extended
}

func validSlot(s KeyState) bool {
	return s >= 0 && int(s) < NumKeyStates
}

// HasState reports whether the slot carries an explicit face or action.
func (k *Key) HasState(s KeyState) bool {
	if !validSlot(s) {
		return false
	}

	e := k.slots[s]

	return e.face.Type != FaceNone || e.action.Type != ActionNone || len(e.alternates) > 0
}

// States lists the slots with explicit entries.
func (k *Key) States() []KeyState {
	states := make([]KeyState, 0, NumKeyStates)

	for s := range NumKeyStates {
		if k.HasState(KeyState(s)) {
			states = append(states, KeyState(s))
		}
	}

	return states
}

func (k *Key) SetGlyphFace(s KeyState, glyph string) {
	if validSlot(s) {
		k.slots[s].face = Face{Type: FaceGlyph, Glyph: glyph}
	}
}

func (k *Key) SetImageFace(s KeyState, img *Image) {
	if validSlot(s) && img != nil {
		k.slots[s].face = Face{Type: FaceImage, Image: img}
	}
}

func (k *Key) SetCharAction(s KeyState, chars string) {
	if validSlot(s) {
		k.slots[s].action = Action{Type: ActionGlyph, Chars: chars}
	}
}

func (k *Key) SetKeySymAction(s KeyState, ks KeySym) {
	if validSlot(s) {
		k.slots[s].action = Action{Type: ActionKeySym, KeySym: ks}
	}
}

func (k *Key) SetModifierAction(s KeyState, m ModType) {
	if validSlot(s) {
		k.slots[s].action = Action{Type: ActionModifier, Modifier: m}
	}
}

// SetAlternates sets the long-press popup characters for a slot.
func (k *Key) SetAlternates(s KeyState, alternates []string) {
	if validSlot(s) {
		k.slots[s].alternates = append([]string(nil), alternates...)
	}
}

// Face resolves the face for a slot, falling back to Normal when the slot
// has no face of its own.
func (k *Key) Face(s KeyState) Face {
	if validSlot(s) && k.slots[s].face.Type != FaceNone {
		return k.slots[s].face
	}

	return k.slots[KeyStateNormal].face
}

func (k *Key) FaceType(s KeyState) FaceType {
	return k.Face(s).Type
}

// Action resolves the action for a slot with the same Normal fallback as Face.
func (k *Key) Action(s KeyState) Action {
	if validSlot(s) && k.slots[s].action.Type != ActionNone {
		return k.slots[s].action
	}

	return k.slots[KeyStateNormal].action
}

func (k *Key) Alternates(s KeyState) []string {
	if validSlot(s) && len(k.slots[s].alternates) > 0 {
		return k.slots[s].alternates
	}

	return k.slots[KeyStateNormal].alternates
}

// Label is a short human name for the key, used in logs and statistics.
func (k *Key) Label() string {
	if f := k.Face(KeyStateNormal); f.Type == FaceGlyph {
		return f.Glyph
	}

	a := k.Action(KeyStateNormal)

	switch a.Type {
	case ActionModifier:
		return a.Modifier.String()
	case ActionGlyph, ActionKeySym:
		return a.Content().String()
	default:
		return ""
	}
}

func (k *Key) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "key %q at %d,%d %dx%d", k.Label(), k.AbsX(), k.AbsY(), k.width, k.height)

	if k.Blank {
		b.WriteString(" blank")
	}

	if k.Fill {
		b.WriteString(" fill")
	}

	if k.Extended {
		b.WriteString(" extended")
	}

	if k.ObeyCaps {
		b.WriteString(" obey-caps")
	}

	for _, s := range k.States() {
		e := k.slots[s]
		fmt.Fprintf(&b, " [%s face=%d action=%s", s, e.face.Type, e.action.Type)

		if e.face.Type == FaceGlyph {
			fmt.Fprintf(&b, " glyph=%q", e.face.Glyph)
		}

		if e.action.Injects() {
			fmt.Fprintf(&b, " content=%q", e.action.Content().String())
		}

		b.WriteString("]")
	}

	return b.String()
}
