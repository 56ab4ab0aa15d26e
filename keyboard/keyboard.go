// Package keyboard is the on-screen keyboard engine. It owns the layouts,
// the modifier state, the held key and the popup overlay, and drives a
// Renderer and an Injector without knowing what implements them.
package keyboard

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dasdy/softkbd/model"
)

var (
	ErrNoLayout      = errors.New("keyboard has no layouts")
	ErrUnknownLayout = errors.New("unknown layout")
	ErrUnknownPolicy = errors.New("unknown policy")
)

// Renderer is the part of a rendering backend the engine calls while drawing.
type Renderer interface {
	// TextExtents measures a glyph string in the backend's font.
	TextExtents(text string) (width, height int)
	// PreRedraw is called once before a batch of RedrawKey calls.
	PreRedraw()
	// RedrawKey draws one key with its resolved face.
	RedrawKey(key *model.Key, view KeyView)
}

// PopupRenderer is implemented by renderers able to draw the popup overlay.
type PopupRenderer interface {
	ShowPopup(p *Popup)
	HidePopup()
}

// KeyView carries the state-dependent data a backend needs to draw a key.
type KeyView struct {
	Face model.Face
	Slot model.KeyState
	Held bool
}

// Injector synthesizes key events into the host input stream.
type Injector interface {
	Press(content model.Content, modifiers model.KeyboardState) error
	Release() error
}

// Scheduler runs fn once after d on the thread that owns the keyboard. The
// returned function cancels it.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// ModifierPolicy decides what happens to modifier bits after a character key.
type ModifierPolicy int

const (
	// Momentary clears shift, mod1-3, control and alt once a key that
	// injected content is released.
	Momentary ModifierPolicy = iota
	// Latched keeps modifiers until their key is pressed again.
	Latched
)

// PopupRelease decides what a release outside an open popup injects.
type PopupRelease int

const (
	PopupDiscard PopupRelease = iota
	PopupBase
)

func (p ModifierPolicy) String() string {
	if p == Latched {
		return "latched"
	}

	return "momentary"
}

func ParseModifierPolicy(s string) (ModifierPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "momentary":
		return Momentary, nil
	case "latched":
		return Latched, nil
	default:
		return Momentary, fmt.Errorf("%w: modifier policy %q", ErrUnknownPolicy, s)
	}
}

func (p PopupRelease) String() string {
	if p == PopupBase {
		return "base"
	}

	return "discard"
}

func ParsePopupRelease(s string) (PopupRelease, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discard":
		return PopupDiscard, nil
	case "base":
		return PopupBase, nil
	default:
		return PopupDiscard, fmt.Errorf("%w: popup release %q", ErrUnknownPolicy, s)
	}
}

// Spacing holds the layout constants applied uniformly during geometry
// computation.
type Spacing struct {
	KeyBorder  int
	KeyPad     int
	KeyMargin  int
	RowSpacing int
	ColSpacing int
}

const DefaultLongPress = 600 * time.Millisecond

type Keyboard struct {
	layouts  *model.List[*model.Layout]
	selected *model.Layout

	spacing  Spacing
	extended bool
	state    model.KeyboardState

	held       *model.Key
	heldAction model.Action
	pressed    bool
	injected   bool
	deferred   bool
	popup      *Popup

	longPress    time.Duration
	cancelTimer  func()
	timerGen     uint64
	policy       ModifierPolicy
	popupRelease PopupRelease

	renderer  Renderer
	injector  Injector
	scheduler Scheduler

	unitWidth, unitHeight int
	fitWidth, fitHeight   int
	natural               map[*model.Layout][2]int
}

type Option func(*Keyboard)

func WithRenderer(r Renderer) Option {
	return func(kb *Keyboard) { kb.renderer = r }
}

func WithInjector(i Injector) Option {
	return func(kb *Keyboard) { kb.injector = i }
}

func WithScheduler(s Scheduler) Option {
	return func(kb *Keyboard) { kb.scheduler = s }
}

func WithSpacing(s Spacing) Option {
	return func(kb *Keyboard) { kb.spacing = s }
}

func WithLongPress(d time.Duration) Option {
	return func(kb *Keyboard) { kb.longPress = d }
}

func WithModifierPolicy(p ModifierPolicy) Option {
	return func(kb *Keyboard) { kb.policy = p }
}

func WithPopupRelease(p PopupRelease) Option {
	return func(kb *Keyboard) { kb.popupRelease = p }
}

func WithExtended(extended bool) Option {
	return func(kb *Keyboard) { kb.extended = extended }
}

// New creates an engine with no layouts. Without a renderer or injector the
// engine draws and injects nothing.
func New(opts ...Option) *Keyboard {
	kb := &Keyboard{
		layouts:   model.NewList[*model.Layout](),
		longPress: DefaultLongPress,
		renderer:  nopRenderer{},
		injector:  nopInjector{},
		natural:   make(map[*model.Layout][2]int),
	}

	for _, opt := range opts {
		opt(kb)
	}

	return kb
}

// SetRenderer swaps the renderer, e.g. once a backend has been realized.
func (kb *Keyboard) SetRenderer(r Renderer) {
	if r == nil {
		r = nopRenderer{}
	}

	kb.renderer = r
}

func (kb *Keyboard) SetInjector(i Injector) {
	if i == nil {
		i = nopInjector{}
	}

	kb.injector = i
}

func (kb *Keyboard) SetScheduler(s Scheduler) {
	kb.scheduler = s
}

func (kb *Keyboard) RowSpacing() int { return kb.spacing.RowSpacing }
func (kb *Keyboard) ColSpacing() int { return kb.spacing.ColSpacing }
func (kb *Keyboard) KeysBorder() int { return kb.spacing.KeyBorder }
func (kb *Keyboard) KeysPad() int    { return kb.spacing.KeyPad }
func (kb *Keyboard) KeysMargin() int { return kb.spacing.KeyMargin }

func (kb *Keyboard) Spacing() Spacing { return kb.spacing }

// SetSpacing changes the layout constants and recomputes geometry.
func (kb *Keyboard) SetSpacing(s Spacing) error {
	kb.spacing = s

	return kb.relayout()
}

// AddLayout appends a layout. The first layout added becomes the selected one.
func (kb *Keyboard) AddLayout(l *model.Layout) {
	kb.layouts.Append(l)

	if kb.selected == nil {
		kb.selected = l
	}
}

func (kb *Keyboard) Layouts() *model.List[*model.Layout] {
	return kb.layouts
}

// Layout looks a layout up by identifier.
func (kb *Keyboard) Layout(id string) (*model.Layout, bool) {
	for _, l := range kb.layouts.All() {
		if l.ID == id {
			return l, true
		}
	}

	return nil, false
}

func (kb *Keyboard) SelectedLayout() *model.Layout {
	return kb.selected
}

// SetSelectedLayout switches the visible layout. A held key is cancelled
// first so it never outlives its layout.
func (kb *Keyboard) SetSelectedLayout(id string) error {
	l, ok := kb.Layout(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayout, id)
	}

	if l == kb.selected {
		return nil
	}

	kb.Release(true)
	kb.selected = l
	slog.Debug("layout selected", "layout", id)
	kb.Redraw()

	return nil
}

// NextLayout selects the layout following the current one, wrapping around.
func (kb *Keyboard) NextLayout() {
	n := kb.layouts.Len()
	if n < 2 {
		return
	}

	for i, l := range kb.layouts.All() {
		if l == kb.selected {
			next, _ := kb.layouts.Nth((i + 1) % n)
			_ = kb.SetSelectedLayout(next.ID)

			return
		}
	}
}

// ReplaceLayouts swaps the whole layout set, e.g. after the layout file
// changed. The previously selected id stays selected when it still exists.
func (kb *Keyboard) ReplaceLayouts(layouts []*model.Layout) error {
	if len(layouts) == 0 {
		return ErrNoLayout
	}

	kb.Release(true)

	prev := ""
	if kb.selected != nil {
		prev = kb.selected.ID
	}

	kb.layouts = model.NewList(layouts...)
	kb.selected = layouts[0]
	kb.natural = make(map[*model.Layout][2]int)

	if l, ok := kb.Layout(prev); ok {
		kb.selected = l
	}

	return kb.relayout()
}

func (kb *Keyboard) State() model.KeyboardState {
	return kb.state
}

// AddState sets bits. Setting bits already set is a no-op.
func (kb *Keyboard) AddState(s model.KeyboardState) {
	kb.state |= s
}

func (kb *Keyboard) RemoveState(s model.KeyboardState) {
	kb.state &^= s
}

func (kb *Keyboard) ToggleState(s model.KeyboardState) {
	kb.state ^= s
}

// HasState reports whether all the given bits are set.
func (kb *Keyboard) HasState(s model.KeyboardState) bool {
	return kb.state.Has(s)
}

// HasAnyState reports whether any modifier bit is set.
func (kb *Keyboard) HasAnyState() bool {
	return kb.state != model.StateNormal
}

// SlotFor is the face slot used for key under the current modifier state.
func (kb *Keyboard) SlotFor(key *model.Key) model.KeyState {
	return model.FaceSlot(kb.state, key.ObeyCaps)
}

func (kb *Keyboard) IsExtended() bool {
	return kb.extended
}

// SetExtended shows or hides extended-only keys and recomputes row widths.
func (kb *Keyboard) SetExtended(extended bool) error {
	if kb.extended == extended {
		return nil
	}

	kb.Release(true)
	kb.extended = extended

	return kb.relayout()
}

func (kb *Keyboard) ModifierPolicy() ModifierPolicy {
	return kb.policy
}

func (kb *Keyboard) SetModifierPolicy(p ModifierPolicy) {
	kb.policy = p
}

func (kb *Keyboard) relayout() error {
	if kb.layouts.Len() == 0 {
		return nil
	}

	if err := kb.ComputeGeometry(); err != nil {
		return err
	}

	kb.Redraw()

	return nil
}

type nopRenderer struct{}

func (nopRenderer) TextExtents(text string) (int, int) { return len([]rune(text)), 1 }
func (nopRenderer) PreRedraw()                          {}
func (nopRenderer) RedrawKey(*model.Key, KeyView)       {}

type nopInjector struct{}

func (nopInjector) Press(model.Content, model.KeyboardState) error { return nil }
func (nopInjector) Release() error                                 { return nil }
