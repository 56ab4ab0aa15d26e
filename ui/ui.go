package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dasdy/softkbd/keyboard"
)

// Orientation restricts the display orientations the keyboard shows on.
type Orientation int

const (
	OrientationAny Orientation = iota
	OrientationPortrait
	OrientationLandscape
)

func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "", "any":
		return OrientationAny, nil
	case "portrait":
		return OrientationPortrait, nil
	case "landscape":
		return OrientationLandscape, nil
	default:
		return OrientationAny, fmt.Errorf("unknown orientation %q", s)
	}
}

func (o Orientation) String() string {
	switch o {
	case OrientationPortrait:
		return "portrait"
	case OrientationLandscape:
		return "landscape"
	default:
		return "any"
	}
}

// Allows reports whether a display of the given size matches o.
func (o Orientation) Allows(width, height int) bool {
	switch o {
	case OrientationPortrait:
		return height > width
	case OrientationLandscape:
		return width >= height
	default:
		return true
	}
}

// UI owns the backend and the keyboard surface: realization, visibility,
// size and the read-only geometry queries.
type UI struct {
	kb      *keyboard.Keyboard
	backend Backend

	font        Font
	daemon      bool
	orientation Orientation
	embedder    uint32

	realized bool
	visible  bool
	// wanted is the visibility last requested; orientation may override it.
	wanted bool

	width, height int
}

type Option func(*UI)

func WithFont(f Font) Option {
	return func(u *UI) { u.font = f }
}

// WithDaemon keeps the keyboard hidden after Realize until asked to show.
func WithDaemon(daemon bool) Option {
	return func(u *UI) { u.daemon = daemon }
}

func WithOrientation(o Orientation) Option {
	return func(u *UI) { u.orientation = o }
}

func New(kb *keyboard.Keyboard, backend Backend, opts ...Option) *UI {
	u := &UI{kb: kb, backend: backend}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

func (u *UI) Keyboard() *keyboard.Keyboard {
	return u.kb
}

// Realize allocates backend resources, loads the font and computes the
// initial geometry. Unless running as a daemon the keyboard is then shown.
func (u *UI) Realize() error {
	if err := u.backend.Init(); err != nil {
		return fmt.Errorf("backend init: %w", err)
	}

	if err := u.backend.LoadFont(u.font); err != nil {
		return fmt.Errorf("%w: %s %d: %w", ErrFontLoad, u.font.Family, u.font.Size, err)
	}

	u.kb.SetRenderer(u.backend)

	if err := u.kb.ComputeGeometry(); err != nil {
		return fmt.Errorf("compute geometry: %w", err)
	}

	u.width, u.height = u.kb.Size()

	if err := u.backend.CreateResources(u.width, u.height); err != nil {
		return fmt.Errorf("%w: %w", ErrResources, err)
	}

	u.realized = true

	slog.Info("keyboard realized",
		"width", u.width,
		"height", u.height,
		"layout", u.kb.SelectedLayout().ID,
		"daemon", u.daemon)

	if !u.daemon {
		u.Show()
	}

	return nil
}

func (u *UI) IsRealized() bool { return u.realized }

func (u *UI) IsVisible() bool { return u.visible }

// Show maps the keyboard and draws it, unless the display orientation is
// excluded. In that case it shows up once the display rotates.
func (u *UI) Show() {
	u.wanted = true

	if !u.realized || u.visible {
		return
	}

	if !u.orientation.Allows(u.DisplayWidth(), u.DisplayHeight()) {
		slog.Debug("show suppressed by orientation", "orientation", u.orientation)

		return
	}

	u.visible = true
	u.backend.SetVisible(true)
	u.kb.Redraw()
	u.backend.Present()
}

// Hide unmaps the keyboard. A held key is cancelled first.
func (u *UI) Hide() {
	u.wanted = false
	u.unmap()
}

func (u *UI) Toggle() {
	if u.visible {
		u.Hide()
	} else {
		u.Show()
	}
}

func (u *UI) unmap() {
	if !u.visible {
		return
	}

	u.kb.Release(true)
	u.visible = false
	u.backend.SetVisible(false)
	u.backend.Present()
}

// Resize gives the keyboard a new surface size and refits the layout to it.
func (u *UI) Resize(width, height int) error {
	if err := u.backend.Resize(width, height); err != nil {
		return fmt.Errorf("%w: %dx%d: %w", ErrResize, width, height, err)
	}

	if err := u.kb.Fit(width, height); err != nil {
		return err
	}

	u.width, u.height = u.kb.Size()

	slog.Debug("keyboard resized", "width", u.width, "height", u.height)

	return nil
}

// refreshSize picks up the size of the selected layout after it changed
// without a resize.
func (u *UI) refreshSize() {
	u.width, u.height = u.kb.Size()
}

// LimitOrientation restricts showing to displays of the given orientation.
func (u *UI) LimitOrientation(o Orientation) {
	u.orientation = o
	u.displayChanged()
}

func (u *UI) Orientation() Orientation { return u.orientation }

// displayChanged re-applies the orientation limit after the display size
// changed.
func (u *UI) displayChanged() {
	allowed := u.orientation.Allows(u.DisplayWidth(), u.DisplayHeight())

	switch {
	case u.visible && !allowed:
		u.unmap()
	case !u.visible && u.wanted && allowed:
		u.Show()
	}
}

// SetEmbedder records the window the keyboard is embedded into, 0 for none.
func (u *UI) SetEmbedder(id uint32) { u.embedder = id }

func (u *UI) Embedder() uint32 { return u.embedder }

func (u *UI) DisplayWidth() int {
	w, _ := u.backend.DisplaySize()

	return w
}

func (u *UI) DisplayHeight() int {
	_, h := u.backend.DisplaySize()

	return h
}

// BaseWidth is the natural width of the selected layout, before resizing.
func (u *UI) BaseWidth() int {
	w, _ := u.kb.BaseSize()

	return w
}

func (u *UI) BaseHeight() int {
	_, h := u.kb.BaseSize()

	return h
}

func (u *UI) Width() int  { return u.width }
func (u *UI) Height() int { return u.height }

// Present flushes drawing when the keyboard is on screen.
func (u *UI) Present() {
	if u.visible {
		u.backend.Present()
	}
}

func (u *UI) Close() error {
	u.kb.Release(true)

	return u.backend.Close()
}
