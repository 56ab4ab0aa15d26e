// Package term is a terminal backend for the keyboard built on tcell. One
// geometry unit is one character cell and the mouse acts as the pointer.
package term

import (
	"errors"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dasdy/softkbd/keyboard"
	"github.com/dasdy/softkbd/model"
	"github.com/dasdy/softkbd/ui"
)

const imageGlyph = "▣"

type rect struct {
	x, y, w, h int
}

func (r rect) overlaps(o rect) bool {
	return r.x < o.x+o.w && o.x < r.x+r.w && r.y < o.y+o.h && o.y < r.y+r.h
}

// Terminal implements ui.Backend, keyboard.PopupRenderer and ui.EventSource.
type Terminal struct {
	screen tcell.Screen
	events chan ui.Event
	quit   chan struct{}
	polled chan struct{}

	started bool
	visible bool
	down    bool

	keyStyle    tcell.Style
	activeStyle tcell.Style
	popupStyle  tcell.Style

	// drawn remembers what is on screen so the area under a closed popup
	// can be restored.
	drawn map[*model.Key]keyboard.KeyView
	popup *rect
}

// New creates a terminal backend on the controlling terminal.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	return NewWithScreen(screen), nil
}

// NewWithScreen wraps an existing screen, e.g. a simulation screen in tests.
func NewWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{
		screen: screen,
		events: make(chan ui.Event, 16),
		quit:   make(chan struct{}),
		polled: make(chan struct{}),
		drawn:  make(map[*model.Key]keyboard.KeyView),
	}
}

func (t *Terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return err
	}

	t.screen.EnableMouse()
	t.screen.HideCursor()

	t.started = true
	go t.poll()

	return nil
}

// LoadFont accepts any font: the terminal renders with its own.
func (t *Terminal) LoadFont(font ui.Font) error {
	if font.Size < 0 {
		return errors.New("negative font size")
	}

	slog.Debug("terminal ignores font selection", "family", font.Family, "size", font.Size)

	return nil
}

func (t *Terminal) CreateResources(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New("empty keyboard surface")
	}

	t.keyStyle = tcell.StyleDefault.
		Foreground(tcell.ColorWhite).
		Background(tcell.ColorDarkSlateGray)
	t.activeStyle = t.keyStyle.Reverse(true)
	t.popupStyle = tcell.StyleDefault.
		Foreground(tcell.ColorBlack).
		Background(tcell.ColorLightGoldenrodYellow)

	return nil
}

func (t *Terminal) Resize(width, height int) error {
	sw, sh := t.screen.Size()
	if width <= 0 || height <= 0 || width > sw || height > sh {
		return errors.New("size outside the terminal")
	}

	return nil
}

func (t *Terminal) SetVisible(visible bool) {
	t.visible = visible

	if !visible {
		t.screen.Clear()
		clear(t.drawn)
		t.popup = nil
	}
}

func (t *Terminal) Present() {
	t.screen.Show()
}

func (t *Terminal) DisplaySize() (int, int) {
	return t.screen.Size()
}

func (t *Terminal) Close() error {
	if !t.started {
		return nil
	}

	t.started = false
	close(t.quit)
	t.screen.Fini()
	<-t.polled

	return nil
}

func (t *Terminal) Events() <-chan ui.Event {
	return t.events
}

func (t *Terminal) TextExtents(text string) (int, int) {
	return uniseg.StringWidth(text), 1
}

func (t *Terminal) PreRedraw() {
	if !t.visible {
		return
	}

	t.screen.Clear()
	clear(t.drawn)
}

func (t *Terminal) RedrawKey(key *model.Key, view keyboard.KeyView) {
	if !t.visible {
		return
	}

	t.drawn[key] = view

	r := rect{key.AbsX(), key.AbsY(), key.Width(), key.Height()}
	if t.popup != nil && r.overlaps(*t.popup) {
		// The popup stays on top; the key is restored when it closes.
		return
	}

	style := t.keyStyle
	if view.Held {
		style = t.activeStyle
	}

	t.drawBox(r, style, label(view.Face))
}

func (t *Terminal) ShowPopup(p *keyboard.Popup) {
	if !t.visible {
		return
	}

	t.popup = &rect{p.X(), p.Y(), p.Width(), p.Height()}
	t.fill(*t.popup, t.popupStyle)

	for _, key := range p.Row().Keys().All() {
		style := t.popupStyle
		if key == p.SelectedKey() {
			style = style.Reverse(true)
		}

		t.drawBox(rect{key.AbsX(), key.AbsY(), key.Width(), key.Height()}, style, key.Label())
	}
}

func (t *Terminal) HidePopup() {
	if t.popup == nil {
		return
	}

	area := *t.popup
	t.popup = nil
	t.fill(area, tcell.StyleDefault)

	for key, view := range t.drawn {
		if (rect{key.AbsX(), key.AbsY(), key.Width(), key.Height()}).overlaps(area) {
			t.RedrawKey(key, view)
		}
	}
}

func label(face model.Face) string {
	switch face.Type {
	case model.FaceGlyph:
		return face.Glyph
	case model.FaceImage:
		return imageGlyph
	default:
		return ""
	}
}

func (t *Terminal) fill(r rect, style tcell.Style) {
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			t.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// drawBox draws a key: a frame when there is room for one and the label
// centered inside.
func (t *Terminal) drawBox(r rect, style tcell.Style, text string) {
	if r.w <= 0 || r.h <= 0 {
		return
	}

	t.fill(r, style)

	if r.w >= 3 && r.h >= 3 {
		right, bottom := r.x+r.w-1, r.y+r.h-1

		for x := r.x + 1; x < right; x++ {
			t.screen.SetContent(x, r.y, tcell.RuneHLine, nil, style)
			t.screen.SetContent(x, bottom, tcell.RuneHLine, nil, style)
		}

		for y := r.y + 1; y < bottom; y++ {
			t.screen.SetContent(r.x, y, tcell.RuneVLine, nil, style)
			t.screen.SetContent(right, y, tcell.RuneVLine, nil, style)
		}

		t.screen.SetContent(r.x, r.y, tcell.RuneULCorner, nil, style)
		t.screen.SetContent(right, r.y, tcell.RuneURCorner, nil, style)
		t.screen.SetContent(r.x, bottom, tcell.RuneLLCorner, nil, style)
		t.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
	}

	width := uniseg.StringWidth(text)
	x := r.x + (r.w-width)/2
	y := r.y + r.h/2

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		runes := gr.Runes()
		if x >= r.x && x < r.x+r.w {
			t.screen.SetContent(x, y, runes[0], runes[1:], style)
		}

		x += gr.Width()
	}
}

func (t *Terminal) poll() {
	defer close(t.polled)

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}

		for _, out := range t.convert(ev) {
			select {
			case t.events <- out:
			case <-t.quit:
				return
			}
		}
	}
}

// convert turns a tcell event into keyboard events. Button 1 acts as the
// touch contact; Escape and Ctrl-C quit.
func (t *Terminal) convert(ev tcell.Event) []ui.Event {
	switch e := ev.(type) {
	case *tcell.EventMouse:
		x, y := e.Position()
		pressed := e.Buttons()&tcell.Button1 != 0

		switch {
		case pressed && !t.down:
			t.down = true

			return []ui.Event{ui.PointerDown(x, y)}
		case pressed:
			return []ui.Event{ui.PointerMotion(x, y)}
		case t.down:
			t.down = false

			return []ui.Event{ui.PointerUp(x, y)}
		}
	case *tcell.EventResize:
		w, h := e.Size()

		return []ui.Event{ui.DisplayChanged(w, h), ui.Resized(w, h)}
	case *tcell.EventKey:
		switch e.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return []ui.Event{ui.Quit()}
		}
	case *tcell.EventFocus:
		if !e.Focused && t.down {
			t.down = false

			return []ui.Event{ui.PointerCancel()}
		}
	}

	return nil
}
