package keyboard_test

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/dasdy/softkbd/keyboard"
	"github.com/dasdy/softkbd/model"
)

// Every glyph is 32 pixels per rune wide and 16 high.
const (
	glyphWidth  = 32
	glyphHeight = 16
)

// Border 1, pad 2 and margin 1 give 8 pixels of decoration per key, so a
// one-unit key is 40x24.
var testSpacing = keyboard.Spacing{
	KeyBorder:  1,
	KeyPad:     2,
	KeyMargin:  1,
	RowSpacing: 4,
	ColSpacing: 5,
}

type redrawCall struct {
	Key  *model.Key
	View keyboard.KeyView
}

// RecordingRenderer is a manual mock of keyboard.Renderer and keyboard.PopupRenderer.
type RecordingRenderer struct {
	PreRedraws  int
	Redraws     []redrawCall
	PopupsShown []*keyboard.Popup
	PopupHides  int
}

func (r *RecordingRenderer) TextExtents(text string) (int, int) {
	return glyphWidth * utf8.RuneCountInString(text), glyphHeight
}

func (r *RecordingRenderer) PreRedraw() {
	r.PreRedraws++
}

func (r *RecordingRenderer) RedrawKey(key *model.Key, view keyboard.KeyView) {
	r.Redraws = append(r.Redraws, redrawCall{Key: key, View: view})
}

func (r *RecordingRenderer) ShowPopup(p *keyboard.Popup) {
	r.PopupsShown = append(r.PopupsShown, p)
}

func (r *RecordingRenderer) HidePopup() {
	r.PopupHides++
}

func (r *RecordingRenderer) Reset() {
	r.PreRedraws = 0
	r.Redraws = nil
	r.PopupsShown = nil
	r.PopupHides = 0
}

// LastView returns the most recent view drawn for key.
func (r *RecordingRenderer) LastView(key *model.Key) (keyboard.KeyView, bool) {
	for i := len(r.Redraws) - 1; i >= 0; i-- {
		if r.Redraws[i].Key == key {
			return r.Redraws[i].View, true
		}
	}

	return keyboard.KeyView{}, false
}

type injectorCall struct {
	Release   bool
	Content   model.Content
	Modifiers model.KeyboardState
}

// RecordingInjector is a manual mock of keyboard.Injector.
type RecordingInjector struct {
	Calls       []injectorCall
	PressErr    error
	Outstanding int
}

func (i *RecordingInjector) Press(content model.Content, modifiers model.KeyboardState) error {
	if i.PressErr != nil {
		return i.PressErr
	}

	i.Calls = append(i.Calls, injectorCall{Content: content, Modifiers: modifiers})
	i.Outstanding++

	return nil
}

func (i *RecordingInjector) Release() error {
	i.Calls = append(i.Calls, injectorCall{Release: true})
	i.Outstanding--

	if i.Outstanding < 0 {
		return errors.New("release without press")
	}

	return nil
}

func (i *RecordingInjector) Presses() []model.Content {
	result := make([]model.Content, 0)

	for _, c := range i.Calls {
		if !c.Release {
			result = append(result, c.Content)
		}
	}

	return result
}

func (i *RecordingInjector) Releases() int {
	n := 0

	for _, c := range i.Calls {
		if c.Release {
			n++
		}
	}

	return n
}

type manualTimer struct {
	d         time.Duration
	fn        func()
	cancelled bool
}

// ManualScheduler collects timers and fires them on demand.
type ManualScheduler struct {
	Timers []*manualTimer
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := &manualTimer{d: d, fn: fn}
	s.Timers = append(s.Timers, t)

	return func() { t.cancelled = true }
}

// Fire runs every timer that was not cancelled.
func (s *ManualScheduler) Fire() {
	timers := s.Timers
	s.Timers = nil

	for _, t := range timers {
		if !t.cancelled {
			t.fn()
		}
	}
}

// FireAll runs every timer, cancelled or not, as if each had already been
// queued before it was cancelled.
func (s *ManualScheduler) FireAll() {
	timers := s.Timers
	s.Timers = nil

	for _, t := range timers {
		t.fn()
	}
}

func (s *ManualScheduler) Pending() int {
	n := 0

	for _, t := range s.Timers {
		if !t.cancelled {
			n++
		}
	}

	return n
}

func glyphKey(normal, shifted string) *model.Key {
	k := model.NewKey()
	k.SetGlyphFace(model.KeyStateNormal, normal)
	k.SetCharAction(model.KeyStateNormal, normal)

	if shifted != "" {
		k.SetGlyphFace(model.KeyStateShifted, shifted)
		k.SetCharAction(model.KeyStateShifted, shifted)
	}

	return k
}

func modifierKey(label string, m model.ModType) *model.Key {
	k := model.NewKey()
	k.SetGlyphFace(model.KeyStateNormal, label)
	k.SetModifierAction(model.KeyStateNormal, m)

	return k
}

func keysymKey(label string, ks model.KeySym, uwidth int) *model.Key {
	k := model.NewKey()
	k.SetGlyphFace(model.KeyStateNormal, label)
	k.SetKeySymAction(model.KeyStateNormal, ks)
	k.ReqUWidth = uwidth

	return k
}

func rowOf(keys ...*model.Key) *model.Row {
	row := model.NewRow()

	for _, k := range keys {
		row.AppendKey(k)
	}

	return row
}

func layoutOf(id string, rows ...*model.Row) *model.Layout {
	l := model.NewLayout(id)

	for _, r := range rows {
		l.AppendRow(r)
	}

	return l
}

type fixture struct {
	kb        *keyboard.Keyboard
	renderer  *RecordingRenderer
	injector  *RecordingInjector
	scheduler *ManualScheduler
}

func newFixture(opts ...keyboard.Option) fixture {
	f := fixture{
		renderer:  &RecordingRenderer{},
		injector:  &RecordingInjector{},
		scheduler: &ManualScheduler{},
	}

	base := []keyboard.Option{
		keyboard.WithRenderer(f.renderer),
		keyboard.WithInjector(f.injector),
		keyboard.WithScheduler(f.scheduler),
		keyboard.WithSpacing(testSpacing),
	}

	f.kb = keyboard.New(append(base, opts...)...)

	return f
}

func center(k *model.Key) (int, int) {
	return k.AbsX() + k.Width()/2, k.AbsY() + k.Height()/2
}
