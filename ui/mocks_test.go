package ui_test

import (
	"unicode/utf8"

	"github.com/dasdy/softkbd/keyboard"
	"github.com/dasdy/softkbd/model"
	"github.com/dasdy/softkbd/ui"
)

// MockBackend is a manual mock of ui.Backend. Glyphs are 10 units per rune
// by 10 units high.
type MockBackend struct {
	InitErr      error
	FontErr      error
	ResourcesErr error
	ResizeErr    error

	InitCallCount    int
	Font             ui.Font
	ResourcesSize    [2]int
	Resizes          [][2]int
	Visible          bool
	PresentCallCount int
	PreRedrawCount   int
	Drawn            []string
	Closed           bool

	Display [2]int
	events  chan ui.Event
}

func NewMockBackend() *MockBackend {
	return &MockBackend{Display: [2]int{800, 480}}
}

func (b *MockBackend) Init() error {
	b.InitCallCount++

	return b.InitErr
}

func (b *MockBackend) LoadFont(font ui.Font) error {
	b.Font = font

	return b.FontErr
}

func (b *MockBackend) CreateResources(width, height int) error {
	b.ResourcesSize = [2]int{width, height}

	return b.ResourcesErr
}

func (b *MockBackend) Resize(width, height int) error {
	if b.ResizeErr != nil {
		return b.ResizeErr
	}

	b.Resizes = append(b.Resizes, [2]int{width, height})

	return nil
}

func (b *MockBackend) SetVisible(visible bool) {
	b.Visible = visible
}

func (b *MockBackend) Present() {
	b.PresentCallCount++
}

func (b *MockBackend) DisplaySize() (int, int) {
	return b.Display[0], b.Display[1]
}

func (b *MockBackend) Close() error {
	b.Closed = true

	return nil
}

func (b *MockBackend) TextExtents(text string) (int, int) {
	return 10 * utf8.RuneCountInString(text), 10
}

func (b *MockBackend) PreRedraw() {
	b.PreRedrawCount++
	b.Drawn = nil
}

func (b *MockBackend) RedrawKey(key *model.Key, view keyboard.KeyView) {
	b.Drawn = append(b.Drawn, view.Face.Glyph)
}

// SourceBackend additionally produces input events.
type SourceBackend struct {
	*MockBackend
}

func NewSourceBackend() *SourceBackend {
	b := NewMockBackend()
	b.events = make(chan ui.Event, 8)

	return &SourceBackend{MockBackend: b}
}

func (b *SourceBackend) Events() <-chan ui.Event {
	return b.events
}

func (b *SourceBackend) Send(ev ui.Event) {
	b.events <- ev
}

type testKeys struct {
	a, e, shift *model.Key
}

// newKeyboard builds a keyboard with layouts "us" (a, e with alternates,
// shift) and "ru". With no spacing a unit key is 10x10.
func newKeyboard(injector keyboard.Injector) (*keyboard.Keyboard, testKeys) {
	keys := testKeys{
		a:     model.NewKey(),
		e:     model.NewKey(),
		shift: model.NewKey(),
	}

	keys.a.SetGlyphFace(model.KeyStateNormal, "a")
	keys.a.SetCharAction(model.KeyStateNormal, "a")
	keys.a.SetGlyphFace(model.KeyStateShifted, "A")
	keys.a.SetCharAction(model.KeyStateShifted, "A")

	keys.e.SetGlyphFace(model.KeyStateNormal, "e")
	keys.e.SetCharAction(model.KeyStateNormal, "e")
	keys.e.SetAlternates(model.KeyStateNormal, []string{"é", "è"})

	keys.shift.SetGlyphFace(model.KeyStateNormal, "⇧")
	keys.shift.SetModifierAction(model.KeyStateNormal, model.ModShift)

	us := model.NewLayout("us")
	row := model.NewRow()
	row.AppendKey(keys.a)
	row.AppendKey(keys.e)
	row.AppendKey(keys.shift)
	us.AppendRow(row)

	ru := model.NewLayout("ru")
	ruRow := model.NewRow()
	f := model.NewKey()
	f.SetGlyphFace(model.KeyStateNormal, "ф")
	f.SetCharAction(model.KeyStateNormal, "ф")
	ruRow.AppendKey(f)
	ru.AppendRow(ruRow)

	kb := keyboard.New(keyboard.WithInjector(injector))
	kb.AddLayout(us)
	kb.AddLayout(ru)

	return kb, keys
}

// RecordingInjector counts presses and releases.
type RecordingInjector struct {
	Pressed  []string
	Releases int
}

func (i *RecordingInjector) Press(content model.Content, _ model.KeyboardState) error {
	i.Pressed = append(i.Pressed, content.String())

	return nil
}

func (i *RecordingInjector) Release() error {
	i.Releases++

	return nil
}
