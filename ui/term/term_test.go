package term_test

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasdy/softkbd/keyboard"
	"github.com/dasdy/softkbd/model"
	"github.com/dasdy/softkbd/ui"
	"github.com/dasdy/softkbd/ui/term"
)

// A one-cell glyph plus a one-cell border on each side gives 3x3 keys:
// "a" covers columns 0..2 and "e" columns 4..6.
var termSpacing = keyboard.Spacing{KeyBorder: 1, ColSpacing: 1, RowSpacing: 1}

type termFixture struct {
	screen tcell.SimulationScreen
	term   *term.Terminal
	kb     *keyboard.Keyboard
	ui     *ui.UI
	a, e   *model.Key
}

func newTermFixture(t *testing.T) termFixture {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	f := termFixture{screen: screen, term: term.NewWithScreen(screen)}

	f.a = model.NewKey()
	f.a.SetGlyphFace(model.KeyStateNormal, "a")
	f.a.SetCharAction(model.KeyStateNormal, "a")

	f.e = model.NewKey()
	f.e.SetGlyphFace(model.KeyStateNormal, "e")
	f.e.SetCharAction(model.KeyStateNormal, "e")
	f.e.SetAlternates(model.KeyStateNormal, []string{"é", "è"})

	row := model.NewRow()
	row.AppendKey(f.a)
	row.AppendKey(f.e)
	l := model.NewLayout("us")
	l.AppendRow(row)

	f.kb = keyboard.New(keyboard.WithSpacing(termSpacing))
	f.kb.AddLayout(l)

	f.ui = ui.New(f.kb, f.term)
	require.NoError(t, f.ui.Realize())

	t.Cleanup(func() { _ = f.term.Close() })

	return f
}

func (f termFixture) runeAt(x, y int) rune {
	r, _, _, _ := f.screen.GetContent(x, y)

	return r
}

func (f termFixture) reversedAt(x, y int) bool {
	_, _, style, _ := f.screen.GetContent(x, y)
	_, _, attrs := style.Decompose()

	return attrs&tcell.AttrReverse != 0
}

// nextEvent waits for the first event of the given type, skipping others.
func nextEvent(t *testing.T, tm *term.Terminal, typ ui.EventType) ui.Event {
	t.Helper()

	timeout := time.After(time.Second)

	for {
		select {
		case ev := <-tm.Events():
			if ev.Type == typ {
				return ev
			}
		case <-timeout:
			require.FailNow(t, "no event", "waiting for %s", typ)
		}
	}
}

func TestRendering(t *testing.T) {
	t.Run("keys are framed boxes with centered labels", func(t *testing.T) {
		f := newTermFixture(t)

		assert.Equal(t, 'a', f.runeAt(1, 1))
		assert.Equal(t, 'e', f.runeAt(5, 1))
		assert.Equal(t, tcell.RuneULCorner, f.runeAt(0, 0))
		assert.Equal(t, tcell.RuneLRCorner, f.runeAt(2, 2))
		assert.Equal(t, tcell.RuneVLine, f.runeAt(4, 1))
		assert.Equal(t, ' ', f.runeAt(3, 1))
	})

	t.Run("held keys are highlighted", func(t *testing.T) {
		f := newTermFixture(t)
		assert.False(t, f.reversedAt(1, 1))

		f.kb.PressKey(f.a)
		assert.True(t, f.reversedAt(1, 1))
		assert.False(t, f.reversedAt(5, 1))

		f.kb.Release(false)
		assert.False(t, f.reversedAt(1, 1))
	})

	t.Run("popup covers keys and restores them when closed", func(t *testing.T) {
		f := newTermFixture(t)

		f.kb.ShowPopup(f.e)
		require.NotNil(t, f.kb.Popup())
		assert.Equal(t, 'é', f.runeAt(1, 1))
		assert.Equal(t, 'è', f.runeAt(5, 1))

		f.kb.Popup().Select(5, 1)
		f.kb.Redraw()
		assert.True(t, f.reversedAt(5, 1))

		f.kb.HidePopup()
		assert.Equal(t, 'a', f.runeAt(1, 1))
		assert.Equal(t, 'e', f.runeAt(5, 1))
	})

	t.Run("hiding clears the screen", func(t *testing.T) {
		f := newTermFixture(t)

		f.ui.Hide()
		assert.Equal(t, ' ', f.runeAt(1, 1))

		f.kb.Redraw()
		assert.Equal(t, ' ', f.runeAt(1, 1), "nothing is drawn while hidden")

		f.ui.Show()
		assert.Equal(t, 'a', f.runeAt(1, 1))
	})

	t.Run("text extents count cells", func(t *testing.T) {
		f := newTermFixture(t)

		w, h := f.term.TextExtents("Esc")
		assert.Equal(t, 3, w)
		assert.Equal(t, 1, h)

		w, _ = f.term.TextExtents("中")
		assert.Equal(t, 2, w)
	})
}

func TestBackendContract(t *testing.T) {
	f := newTermFixture(t)

	w, h := f.term.DisplaySize()
	assert.Equal(t, 80, w, "default simulation screen")
	assert.Equal(t, 25, h)

	assert.NoError(t, f.term.Resize(80, 5))
	assert.Error(t, f.term.Resize(81, 5))
	assert.Error(t, f.term.Resize(0, 5))

	assert.Error(t, f.term.LoadFont(ui.Font{Size: -1}))
	assert.Error(t, f.term.CreateResources(0, 0))
}

func TestEvents(t *testing.T) {
	t.Run("button one is the pointer", func(t *testing.T) {
		f := newTermFixture(t)

		f.screen.InjectMouse(1, 1, tcell.Button1, tcell.ModNone)
		down := nextEvent(t, f.term, ui.EventPointerDown)
		assert.Equal(t, 1, down.X)
		assert.Equal(t, 1, down.Y)

		f.screen.InjectMouse(2, 1, tcell.Button1, tcell.ModNone)
		motion := nextEvent(t, f.term, ui.EventPointerMotion)
		assert.Equal(t, 2, motion.X)

		f.screen.InjectMouse(2, 1, tcell.ButtonNone, tcell.ModNone)
		nextEvent(t, f.term, ui.EventPointerUp)
	})

	t.Run("escape quits", func(t *testing.T) {
		f := newTermFixture(t)

		f.screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
		nextEvent(t, f.term, ui.EventQuit)
	})
}
