package keyboard

import (
	"log/slog"

	"github.com/dasdy/softkbd/model"
)

// Popup is the long-press overlay listing a key's alternate characters. It is
// a single row of glyph keys positioned above its anchor key.
type Popup struct {
	anchor   *model.Key
	row      *model.Row
	selected *model.Key
}

func (p *Popup) Anchor() *model.Key { return p.anchor }

func (p *Popup) Row() *model.Row { return p.row }

func (p *Popup) X() int      { return p.row.X }
func (p *Popup) Y() int      { return p.row.Y }
func (p *Popup) Width() int  { return p.row.Width() }
func (p *Popup) Height() int { return p.row.Height() }

// Contains reports whether the point lies within the popup surface.
func (p *Popup) Contains(x, y int) bool {
	return x >= p.X() && x < p.X()+p.Width() && y >= p.Y() && y < p.Y()+p.Height()
}

// SelectedKey is the alternate currently under the pointer, if any.
func (p *Popup) SelectedKey() *model.Key {
	return p.selected
}

// Selected returns the characters of the selected alternate, or "".
func (p *Popup) Selected() string {
	if p.selected == nil {
		return ""
	}

	return p.selected.Action(model.KeyStateNormal).Chars
}

// Select retargets the popup to the alternate under the point and reports
// whether the selection changed.
func (p *Popup) Select(x, y int) bool {
	var hit *model.Key

	for _, key := range p.row.Keys().All() {
		if key.Contains(x, y) {
			hit = key

			break
		}
	}

	if hit == p.selected {
		return false
	}

	p.selected = hit

	return true
}

// Popup returns the open popup, or nil.
func (kb *Keyboard) Popup() *Popup {
	return kb.popup
}

// ShowPopup opens the alternates popup anchored at key.
func (kb *Keyboard) ShowPopup(key *model.Key) {
	alternates := key.Alternates(kb.SlotFor(key))
	if len(alternates) == 0 {
		return
	}

	kb.HidePopup()

	row := model.NewRow()
	decor := kb.decoration()
	height := kb.unitHeight + decor
	x := 0

	for i, alt := range alternates {
		k := model.NewKey()
		k.SetGlyphFace(model.KeyStateNormal, alt)
		k.SetCharAction(model.KeyStateNormal, alt)

		tw, _ := kb.renderer.TextExtents(alt)
		w := max(kb.unitWidth, tw) + decor

		if i > 0 {
			x += kb.spacing.ColSpacing
		}

		row.AppendKey(k)
		k.SetGeometry(x, 0, w, height)
		x += w
	}

	row.SetSize(x, x, height)

	layoutW := 0
	if kb.selected != nil {
		layoutW = kb.selected.Width()
	}

	px := key.AbsX() + key.Width()/2 - x/2
	if px+x > layoutW {
		px = layoutW - x
	}

	py := key.AbsY() - height - kb.spacing.RowSpacing

	row.X, row.Y = max(px, 0), max(py, 0)

	kb.popup = &Popup{anchor: key, row: row}

	slog.Debug("popup shown", "key", key.Label(), "alternates", alternates)
	kb.drawPopup()
}

// HidePopup dismisses the popup if one is open.
func (kb *Keyboard) HidePopup() {
	if kb.popup == nil {
		return
	}

	kb.popup = nil

	if pr, ok := kb.renderer.(PopupRenderer); ok {
		pr.HidePopup()
	}
}

func (kb *Keyboard) drawPopup() {
	if kb.popup == nil {
		return
	}

	if pr, ok := kb.renderer.(PopupRenderer); ok {
		pr.ShowPopup(kb.popup)
	}
}

func (kb *Keyboard) startLongPress(key *model.Key) {
	kb.cancelLongPress()

	if kb.scheduler == nil || kb.longPress <= 0 {
		return
	}

	gen := kb.timerGen

	kb.cancelTimer = kb.scheduler.AfterFunc(kb.longPress, func() {
		kb.longPressFired(gen, key)
	})
}

// cancelLongPress stops a pending timer and invalidates one already fired
// but not yet run.
func (kb *Keyboard) cancelLongPress() {
	if kb.cancelTimer != nil {
		kb.cancelTimer()
		kb.cancelTimer = nil
	}

	kb.timerGen++
}

func (kb *Keyboard) longPressFired(gen uint64, key *model.Key) {
	if gen != kb.timerGen || kb.held != key || !kb.deferred || kb.popup != nil {
		return
	}

	kb.cancelTimer = nil
	kb.ShowPopup(key)
}
