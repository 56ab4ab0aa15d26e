package keyboard

import "github.com/dasdy/softkbd/model"

// Redraw draws every visible key of the selected layout, then the popup.
func (kb *Keyboard) Redraw() {
	if kb.selected == nil {
		return
	}

	kb.renderer.PreRedraw()

	for key := range kb.VisibleKeys {
		kb.renderer.RedrawKey(key, kb.view(key))
	}

	kb.drawPopup()
}

// RedrawKey draws a single key without clearing the surface, for press and
// release feedback.
func (kb *Keyboard) RedrawKey(key *model.Key) {
	if key == nil || key.Blank || !key.Visible(kb.extended) {
		return
	}

	kb.renderer.RedrawKey(key, kb.view(key))
}

func (kb *Keyboard) view(key *model.Key) KeyView {
	slot := kb.SlotFor(key)

	return KeyView{
		Face: key.Face(slot),
		Slot: slot,
		Held: kb.held == key,
	}
}
