package keyboard

import "github.com/dasdy/softkbd/model"

// LocateKey returns the key of the selected layout under the point, or nil.
// Blank keys and hidden extended keys are never returned.
func (kb *Keyboard) LocateKey(x, y int) *model.Key {
	if kb.selected == nil {
		return nil
	}

	for _, row := range kb.selected.Rows().All() {
		if y < row.Y || y >= row.Y+row.Height() {
			continue
		}

		for _, key := range row.Keys().All() {
			if key.Blank || !key.Visible(kb.extended) {
				continue
			}

			if key.Contains(x, y) {
				return key
			}
		}
	}

	return nil
}

// VisibleKeys iterates the keys of the selected layout that are drawn.
func (kb *Keyboard) VisibleKeys(yield func(*model.Key) bool) {
	if kb.selected == nil {
		return
	}

	for _, row := range kb.selected.Rows().All() {
		for _, key := range row.Keys().All() {
			if key.Blank || !key.Visible(kb.extended) {
				continue
			}

			if !yield(key) {
				return
			}
		}
	}
}
