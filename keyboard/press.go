package keyboard

import (
	"log/slog"

	"github.com/dasdy/softkbd/model"
)

func (kb *Keyboard) HeldKey() *model.Key {
	return kb.held
}

func (kb *Keyboard) IsHeld(key *model.Key) bool {
	return key != nil && kb.held == key
}

// Press handles a pointer going down at x,y and returns the key hit, if any.
func (kb *Keyboard) Press(x, y int) *model.Key {
	if kb.held != nil {
		// A second down without an up: never leave the first press stuck.
		kb.Release(true)
	}

	key := kb.LocateKey(x, y)
	if key == nil {
		return nil
	}

	kb.PressKey(key)

	return key
}

// PressKey runs the press pipeline for a key that is already located. Keys
// that LocateKey could never return are ignored.
func (kb *Keyboard) PressKey(key *model.Key) {
	if !kb.pressable(key) {
		slog.Debug("ignoring press on a key outside the visible layout")

		return
	}

	if kb.held != nil {
		kb.Release(true)
	}

	slot := kb.SlotFor(key)
	action := key.Action(slot)

	kb.held = key
	kb.heldAction = action
	kb.injected = false
	kb.deferred = false

	slog.Debug("key pressed", "key", key.Label(), "slot", slot, "action", action.Type, "state", kb.state)

	switch action.Type {
	case model.ActionModifier:
		kb.applyModifier(action.Modifier)
		kb.Redraw()

		return
	case model.ActionGlyph, model.ActionKeySym:
		if len(key.Alternates(slot)) > 0 {
			kb.deferred = true
			kb.startLongPress(key)
		} else {
			kb.inject(action.Content())
		}
	case model.ActionNone:
		if len(key.Alternates(slot)) > 0 {
			kb.deferred = true
			kb.startLongPress(key)
		}
	}

	kb.RedrawKey(key)
}

// pressable reports whether key is a visible, non-blank key of the selected
// layout.
func (kb *Keyboard) pressable(key *model.Key) bool {
	if key == nil || kb.selected == nil || key.Blank || !key.Visible(kb.extended) {
		return false
	}

	for _, row := range kb.selected.Rows().All() {
		if row == key.Row() {
			return true
		}
	}

	return false
}

// Motion handles pointer movement while in contact.
func (kb *Keyboard) Motion(x, y int) {
	if kb.held == nil {
		return
	}

	if kb.popup != nil {
		if kb.popup.Select(x, y) {
			kb.drawPopup()
		}

		return
	}

	if !kb.held.Contains(x, y) {
		kb.cancelLongPress()
	}
}

// ReleaseAt handles the pointer going up at x,y. Lifting off the held key
// while no popup is open is a cancel, so a deferred key types nothing.
func (kb *Keyboard) ReleaseAt(x, y int) {
	switch {
	case kb.held == nil:
		kb.Release(false)
	case kb.popup != nil:
		kb.popup.Select(x, y)
		kb.Release(false)
	default:
		kb.Release(!kb.held.Contains(x, y))
	}
}

// Release handles the pointer going up. With cancel set nothing new is
// injected, but a press already sent is always released.
func (kb *Keyboard) Release(cancel bool) {
	key := kb.held
	if key == nil {
		kb.HidePopup()

		return
	}

	kb.cancelLongPress()

	if kb.deferred && !cancel {
		kb.commitDeferred()
	}

	if kb.pressed {
		if err := kb.injector.Release(); err != nil {
			slog.Warn("could not release key", "key", key.Label(), "error", err)
		}

		kb.pressed = false
	}

	typed := kb.injected

	kb.held = nil
	kb.heldAction = model.Action{}
	kb.injected = false
	kb.deferred = false

	kb.HidePopup()
	kb.RedrawKey(key)

	slog.Debug("key released", "key", key.Label(), "cancel", cancel, "typed", typed)

	if typed && kb.policy == Momentary && kb.state&model.MomentaryStates != 0 {
		kb.RemoveState(model.MomentaryStates)
		kb.Redraw()
	}
}

func (kb *Keyboard) commitDeferred() {
	if kb.popup != nil {
		if alt := kb.popup.Selected(); alt != "" {
			kb.inject(model.Content{Chars: alt})

			return
		}

		if kb.popupRelease == PopupDiscard {
			return
		}
	}

	if kb.heldAction.Injects() {
		kb.inject(kb.heldAction.Content())
	}
}

func (kb *Keyboard) inject(content model.Content) {
	if err := kb.injector.Press(content, kb.state); err != nil {
		slog.Warn("could not inject key", "content", content.String(), "error", err)

		return
	}

	kb.pressed = true
	kb.injected = true
}

func (kb *Keyboard) applyModifier(m model.ModType) {
	switch m {
	case model.ModLayout:
		// The key belongs to the layout being left; it is not held any more.
		kb.held = nil
		kb.NextLayout()
	case model.ModUnknown:
		slog.Warn("modifier key without a known modifier type")
	default:
		kb.ToggleState(m.StateBit())
	}
}
