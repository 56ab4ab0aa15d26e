package db

import (
	"iter"
	"log/slog"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/dasdy/softkbd/model"
)

// ChordID identifies a chord: the modifiers held while content was typed.
type ChordID struct {
	Modifiers model.KeyboardState
	Content   string
}

// Keys spells the chord as modifier names followed by the content.
func (c ChordID) Keys() []string {
	keys := strings.Split(c.Modifiers.String(), "+")

	return append(keys, c.Content)
}

// ComboTracker counts chords. Caps lock is a latch, not a chord, so it is
// ignored.
type ComboTracker struct {
	comboCounts map[ChordID]*model.Combo
	stateLock   sync.RWMutex
}

func newComboTracker() *ComboTracker {
	return &ComboTracker{
		comboCounts: make(map[ChordID]*model.Combo),
		stateLock:   sync.RWMutex{},
	}
}

// NewComboTrackerFromDB replays the stored history in the background. The
// returned channel is closed once the history is counted.
func NewComboTrackerFromDB(storage Storage) (*ComboTracker, <-chan struct{}, error) {
	iterator, err := storage.AllIterator()
	if err != nil {
		return nil, nil, err
	}

	tracker := newComboTracker()
	done := make(chan struct{})

	go func() {
		defer close(done)

		tracker.initComboCounter(iterator)
	}()

	return tracker, done, nil
}

func (c *ComboTracker) HandleKeyNow(event model.KeyEvent, verbose bool) {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	c.handleKey(event, verbose)
}

// GatherCombos lists the chords that typed content.
func (c *ComboTracker) GatherCombos(content string) []model.Combo {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()

	result := make([]model.Combo, 0)

	for id, v := range c.comboCounts {
		if id.Content == content {
			result = append(result, *v)
		}
	}

	return result
}

func (c *ComboTracker) handleKey(event model.KeyEvent, verbose bool) {
	if !event.Pressed {
		return
	}

	mods := event.Modifiers &^ model.StateCaps
	if mods == model.StateNormal {
		return
	}

	id := ChordID{Modifiers: mods, Content: event.Content}

	v, ok := c.comboCounts[id]
	if !ok {
		v = &model.Combo{Keys: id.Keys(), Pressed: 1}
		c.comboCounts[id] = v
	} else {
		v.Pressed++
	}

	if verbose {
		slog.Info("combo counting",
			"pressed", v.Pressed,
			"keys", v.Keys)
	}
}

func (c *ComboTracker) initComboCounter(items iter.Seq[model.KeyEventWithTimestamp]) {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	bar := progressbar.Default(-1, "Scanning history...")

	for item := range items {
		err := bar.Add(1)
		if err != nil {
			slog.Error("could not update progress bar", "error", err)
		}

		c.handleKey(item.KeyEvent, false)
	}

	err := bar.Finish()
	if err != nil {
		slog.Error("could not finish progress bar", "error", err)
	}
}
