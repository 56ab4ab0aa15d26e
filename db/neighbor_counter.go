package db

import (
	"iter"
	"log/slog"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/dasdy/softkbd/model"
)

type neighborKey struct {
	layout  string
	content string
}

// NeighborCounterImpl counts which content was typed right after which,
// per layout and per session.
type NeighborCounterImpl struct {
	last      map[string]neighborKey
	counts    map[neighborKey]map[string]int
	stateLock sync.RWMutex
}

func newNeighborCounter() *NeighborCounterImpl {
	return &NeighborCounterImpl{
		last:      make(map[string]neighborKey),
		counts:    make(map[neighborKey]map[string]int),
		stateLock: sync.RWMutex{},
	}
}

// NewNeighborCounterFromDB replays the stored history in the background.
// The returned channel is closed once the history is counted.
func NewNeighborCounterFromDB(storage Storage) (*NeighborCounterImpl, <-chan struct{}, error) {
	iterator, err := storage.AllIterator()
	if err != nil {
		return nil, nil, err
	}

	tracker := newNeighborCounter()
	done := make(chan struct{})

	go func() {
		defer close(done)

		tracker.initCounter(iterator)
	}()

	return tracker, done, nil
}

func (nc *NeighborCounterImpl) HandleKeyNow(event model.KeyEvent, verbose bool) {
	nc.stateLock.Lock()
	defer nc.stateLock.Unlock()

	nc.handleKey(event, verbose)
}

// GatherCombos lists what followed content, on any layout.
func (nc *NeighborCounterImpl) GatherCombos(content string) []model.Combo {
	nc.stateLock.RLock()
	defer nc.stateLock.RUnlock()

	merged := make(map[string]int)

	for k, counts := range nc.counts {
		if k.content != content {
			continue
		}

		for next, v := range counts {
			merged[next] += v
		}
	}

	result := make([]model.Combo, 0, len(merged))

	for next, v := range merged {
		result = append(result, model.Combo{
			Keys:    []string{content, next},
			Pressed: v,
		})
	}

	return result
}

func (nc *NeighborCounterImpl) initCounter(items iter.Seq[model.KeyEventWithTimestamp]) {
	nc.stateLock.Lock()
	defer nc.stateLock.Unlock()

	bar := progressbar.Default(-1, "Scanning history...")

	for item := range items {
		if err := bar.Add(1); err != nil {
			slog.Error("could not update progress bar", "error", err)
		}

		nc.handleKey(item.KeyEvent, false)
	}

	if err := bar.Finish(); err != nil {
		slog.Error("could not finish progress bar", "error", err)
	}
}

func (nc *NeighborCounterImpl) handleKey(event model.KeyEvent, verbose bool) {
	// only process keypresses, not key releases
	if !event.Pressed {
		return
	}

	current := neighborKey{layout: event.Layout, content: event.Content}

	if prev, ok := nc.last[event.Session]; ok && prev.layout == current.layout {
		if _, exists := nc.counts[prev]; !exists {
			nc.counts[prev] = make(map[string]int)
		}

		if verbose {
			slog.Info("key press sequence",
				"current", current.content,
				"previous", prev.content)
		}

		nc.counts[prev][current.content]++
	}

	nc.last[event.Session] = current
}
