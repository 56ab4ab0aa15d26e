package db

import (
	"iter"

	"github.com/dasdy/softkbd/model"
)

// Tracker counts how contents relate to each other.
type Tracker interface {
	HandleKeyNow(event model.KeyEvent, verbose bool)
	GatherCombos(content string) []model.Combo
}

type Storage interface {
	Store(event *model.KeyEvent) error
	GatherAll() ([]model.KeyCount, error)
	AllIterator() (iter.Seq[model.KeyEventWithTimestamp], error)
	Close()
}
