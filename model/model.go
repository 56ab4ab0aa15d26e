package model

import (
	"time"
)

// KeyEvent is one injected press or release as kept for statistics.
type KeyEvent struct {
	Session   string
	Layout    string
	Content   string
	Modifiers KeyboardState
	Pressed   bool
}

type KeyEventWithTimestamp struct {
	KeyEvent
	Timestamp time.Time
}

// KeyCount is how many times a content was pressed on a layout.
type KeyCount struct {
	Layout  string
	Content string
	Count   int
}

// Combo is a group of contents seen together, and how often that happened.
// Neighbors hold the previous and the next content; chords hold the
// modifier names followed by the content.
type Combo struct {
	Keys    []string
	Pressed int
}
