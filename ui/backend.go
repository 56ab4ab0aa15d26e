// Package ui connects the keyboard engine to a rendering backend and runs
// the single-threaded event loop that owns both.
package ui

import (
	"errors"

	"github.com/dasdy/softkbd/keyboard"
)

var (
	ErrFontLoad  = errors.New("font load failed")
	ErrResize    = errors.New("resize failed")
	ErrResources = errors.New("resource creation failed")
)

// Font describes the face used for key glyphs.
type Font struct {
	Family  string
	Size    int
	Variant string
}

// Backend owns every drawing resource. The engine only ever sees it through
// keyboard.Renderer.
type Backend interface {
	keyboard.Renderer

	// Init allocates the drawing surface.
	Init() error
	LoadFont(font Font) error
	// CreateResources is called once geometry is known, before the first draw.
	CreateResources(width, height int) error
	Resize(width, height int) error
	// SetVisible maps or unmaps the keyboard surface.
	SetVisible(visible bool)
	// Present flushes pending drawing to the display.
	Present()
	// DisplaySize is the size of the whole display the keyboard lives on.
	DisplaySize() (width, height int)
	Close() error
}

// EventSource is implemented by backends that produce input events.
type EventSource interface {
	Events() <-chan Event
}
