package ui

import (
	"fmt"

	"github.com/dasdy/softkbd/model"
	"github.com/dasdy/softkbd/remote"
)

type EventType int

const (
	EventNone EventType = iota
	EventPointerDown
	EventPointerMotion
	EventPointerUp
	// EventPointerCancel is contact lost without a real release, e.g. the
	// pointer leaving the surface.
	EventPointerCancel
	// EventResize carries a new surface size.
	EventResize
	// EventDisplay carries a new display size, e.g. after rotation.
	EventDisplay
	EventRemote
	EventReload
	EventQuit
	eventTimer
)

func (t EventType) String() string {
	switch t {
	case EventNone:
		return "none"
	case EventPointerDown:
		return "pointer-down"
	case EventPointerMotion:
		return "pointer-motion"
	case EventPointerUp:
		return "pointer-up"
	case EventPointerCancel:
		return "pointer-cancel"
	case EventResize:
		return "resize"
	case EventDisplay:
		return "display"
	case EventRemote:
		return "remote"
	case EventReload:
		return "reload"
	case EventQuit:
		return "quit"
	case eventTimer:
		return "timer"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is anything the loop reacts to.
type Event struct {
	Type EventType

	// Pointer position.
	X, Y int

	// Surface or display size.
	Width, Height int

	Request remote.Request
	Layouts []*model.Layout

	fire func()
}

func PointerDown(x, y int) Event   { return Event{Type: EventPointerDown, X: x, Y: y} }
func PointerMotion(x, y int) Event { return Event{Type: EventPointerMotion, X: x, Y: y} }
func PointerUp(x, y int) Event     { return Event{Type: EventPointerUp, X: x, Y: y} }
func PointerCancel() Event         { return Event{Type: EventPointerCancel} }

func Resized(width, height int) Event {
	return Event{Type: EventResize, Width: width, Height: height}
}

func DisplayChanged(width, height int) Event {
	return Event{Type: EventDisplay, Width: width, Height: height}
}

func RemoteRequest(req remote.Request) Event {
	return Event{Type: EventRemote, Request: req}
}

func Reload(layouts []*model.Layout) Event {
	return Event{Type: EventReload, Layouts: layouts}
}

func Quit() Event { return Event{Type: EventQuit} }
