package ui

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dasdy/softkbd/keyboard"
	"github.com/dasdy/softkbd/logging"
	"github.com/dasdy/softkbd/remote"
)

var ErrLoopClosed = errors.New("event loop closed")

const queueSize = 64

// Loop is the only goroutine touching the keyboard and the backend. Input,
// timers, remote requests and reloads all arrive as events and are applied
// one at a time.
type Loop struct {
	ui *UI
	kb *keyboard.Keyboard

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop creates a loop for u and installs it as the keyboard's timer
// scheduler.
func NewLoop(u *UI) *Loop {
	l := &Loop{
		ui:     u,
		kb:     u.Keyboard(),
		events: make(chan Event, queueSize),
		done:   make(chan struct{}),
	}

	l.kb.SetScheduler(l)

	return l
}

// Post queues an event. It is safe to call from any goroutine.
func (l *Loop) Post(ev Event) error {
	select {
	case <-l.done:
		return ErrLoopClosed
	default:
	}

	select {
	case l.events <- ev:
		return nil
	case <-l.done:
		return ErrLoopClosed
	}
}

// Submit queues a remote request; it is a remote.Handler.
func (l *Loop) Submit(req remote.Request) error {
	return l.Post(RemoteRequest(req))
}

// AfterFunc schedules fn to run on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() {
		if err := l.Post(Event{Type: eventTimer, fire: fn}); err != nil {
			slog.Debug("timer dropped", "error", err)
		}
	})

	return func() { t.Stop() }
}

// Run dispatches events until a quit event arrives or ctx is cancelled.
// Events from a backend implementing EventSource are read as well.
func (l *Loop) Run(ctx context.Context) error {
	defer l.close()

	logCtx := logging.AppendCtx(ctx, slog.String(logging.PackageName, "ui"))

	var source <-chan Event
	if es, ok := l.ui.backend.(EventSource); ok {
		source = es.Events()
	}

	for {
		select {
		case <-ctx.Done():
			l.kb.Release(true)
			slog.InfoContext(logCtx, "event loop stopped", "reason", ctx.Err())

			return nil
		case ev, ok := <-source:
			if !ok {
				source = nil

				continue
			}

			if !l.Handle(ev) {
				return nil
			}
		case ev := <-l.events:
			if !l.Handle(ev) {
				return nil
			}
		}
	}
}

func (l *Loop) close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Handle applies one event and reports whether the loop should go on.
func (l *Loop) Handle(ev Event) bool {
	switch ev.Type {
	case EventPointerDown:
		if !l.ui.IsVisible() {
			return true
		}

		l.kb.Press(ev.X, ev.Y)
	case EventPointerMotion:
		l.kb.Motion(ev.X, ev.Y)
	case EventPointerUp:
		l.kb.ReleaseAt(ev.X, ev.Y)
	case EventPointerCancel:
		l.kb.Release(true)
	case EventResize:
		if err := l.ui.Resize(ev.Width, ev.Height); err != nil {
			slog.Warn("could not resize keyboard", "error", err)
		}
	case EventDisplay:
		l.ui.displayChanged()
	case EventRemote:
		l.apply(ev.Request)
	case EventReload:
		if err := l.kb.ReplaceLayouts(ev.Layouts); err != nil {
			slog.Warn("could not reload layouts", "error", err)
		} else {
			l.ui.refreshSize()
			slog.Info("layouts reloaded", "count", len(ev.Layouts))
		}
	case eventTimer:
		if ev.fire != nil {
			ev.fire()
		}
	case EventQuit:
		l.kb.Release(true)

		return false
	case EventNone:
	}

	l.ui.Present()

	return true
}

func (l *Loop) apply(req remote.Request) {
	slog.Debug("applying remote request", "request", req.String())

	switch req.Op {
	case remote.OpShow:
		l.ui.Show()
	case remote.OpHide:
		l.ui.Hide()
	case remote.OpToggle:
		l.ui.Toggle()
	case remote.OpSetLayout:
		if err := l.kb.SetSelectedLayout(req.Layout); err != nil {
			slog.Warn("remote layout switch failed", "layout", req.Layout, "error", err)

			return
		}

		l.ui.refreshSize()
	default:
		slog.Warn("ignoring remote request", "op", req.Op)
	}
}
