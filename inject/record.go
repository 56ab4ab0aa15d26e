package inject

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/dasdy/softkbd/db"
	"github.com/dasdy/softkbd/keyboard"
	"github.com/dasdy/softkbd/model"
)

// Recorder passes events to another injector and stores them. Storage
// failures are logged and never block typing.
type Recorder struct {
	next     keyboard.Injector
	storage  db.Storage
	trackers []db.Tracker
	layout   func() string
	session  string
	last     *model.KeyEvent
	verbose  bool
}

// NewRecorder tags every stored event with a fresh session id and the layout
// returned by layout at press time.
func NewRecorder(next keyboard.Injector, storage db.Storage, layout func() string, trackers ...db.Tracker) *Recorder {
	return &Recorder{
		next:     next,
		storage:  storage,
		trackers: trackers,
		layout:   layout,
		session:  uuid.NewString(),
	}
}

func (r *Recorder) SetVerbose(verbose bool) {
	r.verbose = verbose
}

func (r *Recorder) Session() string {
	return r.session
}

func (r *Recorder) Press(content model.Content, modifiers model.KeyboardState) error {
	if err := r.next.Press(content, modifiers); err != nil {
		return err
	}

	event := &model.KeyEvent{
		Session:   r.session,
		Layout:    r.layout(),
		Content:   content.String(),
		Modifiers: modifiers,
		Pressed:   true,
	}
	r.last = event

	r.record(event)

	return nil
}

func (r *Recorder) Release() error {
	if err := r.next.Release(); err != nil {
		return err
	}

	if r.last == nil {
		return nil
	}

	event := *r.last
	event.Pressed = false
	r.last = nil

	r.record(&event)

	return nil
}

func (r *Recorder) record(event *model.KeyEvent) {
	if err := r.storage.Store(event); err != nil {
		slog.Error("Could not store key event", "content", event.Content, "error", err)
	}

	for _, t := range r.trackers {
		t.HandleKeyNow(*event, r.verbose)
	}
}
