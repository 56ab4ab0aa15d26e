package routes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rivo/uniseg"

	"github.com/dasdy/softkbd/db"
	"github.com/dasdy/softkbd/keyboard"
	"github.com/dasdy/softkbd/model"
	cs "github.com/dasdy/softkbd/web/components"
)

const (
	cellWidth  = 24
	cellHeight = 40
)

var errNoContent = errors.New("missing content parameter")

// ServerHandler holds all dependencies needed for the web server handlers.
type ServerHandler struct {
	Storage         db.Storage
	Keyboard        *keyboard.Keyboard
	ComboTracker    db.Tracker
	NeighborTracker db.Tracker
}

// pageRenderer measures labels in page pixels.
type pageRenderer struct{}

func (pageRenderer) TextExtents(text string) (int, int) {
	return uniseg.StringWidth(text) * cellWidth, cellHeight
}

func (pageRenderer) PreRedraw()                             {}
func (pageRenderer) RedrawKey(*model.Key, keyboard.KeyView) {}

// NewKeyboard lays layouts out for pages. Extended keys are shown.
func NewKeyboard(layouts []*model.Layout) (*keyboard.Keyboard, error) {
	kb := keyboard.New(
		keyboard.WithRenderer(pageRenderer{}),
		keyboard.WithExtended(true),
		keyboard.WithSpacing(keyboard.Spacing{KeyMargin: 2, KeyPad: 4, RowSpacing: 2, ColSpacing: 2}),
	)

	for _, l := range layouts {
		kb.AddLayout(l)
	}

	if err := kb.ComputeGeometry(); err != nil {
		return nil, fmt.Errorf("could not lay out keyboard: %w", err)
	}

	return kb, nil
}

// SafeRenderTemplate safely renders a templ component to an http.ResponseWriter.
func SafeRenderTemplate(component templ.Component, w http.ResponseWriter) error {
	// Do not write to w because it implies 200 status
	var buf bytes.Buffer

	err := component.Render(context.Background(), &buf)
	if err != nil {
		return fmt.Errorf("could not render template: %w", err)
	}

	// Template executed successfully to the buffer.
	// Now, copy it over to the ResponseWriter
	// This implies a 200 OK status code
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response", "error", err)

		return fmt.Errorf("could not write to response writer: %w", err)
	}

	return nil
}

// layoutFor picks the layout named by the "layout" query parameter, or the
// selected one.
func (s *ServerHandler) layoutFor(r *http.Request) *model.Layout {
	if id := r.URL.Query().Get("layout"); id != "" {
		if l, ok := s.Keyboard.Layout(id); ok {
			return l
		}

		slog.Warn("Unknown layout requested", "layout", id)
	}

	return s.Keyboard.SelectedLayout()
}

func (s *ServerHandler) layoutIDs() []string {
	ids := make([]string, 0, s.Keyboard.Layouts().Len())

	for _, l := range s.Keyboard.Layouts().All() {
		ids = append(ids, l.ID)
	}

	return ids
}

// InitEmptyMap lists a zero-count item for every key of l, and indexes them
// by every content the key can type: each slot, its alternates, and the name
// of the modifier it toggles.
func InitEmptyMap(l *model.Layout) ([]cs.Item, map[string]int) {
	items := make([]cs.Item, 0, l.KeyCount())
	byContent := make(map[string]int)

	for _, row := range l.Rows().All() {
		for _, key := range row.Keys().All() {
			if key.Blank {
				continue
			}

			normal := key.Action(model.KeyStateNormal)

			content := normal.Content().String()
			if normal.Type == model.ActionModifier {
				content = normal.Modifier.String()
			}

			if content == "" {
				content = key.Label()
			}

			ix := len(items)
			items = append(items, cs.Item{
				Content: content,
				KeyName: key.Face(model.KeyStateNormal).Glyph,
				Location: cs.Location{
					X:      key.AbsX(),
					Y:      key.AbsY(),
					Width:  key.Width(),
					Height: key.Height(),
				},
			})

			if items[ix].KeyName == "" {
				items[ix].KeyName = key.Label()
			}

			index := func(c string) {
				if _, ok := byContent[c]; !ok && c != "" {
					byContent[c] = ix
				}
			}

			for _, state := range key.States() {
				a := key.Action(state)

				switch {
				case a.Injects():
					index(a.Content().String())
				case a.Type == model.ActionModifier:
					index(a.Modifier.String())
				}

				for _, alt := range key.Alternates(state) {
					index(alt)
				}
			}
		}
	}

	return items, byContent
}

func (s *ServerHandler) renderContext(l *model.Layout, items []cs.Item, page cs.PageType) cs.RenderContext {
	maxVal := 0

	for _, item := range items {
		maxVal = max(maxVal, item.KeypressAmount)
	}

	return cs.RenderContext{
		Layout:  l.ID,
		Layouts: s.layoutIDs(),
		Width:   l.Width(),
		Height:  l.Height(),
		Items:   items,
		MaxVal:  maxVal,
		Page:    page,
	}
}

func render(w http.ResponseWriter, rc *cs.RenderContext) {
	if err := SafeRenderTemplate(cs.HeatMap(rc), w); err != nil {
		slog.Error("Failed to render page", "page", rc.Page, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func contentParam(r *http.Request) (string, error) {
	content := r.URL.Query().Get("content")
	if content == "" {
		return "", errNoContent
	}

	return content, nil
}
