package routes

import (
	"cmp"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/dasdy/softkbd/model"
	cs "github.com/dasdy/softkbd/web/components"
)

// BuildCombosRenderContext builds the render context for the chords page:
// every modifier key is colored by how often it was held while content was
// typed.
func (s *ServerHandler) BuildCombosRenderContext(l *model.Layout, combos []model.Combo, content string) cs.RenderContext {
	slog.Debug("Building combos context", "comboCount", len(combos))

	// Sort combos by press count to get top 5
	slices.SortFunc(combos, func(a, b model.Combo) int {
		return cmp.Or(
			-cmp.Compare(a.Pressed, b.Pressed), // Negative to sort in descending order
			slices.Compare(a.Keys, b.Keys),
		)
	})

	items, byContent := InitEmptyMap(l)

	for _, combo := range combos {
		for _, key := range combo.Keys {
			if key == content {
				continue
			}

			ix, ok := byContent[key]
			if !ok {
				slog.Debug("Modifier not found in layout", "modifier", key)

				continue
			}

			items[ix].KeypressAmount += combo.Pressed
		}
	}

	if ix, ok := byContent[content]; ok {
		items[ix].Highlight = true
	}

	connections := make([]cs.ComboConnection, 0, 5)

	for _, combo := range combos {
		connections = append(connections, cs.ComboConnection{
			From:       strings.Join(combo.Keys[:len(combo.Keys)-1], "+"),
			To:         content,
			PressCount: combo.Pressed,
		})
		if len(connections) >= 5 {
			break
		}
	}

	rc := s.renderContext(l, items, cs.PageTypeCombo)
	rc.Highlight = content
	rc.ComboConnections = connections

	return rc
}

// CombosHandle handles requests to the chords page.
func (s *ServerHandler) CombosHandle(w http.ResponseWriter, r *http.Request) {
	slog.Info("Handling combos page request")

	content, err := contentParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	combos := s.ComboTracker.GatherCombos(content)

	renderContext := s.BuildCombosRenderContext(s.layoutFor(r), combos, content)
	render(w, &renderContext)
}
