package routes

import (
	"cmp"
	"log/slog"
	"net/http"
	"slices"

	"github.com/dasdy/softkbd/model"
	cs "github.com/dasdy/softkbd/web/components"
)

// BuildNeighborsRenderContext builds the render context for the neighbors page.
func (s *ServerHandler) BuildNeighborsRenderContext(l *model.Layout, neighbors []model.Combo, content string) cs.RenderContext {
	items, byContent := InitEmptyMap(l)

	// Sort combos by press count to get top 5
	slices.SortFunc(neighbors, func(a, b model.Combo) int {
		return cmp.Or(
			-cmp.Compare(a.Pressed, b.Pressed), // Negative to sort in descending order
			slices.Compare(a.Keys, b.Keys),
		)
	})

	connections := make([]cs.ComboConnection, 0, 5)

	for _, combo := range neighbors {
		next := combo.Keys[len(combo.Keys)-1]

		ix, ok := byContent[next]
		if !ok {
			slog.Debug("Content not found in layout", "layout", l.ID, "content", next)
		} else {
			items[ix].KeypressAmount += combo.Pressed
		}

		if len(connections) < 5 {
			connections = append(connections, cs.ComboConnection{
				From:       content,
				To:         next,
				PressCount: combo.Pressed,
			})
		}
	}

	if ix, ok := byContent[content]; ok {
		items[ix].Highlight = true
	}

	slog.Debug("Found neighbor connections", "count", len(connections))

	rc := s.renderContext(l, items, cs.PageTypeNeighbors)
	rc.Highlight = content
	rc.ComboConnections = connections

	return rc
}

// NeighborsHandle handles requests to the neighbors page.
func (s *ServerHandler) NeighborsHandle(w http.ResponseWriter, r *http.Request) {
	slog.Info("Handling neighbors page request")

	content, err := contentParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	neighbors := s.NeighborTracker.GatherCombos(content)

	renderContext := s.BuildNeighborsRenderContext(s.layoutFor(r), neighbors, content)
	render(w, &renderContext)
}
