package routes

import (
	"log/slog"
	"net/http"

	"github.com/dasdy/softkbd/model"
	cs "github.com/dasdy/softkbd/web/components"
)

// BuildStatsRenderContext builds the render context for the stats page.
// Counts of contents the layout cannot type are dropped.
func (s *ServerHandler) BuildStatsRenderContext(l *model.Layout, dbStats []model.KeyCount) cs.RenderContext {
	items, byContent := InitEmptyMap(l)

	for _, key := range dbStats {
		if key.Layout != l.ID {
			continue
		}

		ix, ok := byContent[key.Content]
		if !ok {
			slog.Debug("Content not found in layout", "layout", l.ID, "content", key.Content)

			continue
		}

		items[ix].KeypressAmount += key.Count
	}

	return s.renderContext(l, items, cs.PageTypeStats)
}

// StatsHandle handles requests to the stats page.
func (s *ServerHandler) StatsHandle(w http.ResponseWriter, r *http.Request) {
	slog.Info("Handling stats page request")

	curStats, err := s.Storage.GatherAll()
	if err != nil {
		slog.Error("Failed to get stats", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	renderContext := s.BuildStatsRenderContext(s.layoutFor(r), curStats)

	render(w, &renderContext)
}
