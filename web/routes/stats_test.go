package routes_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dasdy/softkbd/model"
	"github.com/dasdy/softkbd/web/components"
)

func TestBuildStatsRenderContext(t *testing.T) {
	handler := setupMockServerHandler(t)
	us, _ := handler.Keyboard.Layout("us")

	tests := []struct {
		name           string
		inputStats     []model.KeyCount
		expectedMaxVal int
		expectedCounts map[string]int
	}{
		{
			name:           "Empty stats",
			inputStats:     []model.KeyCount{},
			expectedMaxVal: 0,
			expectedCounts: map[string]int{"a": 0, "b": 0},
		},
		{
			name: "Some stats",
			inputStats: []model.KeyCount{
				{Layout: "us", Content: "a", Count: 5},
				{Layout: "us", Content: "b", Count: 10},
			},
			expectedMaxVal: 10,
			expectedCounts: map[string]int{"a": 5, "b": 10},
		},
		{
			name: "Slots and alternates add up on one key",
			inputStats: []model.KeyCount{
				{Layout: "us", Content: "a", Count: 5},
				{Layout: "us", Content: "A", Count: 2},
				{Layout: "us", Content: "á", Count: 1},
			},
			expectedMaxVal: 8,
			expectedCounts: map[string]int{"a": 8},
		},
		{
			name: "Missing content and other layouts are skipped",
			inputStats: []model.KeyCount{
				{Layout: "us", Content: "a", Count: 5},
				{Layout: "us", Content: "z", Count: 15},
				{Layout: "ru", Content: "b", Count: 30},
			},
			expectedMaxVal: 5,
			expectedCounts: map[string]int{"a": 5, "b": 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := handler.BuildStatsRenderContext(us, tc.inputStats)

			assert.Equal(t, tc.expectedMaxVal, result.MaxVal)
			assert.Len(t, result.Items, 5)
			assert.Equal(t, components.PageTypeStats, result.Page)
			assert.Equal(t, "us", result.Layout)
			assert.Equal(t, []string{"us", "ru"}, result.Layouts)
			assert.Equal(t, us.Width(), result.Width)

			items := itemsByContent(result.Items)
			for content, count := range tc.expectedCounts {
				assert.Equal(t, count, items[content].KeypressAmount, content)
			}
		})
	}
}

func TestStatsHandle(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		storageReturns []model.KeyCount
		storageError   error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "Success case",
			target: "/",
			storageReturns: []model.KeyCount{
				{Layout: "us", Content: "a", Count: 5},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Key usage - us",
		},
		{
			name:   "Selected layout",
			target: "/?layout=ru",
			storageReturns: []model.KeyCount{
				{Layout: "ru", Content: "ф", Count: 5},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Key usage - ru",
		},
		{
			name:           "Unknown layout falls back to the selected one",
			target:         "/?layout=de",
			expectedStatus: http.StatusOK,
			expectedBody:   "Key usage - us",
		},
		{
			name:           "Storage error",
			target:         "/",
			storageReturns: []model.KeyCount{},
			storageError:   errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "database error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := setupMockServerHandler(t)

			handler.MockStorage.ReturnStats = tc.storageReturns
			handler.MockStorage.ReturnError = tc.storageError

			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			w := httptest.NewRecorder()

			handler.StatsHandle(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.expectedBody)
			assert.Equal(t, 1, handler.MockStorage.CallCount, "GatherAll should be called exactly once")
		})
	}
}
