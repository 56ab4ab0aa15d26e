package routes_test

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dasdy/softkbd/model"
	"github.com/dasdy/softkbd/web/components"
	"github.com/dasdy/softkbd/web/routes"
)

// SimpleStorageMock is a simple manual mock implementation of the Storage interface
type SimpleStorageMock struct {
	ReturnStats []model.KeyCount
	ReturnError error
	CallCount   int
}

func (m *SimpleStorageMock) GatherAll() ([]model.KeyCount, error) {
	m.CallCount++

	return m.ReturnStats, m.ReturnError
}

func (m *SimpleStorageMock) AllIterator() (iter.Seq[model.KeyEventWithTimestamp], error) {
	return func(func(model.KeyEventWithTimestamp) bool) {}, nil
}

func (m *SimpleStorageMock) Close() {}

func (m *SimpleStorageMock) Store(*model.KeyEvent) error {
	return nil
}

// TrackerMock is a simple mock implementation of the Tracker interface
type TrackerMock struct {
	ReturnCombos []model.Combo
	CallCount    int
	LastContent  string
}

func (m *TrackerMock) HandleKeyNow(model.KeyEvent, bool) {}

func (m *TrackerMock) GatherCombos(content string) []model.Combo {
	m.CallCount++
	m.LastContent = content

	return m.ReturnCombos
}

func charKey(normal, shifted string, alternates ...string) *model.Key {
	k := model.NewKey()
	k.SetGlyphFace(model.KeyStateNormal, normal)
	k.SetCharAction(model.KeyStateNormal, normal)

	if shifted != "" {
		k.SetGlyphFace(model.KeyStateShifted, shifted)
		k.SetCharAction(model.KeyStateShifted, shifted)
	}

	if len(alternates) > 0 {
		k.SetAlternates(model.KeyStateNormal, alternates)
	}

	return k
}

// createTestLayouts builds "us" with keys a, b, shift, control, c and a
// blank key, and "ru" with a single key.
func createTestLayouts() []*model.Layout {
	us := model.NewLayout("us")

	top := model.NewRow()
	top.AppendKey(charKey("a", "A", "á"))
	top.AppendKey(charKey("b", "B"))
	us.AppendRow(top)

	shift := model.NewKey()
	shift.SetGlyphFace(model.KeyStateNormal, "⇧")
	shift.SetModifierAction(model.KeyStateNormal, model.ModShift)

	control := model.NewKey()
	control.SetModifierAction(model.KeyStateNormal, model.ModControl)

	blank := model.NewKey()
	blank.Blank = true

	bottom := model.NewRow()
	bottom.AppendKey(shift)
	bottom.AppendKey(control)
	bottom.AppendKey(charKey("c", "C"))
	bottom.AppendKey(blank)
	us.AppendRow(bottom)

	ru := model.NewLayout("ru")
	row := model.NewRow()
	row.AppendKey(charKey("ф", "Ф"))
	ru.AppendRow(row)

	return []*model.Layout{us, ru}
}

// MockServerHandler bundles a handler with its mocks.
type MockServerHandler struct {
	routes.ServerHandler
	MockStorage         *SimpleStorageMock
	MockComboTracker    *TrackerMock
	MockNeighborTracker *TrackerMock
}

func setupMockServerHandler(t *testing.T) MockServerHandler {
	t.Helper()

	kb, err := routes.NewKeyboard(createTestLayouts())
	require.NoError(t, err)

	storage := &SimpleStorageMock{}
	combos := &TrackerMock{}
	neighbors := &TrackerMock{}

	return MockServerHandler{
		ServerHandler: routes.ServerHandler{
			Storage:         storage,
			Keyboard:        kb,
			ComboTracker:    combos,
			NeighborTracker: neighbors,
		},
		MockStorage:         storage,
		MockComboTracker:    combos,
		MockNeighborTracker: neighbors,
	}
}

func itemsByContent(items []components.Item) map[string]components.Item {
	result := make(map[string]components.Item, len(items))

	for _, item := range items {
		result[item.Content] = item
	}

	return result
}
