package components

type PageType int

const (
	PageTypeStats PageType = iota
	PageTypeCombo
	PageTypeNeighbors
)

// Item is one key drawn on the heatmap, in layout pixels.
type Item struct {
	Content        string
	KeyName        string
	KeypressAmount int
	Highlight      bool
	Location       Location
}

type Location struct {
	X, Y          int
	Width, Height int
}

// ComboConnection is one entry of the top list shown next to a highlighted key.
type ComboConnection struct {
	From       string
	To         string
	PressCount int
}

type RenderContext struct {
	Layout           string
	Layouts          []string
	Width            int
	Height           int
	Items            []Item
	MaxVal           int
	Highlight        string
	ComboConnections []ComboConnection
	Page             PageType
}
