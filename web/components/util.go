package components

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
)

var pageTitles = map[PageType]string{
	PageTypeStats:     "Key usage",
	PageTypeCombo:     "Chords",
	PageTypeNeighbors: "Neighbors",
}

func contentQuery(layout, content string) string {
	v := url.Values{}
	v.Set("content", content)

	if layout != "" {
		v.Set("layout", layout)
	}

	return v.Encode()
}

// layoutLink points the usage page at another layout.
func layoutLink(layout string) string {
	v := url.Values{}
	v.Set("layout", layout)

	return "/?" + v.Encode()
}

func heading(rc *RenderContext) string {
	if rc.Highlight == "" {
		return pageTitles[rc.Page]
	}

	return pageTitles[rc.Page] + ": " + rc.Highlight
}

func boxAttrs(rc *RenderContext) templ.Attributes {
	return templ.Attributes{
		"style": fmt.Sprintf("width: %dpx; height: %dpx;", rc.Width, rc.Height),
	}
}

func keyAttrs(item *Item, maxVal int) templ.Attributes {
	return templ.Attributes{
		"style": ToStyle(&item.Location) + " background: " + HeatColor(item.KeypressAmount, maxVal) + ";",
		"title": strconv.Itoa(item.KeypressAmount),
	}
}

// getLinkForContent returns the appropriate URL based on the page type.
func getLinkForContent(layout, content string, pageType PageType) string {
	switch pageType {
	case PageTypeNeighbors:
		return "/neighbors?" + contentQuery(layout, content)
	default:
		return "/combo?" + contentQuery(layout, content)
	}
}

// getSwitchModeLink returns the appropriate URL to switch between combo and neighbors modes.
func getSwitchModeLink(layout, content string, currentPageType PageType) string {
	switch currentPageType {
	case PageTypeCombo, PageTypeStats:
		return "/neighbors?" + contentQuery(layout, content)
	case PageTypeNeighbors:
		return "/combo?" + contentQuery(layout, content)
	default:
		return "/"
	}
}

// getSwitchModeButtonText returns the appropriate button text for switching modes.
func getSwitchModeButtonText(currentPageType PageType) string {
	switch currentPageType {
	case PageTypeCombo, PageTypeStats:
		return "View Neighbors"
	case PageTypeNeighbors:
		return "View Combos"
	default:
		return ""
	}
}

// HeatColor maps a count to a color between cold blue and hot red.
func HeatColor(count, maxVal int) string {
	if maxVal <= 0 || count <= 0 {
		return "hsl(220, 20%, 92%)"
	}

	ratio := float64(count) / float64(maxVal)
	if ratio > 1 {
		ratio = 1
	}

	hue := 220 - int(ratio*220)

	return fmt.Sprintf("hsl(%d, 75%%, %d%%)", hue, 85-int(ratio*30))
}

// ToStyle positions a key absolutely inside the keyboard box.
func ToStyle(l *Location) string {
	return fmt.Sprintf("left: %dpx; top: %dpx; width: %dpx; height: %dpx;", l.X, l.Y, l.Width, l.Height)
}
