package keyboard

import (
	"log/slog"
	"unicode/utf8"

	"github.com/dasdy/softkbd/model"
)

// ComputeGeometry sizes and positions every row and key of every layout.
//
// Single-character glyphs and images define a unit cell. A key is one unit
// plus decorations wide unless its text is wider, or it requests a width in
// thousandths of a unit. Fill keys share the leftover width of their row
// equally, the last fill key taking the remainder; rows without fill keys
// are centered.
func (kb *Keyboard) ComputeGeometry() error {
	if kb.layouts.Len() == 0 {
		return ErrNoLayout
	}

	kb.unitWidth, kb.unitHeight = kb.unitSize()

	for _, l := range kb.layouts.All() {
		kb.layoutGeometry(l)
		kb.natural[l] = [2]int{l.Width(), l.Height()}

		if kb.fitWidth > 0 && kb.fitHeight > 0 {
			scaleLayout(l, kb.fitWidth, kb.fitHeight)
		}
	}

	slog.Debug("geometry computed",
		"unit_width", kb.unitWidth,
		"unit_height", kb.unitHeight,
		"extended", kb.extended)

	return nil
}

// Fit stretches every layout to width x height. A non-positive size restores
// the natural geometry.
func (kb *Keyboard) Fit(width, height int) error {
	kb.fitWidth, kb.fitHeight = width, height

	return kb.relayout()
}

// BaseSize is the natural size of the selected layout, before any Fit.
func (kb *Keyboard) BaseSize() (width, height int) {
	if kb.selected == nil {
		return 0, 0
	}

	size, ok := kb.natural[kb.selected]
	if !ok {
		return kb.selected.Width(), kb.selected.Height()
	}

	return size[0], size[1]
}

// Size is the current size of the selected layout.
func (kb *Keyboard) Size() (width, height int) {
	if kb.selected == nil {
		return 0, 0
	}

	return kb.selected.Width(), kb.selected.Height()
}

// UnitSize is the content size of a one-unit key, without decorations.
func (kb *Keyboard) UnitSize() (width, height int) {
	return kb.unitWidth, kb.unitHeight
}

func (kb *Keyboard) decoration() int {
	return 2 * (kb.spacing.KeyBorder + kb.spacing.KeyPad + kb.spacing.KeyMargin)
}

func (kb *Keyboard) unitSize() (int, int) {
	maxW, maxH := 0, 0

	for _, l := range kb.layouts.All() {
		for _, row := range l.Rows().All() {
			for _, key := range row.Keys().All() {
				if key.Blank {
					continue
				}

				for _, s := range key.States() {
					face := key.Face(s)

					var w, h int

					switch face.Type {
					case model.FaceGlyph:
						if utf8.RuneCountInString(face.Glyph) != 1 {
							continue
						}

						w, h = kb.renderer.TextExtents(face.Glyph)
					case model.FaceImage:
						w, h = face.Image.Width, face.Image.Height
					default:
						continue
					}

					maxW, maxH = max(maxW, w), max(maxH, h)
				}
			}
		}
	}

	if maxW == 0 || maxH == 0 {
		w, h := kb.renderer.TextExtents("W")
		maxW, maxH = max(maxW, w), max(maxH, h)
	}

	return maxW, maxH
}

func (kb *Keyboard) contentSize(key *model.Key) (int, int) {
	w, h := kb.unitWidth, kb.unitHeight

	for _, s := range key.States() {
		face := key.Face(s)

		switch face.Type {
		case model.FaceGlyph:
			tw, th := kb.renderer.TextExtents(face.Glyph)
			w, h = max(w, tw), max(h, th)
		case model.FaceImage:
			w, h = max(w, face.Image.Width), max(h, face.Image.Height)
		case model.FaceNone:
		}
	}

	return w, h
}

func (kb *Keyboard) keySize(key *model.Key) (int, int) {
	decor := kb.decoration()
	cw, ch := kb.contentSize(key)

	width := cw + decor
	if key.ReqUWidth > 0 {
		width = key.ReqUWidth * (kb.unitWidth + decor) / 1000
	}

	return width + key.ExtraWidthPad, ch + decor + key.ExtraHeightPad
}

type rowPlan struct {
	row   *model.Row
	keys  []*model.Key
	sizes [][2]int
	fills int
}

func (kb *Keyboard) layoutGeometry(l *model.Layout) {
	plans := make([]rowPlan, 0, l.Rows().Len())
	maxWidth := 0

	for _, row := range l.Rows().All() {
		plan := rowPlan{row: row}

		for _, key := range row.Keys().All() {
			if !key.Visible(kb.extended) {
				key.SetGeometry(0, 0, 0, 0)

				continue
			}

			w, h := kb.keySize(key)
			plan.keys = append(plan.keys, key)
			plan.sizes = append(plan.sizes, [2]int{w, h})

			if key.Fill {
				plan.fills++
			}
		}

		base := kb.placeKeys(plan, 0)
		maxWidth = max(maxWidth, base)
		plans = append(plans, plan)
	}

	y := 0
	first := true

	for _, plan := range plans {
		row := plan.row

		if len(plan.keys) == 0 {
			row.X, row.Y = 0, y
			row.SetSize(0, 0, 0)

			continue
		}

		base := kb.placeKeys(plan, 0)
		width := base

		if plan.fills > 0 && maxWidth > base {
			width = kb.placeKeys(plan, maxWidth-base)
		}

		height := 0
		for _, s := range plan.sizes {
			height = max(height, s[1])
		}

		if !first {
			y += kb.spacing.RowSpacing
		}

		first = false

		row.X = (maxWidth - width) / 2
		row.Y = y
		row.SetSize(width, base, height)

		y += height
	}

	l.SetSize(maxWidth, y)
}

// placeKeys lays the row's keys out left to right, sharing leftover among
// the fill keys, and returns the resulting row width.
func (kb *Keyboard) placeKeys(plan rowPlan, leftover int) int {
	share, rem := 0, 0
	if plan.fills > 0 {
		share, rem = leftover/plan.fills, leftover%plan.fills
	}

	x := 0
	fillsSeen := 0

	for i, key := range plan.keys {
		if i > 0 {
			x += kb.spacing.ColSpacing
		}

		w := plan.sizes[i][0]

		if key.Fill && leftover > 0 {
			w += share
			fillsSeen++

			if fillsSeen == plan.fills {
				w += rem
			}
		}

		key.SetGeometry(x, 0, w, plan.sizes[i][1])
		x += w
	}

	return x
}

// scaleLayout maps the natural geometry onto width x height, keeping
// neighbouring keys adjacent by scaling edges rather than sizes.
func scaleLayout(l *model.Layout, width, height int) {
	baseW, baseH := l.Width(), l.Height()
	if baseW <= 0 || baseH <= 0 {
		return
	}

	sx := func(v int) int { return v * width / baseW }
	sy := func(v int) int { return v * height / baseH }

	for _, row := range l.Rows().All() {
		rowX, rowY := sx(row.X), sy(row.Y)
		rowH := sy(row.Y+row.Height()) - rowY

		for _, key := range row.Keys().All() {
			if key.Width() == 0 {
				continue
			}

			ax, ay := key.AbsX(), key.AbsY()
			x0, x1 := sx(ax), sx(ax+key.Width())
			y0, y1 := sy(ay), sy(ay+key.Height())
			key.SetGeometry(x0-rowX, y0-rowY, x1-x0, y1-y0)
		}

		row.SetSize(sx(row.X+row.Width())-rowX, sx(row.X+row.BaseWidth())-rowX, rowH)
		row.X, row.Y = rowX, rowY
	}

	l.SetSize(width, height)
}
