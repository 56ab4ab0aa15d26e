package layout_test

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasdy/softkbd/layout"
	"github.com/dasdy/softkbd/model"
)

const usLayout = `
layouts:
  - id: us
    rows:
      - keys:
          - a
          - normal: {display: s}
            shifted: {display: S}
            obey-caps: true
          - normal: {display: e}
            alternates: [é, è]
          - normal: {keysym: Return}
            width: 2000
      - keys:
          - normal: {modifier: shift}
          - normal: {keysym: space, display: " "}
            fill: true
          - blank: true
          - normal: {keysym: Left}
            extended: true
            extra-width-pad: 4
            extra-height-pad: 2
  - rows:
      - keys: [x]
`

func keyAt(t *testing.T, l *model.Layout, row, col int) *model.Key {
	t.Helper()

	r, ok := l.Rows().Nth(row)
	require.True(t, ok)

	k, ok := r.Keys().Nth(col)
	require.True(t, ok)

	return k
}

func TestParse(t *testing.T) {
	layouts, err := layout.Parse(strings.NewReader(usLayout), ".")
	require.NoError(t, err)
	require.Len(t, layouts, 2)

	us := layouts[0]
	assert.Equal(t, "us", us.ID)
	assert.Equal(t, 2, us.Rows().Len())
	assert.Equal(t, 8, us.KeyCount())

	t.Run("scalar keys type their glyph", func(t *testing.T) {
		a := keyAt(t, us, 0, 0)

		assert.Equal(t, "a", a.Face(model.KeyStateNormal).Glyph)
		assert.Equal(t, model.Content{Chars: "a"}, a.Action(model.KeyStateNormal).Content())
	})

	t.Run("obey-caps without caps entry uses shifted", func(t *testing.T) {
		s := keyAt(t, us, 0, 1)

		assert.True(t, s.ObeyCaps)
		assert.True(t, s.HasState(model.KeyStateCaps))
		assert.Equal(t, "S", s.Face(model.KeyStateCaps).Glyph)
		assert.Equal(t, "S", s.Action(model.KeyStateCaps).Chars)
	})

	t.Run("alternates shorthand", func(t *testing.T) {
		e := keyAt(t, us, 0, 2)

		assert.Equal(t, []string{"é", "è"}, e.Alternates(model.KeyStateNormal))
	})

	t.Run("keysym keys get a label and a width", func(t *testing.T) {
		enter := keyAt(t, us, 0, 3)

		assert.Equal(t, "↵", enter.Face(model.KeyStateNormal).Glyph)
		assert.Equal(t, model.ActionKeySym, enter.Action(model.KeyStateNormal).Type)
		assert.Equal(t, model.KeySym(0xff0d), enter.Action(model.KeyStateNormal).KeySym)
		assert.Equal(t, 2000, enter.ReqUWidth)
	})

	t.Run("modifier keys", func(t *testing.T) {
		shift := keyAt(t, us, 1, 0)

		assert.Equal(t, model.ActionModifier, shift.Action(model.KeyStateNormal).Type)
		assert.Equal(t, model.ModShift, shift.Action(model.KeyStateNormal).Modifier)
		assert.Equal(t, "⇧", shift.Face(model.KeyStateNormal).Glyph)
	})

	t.Run("display overrides the keysym label", func(t *testing.T) {
		space := keyAt(t, us, 1, 1)

		assert.True(t, space.Fill)
		assert.Equal(t, " ", space.Face(model.KeyStateNormal).Glyph)
		assert.Equal(t, model.Content{KeySym: 0x20}, space.Action(model.KeyStateNormal).Content())
	})

	t.Run("flags", func(t *testing.T) {
		assert.True(t, keyAt(t, us, 1, 2).Blank)

		left := keyAt(t, us, 1, 3)
		assert.True(t, left.Extended)
		assert.Equal(t, 4, left.ExtraWidthPad)
		assert.Equal(t, 2, left.ExtraHeightPad)
	})

	t.Run("missing ids are numbered", func(t *testing.T) {
		assert.Equal(t, "layout2", layouts[1].ID)
	})
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"duplicate id", "layouts:\n  - id: us\n  - id: us\n", "duplicate layout id"},
		{"negative width", "layouts:\n  - rows:\n      - keys:\n          - {normal: {display: a}, width: -1}\n", "negative"},
		{"not yaml", "layouts: [", "decode"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := layout.Parse(strings.NewReader(tc.doc), ".")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	t.Run("no layouts", func(t *testing.T) {
		for _, doc := range []string{"", "layouts: []\n"} {
			_, err := layout.Parse(strings.NewReader(doc), ".")

			assert.ErrorIs(t, err, layout.ErrNoLayouts)
		}
	})

	t.Run("unknown keysym falls back to normal", func(t *testing.T) {
		doc := "layouts:\n  - id: us\n    rows:\n      - keys:\n" +
			"          - normal: {display: a}\n            shifted: {keysym: NoSuchSym}\n" +
			"          - normal: {keysym: Hyper_Q}\n"

		layouts, err := layout.Parse(strings.NewReader(doc), ".")
		require.NoError(t, err)
		require.Len(t, layouts, 1)

		a := keyAt(t, layouts[0], 0, 0)
		assert.Equal(t, a.Action(model.KeyStateNormal), a.Action(model.KeyStateShifted))
		assert.Equal(t, "a", a.Action(model.KeyStateShifted).Content().String())

		broken := keyAt(t, layouts[0], 0, 1)
		assert.False(t, broken.Action(model.KeyStateNormal).Injects())
	})

	t.Run("unknown modifier is kept as a no-op key", func(t *testing.T) {
		doc := "layouts:\n  - rows:\n      - keys:\n          - normal: {modifier: hyper, display: H}\n"

		layouts, err := layout.Parse(strings.NewReader(doc), ".")
		require.NoError(t, err)

		k := keyAt(t, layouts[0], 0, 0)
		assert.Equal(t, model.ModUnknown, k.Action(model.KeyStateNormal).Modifier)
		assert.Equal(t, "H", k.Label())
	})
}

func TestImageFaces(t *testing.T) {
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 24, 16))
	file, err := os.Create(filepath.Join(dir, "enter.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, img))
	require.NoError(t, file.Close())

	doc := "layouts:\n  - rows:\n      - keys:\n          - normal: {image: enter.png, keysym: Return}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img.yaml"), []byte(doc), 0o600))

	layouts, err := layout.Load(filepath.Join(dir, "img.yaml"))
	require.NoError(t, err)

	face := keyAt(t, layouts[0], 0, 0).Face(model.KeyStateNormal)
	require.Equal(t, model.FaceImage, face.Type)
	assert.Equal(t, 24, face.Image.Width)
	assert.Equal(t, 16, face.Image.Height)
	assert.Equal(t, filepath.Join(dir, "enter.png"), face.Image.Path)

	t.Run("missing image", func(t *testing.T) {
		doc := "layouts:\n  - rows:\n      - keys:\n          - normal: {image: nope.png}\n"

		_, err := layout.Parse(strings.NewReader(doc), dir)
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Run("bundled layouts", func(t *testing.T) {
		_, b, _, _ := runtime.Caller(0)

		// Root folder of this project
		fp := filepath.Join(filepath.Dir(b), "..")

		layouts, err := layout.Load(filepath.Join(fp, "layouts", "default.yaml"))
		require.NoError(t, err)

		ids := make([]string, 0, len(layouts))
		for _, l := range layouts {
			ids = append(ids, l.ID)
		}

		assert.Equal(t, []string{"us", "ru"}, ids)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := layout.Load(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "⌫", layout.KeySymLabel(0xff08))
	assert.Equal(t, "F5", layout.KeySymLabel(0xffc2))
	assert.Equal(t, "0x1234", layout.KeySymLabel(0x1234))

	assert.Equal(t, "⇪", layout.ModifierLabel(model.ModCaps))
	assert.Equal(t, "unknown", layout.ModifierLabel(model.ModUnknown))
}
