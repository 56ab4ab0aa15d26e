// Package layout reads keyboard layout files into the model.
//
// A layout file is YAML:
//
//	layouts:
//	  - id: us
//	    rows:
//	      - keys:
//	          - a                       # glyph "a", types "a"
//	          - normal: {display: s}
//	            shifted: {display: S}
//	            obey-caps: true
//	          - normal: {keysym: Return}
//	            width: 2000             # thousandths of a unit key
//	          - normal: {modifier: shift}
//	            fill: true
package layout

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // image faces
	_ "image/jpeg" // image faces
	_ "image/png"  // image faces
	"io"
	"log/slog"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"  // image faces
	_ "golang.org/x/image/webp" // image faces
	"gopkg.in/yaml.v3"

	"github.com/dasdy/softkbd/model"
)

var ErrNoLayouts = errors.New("no layouts defined")

type fileDoc struct {
	Layouts []layoutDoc `yaml:"layouts"`
}

type layoutDoc struct {
	ID   string   `yaml:"id"`
	Rows []rowDoc `yaml:"rows"`
}

type rowDoc struct {
	Keys []keyDoc `yaml:"keys"`
}

type slotDoc struct {
	Display    string   `yaml:"display"`
	Image      string   `yaml:"image"`
	Action     string   `yaml:"action"`
	KeySym     string   `yaml:"keysym"`
	Modifier   string   `yaml:"modifier"`
	Alternates []string `yaml:"alternates"`
}

type keyDoc struct {
	Normal  *slotDoc `yaml:"normal"`
	Shifted *slotDoc `yaml:"shifted"`
	Caps    *slotDoc `yaml:"caps"`
	Mod1    *slotDoc `yaml:"mod1"`
	Mod2    *slotDoc `yaml:"mod2"`
	Mod3    *slotDoc `yaml:"mod3"`

	ObeyCaps       bool `yaml:"obey-caps"`
	Width          int  `yaml:"width"`
	ExtraWidthPad  int  `yaml:"extra-width-pad"`
	ExtraHeightPad int  `yaml:"extra-height-pad"`
	Fill           bool `yaml:"fill"`
	Extended       bool `yaml:"extended"`
	Blank          bool `yaml:"blank"`

	// Alternates is a shorthand for normal.alternates.
	Alternates []string `yaml:"alternates"`

	line int
}

// UnmarshalYAML accepts either a mapping or a bare scalar; "a" is the same as
// {normal: {display: a}}.
func (k *keyDoc) UnmarshalYAML(value *yaml.Node) error {
	k.line = value.Line

	if value.Kind == yaml.ScalarNode {
		k.Normal = &slotDoc{Display: value.Value}

		return nil
	}

	type plain keyDoc

	var doc plain
	if err := value.Decode(&doc); err != nil {
		return err
	}

	*k = keyDoc(doc)
	k.line = value.Line

	return nil
}

func (k *keyDoc) slots() map[model.KeyState]*slotDoc {
	return map[model.KeyState]*slotDoc{
		model.KeyStateNormal:  k.Normal,
		model.KeyStateShifted: k.Shifted,
		model.KeyStateCaps:    k.Caps,
		model.KeyStateMod1:    k.Mod1,
		model.KeyStateMod2:    k.Mod2,
		model.KeyStateMod3:    k.Mod3,
	}
}

type parser struct {
	baseDir string
	images  map[string]*model.Image
}

// Parse reads layouts from r. Image paths are relative to baseDir.
func Parse(r io.Reader, baseDir string) ([]*model.Layout, error) {
	var doc fileDoc

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoLayouts
		}

		return nil, fmt.Errorf("could not decode layout file: %w", err)
	}

	if len(doc.Layouts) == 0 {
		return nil, ErrNoLayouts
	}

	p := parser{baseDir: baseDir, images: make(map[string]*model.Image)}
	result := make([]*model.Layout, 0, len(doc.Layouts))
	seen := make(map[string]bool)

	for i, ld := range doc.Layouts {
		id := ld.ID
		if id == "" {
			id = fmt.Sprintf("layout%d", i+1)
		}

		if seen[id] {
			return nil, fmt.Errorf("duplicate layout id %q", id)
		}

		seen[id] = true

		l, err := p.layout(id, ld)
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", id, err)
		}

		result = append(result, l)
	}

	return result, nil
}

// Load opens and parses a layout file.
func Load(path string) ([]*model.Layout, error) {
	file, err := OpenPath(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	layouts, err := Parse(file, filepath.Dir(file.Name()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Info("Loaded layouts", "path", file.Name(), "count", len(layouts))

	return layouts, nil
}

func (p *parser) layout(id string, ld layoutDoc) (*model.Layout, error) {
	l := model.NewLayout(id)

	for _, rd := range ld.Rows {
		row := model.NewRow()

		for i := range rd.Keys {
			key, err := p.key(&rd.Keys[i])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", rd.Keys[i].line, err)
			}

			row.AppendKey(key)
		}

		l.AppendRow(row)
	}

	return l, nil
}

func (p *parser) key(kd *keyDoc) (*model.Key, error) {
	key := model.NewKey()
	key.ReqUWidth = kd.Width
	key.ExtraWidthPad = kd.ExtraWidthPad
	key.ExtraHeightPad = kd.ExtraHeightPad
	key.Fill = kd.Fill
	key.Extended = kd.Extended
	key.Blank = kd.Blank
	key.ObeyCaps = kd.ObeyCaps

	if kd.Width < 0 || kd.ExtraWidthPad < 0 || kd.ExtraHeightPad < 0 {
		return nil, errors.New("key sizes must not be negative")
	}

	if key.Blank {
		return key, nil
	}

	if kd.Normal == nil {
		kd.Normal = &slotDoc{}
	}

	if len(kd.Alternates) > 0 && len(kd.Normal.Alternates) == 0 {
		kd.Normal.Alternates = kd.Alternates
	}

	// A key following caps lock without its own caps entry shows its
	// shifted entry when caps is on.
	if kd.ObeyCaps && kd.Caps == nil && kd.Shifted != nil {
		kd.Caps = kd.Shifted
	}

	for state, sd := range kd.slots() {
		if sd == nil {
			continue
		}

		if err := p.slot(key, state, sd); err != nil {
			return nil, fmt.Errorf("%s: %w", state, err)
		}
	}

	return key, nil
}

func (p *parser) slot(key *model.Key, state model.KeyState, sd *slotDoc) error {
	var (
		action model.Action
		label  string
	)

	switch {
	case sd.Modifier != "":
		m := model.ParseModType(sd.Modifier)
		if m == model.ModUnknown {
			slog.Warn("unknown modifier, key will do nothing", "modifier", sd.Modifier)
		}

		key.SetModifierAction(state, m)
		action = key.Action(state)
		label = ModifierLabel(m)
	case sd.KeySym != "":
		ks, err := model.ParseKeySym(sd.KeySym)
		if err != nil {
			// The slot keeps no action of its own and falls back to normal.
			slog.Warn("unknown keysym, slot falls back to normal", "slot", state, "error", err)

			break
		}

		key.SetKeySymAction(state, ks)
		action = key.Action(state)
		label = KeySymLabel(ks)
	case sd.Action != "":
		key.SetCharAction(state, sd.Action)
		action = key.Action(state)
		label = sd.Action
	case sd.Display != "":
		key.SetCharAction(state, sd.Display)
		action = key.Action(state)
	}

	switch {
	case sd.Image != "":
		img, err := p.image(sd.Image)
		if err != nil {
			return err
		}

		key.SetImageFace(state, img)
	case sd.Display != "":
		key.SetGlyphFace(state, sd.Display)
	case label != "":
		key.SetGlyphFace(state, label)
	}

	if len(sd.Alternates) > 0 {
		key.SetAlternates(state, sd.Alternates)
	}

	slog.Debug("parsed key slot", "slot", state, "action", action.Type, "label", key.Label())

	return nil
}

// image reads the pixel size of an image face. Each file is read once.
func (p *parser) image(path string) (*model.Image, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.baseDir, path)
	}

	if img, ok := p.images[path]; ok {
		return img, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open image: %w", err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("could not read image %s: %w", path, err)
	}

	img := &model.Image{Path: path, Width: cfg.Width, Height: cfg.Height}
	p.images[path] = img

	return img, nil
}
