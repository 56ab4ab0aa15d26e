package softkbd

import (
	"io"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dasdy/softkbd/keyboard"
	"github.com/dasdy/softkbd/model"
	"github.com/dasdy/softkbd/ui"
)

var ErrUnknownInjector = errUnknownInjector

type RunSettings = runSettings

func NewRunSettings(modifierPolicy, popupRelease, orientation, injector string, longPress time.Duration) *RunSettings {
	return &runSettings{
		modifierPolicy: modifierPolicy,
		popupRelease:   popupRelease,
		orientation:    orientation,
		injector:       injector,
		longPress:      longPress,
		fontFamily:     "monospace",
		fontSize:       12,
	}
}

func (s *RunSettings) KeyboardOptions() ([]keyboard.Option, error) { return s.keyboardOptions() }

func (s *RunSettings) UIOptions() ([]ui.Option, error) { return s.uiOptions() }

func (s *RunSettings) OpenInjector() (keyboard.Injector, func(), error) { return s.openInjector() }

func BindFlagSet(flags *pflag.FlagSet, v *viper.Viper) { bindFlagSet(flags, v) }

func PrintLayouts(w io.Writer, layouts []*model.Layout) { printLayouts(w, layouts) }

func LayoutIDs(layouts []*model.Layout) []string { return layoutIDs(layouts) }

func MergeFiles(inputs []string, output string) error { return mergeFiles(inputs, output) }
