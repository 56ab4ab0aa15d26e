package softkbd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dasdy/softkbd/db"
	"github.com/dasdy/softkbd/inject"
	"github.com/dasdy/softkbd/keyboard"
	"github.com/dasdy/softkbd/layout"
	"github.com/dasdy/softkbd/model"
	"github.com/dasdy/softkbd/remote"
	"github.com/dasdy/softkbd/ui"
	"github.com/dasdy/softkbd/ui/term"
)

var errUnknownInjector = errors.New("unknown injector")

// runSettings collects the flags of the run command.
type runSettings struct {
	layoutFile     string
	layout         string
	fontFamily     string
	fontSize       int
	fontVariant    string
	spacing        keyboard.Spacing
	longPress      time.Duration
	modifierPolicy string
	popupRelease   string
	injector       string
	serialPort     string
	baud           int
	storagePath    string
	daemon         bool
	orientation    string
	extended       bool
	remote         bool
	watch          bool
}

var runFlags runSettings

func (s *runSettings) keyboardOptions() ([]keyboard.Option, error) {
	policy, err := keyboard.ParseModifierPolicy(s.modifierPolicy)
	if err != nil {
		return nil, err
	}

	popup, err := keyboard.ParsePopupRelease(s.popupRelease)
	if err != nil {
		return nil, err
	}

	if s.longPress <= 0 {
		return nil, fmt.Errorf("long press delay must be positive, got %s", s.longPress)
	}

	return []keyboard.Option{
		keyboard.WithSpacing(s.spacing),
		keyboard.WithLongPress(s.longPress),
		keyboard.WithModifierPolicy(policy),
		keyboard.WithPopupRelease(popup),
		keyboard.WithExtended(s.extended),
	}, nil
}

func (s *runSettings) uiOptions() ([]ui.Option, error) {
	orientation, err := ui.ParseOrientation(s.orientation)
	if err != nil {
		return nil, err
	}

	return []ui.Option{
		ui.WithFont(ui.Font{Family: s.fontFamily, Size: s.fontSize, Variant: s.fontVariant}),
		ui.WithDaemon(s.daemon),
		ui.WithOrientation(orientation),
	}, nil
}

// openInjector returns the injector chosen by the flags and a function
// releasing what it opened.
func (s *runSettings) openInjector() (keyboard.Injector, func(), error) {
	switch s.injector {
	case "", "log":
		return inject.NewLogger(nil), func() {}, nil
	case "serial":
		if s.serialPort == "" {
			return nil, nil, errors.New("serial injector needs --serial-port")
		}

		bridge, err := inject.OpenSerial(s.serialPort, s.baud)
		if err != nil {
			names, errInner := inject.GetAvailableDevices()
			if errInner == nil && len(names) > 0 {
				return nil, nil, fmt.Errorf("%w. Maybe try instead: %v", err, names)
			}

			return nil, nil, err
		}

		return bridge, func() {
			if err := bridge.Close(); err != nil {
				slog.Warn("Could not close serial bridge", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("%w %q", errUnknownInjector, s.injector)
	}
}

func newKeyboard(s *runSettings, w io.Writer) (*keyboard.Keyboard, error) {
	layouts, err := layout.Load(s.layoutFile)
	if err != nil {
		return nil, err
	}

	opts, err := s.keyboardOptions()
	if err != nil {
		return nil, err
	}

	kb := keyboard.New(opts...)
	for _, l := range layouts {
		kb.AddLayout(l)
	}

	if s.layout != "" {
		if err := kb.SetSelectedLayout(s.layout); err != nil {
			fmt.Fprintf(w, "Available layouts: %v\n", layoutIDs(layouts))

			return nil, err
		}
	}

	return kb, nil
}

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Show the keyboard",
	Long: `Load the layout file and show the keyboard in the terminal.
Touching a key sends it to the injector; with --storage every key is also
recorded for the statistics shown by the show command.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := &runFlags

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		kb, err := newKeyboard(s, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		injector, closeInjector, err := s.openInjector()
		if err != nil {
			return err
		}
		defer closeInjector()

		if s.storagePath != "" {
			storage, err := db.NewStorageFromPath(s.storagePath, verbose)
			if err != nil {
				return fmt.Errorf("could not open %s as sqlite file: %w", s.storagePath, err)
			}
			defer storage.Close()

			recorder := inject.NewRecorder(injector, storage, func() string { return kb.SelectedLayout().ID })
			recorder.SetVerbose(verbose)
			slog.Info("Recording key presses", "storage", s.storagePath, "session", recorder.Session())

			injector = recorder
		}

		kb.SetInjector(injector)

		uiOpts, err := s.uiOptions()
		if err != nil {
			return err
		}

		backend, err := term.New()
		if err != nil {
			return fmt.Errorf("could not open terminal: %w", err)
		}

		u := ui.New(kb, backend, uiOpts...)
		loop := ui.NewLoop(u)

		if err := u.Realize(); err != nil {
			_ = u.Close()

			return err
		}

		defer func() {
			if err := u.Close(); err != nil {
				slog.Warn("Could not close terminal", "error", err)
			}
		}()

		if s.remote {
			server := remote.NewServer(loop.Submit)
			if err := server.Start(); err != nil {
				slog.Warn("Remote control is unavailable", "error", err)
			} else {
				defer server.Close()
			}
		}

		if s.watch {
			go func() {
				err := layout.Watch(ctx, s.layoutFile, func(layouts []*model.Layout) {
					if err := loop.Post(ui.Reload(layouts)); err != nil {
						slog.Debug("Reload dropped", "error", err)
					}
				})
				if err != nil {
					slog.Warn("Layout watch stopped", "error", err)
				}
			}()
		}

		return loop.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()

	f.StringVarP(&runFlags.layoutFile, "layout-file", "f", "layouts/default.yaml",
		"Path to the layout file, looked up in the data dir when relative")
	f.StringVarP(&runFlags.layout, "layout", "l", "", "Layout id to select on start")
	f.StringVar(&runFlags.fontFamily, "font-family", "monospace", "Font family of key glyphs")
	f.IntVar(&runFlags.fontSize, "font-size", 12, "Font size of key glyphs")
	f.StringVar(&runFlags.fontVariant, "font-variant", "", "Font variant, e.g. bold")
	f.IntVar(&runFlags.spacing.KeyBorder, "key-border", 1, "Key border width")
	f.IntVar(&runFlags.spacing.KeyPad, "key-pad", 0, "Padding between key border and content")
	f.IntVar(&runFlags.spacing.KeyMargin, "key-margin", 0, "Margin around each key")
	f.IntVar(&runFlags.spacing.RowSpacing, "row-spacing", 0, "Space between rows")
	f.IntVar(&runFlags.spacing.ColSpacing, "col-spacing", 1, "Space between keys of a row")
	f.DurationVar(&runFlags.longPress, "long-press", keyboard.DefaultLongPress,
		"How long a key is held before its alternates pop up")
	f.StringVar(&runFlags.modifierPolicy, "modifier-policy", "momentary",
		"momentary: modifiers clear after the next key; latched: they stay until pressed again")
	f.StringVar(&runFlags.popupRelease, "popup-release", "discard",
		"What releasing outside the popup does: discard or base")
	f.StringVarP(&runFlags.injector, "injector", "i", "log", "Where key presses go: log or serial")
	f.StringVar(&runFlags.serialPort, "serial-port", "", "Serial port of the HID bridge")
	f.IntVar(&runFlags.baud, "baud", inject.DefaultBaudRate, "Baud rate of the HID bridge")
	f.StringVarP(&runFlags.storagePath, "storage", "s", "",
		"Record key presses into this sqlite file")
	f.BoolVarP(&runFlags.daemon, "daemon", "d", false, "Start hidden, wait for a show request")
	f.StringVar(&runFlags.orientation, "orientation", "any",
		"Only show on displays of this orientation: any, portrait or landscape")
	f.BoolVar(&runFlags.extended, "extended", false, "Show extended keys")
	f.BoolVar(&runFlags.remote, "remote", true, "Accept show/hide/toggle/set-layout over D-Bus")
	f.BoolVar(&runFlags.watch, "watch", false, "Reload the layout file when it changes")
}
