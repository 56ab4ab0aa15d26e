package softkbd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dasdy/softkbd/db"
	"github.com/dasdy/softkbd/layout"
	"github.com/dasdy/softkbd/web"
	"github.com/dasdy/softkbd/web/routes"
)

var (
	showStorage    string
	showLayoutFile string
	port           int
	dev            bool
)

// showCmd represents the show command.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show collected statistics",
	Long:  `Use key presses recorded by the run command to show a web interface with statistics.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		slog.Debug("Show settings", "storage", showStorage, "layout-file", showLayoutFile, "port", port)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		layouts, err := layout.Load(showLayoutFile)
		if err != nil {
			return err
		}

		kb, err := routes.NewKeyboard(layouts)
		if err != nil {
			return fmt.Errorf("could not lay out keyboard: %w", err)
		}

		storage, err := db.NewStorageFromPath(showStorage, verbose)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", showStorage, err)
		}
		defer storage.Close()

		comboTracker, combosDone, err := db.NewComboTrackerFromDB(storage)
		if err != nil {
			return fmt.Errorf("could not create combo tracker: %w", err)
		}
		<-combosDone

		neighborTracker, neighborsDone, err := db.NewNeighborCounterFromDB(storage)
		if err != nil {
			return fmt.Errorf("could not create neighbor tracker: %w", err)
		}
		<-neighborsDone

		handler := &routes.ServerHandler{
			Storage:         storage,
			Keyboard:        kb,
			ComboTracker:    comboTracker,
			NeighborTracker: neighborTracker,
		}

		return web.StartServer(ctx, port, handler, dev)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().IntVarP(&port, "port", "p", 9000,
		"Port on which server should be watching")

	showCmd.Flags().StringVarP(
		&showStorage,
		"storage",
		"s",
		"./keypresses.sqlite",
		"Path to the recorded key presses")

	showCmd.Flags().BoolVar(&dev,
		"dev",
		false,
		"Enable developer mode")

	showCmd.Flags().StringVarP(
		&showLayoutFile,
		"layout-file",
		"f",
		"layouts/default.yaml",
		"Path to the layout file used for rendering the interface")
}
