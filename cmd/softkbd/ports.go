package softkbd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dasdy/softkbd/inject"
)

// portsCmd represents the ports command.
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports of HID bridges",
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := inject.GetAvailableDevices()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "It does not seem like any bridge is connected")

			return nil
		}

		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
