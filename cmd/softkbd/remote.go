package softkbd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dasdy/softkbd/remote"
)

const remoteTimeout = 5 * time.Second

// remoteCmd represents the remote command.
var remoteCmd = &cobra.Command{
	Use:       "remote <show|hide|toggle|set-layout ID>",
	Short:     "Control a running keyboard",
	Long:      `Send a show, hide, toggle or set-layout request to a keyboard started with run --remote.`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"show", "hide", "toggle", "set-layout"},
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := remote.ParseRequest(args)
		if err != nil {
			return err
		}

		client, err := remote.Dial()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), remoteTimeout)
		defer cancel()

		if err := client.Send(ctx, req); err != nil {
			return fmt.Errorf("%s: %w", req, err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(remoteCmd)
}
