package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pages/pkg/notify"
)

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "sign out and clear the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps()
			if err != nil {
				return err
			}
			n := notify.Console{}
			// The local session clears even when the backend call fails.
			if err := d.client.SignOut(cmd.Context()); err != nil {
				n.Error("Sign-out reported an error; local session cleared anyway.")
				return nil
			}
			n.Success("Signed out.")
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
