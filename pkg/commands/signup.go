package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/pages/pkg/commands/options"
	"tableflip.dev/pages/pkg/notify"
)

func addSignup(topLevel *cobra.Command) {
	ao := &options.AuthOptions{}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "create a new account",
		Example: `
pages signup -e me@example.com -p secret
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ao.Email == "" || ao.Password == "" {
				return errors.New("provide --email and --password")
			}
			d, err := loadDeps()
			if err != nil {
				return err
			}
			n := notify.Console{}
			id, err := d.client.SignUp(cmd.Context(), ao.Email, ao.Password)
			if err != nil {
				n.Error("Sign-up failed.")
				return err
			}
			n.Success("Account created for " + id.Email + ".")
			return nil
		},
	}

	options.AddAuthArgs(cmd, ao)
	topLevel.AddCommand(cmd)
}
