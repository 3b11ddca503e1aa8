package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/pages/pkg/commands/options"
	"tableflip.dev/pages/pkg/notify"
)

func addLogin(topLevel *cobra.Command) {
	ao := &options.AuthOptions{}
	oauthProvider := ""

	cmd := &cobra.Command{
		Use:   "login",
		Short: "sign in with email+password, an OAuth provider, or a pasted token",
		Example: `
pages login -e me@example.com -p secret
pages login --oauth google
pages login --token eyJhbGciOi...
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps()
			if err != nil {
				return err
			}
			n := notify.Console{}
			ctx := cmd.Context()

			switch {
			case oauthProvider != "":
				url, err := d.client.SignInWithOAuth(ctx, oauthProvider)
				if err != nil {
					n.Error("Could not start " + oauthProvider + " sign-in.")
					return err
				}
				fmt.Println("Open this URL to continue, then paste the token with `pages login --token`:")
				fmt.Println(url)
				return nil
			case ao.Token != "":
				id, err := d.client.SignInWithToken(ctx, ao.Token)
				if err != nil {
					n.Error("That token was not accepted.")
					return err
				}
				n.Success("Signed in as " + id.Email + ".")
				return nil
			case ao.Email != "" && ao.Password != "":
				id, err := d.client.SignInWithPassword(ctx, ao.Email, ao.Password)
				if err != nil {
					n.Error("Sign-in failed.")
					return err
				}
				n.Success("Signed in as " + id.Email + ".")
				return nil
			default:
				return errors.New("provide --email and --password, --oauth, or --token")
			}
		},
	}

	options.AddAuthArgs(cmd, ao)
	cmd.Flags().StringVar(&ao.Token, "token", "", "Adopt an access token from an OAuth redirect.")
	cmd.Flags().StringVar(&oauthProvider, "oauth", "", "OAuth provider name, e.g. google.")

	topLevel.AddCommand(cmd)
}
