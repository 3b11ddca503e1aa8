// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// DateOptions captures the date a command targets. Empty means today.
type DateOptions struct {
	Date string
}

// AddDateArg wires the --date flag on the provided command.
func AddDateArg(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVarP(&o.Date, "date", "d", "",
		"Target date as YYYY-MM-DD. Defaults to today.")
}

// AuthOptions captures credential flags for the auth commands.
type AuthOptions struct {
	Email    string
	Password string
	Token    string
}

// AddAuthArgs wires credential flags on the provided command.
func AddAuthArgs(cmd *cobra.Command, o *AuthOptions) {
	cmd.Flags().StringVarP(&o.Email, "email", "e", "", "Account email.")
	cmd.Flags().StringVarP(&o.Password, "password", "p", "", "Account password.")
}
