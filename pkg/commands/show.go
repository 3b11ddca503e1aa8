package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pages/pkg/commands/options"
	"tableflip.dev/pages/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "print the page for a date",
		Example: `
pages show
pages show --date 2025-06-01
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps()
			if err != nil {
				return err
			}
			s := show.Show{
				Gateway: d.gateway,
				UserID:  d.userID(),
				Date:    do.Date,
			}
			return s.Do(cmd.Context())
		},
	}

	options.AddDateArg(cmd, do)
	topLevel.AddCommand(cmd)
}
