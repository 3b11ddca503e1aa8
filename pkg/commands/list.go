package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pages/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list every page, newest first",
		Example: `
pages list
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps()
			if err != nil {
				return err
			}
			l := list.List{
				Gateway: d.gateway,
				UserID:  d.userID(),
			}
			return l.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
