package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pages/pkg/tui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the full-screen journaling interface",
		Example: `
pages ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps()
			if err != nil {
				return err
			}
			return tui.Run(d.client, d.gateway)
		},
	}

	topLevel.AddCommand(cmd)
}
