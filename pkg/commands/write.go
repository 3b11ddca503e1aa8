package commands

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/pages/pkg/commands/options"
	"tableflip.dev/pages/pkg/notify"
	"tableflip.dev/pages/pkg/runner/write"
)

func addWrite(topLevel *cobra.Command) {
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:   "write [text]",
		Short: "save a page for a date (args, or stdin when no args)",
		Example: `
pages write "Slept well. Three pages before coffee."
pages write --date 2025-06-01 "Backfilled entry."
cat draft.txt | pages write
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			if content == "" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				content = strings.TrimRight(string(data), "\n")
			}

			d, err := loadDeps()
			if err != nil {
				return err
			}
			w := write.Write{
				Gateway:  d.gateway,
				Notifier: notify.Console{},
				UserID:   d.userID(),
				Date:     do.Date,
				Content:  content,
			}
			return w.Do(cmd.Context())
		},
	}

	options.AddDateArg(cmd, do)
	topLevel.AddCommand(cmd)
}
