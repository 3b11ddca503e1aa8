package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/pages/pkg/journal"
	"tableflip.dev/pages/pkg/notify"
)

func addRemind(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "remind HH:MM",
		Short: "set the daily reminder time on your profile",
		Example: `
pages remind 08:00
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hhmm := args[0]
			if !journal.ValidReminder(hhmm) {
				return errors.New("reminder time must look like 08:00")
			}
			d, err := loadDeps()
			if err != nil {
				return err
			}
			n := notify.Console{}
			if err := d.client.UpdateProfile(cmd.Context(), map[string]string{"reminder_time": hhmm}); err != nil {
				n.Error("Could not save the reminder.")
				return err
			}
			n.Success("Reminder set for " + hhmm + ".")
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
