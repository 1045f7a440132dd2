package cli

import (
	"waypoint-cli/internal/model"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int
	var pointID string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the local mutation log",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events (oldest-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			var evs []model.Event
			if pointID != "" {
				evs, err = s.ReadEventsForEntity(pointID, limit)
			} else {
				evs, err = s.ReadEvents(limit)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")
	listCmd.Flags().StringVar(&pointID, "point", "", "Only events for this point id")

	cmd.AddCommand(listCmd)
	return cmd
}
