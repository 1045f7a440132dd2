package cli

import (
	"waypoint-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit global settings (~/.waypoint/config.json)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show effective settings (file, then WAYPOINT_* env overrides)",
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := store.ConfigValues()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, _ := store.ConfigPath()
			return writeOut(cmd, app, map[string]any{"data": vals, "meta": map[string]any{"path": path}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.SetConfigValue(args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			vals, err := store.ConfigValues()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": vals})
		},
	})
	return cmd
}
