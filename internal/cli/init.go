package cli

import (
	"strings"
	"time"

	"waypoint-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var samples, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the trip directory and seed destinations and offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			changed, err := store.Seed(db, store.SeedOpts{SamplePoints: samples, Force: force, Now: time.Now()})
			if err != nil {
				return writeErr(cmd, err)
			}
			if changed {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				payload := map[string]any{
					"destinations": len(db.Destinations),
					"offerGroups":  len(db.OfferGroups),
					"points":       len(db.Points),
				}
				if err := s.AppendEvent(store.EventSeed, "trip", payload); err != nil {
					return writeErr(cmd, err)
				}
			}

			// Remember the first initialized trip so later runs find it from anywhere.
			if cfg, err := store.LoadConfig(); err == nil && strings.TrimSpace(cfg.CurrentDir) == "" {
				_ = store.SetConfigValue(store.KeyCurrentDir, s.Dir)
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":          s.Dir,
					"sqlitePath":   s.StatePath(),
					"seeded":       changed,
					"destinations": len(db.Destinations),
					"offerGroups":  len(db.OfferGroups),
					"points":       len(db.Points),
				},
			})
		},
	}
	cmd.Flags().BoolVar(&samples, "samples", false, "Add sample points when the trip is empty")
	cmd.Flags().BoolVar(&force, "force", false, "Replace existing destinations and offers")
	return cmd
}
