package cli

import (
	"fmt"
	"time"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/publish"
	"waypoint-cli/internal/trip"

	"github.com/spf13/cobra"
)

func newDestinationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "destinations",
		Short: "Inspect destinations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List destinations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": db.Destinations})
		},
	})
	return cmd
}

func newOffersCmd(app *App) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "offers",
		Short: "Inspect offer groups",
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List offer groups (optionally one type)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if typ == "" {
				return writeOut(cmd, app, map[string]any{"data": db.OfferGroups})
			}
			t, ok := model.ParsePointType(typ)
			if !ok {
				return writeErr(cmd, fmt.Errorf("invalid --type %q", typ))
			}
			g, ok := model.FindOfferGroup(db.OfferGroups, t)
			if !ok {
				return writeErr(cmd, errNotFound("offer group", string(t)))
			}
			return writeOut(cmd, app, map[string]any{"data": g})
		},
	}
	listCmd.Flags().StringVar(&typ, "type", "", "Point type")
	cmd.AddCommand(listCmd)
	return cmd
}

func newTripCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip",
		Short: "Summarize the trip: route, dates and total cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			info := trip.Summarize(db.Points, db.Destinations, db.OfferGroups)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"route":  info.Route,
				"dates":  info.Dates(),
				"start":  info.Start,
				"end":    info.End,
				"cost":   info.Cost,
				"points": len(db.Points),
			}})
		},
	}
	cmd.AddCommand(newTripExportCmd(app))
	return cmd
}

func newTripExportCmd(app *App) *cobra.Command {
	var (
		out          string
		filter       string
		overwrite    bool
		destinations bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the itinerary as Markdown (stdout, or a file with --out)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			f, ok := model.ParseFilterType(filter)
			if !ok {
				return writeErr(cmd, fmt.Errorf("invalid --filter %q", filter))
			}
			opt := publish.RenderOptions{Filter: f, Now: time.Now(), IncludeDestinations: destinations}
			if out == "" {
				md, err := publish.RenderTripMarkdown(db, opt)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			res, err := publish.WriteTrip(db, out, publish.WriteOptions{RenderOptions: opt, Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Write to this file instead of stdout")
	cmd.Flags().StringVar(&filter, "filter", string(model.FilterEverything), "everything|future|present|past")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	cmd.Flags().BoolVar(&destinations, "destinations", false, "Append destination descriptions")
	return cmd
}
