package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/trip"

	"github.com/spf13/cobra"
)

// pointView is a point as the CLI prints it.
type pointView struct {
	model.Point     `yaml:",inline"`
	DestinationName string `json:"destinationName" yaml:"destinationName"`
	TotalPrice      int    `json:"totalPrice" yaml:"totalPrice"`
}

func viewPoint(p model.Point, dests []model.Destination, groups []model.OfferGroup) pointView {
	v := pointView{Point: p, TotalPrice: model.TotalPrice(p, groups)}
	if d, ok := model.FindDestination(dests, p.Destination); ok {
		v.DestinationName = d.Name
	}
	return v
}

func newPointsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "points",
		Aliases: []string{"point"},
		Short:   "List and edit trip points",
	}
	cmd.AddCommand(newPointsListCmd(app))
	cmd.AddCommand(newPointsShowCmd(app))
	cmd.AddCommand(newPointsAddCmd(app))
	cmd.AddCommand(newPointsUpdateCmd(app))
	cmd.AddCommand(newPointsFavoriteCmd(app))
	cmd.AddCommand(newPointsDeleteCmd(app))
	return cmd
}

func newPointsListCmd(app *App) *cobra.Command {
	var filter, sortBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List points (filtered, sorted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := model.ParseFilterType(filter)
			if !ok {
				return writeErr(cmd, fmt.Errorf("invalid --filter %q (expected everything|future|present|past)", filter))
			}
			s, ok := model.ParseSortType(sortBy)
			if !ok {
				return writeErr(cmd, fmt.Errorf("invalid --sort %q (expected day|time|price)", sortBy))
			}
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			points := trip.SortPoints(trip.FilterPoints(db.Points, f, time.Now()), s)
			out := make([]pointView, 0, len(points))
			for _, p := range points {
				out = append(out, viewPoint(p, db.Destinations, db.OfferGroups))
			}
			meta := map[string]any{"filter": f, "sort": s, "count": len(out)}
			if len(out) == 0 {
				meta["message"] = trip.EmptyMessage(f)
			}
			return writeOut(cmd, app, map[string]any{"data": out, "meta": meta})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "everything", "Filter: everything|future|present|past")
	cmd.Flags().StringVar(&sortBy, "sort", "day", "Sort: day|time|price")
	return cmd
}

func newPointsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <point-id>",
		Short: "Show one point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, ok := db.FindPoint(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("point", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": viewPoint(*p, db.Destinations, db.OfferGroups)})
		},
	}
}

// pointFlags are the editable fields shared by add and update.
type pointFlags struct {
	typ         string
	destination string
	from        string
	to          string
	price       int
	offers      []int
	favorite    bool
}

func (pf *pointFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pf.typ, "type", "", "Point type (taxi, bus, train, ship, drive, flight, check-in, sightseeing, restaurant)")
	cmd.Flags().StringVar(&pf.destination, "destination", "", "Destination name or id")
	cmd.Flags().StringVar(&pf.from, "from", "", "Start (YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339)")
	cmd.Flags().StringVar(&pf.to, "to", "", "End (YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339)")
	cmd.Flags().IntVar(&pf.price, "price", 0, "Base price")
	cmd.Flags().IntSliceVar(&pf.offers, "offer", nil, "Selected offer id (repeatable)")
	cmd.Flags().BoolVar(&pf.favorite, "favorite", false, "Mark as favorite")
}

// apply copies every flag the user set onto p.
func (pf *pointFlags) apply(cmd *cobra.Command, p *model.Point, dests []model.Destination) error {
	changed := cmd.Flags().Changed
	if changed("type") {
		t, ok := model.ParsePointType(pf.typ)
		if !ok {
			return fmt.Errorf("invalid --type %q", pf.typ)
		}
		if t != p.Type && !changed("offer") {
			p.Offers = []int{}
		}
		p.Type = t
	}
	if changed("destination") {
		d, err := resolveDestination(dests, pf.destination)
		if err != nil {
			return err
		}
		p.Destination = d.ID
	}
	if changed("from") {
		t, err := parseDateTime(pf.from)
		if err != nil {
			return err
		}
		p.DateFrom = t
	}
	if changed("to") {
		t, err := parseDateTime(pf.to)
		if err != nil {
			return err
		}
		p.DateTo = t
	}
	if changed("price") {
		p.BasePrice = pf.price
	}
	if changed("offer") {
		p.Offers = append([]int{}, pf.offers...)
	}
	if changed("favorite") {
		p.IsFavorite = pf.favorite
	}
	return nil
}

func resolveDestination(dests []model.Destination, s string) (model.Destination, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		if d, ok := model.FindDestination(dests, id); ok {
			return d, nil
		}
	}
	if d, ok := model.FindDestinationByName(dests, s); ok {
		return d, nil
	}
	for _, d := range dests {
		if strings.EqualFold(d.Name, s) {
			return d, nil
		}
	}
	return model.Destination{}, errNotFound("destination", s)
}

func newPointsAddCmd(app *App) *cobra.Command {
	var pf pointFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a point",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range []string{"type", "destination", "from", "to"} {
				if !cmd.Flags().Changed(name) {
					return writeErr(cmd, fmt.Errorf("missing --%s", name))
				}
			}
			m, _, err := loadPoints(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := model.Point{Offers: []int{}}
			if err := pf.apply(cmd, &p, m.Destinations()); err != nil {
				return writeErr(cmd, err)
			}
			added, err := m.AddPoint(model.Minor, p)
			if err != nil {
				return writeErr(cmd, cliError(err))
			}
			return writeOut(cmd, app, map[string]any{"data": viewPoint(added, m.Destinations(), m.OfferGroups())})
		},
	}
	pf.register(cmd)
	return cmd
}

func newPointsUpdateCmd(app *App) *cobra.Command {
	var pf pointFlags

	cmd := &cobra.Command{
		Use:   "update <point-id>",
		Short: "Update fields of a point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadPoints(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, ok := m.Point(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("point", args[0]))
			}
			if err := pf.apply(cmd, &p, m.Destinations()); err != nil {
				return writeErr(cmd, err)
			}
			if err := m.UpdatePoint(model.Minor, p); err != nil {
				return writeErr(cmd, cliError(err))
			}
			cur, _ := m.Point(p.ID)
			return writeOut(cmd, app, map[string]any{"data": viewPoint(cur, m.Destinations(), m.OfferGroups())})
		},
	}
	pf.register(cmd)
	return cmd
}

func newPointsFavoriteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <point-id>",
		Short: "Toggle the favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadPoints(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := m.ToggleFavorite(model.Patch, args[0])
			if err != nil {
				return writeErr(cmd, cliError(err))
			}
			return writeOut(cmd, app, map[string]any{"data": viewPoint(p, m.Destinations(), m.OfferGroups())})
		},
	}
}

func newPointsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <point-id>",
		Short: "Delete a point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadPoints(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, ok := m.Point(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("point", args[0]))
			}
			if err := m.DeletePoint(model.Minor, p); err != nil {
				return writeErr(cmd, cliError(err))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": p.ID, "deleted": true}})
		},
	}
}
