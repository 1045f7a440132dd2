package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/store"
	"waypoint-cli/internal/trip"
)

type RenderOptions struct {
	// Filter limits the listed points. The header always covers the whole trip.
	Filter model.FilterType
	Now    time.Time
	// IncludeDestinations appends each visited destination's description.
	IncludeDestinations bool
}

// RenderTripMarkdown renders the trip as a day-by-day itinerary.
func RenderTripMarkdown(db *store.DB, opt RenderOptions) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	if opt.Filter == "" {
		opt.Filter = model.FilterEverything
	}
	if opt.Now.IsZero() {
		opt.Now = time.Now()
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	info := trip.Summarize(db.Points, db.Destinations, db.OfferGroups)
	title := info.Route
	if title == "" {
		title = "Trip"
	}
	writeLn("# " + title)
	writeLn("")
	if d := info.Dates(); d != "" {
		writeLn("- Dates: " + d)
	}
	writeLn(fmt.Sprintf("- Total: €%d", info.Cost))
	writeLn(fmt.Sprintf("- Points: %d", len(db.Points)))
	writeLn("")

	points := trip.SortPoints(trip.FilterPoints(db.Points, opt.Filter, opt.Now), model.SortDay)
	if len(points) == 0 {
		writeLn("_" + trip.EmptyMessage(opt.Filter) + "_")
		return buf.String(), nil
	}

	day := ""
	var visited []int
	for _, p := range points {
		if d := p.DateFrom.Format("Mon, Jan 02 2006"); d != day {
			if day != "" {
				writeLn("")
			}
			day = d
			writeLn("## " + d)
			writeLn("")
		}
		writeLn("- " + pointLine(p, db))
		for _, o := range selectedOffers(p, db.OfferGroups) {
			writeLn(fmt.Sprintf("  - + %s €%d", o.Title, o.Price))
		}
		if !containsInt(visited, p.Destination) {
			visited = append(visited, p.Destination)
		}
	}

	if opt.IncludeDestinations {
		for _, id := range visited {
			d, ok := model.FindDestination(db.Destinations, id)
			if !ok || strings.TrimSpace(d.Description) == "" {
				continue
			}
			writeLn("")
			writeLn("## " + d.Name)
			writeLn("")
			writeLn(strings.TrimSpace(d.Description))
		}
	}
	return buf.String(), nil
}

func pointLine(p model.Point, db *store.DB) string {
	name := fmt.Sprintf("#%d", p.Destination)
	if d, ok := model.FindDestination(db.Destinations, p.Destination); ok {
		name = d.Name
	}
	line := fmt.Sprintf("%s–%s **%s %s** €%d",
		p.DateFrom.Format("15:04"), p.DateTo.Format("15:04"),
		titleCase(string(p.Type)), name, model.TotalPrice(p, db.OfferGroups))
	if p.IsFavorite {
		line += " ★"
	}
	return line
}

func selectedOffers(p model.Point, groups []model.OfferGroup) []model.Offer {
	g, ok := model.FindOfferGroup(groups, p.Type)
	if !ok {
		return nil
	}
	var out []model.Offer
	for _, o := range g.Offers {
		if p.HasOffer(o.ID) {
			out = append(out, o)
		}
	}
	return out
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
