package trip

import (
	"strings"
	"time"

	"waypoint-cli/internal/model"
)

// Info is the trip header.
type Info struct {
	Route string
	Start time.Time
	End   time.Time
	Cost  int
}

func (i Info) Dates() string {
	if i.Start.IsZero() {
		return ""
	}
	if i.Start.Month() == i.End.Month() && i.Start.Year() == i.End.Year() {
		return i.Start.Format("Jan 02") + " — " + i.End.Format("02")
	}
	return i.Start.Format("Jan 02") + " — " + i.End.Format("Jan 02")
}

// Summarize builds the header over all points in day order. Routes longer than three stops are
// shortened to first … last.
func Summarize(points []model.Point, destinations []model.Destination, groups []model.OfferGroup) Info {
	var info Info
	if len(points) == 0 {
		return info
	}
	ordered := SortPoints(points, model.SortDay)

	var names []string
	for _, p := range ordered {
		d, ok := model.FindDestination(destinations, p.Destination)
		if !ok {
			continue
		}
		if n := len(names); n > 0 && names[n-1] == d.Name {
			continue
		}
		names = append(names, d.Name)
	}
	if len(names) > 3 {
		names = []string{names[0], "…", names[len(names)-1]}
	}
	info.Route = strings.Join(names, " — ")

	info.Start = ordered[0].DateFrom
	for _, p := range ordered {
		if p.DateTo.After(info.End) {
			info.End = p.DateTo
		}
		info.Cost += model.TotalPrice(p, groups)
	}
	return info
}
