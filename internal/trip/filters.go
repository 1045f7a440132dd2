package trip

import (
	"sort"
	"time"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/notify"
)

// FiltersModel holds the active list filter.
type FiltersModel struct {
	filter   model.FilterType
	notifier notify.Notifier[model.FilterType]
}

func NewFiltersModel() *FiltersModel {
	return &FiltersModel{filter: model.FilterEverything}
}

func (m *FiltersModel) Filter() model.FilterType { return m.filter }

func (m *FiltersModel) SetFilter(scope model.UpdateScope, f model.FilterType) {
	m.filter = f
	m.notifier.Notify(scope, f)
}

func (m *FiltersModel) Subscribe(h notify.Handler[model.FilterType]) func() {
	return m.notifier.Subscribe(h)
}

// Matches reports whether p passes filter f at now.
func Matches(p model.Point, f model.FilterType, now time.Time) bool {
	switch f {
	case model.FilterFuture:
		return p.DateFrom.After(now)
	case model.FilterPresent:
		return !p.DateFrom.After(now) && !p.DateTo.Before(now)
	case model.FilterPast:
		return p.DateTo.Before(now)
	default:
		return true
	}
}

func FilterPoints(points []model.Point, f model.FilterType, now time.Time) []model.Point {
	out := make([]model.Point, 0, len(points))
	for _, p := range points {
		if Matches(p, f, now) {
			out = append(out, p)
		}
	}
	return out
}

// SortPoints returns a sorted copy. Day is ascending start, Time is longest first, Price is most
// expensive base price first. Ties keep input order.
func SortPoints(points []model.Point, s model.SortType) []model.Point {
	out := append([]model.Point(nil), points...)
	var less func(a, b model.Point) bool
	switch s {
	case model.SortTime:
		less = func(a, b model.Point) bool { return a.Duration() > b.Duration() }
	case model.SortPrice:
		less = func(a, b model.Point) bool { return a.BasePrice > b.BasePrice }
	default:
		less = func(a, b model.Point) bool { return a.DateFrom.Before(b.DateFrom) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// EmptyMessage is shown when no point passes f.
func EmptyMessage(f model.FilterType) string {
	switch f {
	case model.FilterFuture:
		return "There are no future events now"
	case model.FilterPresent:
		return "There are no present events now"
	case model.FilterPast:
		return "There are no past events now"
	default:
		return "Press n to create your first point"
	}
}
