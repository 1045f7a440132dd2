package view

import (
	"fmt"
	"strings"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/render"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// Event targets. Forms and rows dispatch against these names.
const (
	TargetRollup      = "event-rollup"
	TargetFavorite    = "event-favorite"
	TargetType        = "event-type"
	TargetDestination = "event-destination"
	TargetDateFrom    = "event-start-time"
	TargetDateTo      = "event-end-time"
	TargetPrice       = "event-price"
	TargetOffers      = "event-offers"
	TargetSave        = "event-save"
	TargetReset       = "event-reset"
)

const defaultWidth = 76

// Point is the one-line summary of a point in the list.
type Point struct {
	Abstract

	point       model.Point
	destination string
	offers      []model.Offer
	width       int

	onEditClick     func()
	onFavoriteClick func()
}

func NewPoint(p model.Point, destinations []model.Destination, groups []model.OfferGroup) *Point {
	v := &Point{point: p.Clone(), width: defaultWidth}
	if d, ok := model.FindDestination(destinations, p.Destination); ok {
		v.destination = d.Name
	}
	if g, ok := model.FindOfferGroup(groups, p.Type); ok {
		for _, o := range g.Offers {
			if p.HasOffer(o.ID) {
				v.offers = append(v.offers, o)
			}
		}
	}
	v.setup(v.template, v.bindHandlers)
	return v
}

func (v *Point) Model() model.Point { return v.point.Clone() }

// SetWidth sets the row width. Non-positive widths keep the default.
func (v *Point) SetWidth(w int) {
	if w > 0 {
		v.width = w
	}
}

func (v *Point) SetEditClickHandler(cb func()) {
	v.onEditClick = cb
	v.bindHandlers(v.Element())
}

func (v *Point) SetFavoriteClickHandler(cb func()) {
	v.onFavoriteClick = cb
	v.bindHandlers(v.Element())
}

func (v *Point) bindHandlers(el *render.Element) {
	if v.onEditClick != nil {
		el.On(TargetRollup, render.Click, func(render.Event) { v.onEditClick() })
	}
	if v.onFavoriteClick != nil {
		el.On(TargetFavorite, render.Click, func(render.Event) { v.onFavoriteClick() })
	}
}

func (v *Point) template() *render.Element {
	line := v.renderLine()
	return render.NewElement(func() string { return line })
}

func (v *Point) renderLine() string {
	p := v.point
	date := p.DateFrom.Format("Jan 02")
	title := string(p.Type)
	if v.destination != "" {
		title += " " + v.destination
	}
	schedule := fmt.Sprintf("%s — %s", p.DateFrom.Format("15:04"), p.DateTo.Format("15:04"))

	star := styleMuted().Render("☆")
	if p.IsFavorite {
		star = lipgloss.NewStyle().Foreground(colorFavorite).Render("★")
	}

	parts := []string{
		styleMuted().Render(date),
		lipgloss.NewStyle().Bold(true).Render(title),
		schedule,
		styleMuted().Render("(" + FormatDuration(p.Duration()) + ")"),
		fmt.Sprintf("€%d", p.BasePrice),
	}
	if len(v.offers) > 0 {
		var offers []string
		for _, o := range v.offers {
			offers = append(offers, fmt.Sprintf("+%s €%d", o.Title, o.Price))
		}
		parts = append(parts, styleMuted().Render(strings.Join(offers, ", ")))
	}
	line := strings.Join(parts, "  ")
	return star + " " + xansi.Truncate(line, v.width-2, "…")
}
