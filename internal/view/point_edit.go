package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/picker"
	"waypoint-cli/internal/render"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
)

type EditOptions struct {
	Point        model.Point
	Destinations []model.Destination
	OfferGroups  []model.OfferGroup
	IsNewPoint   bool
	// DateFormat is a Go time layout for the picker fields.
	DateFormat string
	Width      int
}

// PointEdit is the expanded edit form of a point.
type PointEdit struct {
	Stateful[EditState]

	destinations []model.Destination
	groups       []model.OfferGroup
	isNewPoint   bool
	dateFormat   string
	width        int

	// Controls of the current element; rebuilt with it.
	form *editForm

	onSubmit  func(model.Point)
	onDelete  func(model.Point)
	onClose   func()
	onInvalid func(error)
}

type editForm struct {
	destination textinput.Model
	price       textinput.Model
	dateFrom    *picker.Picker
	dateTo      *picker.Picker
}

func NewPointEdit(opts EditOptions) (*PointEdit, error) {
	if _, ok := model.FindOfferGroup(opts.OfferGroups, opts.Point.Type); !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingOffers, opts.Point.Type)
	}
	v := &PointEdit{
		destinations: opts.Destinations,
		groups:       opts.OfferGroups,
		isNewPoint:   opts.IsNewPoint,
		dateFormat:   opts.DateFormat,
		width:        opts.Width,
	}
	if v.dateFormat == "" {
		v.dateFormat = picker.DefaultFormat
	}
	if v.width <= 0 {
		v.width = defaultWidth
	}
	v.state = ParsePointToState(opts.Point)
	v.setup(v.template, v.restoreHandlers)
	v.Element()
	return v, nil
}

func (v *PointEdit) IsNewPoint() bool { return v.isNewPoint }

// Point converts the current state back into a point.
func (v *PointEdit) Point() model.Point { return ParseStateToPoint(v.state) }

// Reset discards unsaved edits.
func (v *PointEdit) Reset(p model.Point) {
	v.UpdateElement(func(s *EditState) { *s = ParsePointToState(p) })
}

// DatePickers returns the pickers bound to the current element.
func (v *PointEdit) DatePickers() (from, to *picker.Picker) {
	if v.form == nil {
		return nil, nil
	}
	return v.form.dateFrom, v.form.dateTo
}

func (v *PointEdit) SetFormSubmitHandler(cb func(model.Point)) {
	v.onSubmit = cb
	v.setOuterHandlers(v.Element())
}

func (v *PointEdit) SetDeleteClickHandler(cb func(model.Point)) {
	v.onDelete = cb
	v.setOuterHandlers(v.Element())
}

func (v *PointEdit) SetCloseClickHandler(cb func()) {
	v.onClose = cb
	v.setOuterHandlers(v.Element())
}

// SetInvalidHandler is told about submissions rejected by validation.
func (v *PointEdit) SetInvalidHandler(cb func(error)) {
	v.onInvalid = cb
}

// Validate reports why the current state cannot be submitted.
func (v *PointEdit) Validate() error {
	s := v.state
	if _, ok := model.FindOfferGroup(v.groups, s.Type); !ok {
		return fmt.Errorf("%w: %s", ErrMissingOffers, s.Type)
	}
	if _, ok := model.FindDestination(v.destinations, s.Destination); !ok {
		return v.unknownDestinationErr(s.DestinationText)
	}
	if s.DateTo.Before(s.DateFrom) {
		return ErrInvalidDates
	}
	return nil
}

func (v *PointEdit) unknownDestinationErr(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: destination is empty", ErrUnknownDestination)
	}
	best, bestDist := "", -1
	for _, d := range v.destinations {
		dist := levenshtein.ComputeDistance(strings.ToLower(text), strings.ToLower(d.Name))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = d.Name, dist
		}
	}
	if best != "" && bestDist <= len(best)/2+1 {
		return fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownDestination, text, best)
	}
	return fmt.Errorf("%w: %q", ErrUnknownDestination, text)
}

func (v *PointEdit) template() *render.Element {
	s := v.state
	form := &editForm{
		destination: newFormInput(v.destinationText(), 24),
		price:       newFormInput(s.BasePrice, 7),
	}
	switch s.Focus {
	case FieldDestination:
		form.destination.Focus()
	case FieldPrice:
		form.price.Focus()
	}
	v.form = form
	return render.NewElement(func() string { return v.draw(form) })
}

func newFormInput(value string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = limit
	ti.Width = limit + 1
	ti.SetValue(value)
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (v *PointEdit) restoreHandlers(el *render.Element) {
	v.setInnerHandlers(el)
	v.setOuterHandlers(el)
	v.setDatePickers(el)
}

func (v *PointEdit) setInnerHandlers(el *render.Element) {
	el.On(TargetType, render.Change, v.typeChangeHandler)
	el.On(TargetDestination, render.Change, v.destinationChangeHandler)
	el.On(TargetPrice, render.Change, v.priceChangeHandler)
	if g, ok := model.FindOfferGroup(v.groups, v.state.Type); ok && len(g.Offers) > 0 {
		el.On(TargetOffers, render.Change, v.offersChangeHandler)
	}
	el.OnKey(v.handleKey)
}

func (v *PointEdit) setOuterHandlers(el *render.Element) {
	if v.onSubmit != nil {
		el.On(TargetSave, render.Submit, v.formSubmitHandler)
	}
	if v.onDelete != nil {
		el.On(TargetReset, render.Click, v.deleteClickHandler)
	}
	if v.onClose != nil && !v.isNewPoint {
		el.On(TargetRollup, render.Click, v.closeClickHandler)
	}
}

func (v *PointEdit) setDatePickers(el *render.Element) {
	v.form.dateFrom = picker.New(el, TargetDateFrom, picker.Config{
		EnableTime:  true,
		DateFormat:  v.dateFormat,
		DefaultDate: v.state.DateFrom,
		OnChange:    v.dateFromChangeHandler,
	})
	v.form.dateTo = picker.New(el, TargetDateTo, picker.Config{
		EnableTime:  true,
		DateFormat:  v.dateFormat,
		DefaultDate: v.state.DateTo,
		MinDate:     v.state.DateFrom,
		OnChange:    v.dateToChangeHandler,
	})
}

func (v *PointEdit) formSubmitHandler(render.Event) {
	if err := v.Validate(); err != nil {
		msg := err.Error()
		v.UpdateElement(func(s *EditState) { s.Problem = msg })
		if v.onInvalid != nil {
			v.onInvalid(err)
		}
		return
	}
	v.SetState(func(s *EditState) { s.Problem = "" })
	v.onSubmit(v.Point())
}

func (v *PointEdit) deleteClickHandler(render.Event) {
	v.onDelete(v.Point())
}

func (v *PointEdit) closeClickHandler(render.Event) {
	v.onClose()
}

func (v *PointEdit) typeChangeHandler(ev render.Event) {
	t, ok := model.ParsePointType(ev.Value)
	if !ok {
		return
	}
	if _, ok := model.FindOfferGroup(v.groups, t); !ok {
		err := fmt.Errorf("%w: %s", ErrMissingOffers, t)
		msg := err.Error()
		v.UpdateElement(func(s *EditState) { s.Problem = msg })
		if v.onInvalid != nil {
			v.onInvalid(err)
		}
		return
	}
	v.UpdateElement(func(s *EditState) {
		s.Type = t
		s.Offers = []int{}
		s.OfferCursor = 0
		s.Problem = ""
	})
}

func (v *PointEdit) destinationChangeHandler(ev render.Event) {
	text := strings.TrimSpace(ev.Value)
	id := model.NoDestination
	if d, ok := model.FindDestinationByName(v.destinations, text); ok {
		id = d.ID
	}
	v.UpdateElement(func(s *EditState) {
		s.Destination = id
		s.DestinationText = text
		s.Problem = ""
	})
}

func (v *PointEdit) offersChangeHandler(ev render.Event) {
	id, err := strconv.Atoi(strings.TrimSpace(ev.Value))
	if err != nil {
		return
	}
	g, _ := model.FindOfferGroup(v.groups, v.state.Type)
	known := false
	for _, o := range g.Offers {
		if o.ID == id {
			known = true
			break
		}
	}
	if !known {
		return
	}
	v.SetState(func(s *EditState) { s.Offers = toggleOffer(s.Offers, id) })
}

func (v *PointEdit) priceChangeHandler(ev render.Event) {
	price := NormalizePrice(ev.Value)
	v.SetState(func(s *EditState) { s.BasePrice = price })
}

func (v *PointEdit) dateFromChangeHandler(selected []time.Time) {
	if len(selected) == 0 {
		return
	}
	from := selected[0]
	if from.After(v.state.DateTo) {
		v.UpdateElement(func(s *EditState) {
			s.DateFrom = from
			s.DateTo = from
		})
		return
	}
	v.UpdateElement(func(s *EditState) { s.DateFrom = from })
}

func (v *PointEdit) dateToChangeHandler(selected []time.Time) {
	if len(selected) == 0 {
		return
	}
	to := selected[0]
	if to.Before(v.state.DateFrom) {
		// The picker compares at minute precision and already shows to; rebuild from state.
		v.UpdateElement(func(*EditState) {})
		return
	}
	v.UpdateElement(func(s *EditState) { s.DateTo = to })
}

func (v *PointEdit) destinationText() string {
	if d, ok := model.FindDestination(v.destinations, v.state.Destination); ok {
		return d.Name
	}
	return v.state.DestinationText
}

func (v *PointEdit) offers() []model.Offer {
	g, _ := model.FindOfferGroup(v.groups, v.state.Type)
	return g.Offers
}

func (v *PointEdit) fields() []EditField {
	out := []EditField{FieldType, FieldDestination, FieldDateFrom, FieldDateTo, FieldPrice}
	if len(v.offers()) > 0 {
		out = append(out, FieldOffers)
	}
	out = append(out, FieldSave, FieldReset)
	if !v.isNewPoint {
		out = append(out, FieldRollup)
	}
	return out
}
