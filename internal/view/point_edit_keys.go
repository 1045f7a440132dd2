package view

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/render"

	tea "github.com/charmbracelet/bubbletea"
)

// handleKey drives the form from the keyboard by dispatching the same events a pointer would.
// esc and ctrl+c are left to the document listeners.
func (v *PointEdit) handleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "esc", "ctrl+c":
		return false
	case "tab":
		v.moveFocus(1)
		return true
	case "shift+tab":
		v.moveFocus(-1)
		return true
	case "ctrl+s":
		v.commitDestination()
		v.fire(TargetSave, render.Submit, "")
		return true
	}

	switch v.state.Focus {
	case FieldType:
		switch msg.String() {
		case "left", "h":
			v.cycleType(-1)
		case "right", "l", " ":
			v.cycleType(1)
		}
	case FieldDestination:
		switch msg.String() {
		case "enter":
			v.commitDestination()
		case "ctrl+n":
			if names := v.suggestions(1); len(names) > 0 {
				v.form.destination.SetValue(names[0])
				v.form.destination.CursorEnd()
			}
		default:
			v.form.destination, _ = v.form.destination.Update(msg)
		}
	case FieldDateFrom, FieldDateTo:
		v.shiftDate(msg.String())
	case FieldPrice:
		if msg.Type == tea.KeyRunes && !allDigits(msg.Runes) {
			return true
		}
		before := v.form.price.Value()
		v.form.price, _ = v.form.price.Update(msg)
		if after := v.form.price.Value(); after != before {
			v.fire(TargetPrice, render.Change, after)
		}
	case FieldOffers:
		offers := v.offers()
		switch msg.String() {
		case "up", "k":
			v.SetState(func(s *EditState) {
				if s.OfferCursor > 0 {
					s.OfferCursor--
				}
			})
		case "down", "j":
			v.SetState(func(s *EditState) {
				if s.OfferCursor < len(offers)-1 {
					s.OfferCursor++
				}
			})
		case " ", "enter", "x":
			if c := v.state.OfferCursor; c >= 0 && c < len(offers) {
				v.fire(TargetOffers, render.Change, strconv.Itoa(offers[c].ID))
			}
		}
	case FieldSave:
		if msg.String() == "enter" {
			v.fire(TargetSave, render.Submit, "")
		}
	case FieldReset:
		if msg.String() == "enter" {
			v.fire(TargetReset, render.Click, "")
		}
	case FieldRollup:
		if msg.String() == "enter" {
			v.fire(TargetRollup, render.Click, "")
		}
	}
	return true
}

func (v *PointEdit) fire(target string, typ render.EventType, value string) bool {
	return v.Element().Dispatch(render.Event{Type: typ, Target: target, Value: value})
}

func (v *PointEdit) moveFocus(delta int) {
	fields := v.fields()
	idx := 0
	for i, f := range fields {
		if f == v.state.Focus {
			idx = i
			break
		}
	}
	if v.state.Focus == FieldDestination {
		v.commitDestination()
	}
	next := fields[(idx+delta+len(fields))%len(fields)]
	v.SetState(func(s *EditState) { s.Focus = next })

	v.form.destination.Blur()
	v.form.price.Blur()
	switch next {
	case FieldDestination:
		v.form.destination.Focus()
	case FieldPrice:
		v.form.price.Focus()
	}
}

// commitDestination turns typed text into a destination change once the text differs.
func (v *PointEdit) commitDestination() {
	text := strings.TrimSpace(v.form.destination.Value())
	if text == v.destinationText() {
		return
	}
	v.fire(TargetDestination, render.Change, text)
}

// cycleType steps through the types that have an offer group.
func (v *PointEdit) cycleType(delta int) {
	var types []model.PointType
	for _, t := range model.PointTypes {
		if _, ok := model.FindOfferGroup(v.groups, t); ok {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return
	}
	idx := 0
	for i, t := range types {
		if t == v.state.Type {
			idx = i
			break
		}
	}
	next := types[(idx+delta+len(types))%len(types)]
	if next == v.state.Type {
		return
	}
	v.fire(TargetType, render.Change, string(next))
}

func (v *PointEdit) shiftDate(key string) {
	var step time.Duration
	days := 0
	switch key {
	case "left", "h":
		days = -1
	case "right", "l":
		days = 1
	case "up", "k":
		step = time.Hour
	case "down", "j":
		step = -time.Hour
	case "+", "=":
		step = 5 * time.Minute
	case "-", "_":
		step = -5 * time.Minute
	default:
		return
	}
	from, to := v.DatePickers()
	target, p := TargetDateFrom, from
	if v.state.Focus == FieldDateTo {
		target, p = TargetDateTo, to
	}
	if p == nil {
		return
	}
	base := p.Value()
	if base.IsZero() {
		base = time.Now()
	}
	v.Element().Dispatch(render.Event{
		Type:   render.Pick,
		Target: target,
		Time:   base.AddDate(0, 0, days).Add(step),
	})
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
