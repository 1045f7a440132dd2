// Package picker is the date/time range picker embedded in edit forms.
package picker

import (
	"time"

	"waypoint-cli/internal/render"
)

// DefaultFormat renders as d/m/y H:i.
const DefaultFormat = "02/01/06 15:04"

type Config struct {
	EnableTime  bool
	DateFormat  string
	DefaultDate time.Time
	// MinDate disables earlier dates. Zero means unbounded.
	MinDate  time.Time
	OnChange func(selected []time.Time)
}

// Picker listens for Pick events aimed at its field on the element it is attached to.
// It is destroyed together with the element.
type Picker struct {
	el        *render.Element
	field     string
	cfg       Config
	value     time.Time
	destroyed bool
}

func New(el *render.Element, field string, cfg Config) *Picker {
	if cfg.DateFormat == "" {
		cfg.DateFormat = DefaultFormat
	}
	p := &Picker{
		el:    el,
		field: field,
		cfg:   cfg,
	}
	p.value = p.normalize(cfg.DefaultDate)
	el.On(field, render.Pick, p.handlePick)
	el.Attach(p)
	return p
}

func (p *Picker) handlePick(ev render.Event) {
	p.Select(ev.Time)
}

func (p *Picker) normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	if p.cfg.EnableTime {
		return t.Truncate(time.Minute)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Select picks t and reports whether it was accepted. Dates before MinDate are refused.
func (p *Picker) Select(t time.Time) bool {
	if p.destroyed {
		return false
	}
	t = p.normalize(t)
	if !p.cfg.MinDate.IsZero() && t.Before(p.normalize(p.cfg.MinDate)) {
		return false
	}
	p.value = t
	if p.cfg.OnChange != nil {
		p.cfg.OnChange([]time.Time{t})
	}
	return true
}

// Shift moves the current value by whole days and minutes.
func (p *Picker) Shift(days, minutes int) bool {
	base := p.value
	if base.IsZero() {
		base = time.Now()
	}
	return p.Select(base.AddDate(0, 0, days).Add(time.Duration(minutes) * time.Minute))
}

func (p *Picker) Value() time.Time { return p.value }

func (p *Picker) MinDate() time.Time { return p.cfg.MinDate }

func (p *Picker) Field() string { return p.field }

func (p *Picker) Format() string {
	if p.value.IsZero() {
		return ""
	}
	return p.value.Format(p.cfg.DateFormat)
}

func (p *Picker) Destroyed() bool { return p.destroyed }

// Destroy unbinds the picker. Calling it again is a no-op.
func (p *Picker) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.el.Off(p.field, render.Pick)
	p.cfg.OnChange = nil
}
