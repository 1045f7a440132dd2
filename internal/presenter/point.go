// Package presenter wires views to the trip models: one PointPresenter per listed point, an
// AddPointPresenter for the add form and a Board coordinating them.
package presenter

import (
	"waypoint-cli/internal/model"
	"waypoint-cli/internal/render"
	"waypoint-cli/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

type Mode int

const (
	ModeDefault Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "default"
}

// DataChangeHandler receives user intents.
type DataChangeHandler func(action model.UserAction, scope model.UpdateScope, p model.Point)

// ReferenceData is the lookup data views are built from.
type ReferenceData interface {
	Destinations() []model.Destination
	OfferGroups() []model.OfferGroup
}

type Options struct {
	DateFormat string
	Width      int
}

// mount is the view currently in the container.
type mount interface {
	view() render.View
}

type summaryMount struct{ v *view.Point }

type editMount struct{ v *view.PointEdit }

func (m summaryMount) view() render.View { return m.v }
func (m editMount) view() render.View    { return m.v }

// PointPresenter owns the summary row and edit form of one point and swaps them in place.
type PointPresenter struct {
	container    *render.Container
	doc          *render.Document
	data         ReferenceData
	opts         Options
	onDataChange DataChangeHandler
	onModeChange func()
	onInvalid    func(error)

	point   model.Point
	summary *view.Point
	edit    *view.PointEdit
	mounted mount

	activating bool
	destroyed  bool
}

// NewPointPresenter prepares a presenter. onModeChange must close every other open editor.
func NewPointPresenter(container *render.Container, doc *render.Document, data ReferenceData, onDataChange DataChangeHandler, onModeChange func(), opts Options) *PointPresenter {
	return &PointPresenter{
		container:    container,
		doc:          doc,
		data:         data,
		opts:         opts,
		onDataChange: onDataChange,
		onModeChange: onModeChange,
	}
}

// OnValidationError registers a hook for submissions the form rejected.
func (p *PointPresenter) OnValidationError(cb func(error)) { p.onInvalid = cb }

func (p *PointPresenter) Mode() Mode {
	if _, ok := p.mounted.(editMount); ok {
		return ModeEditing
	}
	return ModeDefault
}

func (p *PointPresenter) Point() model.Point { return p.point.Clone() }

// Element returns the element currently mounted for this point, or nil.
func (p *PointPresenter) Element() *render.Element {
	if p.mounted == nil {
		return nil
	}
	return p.mounted.view().CurrentElement()
}

// EditView exposes the form; it is rebuilt on every Init.
func (p *PointPresenter) EditView() *view.PointEdit { return p.edit }

// Init builds both views for pt. The first call renders the summary; later calls replace whichever
// view is mounted with a fresh one of the same kind.
func (p *PointPresenter) Init(pt model.Point) error {
	dests := p.data.Destinations()
	groups := p.data.OfferGroups()

	edit, err := view.NewPointEdit(view.EditOptions{
		Point:        pt,
		Destinations: dests,
		OfferGroups:  groups,
		DateFormat:   p.opts.DateFormat,
		Width:        p.opts.Width,
	})
	if err != nil {
		return err
	}
	summary := view.NewPoint(pt, dests, groups)
	summary.SetWidth(p.opts.Width)
	summary.SetEditClickHandler(p.handleEditClick)
	summary.SetFavoriteClickHandler(p.handleFavoriteClick)
	edit.SetFormSubmitHandler(p.handleFormSubmit)
	edit.SetDeleteClickHandler(p.handleDeleteClick)
	edit.SetCloseClickHandler(p.handleCloseClick)
	edit.SetInvalidHandler(p.handleInvalid)

	prevSummary, prevEdit := p.summary, p.edit
	p.point = pt.Clone()
	p.summary = summary
	p.edit = edit
	p.destroyed = false

	switch m := p.mounted.(type) {
	case nil:
		render.RenderTo(summary, p.container, render.BeforeEnd)
		p.mounted = summaryMount{summary}
	case summaryMount:
		if err := render.Replace(summary, m.v); err != nil {
			return err
		}
		p.mounted = summaryMount{summary}
	case editMount:
		if err := render.Replace(edit, m.v); err != nil {
			return err
		}
		p.mounted = editMount{edit}
	}

	if prevSummary != nil {
		prevSummary.RemoveElement()
	}
	if prevEdit != nil {
		prevEdit.RemoveElement()
	}
	return nil
}

// ResetView discards unsaved edits and shows the summary. No-op unless editing.
func (p *PointPresenter) ResetView() {
	if p.Mode() != ModeEditing {
		return
	}
	p.edit.Reset(p.point)
	p.replaceEditToSummary()
}

// Destroy releases both views and the key listener. Safe in any mode.
func (p *PointPresenter) Destroy() {
	p.doc.RemoveKeyListener(p)
	if p.summary != nil {
		render.Remove(p.summary)
	}
	if p.edit != nil {
		render.Remove(p.edit)
	}
	p.mounted = nil
	p.destroyed = true
}

func (p *PointPresenter) replaceSummaryToEdit() {
	if p.Mode() == ModeEditing || p.activating {
		return
	}
	p.activating = true
	if p.onModeChange != nil {
		p.onModeChange()
	}
	p.activating = false
	if p.destroyed {
		return
	}
	if err := render.Replace(p.edit, p.summary); err != nil {
		return
	}
	p.mounted = editMount{p.edit}
	p.doc.AddKeyListener(p, p.escKeyDownHandler)
}

func (p *PointPresenter) replaceEditToSummary() {
	p.doc.RemoveKeyListener(p)
	if err := render.Replace(p.summary, p.edit); err != nil {
		return
	}
	p.mounted = summaryMount{p.summary}
}

func (p *PointPresenter) escKeyDownHandler(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyEsc {
		return false
	}
	p.ResetView()
	return true
}

func (p *PointPresenter) handleEditClick() {
	p.replaceSummaryToEdit()
}

func (p *PointPresenter) handleFavoriteClick() {
	next := p.point.Clone()
	next.IsFavorite = !next.IsFavorite
	p.onDataChange(model.UpdatePoint, model.Patch, next)
}

func (p *PointPresenter) handleFormSubmit(pt model.Point) {
	p.onDataChange(model.UpdatePoint, model.Minor, pt)
	if p.destroyed || p.Mode() != ModeEditing {
		return
	}
	// No re-render followed: the update was rejected or changed nothing. Drop the form's edits so a
	// reopened editor starts from the stored point.
	p.ResetView()
}

func (p *PointPresenter) handleDeleteClick(pt model.Point) {
	p.onDataChange(model.DeletePoint, model.Minor, pt)
}

func (p *PointPresenter) handleCloseClick() {
	p.ResetView()
}

func (p *PointPresenter) handleInvalid(err error) {
	if p.onInvalid != nil {
		p.onInvalid(err)
	}
}
