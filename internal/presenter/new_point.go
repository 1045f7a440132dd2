package presenter

import (
	"time"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/render"
	"waypoint-cli/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

// AddPointPresenter shows the add form at the top of the list until it is submitted or dismissed.
type AddPointPresenter struct {
	container    *render.Container
	doc          *render.Document
	data         ReferenceData
	opts         Options
	onDataChange DataChangeHandler
	onModeChange func()
	onDestroy    func()
	onInvalid    func(error)
	now          func() time.Time

	edit *view.PointEdit
}

func NewAddPointPresenter(container *render.Container, doc *render.Document, data ReferenceData, onDataChange DataChangeHandler, onModeChange, onDestroy func(), opts Options) *AddPointPresenter {
	return &AddPointPresenter{
		container:    container,
		doc:          doc,
		data:         data,
		opts:         opts,
		onDataChange: onDataChange,
		onModeChange: onModeChange,
		onDestroy:    onDestroy,
		now:          time.Now,
	}
}

func (p *AddPointPresenter) OnValidationError(cb func(error)) { p.onInvalid = cb }

func (p *AddPointPresenter) Active() bool { return p.edit != nil }

func (p *AddPointPresenter) Element() *render.Element {
	if p.edit == nil {
		return nil
	}
	return p.edit.CurrentElement()
}

func (p *AddPointPresenter) EditView() *view.PointEdit { return p.edit }

// Init opens the form. Other editors are closed first. Calling it while open does nothing.
func (p *AddPointPresenter) Init() error {
	if p.edit != nil {
		return nil
	}
	if p.onModeChange != nil {
		p.onModeChange()
	}
	dests := p.data.Destinations()
	edit, err := view.NewPointEdit(view.EditOptions{
		Point:        view.BlankPoint(dests, p.now()),
		Destinations: dests,
		OfferGroups:  p.data.OfferGroups(),
		IsNewPoint:   true,
		DateFormat:   p.opts.DateFormat,
		Width:        p.opts.Width,
	})
	if err != nil {
		return err
	}
	edit.SetFormSubmitHandler(p.handleFormSubmit)
	edit.SetDeleteClickHandler(p.handleCancelClick)
	edit.SetInvalidHandler(func(err error) {
		if p.onInvalid != nil {
			p.onInvalid(err)
		}
	})
	p.edit = edit
	render.RenderTo(edit, p.container, render.AfterBegin)
	p.doc.AddKeyListener(p, p.escKeyDownHandler)
	return nil
}

// Destroy removes the form. Safe to call when closed.
func (p *AddPointPresenter) Destroy() {
	if p.edit == nil {
		return
	}
	p.doc.RemoveKeyListener(p)
	render.Remove(p.edit)
	p.edit = nil
	if p.onDestroy != nil {
		p.onDestroy()
	}
}

func (p *AddPointPresenter) handleFormSubmit(pt model.Point) {
	p.onDataChange(model.AddPoint, model.Minor, pt)
	p.Destroy()
}

func (p *AddPointPresenter) handleCancelClick(model.Point) {
	p.Destroy()
}

func (p *AddPointPresenter) escKeyDownHandler(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyEsc {
		return false
	}
	p.Destroy()
	return true
}
