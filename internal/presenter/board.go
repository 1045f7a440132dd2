package presenter

import (
	"log"
	"time"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/notify"
	"waypoint-cli/internal/render"
	"waypoint-cli/internal/trip"
)

// PointsModel is what the board needs from trip.PointsModel.
type PointsModel interface {
	ReferenceData
	Points() []model.Point
	Point(id string) (model.Point, bool)
	UpdatePoint(scope model.UpdateScope, p model.Point) error
	AddPoint(scope model.UpdateScope, p model.Point) (model.Point, error)
	DeletePoint(scope model.UpdateScope, p model.Point) error
	Subscribe(h notify.Handler[model.Point]) func()
}

// FiltersModel is what the board needs from trip.FiltersModel.
type FiltersModel interface {
	Filter() model.FilterType
	Subscribe(h notify.Handler[model.FilterType]) func()
}

// Board renders the filtered, sorted point list and routes intents to the points model.
type Board struct {
	container *render.Container
	doc       *render.Document
	points    PointsModel
	filters   FiltersModel
	opts      Options

	presenters map[string]*PointPresenter
	order      []string
	newPoint   *AddPointPresenter
	sort       model.SortType

	unsubscribe []func()
	lastErr     error
	onError     func(error)

	// Now is the clock used for filtering and new points.
	Now func() time.Time
}

func NewBoard(container *render.Container, doc *render.Document, points PointsModel, filters FiltersModel, opts Options) *Board {
	b := &Board{
		container:  container,
		doc:        doc,
		points:     points,
		filters:    filters,
		opts:       opts,
		presenters: map[string]*PointPresenter{},
		sort:       model.SortDay,
		Now:        time.Now,
	}
	b.newPoint = NewAddPointPresenter(container, doc, points, b.handleViewAction, b.handleModeChange, b.handleNewPointDestroy, opts)
	b.newPoint.now = func() time.Time { return b.Now() }
	b.newPoint.OnValidationError(b.reportError)
	return b
}

// OnError registers a hook for rejected intents and validation failures.
func (b *Board) OnError(cb func(error)) { b.onError = cb }

// Init subscribes to the models and renders the list.
func (b *Board) Init() {
	b.unsubscribe = append(b.unsubscribe,
		b.points.Subscribe(b.handleModelEvent),
		b.filters.Subscribe(b.handleFilterEvent),
	)
	b.renderBoard()
}

// Destroy unsubscribes and clears the list.
func (b *Board) Destroy() {
	for _, u := range b.unsubscribe {
		u()
	}
	b.unsubscribe = nil
	b.clearBoard(false)
}

func (b *Board) Sort() model.SortType { return b.sort }

// SetSort re-renders with s. Open editors are closed.
func (b *Board) SetSort(s model.SortType) {
	if s == b.sort {
		return
	}
	b.sort = s
	b.clearBoard(false)
	b.renderBoard()
}

// CreatePoint opens the add form at the top of the list.
func (b *Board) CreatePoint() {
	if err := b.newPoint.Init(); err != nil {
		b.reportError(err)
	}
}

func (b *Board) CreatingPoint() bool { return b.newPoint.Active() }

// Presenters returns the point presenters in display order.
func (b *Board) Presenters() []*PointPresenter {
	out := make([]*PointPresenter, 0, len(b.order))
	for _, id := range b.order {
		if p, ok := b.presenters[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (b *Board) Presenter(id string) (*PointPresenter, bool) {
	p, ok := b.presenters[id]
	return p, ok
}

// PointAt maps a container element back to its point id.
func (b *Board) PointAt(el *render.Element) (string, bool) {
	for id, p := range b.presenters {
		if p.Element() == el {
			return id, true
		}
	}
	return "", false
}

// Empty reports whether nothing passes the current filter.
func (b *Board) Empty() bool { return len(b.order) == 0 && !b.newPoint.Active() }

func (b *Board) EmptyMessage() string { return trip.EmptyMessage(b.filters.Filter()) }

// Trip summarizes every point regardless of filter.
func (b *Board) Trip() trip.Info {
	return trip.Summarize(b.points.Points(), b.points.Destinations(), b.points.OfferGroups())
}

// LastError returns the most recent rejected intent, if any.
func (b *Board) LastError() error { return b.lastErr }

// Editing reports whether any editor is open.
func (b *Board) Editing() bool {
	if b.newPoint.Active() {
		return true
	}
	for _, p := range b.presenters {
		if p.Mode() == ModeEditing {
			return true
		}
	}
	return false
}

// ActiveElement returns the open form's element, or nil when nothing is being edited.
func (b *Board) ActiveElement() *render.Element {
	if b.newPoint.Active() {
		return b.newPoint.Element()
	}
	for _, id := range b.order {
		if p := b.presenters[id]; p.Mode() == ModeEditing {
			return p.Element()
		}
	}
	return nil
}

// CloseEditors reverts every open editor.
func (b *Board) CloseEditors() { b.handleModeChange() }

func (b *Board) handleViewAction(action model.UserAction, scope model.UpdateScope, p model.Point) {
	b.lastErr = nil
	var err error
	switch action {
	case model.UpdatePoint:
		err = b.points.UpdatePoint(scope, p)
	case model.AddPoint:
		_, err = b.points.AddPoint(scope, p)
	case model.DeletePoint:
		err = b.points.DeletePoint(scope, p)
	}
	if err != nil {
		log.Printf("board: %s %s: %v", action, p.ID, err)
		b.reportError(err)
	}
}

func (b *Board) handleModelEvent(scope model.UpdateScope, p model.Point) {
	switch scope {
	case model.Patch:
		pp, ok := b.presenters[p.ID]
		if !ok {
			return
		}
		cur, exists := b.points.Point(p.ID)
		if !exists {
			b.destroyPresenter(p.ID)
			return
		}
		if err := pp.Init(cur); err != nil {
			b.destroyPresenter(p.ID)
			b.reportError(err)
		}
	case model.Minor:
		b.clearBoard(false)
		b.renderBoard()
	case model.Major:
		b.clearBoard(true)
		b.renderBoard()
	}
}

func (b *Board) handleFilterEvent(scope model.UpdateScope, _ model.FilterType) {
	b.clearBoard(scope == model.Major)
	b.renderBoard()
}

// handleModeChange closes every open editor before another one opens.
func (b *Board) handleModeChange() {
	b.newPoint.Destroy()
	for _, p := range b.presenters {
		p.ResetView()
	}
}

func (b *Board) handleNewPointDestroy() {}

func (b *Board) reportError(err error) {
	b.lastErr = err
	if b.onError != nil {
		b.onError(err)
	}
}

func (b *Board) renderBoard() {
	points := trip.SortPoints(trip.FilterPoints(b.points.Points(), b.filters.Filter(), b.Now()), b.sort)
	for _, pt := range points {
		b.renderPoint(pt)
	}
}

func (b *Board) renderPoint(pt model.Point) {
	p := NewPointPresenter(b.container, b.doc, b.points, b.handleViewAction, b.handleModeChange, b.opts)
	p.OnValidationError(b.reportError)
	if err := p.Init(pt); err != nil {
		log.Printf("board: skip %s: %v", pt.ID, err)
		b.reportError(err)
		return
	}
	b.presenters[pt.ID] = p
	b.order = append(b.order, pt.ID)
}

func (b *Board) destroyPresenter(id string) {
	if p, ok := b.presenters[id]; ok {
		p.Destroy()
		delete(b.presenters, id)
	}
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i:i], b.order[i+1:]...)
			break
		}
	}
}

func (b *Board) clearBoard(resetSort bool) {
	b.newPoint.Destroy()
	for _, id := range b.order {
		if p, ok := b.presenters[id]; ok {
			p.Destroy()
		}
	}
	b.presenters = map[string]*PointPresenter{}
	b.order = nil
	if resetSort {
		b.sort = model.SortDay
	}
}
