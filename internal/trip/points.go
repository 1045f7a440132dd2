// Package trip holds the observable models the board renders: the points model backed by the store
// and the filters model, plus filtering, sorting and the trip summary.
package trip

import (
	"errors"
	"fmt"
	"reflect"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/mutate"
	"waypoint-cli/internal/notify"
	"waypoint-cli/internal/store"
)

// Backend persists trip state. store.Store implements it.
type Backend interface {
	Load() (*store.DB, error)
	Save(*store.DB) error
	AppendEvent(typ, entityID string, payload any) error
}

var ErrNotLoaded = errors.New("points model is not loaded")

// PointsModel is the ordered point collection with its reference data. Mutations persist first and
// notify subscribers only once the backend accepted them.
type PointsModel struct {
	backend  Backend
	db       *store.DB
	notifier notify.Notifier[model.Point]
}

func NewPointsModel(b Backend) *PointsModel {
	return &PointsModel{backend: b}
}

// Init loads the state. Subscribers are not notified.
func (m *PointsModel) Init() error {
	db, err := m.backend.Load()
	if err != nil {
		return err
	}
	m.db = db
	return nil
}

func (m *PointsModel) Subscribe(h notify.Handler[model.Point]) func() {
	return m.notifier.Subscribe(h)
}

func (m *PointsModel) Points() []model.Point {
	if m.db == nil {
		return nil
	}
	out := make([]model.Point, 0, len(m.db.Points))
	for _, p := range m.db.Points {
		out = append(out, p.Clone())
	}
	return out
}

func (m *PointsModel) Point(id string) (model.Point, bool) {
	if m.db == nil {
		return model.Point{}, false
	}
	p, ok := m.db.FindPoint(id)
	if !ok {
		return model.Point{}, false
	}
	return p.Clone(), true
}

func (m *PointsModel) Destinations() []model.Destination {
	if m.db == nil {
		return nil
	}
	return m.db.Destinations
}

func (m *PointsModel) OfferGroups() []model.OfferGroup {
	if m.db == nil {
		return nil
	}
	return m.db.OfferGroups
}

func (m *PointsModel) UpdatePoint(scope model.UpdateScope, p model.Point) error {
	next, res, err := m.apply(func(db *store.DB) (mutate.PointResult, error) { return mutate.UpdatePoint(db, p) })
	if err != nil {
		return err
	}
	if !res.Changed {
		return nil
	}
	if err := m.save(next); err != nil {
		return err
	}
	m.notifier.Notify(scope, res.Point)
	return m.logEvent(store.EventPointUpdate, res)
}

// AddPoint stores p and returns it with its allocated id.
func (m *PointsModel) AddPoint(scope model.UpdateScope, p model.Point) (model.Point, error) {
	next, res, err := m.apply(func(db *store.DB) (mutate.PointResult, error) { return mutate.AddPoint(db, p) })
	if err != nil {
		return model.Point{}, err
	}
	if err := m.save(next); err != nil {
		return model.Point{}, err
	}
	m.notifier.Notify(scope, res.Point)
	return res.Point, m.logEvent(store.EventPointAdd, res)
}

func (m *PointsModel) DeletePoint(scope model.UpdateScope, p model.Point) error {
	next, res, err := m.apply(func(db *store.DB) (mutate.PointResult, error) { return mutate.DeletePoint(db, p.ID) })
	if err != nil {
		return err
	}
	if !res.Changed {
		return nil
	}
	if err := m.save(next); err != nil {
		return err
	}
	m.notifier.Notify(scope, res.Point)
	return m.logEvent(store.EventPointDelete, res)
}

// ToggleFavorite flips the favorite flag of the stored point and returns the result.
func (m *PointsModel) ToggleFavorite(scope model.UpdateScope, id string) (model.Point, error) {
	next, res, err := m.apply(func(db *store.DB) (mutate.PointResult, error) { return mutate.ToggleFavorite(db, id) })
	if err != nil {
		return model.Point{}, err
	}
	if !res.Changed {
		return res.Point, nil
	}
	if err := m.save(next); err != nil {
		return model.Point{}, err
	}
	m.notifier.Notify(scope, res.Point)
	return res.Point, m.logEvent(store.EventPointUpdate, res)
}

func (m *PointsModel) apply(fn func(*store.DB) (mutate.PointResult, error)) (*store.DB, mutate.PointResult, error) {
	if m.db == nil {
		return nil, mutate.PointResult{}, ErrNotLoaded
	}
	next := m.db.Clone()
	res, err := fn(next)
	if err != nil {
		return nil, mutate.PointResult{}, err
	}
	return next, res, nil
}

func (m *PointsModel) save(next *store.DB) error {
	if err := m.backend.Save(next); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	m.db = next
	return nil
}

// logEvent runs after subscribers saw the change; a failure here leaves the saved state in place.
func (m *PointsModel) logEvent(eventType string, res mutate.PointResult) error {
	if err := m.backend.AppendEvent(eventType, res.Point.ID, res.EventPayload); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Reload re-reads the backend after an outside change. Changed and removed points are announced
// with Patch; if any point was added, one Minor follows. New reference data is one Major.
func (m *PointsModel) Reload() error {
	db, err := m.backend.Load()
	if err != nil {
		return err
	}
	prev := m.db
	m.db = db
	if prev == nil {
		return nil
	}
	if !reflect.DeepEqual(prev.Destinations, db.Destinations) || !reflect.DeepEqual(prev.OfferGroups, db.OfferGroups) {
		m.notifier.Notify(model.Major, model.Point{})
		return nil
	}

	var added *model.Point
	for _, p := range db.Points {
		old, ok := prev.FindPoint(p.ID)
		switch {
		case !ok:
			if added == nil {
				cp := p.Clone()
				added = &cp
			}
		case !mutate.Equal(*old, p):
			m.notifier.Notify(model.Patch, p.Clone())
		}
	}
	for _, p := range prev.Points {
		if db.PointIndex(p.ID) < 0 {
			m.notifier.Notify(model.Patch, p.Clone())
		}
	}
	if added != nil {
		m.notifier.Notify(model.Minor, *added)
	}
	return nil
}
