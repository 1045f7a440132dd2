package mutate

import (
	"fmt"
	"slices"
	"strings"

	"waypoint-cli/internal/model"
	"waypoint-cli/internal/store"
)

type PointResult struct {
	Point        model.Point
	Changed      bool
	EventPayload map[string]any
}

// ValidatePoint checks p against the reference data in db.
func ValidatePoint(db *store.DB, p model.Point) error {
	if _, ok := model.ParsePointType(string(p.Type)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
	}
	g, ok := model.FindOfferGroup(db.OfferGroups, p.Type)
	if !ok {
		return fmt.Errorf("%w: no offer group for %q", ErrUnknownType, p.Type)
	}
	if _, ok := model.FindDestination(db.Destinations, p.Destination); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDestination, p.Destination)
	}
	if p.DateFrom.IsZero() || p.DateTo.IsZero() || p.DateTo.Before(p.DateFrom) {
		return ErrInvalidDates
	}
	if p.BasePrice < 0 {
		return ErrNegativePrice
	}
	seen := map[int]bool{}
	for _, id := range p.Offers {
		if seen[id] {
			return fmt.Errorf("%w: offer %d selected twice", ErrInvalidOffer, id)
		}
		seen[id] = true
		if !slices.ContainsFunc(g.Offers, func(o model.Offer) bool { return o.ID == id }) {
			return fmt.Errorf("%w: offer %d is not offered for %s", ErrInvalidOffer, id, p.Type)
		}
	}
	return nil
}

// AddPoint appends p, allocating an id when it has none.
// Callers are responsible for saving db and appending the point.add event.
func AddPoint(db *store.DB, p model.Point) (PointResult, error) {
	if db == nil {
		return PointResult{}, nil
	}
	p = normalize(p)
	if err := ValidatePoint(db, p); err != nil {
		return PointResult{}, err
	}
	if p.ID == "" {
		id, err := store.NewPointID(db)
		if err != nil {
			return PointResult{}, err
		}
		p.ID = id
	} else if db.PointIndex(p.ID) >= 0 {
		return PointResult{}, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	db.Points = append(db.Points, p)
	return PointResult{
		Point:        p.Clone(),
		Changed:      true,
		EventPayload: map[string]any{"point": p},
	}, nil
}

// UpdatePoint replaces the stored point with the same id.
// Callers are responsible for saving db and appending the point.update event.
func UpdatePoint(db *store.DB, p model.Point) (PointResult, error) {
	if db == nil {
		return PointResult{}, nil
	}
	p = normalize(p)
	cur, ok := db.FindPoint(p.ID)
	if !ok {
		return PointResult{}, NotFoundError{Kind: "point", ID: p.ID}
	}
	if err := ValidatePoint(db, p); err != nil {
		return PointResult{}, err
	}
	if Equal(*cur, p) {
		return PointResult{Point: cur.Clone(), Changed: false}, nil
	}
	prev := cur.Clone()
	*cur = p
	return PointResult{
		Point:        p.Clone(),
		Changed:      true,
		EventPayload: map[string]any{"from": prev, "to": p},
	}, nil
}

// DeletePoint removes the point, keeping the order of the rest.
// Callers are responsible for saving db and appending the point.delete event.
func DeletePoint(db *store.DB, id string) (PointResult, error) {
	id = strings.TrimSpace(id)
	if db == nil || id == "" {
		return PointResult{}, nil
	}
	i := db.PointIndex(id)
	if i < 0 {
		return PointResult{}, NotFoundError{Kind: "point", ID: id}
	}
	prev := db.Points[i].Clone()
	db.Points = slices.Delete(db.Points, i, i+1)
	return PointResult{
		Point:        prev,
		Changed:      true,
		EventPayload: map[string]any{"point": prev},
	}, nil
}

// ToggleFavorite flips IsFavorite on the stored point.
func ToggleFavorite(db *store.DB, id string) (PointResult, error) {
	id = strings.TrimSpace(id)
	if db == nil || id == "" {
		return PointResult{}, nil
	}
	cur, ok := db.FindPoint(id)
	if !ok {
		return PointResult{}, NotFoundError{Kind: "point", ID: id}
	}
	cur.IsFavorite = !cur.IsFavorite
	return PointResult{
		Point:        cur.Clone(),
		Changed:      true,
		EventPayload: map[string]any{"isFavorite": cur.IsFavorite},
	}, nil
}

// Equal compares points field by field; times compare by instant.
func Equal(a, b model.Point) bool {
	return a.ID == b.ID &&
		a.Type == b.Type &&
		a.Destination == b.Destination &&
		a.DateFrom.Equal(b.DateFrom) &&
		a.DateTo.Equal(b.DateTo) &&
		a.BasePrice == b.BasePrice &&
		a.IsFavorite == b.IsFavorite &&
		slices.Equal(a.Offers, b.Offers)
}

func normalize(p model.Point) model.Point {
	p = p.Clone()
	p.ID = strings.TrimSpace(p.ID)
	if p.Offers == nil {
		p.Offers = []int{}
	}
	return p
}
