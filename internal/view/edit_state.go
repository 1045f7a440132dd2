package view

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"waypoint-cli/internal/model"
)

var (
	ErrUnknownDestination = errors.New("unknown destination")
	ErrMissingOffers      = errors.New("no offer group for point type")
	ErrInvalidDates       = errors.New("end date is before start date")
)

type EditField int

const (
	FieldType EditField = iota
	FieldDestination
	FieldDateFrom
	FieldDateTo
	FieldPrice
	FieldOffers
	FieldSave
	FieldReset
	FieldRollup
)

// EditState is the working copy an edit form renders from.
type EditState struct {
	ID          string
	Type        model.PointType
	Destination int
	// DestinationText keeps what was typed when it matched no destination.
	DestinationText string
	DateFrom        time.Time
	DateTo          time.Time
	// BasePrice is kept as the canonical decimal string of the input.
	BasePrice  string
	Offers     []int
	IsFavorite bool

	// UI-only.
	Focus       EditField
	OfferCursor int
	Problem     string
}

func ParsePointToState(p model.Point) EditState {
	return EditState{
		ID:          p.ID,
		Type:        p.Type,
		Destination: p.Destination,
		DateFrom:    p.DateFrom,
		DateTo:      p.DateTo,
		BasePrice:   strconv.Itoa(p.BasePrice),
		Offers:      slices.Clone(p.Offers),
		IsFavorite:  p.IsFavorite,
	}
}

func ParseStateToPoint(s EditState) model.Point {
	price, err := strconv.Atoi(s.BasePrice)
	if err != nil {
		price = 0
	}
	return model.Point{
		ID:          s.ID,
		Type:        s.Type,
		Destination: s.Destination,
		DateFrom:    s.DateFrom,
		DateTo:      s.DateTo,
		BasePrice:   price,
		Offers:      slices.Clone(s.Offers),
		IsFavorite:  s.IsFavorite,
	}
}

// NormalizePrice turns price input into a canonical non-negative integer string.
func NormalizePrice(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "0"
		}
		if f > math.MaxInt32 {
			f = math.MaxInt32
		}
		n = int(f)
	}
	if n < 0 {
		n = 0
	}
	return strconv.Itoa(n)
}

func toggleOffer(offers []int, id int) []int {
	for i, o := range offers {
		if o == id {
			out := make([]int, 0, len(offers)-1)
			out = append(out, offers[:i]...)
			return append(out, offers[i+1:]...)
		}
	}
	return append(slices.Clone(offers), id)
}

// BlankPoint is the starting point of a new-point form.
func BlankPoint(destinations []model.Destination, now time.Time) model.Point {
	dest := model.NoDestination
	if len(destinations) > 0 {
		dest = destinations[0].ID
	}
	from := now.Truncate(time.Minute)
	return model.Point{
		Type:        model.PointTypeTaxi,
		Destination: dest,
		DateFrom:    from,
		DateTo:      from.AddDate(0, 0, 7),
		Offers:      []int{},
	}
}
