package model

import (
	"slices"
	"strings"
	"time"
)

type PointType string

const (
	PointTypeTaxi        PointType = "taxi"
	PointTypeBus         PointType = "bus"
	PointTypeTrain       PointType = "train"
	PointTypeShip        PointType = "ship"
	PointTypeDrive       PointType = "drive"
	PointTypeFlight      PointType = "flight"
	PointTypeCheckIn     PointType = "check-in"
	PointTypeSightseeing PointType = "sightseeing"
	PointTypeRestaurant  PointType = "restaurant"
)

// PointTypes is the display order used by type pickers.
var PointTypes = []PointType{
	PointTypeTaxi,
	PointTypeBus,
	PointTypeTrain,
	PointTypeShip,
	PointTypeDrive,
	PointTypeFlight,
	PointTypeCheckIn,
	PointTypeSightseeing,
	PointTypeRestaurant,
}

func ParsePointType(s string) (PointType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range PointTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// NoDestination marks a point whose destination text did not resolve.
const NoDestination = 0

type Picture struct {
	Src         string `json:"src" yaml:"src"`
	Description string `json:"description" yaml:"description"`
}

type Destination struct {
	ID          int       `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Pictures    []Picture `json:"pictures" yaml:"pictures"`
}

type Offer struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Price int    `json:"price" yaml:"price"`
}

type OfferGroup struct {
	Type   PointType `json:"type" yaml:"type"`
	Offers []Offer   `json:"offers" yaml:"offers"`
}

type Point struct {
	ID          string    `json:"id" yaml:"id"`
	Type        PointType `json:"type" yaml:"type"`
	Destination int       `json:"destination" yaml:"destination"`
	DateFrom    time.Time `json:"dateFrom" yaml:"dateFrom"`
	DateTo      time.Time `json:"dateTo" yaml:"dateTo"`
	BasePrice   int       `json:"basePrice" yaml:"basePrice"`
	Offers      []int     `json:"offers" yaml:"offers"`
	IsFavorite  bool      `json:"isFavorite" yaml:"isFavorite"`
}

// Clone returns a copy that shares no slices with p.
func (p Point) Clone() Point {
	out := p
	out.Offers = slices.Clone(p.Offers)
	return out
}

func (p Point) Duration() time.Duration {
	return p.DateTo.Sub(p.DateFrom)
}

func (p Point) HasOffer(id int) bool {
	for _, o := range p.Offers {
		if o == id {
			return true
		}
	}
	return false
}

func FindDestination(ds []Destination, id int) (Destination, bool) {
	for _, d := range ds {
		if d.ID == id {
			return d, true
		}
	}
	return Destination{}, false
}

// FindDestinationByName matches the display name exactly.
func FindDestinationByName(ds []Destination, name string) (Destination, bool) {
	for _, d := range ds {
		if d.Name == name {
			return d, true
		}
	}
	return Destination{}, false
}

func FindOfferGroup(groups []OfferGroup, t PointType) (OfferGroup, bool) {
	for _, g := range groups {
		if g.Type == t {
			return g, true
		}
	}
	return OfferGroup{}, false
}

// TotalPrice is the base price plus every selected offer that exists in the point's group.
func TotalPrice(p Point, groups []OfferGroup) int {
	total := p.BasePrice
	g, ok := FindOfferGroup(groups, p.Type)
	if !ok {
		return total
	}
	for _, o := range g.Offers {
		if p.HasOffer(o.ID) {
			total += o.Price
		}
	}
	return total
}

type Event struct {
	ID       string    `json:"id" yaml:"id"`
	TS       time.Time `json:"ts" yaml:"ts"`
	Type     string    `json:"type" yaml:"type"`
	EntityID string    `json:"entityId" yaml:"entityId"`
	Payload  any       `json:"payload" yaml:"payload"`
}
