package model

import "strings"

// UpdateScope classifies how much of the UI a model change invalidates.
type UpdateScope int

const (
	// Patch touches a single point; only that point's views are rebuilt.
	Patch UpdateScope = iota
	// Minor changes the list shape (add/delete/reorder) but keeps board settings.
	Minor
	// Major resets board settings such as the sort order.
	Major
)

func (s UpdateScope) String() string {
	switch s {
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	default:
		return "unknown"
	}
}

type UserAction int

const (
	UpdatePoint UserAction = iota
	DeletePoint
	AddPoint
)

func (a UserAction) String() string {
	switch a {
	case UpdatePoint:
		return "update-point"
	case DeletePoint:
		return "delete-point"
	case AddPoint:
		return "add-point"
	default:
		return "unknown"
	}
}

type FilterType string

const (
	FilterEverything FilterType = "everything"
	FilterFuture     FilterType = "future"
	FilterPresent    FilterType = "present"
	FilterPast       FilterType = "past"
)

var FilterTypes = []FilterType{FilterEverything, FilterFuture, FilterPresent, FilterPast}

func ParseFilterType(s string) (FilterType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterEverything, true
	}
	for _, f := range FilterTypes {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

type SortType string

const (
	SortDay   SortType = "day"
	SortTime  SortType = "time"
	SortPrice SortType = "price"
)

var SortTypes = []SortType{SortDay, SortTime, SortPrice}

func ParseSortType(s string) (SortType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortDay, true
	}
	for _, st := range SortTypes {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}
