package mutate

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType        = errors.New("unknown point type")
	ErrUnknownDestination = errors.New("unknown destination")
	ErrInvalidDates       = errors.New("end date is before start date")
	ErrNegativePrice      = errors.New("base price must not be negative")
	ErrInvalidOffer       = errors.New("offer does not belong to the point type")
	ErrDuplicateID        = errors.New("point id already exists")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
