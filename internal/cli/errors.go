package cli

import (
	"errors"
	"fmt"

	"waypoint-cli/internal/mutate"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// cliError maps mutate errors onto the CLI's error types.
func cliError(err error) error {
	var nf mutate.NotFoundError
	if errors.As(err, &nf) {
		return errNotFound(nf.Kind, nf.ID)
	}
	return err
}
