package store

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const pointIDPrefix = "pt"

// IsPointID reports whether s looks like a point id (pt-xxxxxxxxxx).
func IsPointID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, pointIDPrefix+"-") && len(s) > len(pointIDPrefix)+1
}

// newRandomID returns prefix-<suffix> where suffix is the first 10 hex chars of a v4 uuid.
func newRandomID(prefix string) (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	suffix := strings.ReplaceAll(u.String(), "-", "")[:10]
	return prefix + "-" + suffix, nil
}

// NewPointID returns a point id not yet used in db.
func NewPointID(db *DB) (string, error) {
	for i := 0; i < 8; i++ {
		id, err := newRandomID(pointIDPrefix)
		if err != nil {
			return "", err
		}
		if db == nil || db.PointIndex(id) < 0 {
			return id, nil
		}
	}
	return "", errors.New("could not allocate a unique point id")
}
