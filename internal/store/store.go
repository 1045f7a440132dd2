package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"waypoint-cli/internal/model"
)

const (
	dirName       = ".waypoint"
	stateFileName = "state.sqlite"
)

// DB is the full trip state: points in list order plus the reference data they point into.
type DB struct {
	Version      int                 `json:"version"`
	Points       []model.Point       `json:"points"`
	Destinations []model.Destination `json:"destinations"`
	OfferGroups  []model.OfferGroup  `json:"offerGroups"`
}

type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for a .waypoint directory. The global config directory
// never counts as a trip directory.
func DiscoverDir(start string) (string, bool) {
	cfgDir, _ := ConfigDir()
	dir := start
	for {
		candidate := filepath.Join(dir, dirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() && filepath.Clean(candidate) != filepath.Clean(cfgDir) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the trip directory: a discovered .waypoint, then the configured current
// directory, then <config dir>/trip.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	if cfg, err := LoadConfig(); err == nil && strings.TrimSpace(cfg.CurrentDir) != "" {
		return strings.TrimSpace(cfg.CurrentDir), nil
	}
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "trip"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) StatePath() string {
	return filepath.Join(s.Dir, stateFileName)
}

func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	return s.SaveSQLite(context.Background(), db)
}

// Clone returns a deep copy, so a failed mutation can be thrown away.
func (db *DB) Clone() *DB {
	if db == nil {
		return nil
	}
	out := &DB{Version: db.Version}
	out.Points = make([]model.Point, 0, len(db.Points))
	for _, p := range db.Points {
		out.Points = append(out.Points, p.Clone())
	}
	out.Destinations = append([]model.Destination(nil), db.Destinations...)
	out.OfferGroups = append([]model.OfferGroup(nil), db.OfferGroups...)
	return out
}

func (db *DB) FindPoint(id string) (*model.Point, bool) {
	i := db.PointIndex(id)
	if i < 0 {
		return nil, false
	}
	return &db.Points[i], true
}

func (db *DB) PointIndex(id string) int {
	id = strings.TrimSpace(id)
	for i := range db.Points {
		if db.Points[i].ID == id {
			return i
		}
	}
	return -1
}

// HasReferenceData reports whether destinations and offer groups were seeded.
func (db *DB) HasReferenceData() bool {
	return len(db.Destinations) > 0 && len(db.OfferGroups) > 0
}
