package store

import (
	_ "embed"
	"fmt"
	"time"

	"waypoint-cli/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Destinations []model.Destination `yaml:"destinations"`
	OfferGroups  []model.OfferGroup  `yaml:"offerGroups"`
	SamplePoints []seedPoint         `yaml:"samplePoints"`
}

type seedPoint struct {
	Type         model.PointType `yaml:"type"`
	Destination  int             `yaml:"destination"`
	StartInHours int             `yaml:"startInHours"`
	Minutes      int             `yaml:"minutes"`
	BasePrice    int             `yaml:"basePrice"`
	Offers       []int           `yaml:"offers"`
	IsFavorite   bool            `yaml:"isFavorite"`
}

func loadSeed() (seedFile, error) {
	var sf seedFile
	if err := yaml.Unmarshal(seedYAML, &sf); err != nil {
		return seedFile{}, fmt.Errorf("parse seed: %w", err)
	}
	return sf, nil
}

type SeedOpts struct {
	// SamplePoints adds a few example points around Now.
	SamplePoints bool
	// Force replaces existing reference data.
	Force bool
	Now   time.Time
}

// Seed fills db with the built-in destinations and offer groups. It reports whether db changed.
func Seed(db *DB, opts SeedOpts) (bool, error) {
	if db == nil {
		return false, fmt.Errorf("nil db")
	}
	sf, err := loadSeed()
	if err != nil {
		return false, err
	}
	changed := false
	if opts.Force || !db.HasReferenceData() {
		db.Destinations = sf.Destinations
		db.OfferGroups = sf.OfferGroups
		for i := range db.OfferGroups {
			if db.OfferGroups[i].Offers == nil {
				db.OfferGroups[i].Offers = []model.Offer{}
			}
		}
		changed = true
	}
	if opts.SamplePoints && len(db.Points) == 0 {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		now = now.Truncate(time.Hour)
		for _, sp := range sf.SamplePoints {
			id, err := NewPointID(db)
			if err != nil {
				return changed, err
			}
			from := now.Add(time.Duration(sp.StartInHours) * time.Hour)
			offers := sp.Offers
			if offers == nil {
				offers = []int{}
			}
			db.Points = append(db.Points, model.Point{
				ID:          id,
				Type:        sp.Type,
				Destination: sp.Destination,
				DateFrom:    from,
				DateTo:      from.Add(time.Duration(sp.Minutes) * time.Minute),
				BasePrice:   sp.BasePrice,
				Offers:      offers,
				IsFavorite:  sp.IsFavorite,
			})
		}
		changed = true
	}
	return changed, nil
}
