// Package tui is the interactive trip board.
package tui

import (
	"io"
	"log"
	"strings"
	"time"

	"waypoint-cli/internal/store"
	"waypoint-cli/internal/trip"
	"waypoint-cli/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the board for the trip in s and blocks until the user quits.
func Run(s store.Store, cfg *store.GlobalConfig) error {
	if cfg == nil {
		cfg = &store.GlobalConfig{}
	}
	if p := strings.TrimSpace(cfg.TUI.DebugLog); p != "" {
		f, err := tea.LogToFile(p, "waypoint")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	applyThemePreference()
	applyColorProfilePreference()
	if !applyAppearance(cfg.TUI.Profile) {
		log.Printf("tui: unknown profile %q, using default", cfg.TUI.Profile)
	}

	if err := ensureSeeded(s); err != nil {
		return err
	}
	points := trip.NewPointsModel(s)
	if err := points.Init(); err != nil {
		return err
	}

	m := newAppModel(s, cfg, points)
	if w, err := watch.New(s.Dir, "state.sqlite", 0); err != nil {
		log.Printf("tui: watch %s: %v", s.Dir, err)
	} else {
		m.watcher = w
		defer w.Close()
	}

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// ensureSeeded fills an empty trip with the built-in reference data so the board can add points.
func ensureSeeded(s store.Store) error {
	db, err := s.Load()
	if err != nil {
		return err
	}
	changed, err := store.Seed(db, store.SeedOpts{Now: time.Now()})
	if err != nil || !changed {
		return err
	}
	if err := s.Save(db); err != nil {
		return err
	}
	return s.AppendEvent(store.EventSeed, "trip", map[string]any{"samples": false})
}
