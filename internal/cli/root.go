package cli

import (
	"fmt"
	"os"
	"strings"

	"waypoint-cli/internal/format"
	"waypoint-cli/internal/store"
	"waypoint-cli/internal/trip"
	"waypoint-cli/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "waypoint",
		Short:        "Waypoint trip planner (local-first) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  waypoint

  # Seed destinations and offers (plus a few sample points)
  waypoint init --samples

  # Scriptable commands
  waypoint points list --filter future --sort price

  # Direct point lookup (shortcut for: waypoint points show <point-id>)
  waypoint pt-3f2a9c01de
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand on a terminal => interactive TUI.
			if len(args) == 0 && interactive() {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("WAYPOINT_DIR", ""), "Path to the trip directory (default: discovered .waypoint, then config currentDir)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("WAYPOINT_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newPointsCmd(app))
	cmd.AddCommand(newDestinationsCmd(app))
	cmd.AddCommand(newOffersCmd(app))
	cmd.AddCommand(newTripCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runTUI(app *App) error {
	s, err := resolveStore(app)
	if err != nil {
		return err
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	return tui.Run(s, cfg)
}

func resolveStore(app *App) (store.Store, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	return store.Store{Dir: dir}, nil
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	s, err := resolveStore(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

// loadPoints opens the points model used by every mutating command, so the CLI and the TUI share
// one write path.
func loadPoints(app *App) (*trip.PointsModel, store.Store, error) {
	s, err := resolveStore(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	m := trip.NewPointsModel(s)
	if err := m.Init(); err != nil {
		return nil, s, err
	}
	return m, s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
