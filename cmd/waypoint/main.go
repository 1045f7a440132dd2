package main

import (
	"os"
	"strings"

	"waypoint-cli/internal/cli"
	"waypoint-cli/internal/store"
)

// rewriteDirectPointLookupArgs turns `waypoint <point-id>` into `waypoint points show <point-id>`.
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may come first (e.g. `waypoint --dir ... <point-id>`), so the first positional
// token is located rather than argv[1].
func rewriteDirectPointLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value, so a point id is never swallowed.
	valueFlags := map[string]bool{
		"--dir":    true,
		"--format": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewriteAt := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "points", "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && store.IsPointID(argv[i+1]) {
				return rewriteAt(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && !boolFlags[a] && valueFlags[a] {
				i++
			}
			continue
		}

		if store.IsPointID(a) {
			return rewriteAt(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectPointLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
