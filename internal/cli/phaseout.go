package cli

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/phaseoutvillage/phaseout/internal/game"
)

// PhaseOutOptions holds flags for the phaseout command.
type PhaseOutOptions struct {
	*RootOptions
	All bool
}

// NewPhaseOutCommand creates the phaseout command.
func NewPhaseOutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PhaseOutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "phaseout <field>...",
		Short: "Phase out one or more fields",
		Long: `Close fields permanently, paying the phase-out cost and preventing
their remaining lifetime emissions. Each closed field raises the score,
lowers the global temperature and advances the year.

With --all, every currently affordable active field is closed instead of
the named ones.

Examples:
  phaseout phaseout Ekofisk
  phaseout phaseout Ekofisk "Snøhvit"
  phaseout phaseout --all`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.All == (len(args) > 0) {
				return NewExitError(ExitCommandError, "name at least one field, or pass --all")
			}
			return runPhaseOut(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "phase out every affordable active field")

	return cmd
}

func runPhaseOut(opts *PhaseOutOptions, names []string, cmd *cobra.Command) error {
	env, err := openGame(opts.RootOptions)
	if err != nil {
		return err
	}
	defer env.Close()

	out := formatter(opts.RootOptions, cmd)

	if opts.All {
		state := env.Session.State()
		for _, f := range state.Fields {
			if f.Status == game.StatusActive {
				if err := env.Session.Dispatch(game.SelectField{Name: f.Name}); err != nil {
					return rejectionError(err)
				}
			}
		}
		if err := env.Session.Dispatch(game.PhaseOutSelected{}); err != nil {
			return rejectionError(err)
		}
		return reportPhaseOut(opts, out, env, cmd)
	}

	for _, name := range names {
		err := env.Session.Dispatch(game.PhaseOutField{Name: name})
		if err == nil {
			continue
		}
		if game.IsUnknownField(err) {
			state := env.Session.State()
			if hint := closestFieldName(name, state.Fields); hint != "" {
				return WrapExitError(ExitFailure,
					fmt.Sprintf("unknown field %q (did you mean %q?)", name, hint), err)
			}
		}
		return rejectionError(err)
	}
	return reportPhaseOut(opts, out, env, cmd)
}

func reportPhaseOut(opts *PhaseOutOptions, out *OutputFormatter, env *GameEnv, cmd *cobra.Command) error {
	state := env.Session.State()
	if opts.Format == "json" {
		return out.Success(map[string]any{
			"budget":       state.Budget,
			"score":        state.Score,
			"year":         state.Year,
			"temperature":  state.GlobalTemperature,
			"shutdowns":    state.Shutdowns,
			"achievements": state.Achievements,
		})
	}

	w := cmd.OutOrStdout()
	totals := game.ActiveTotals(state.Fields)
	fmt.Fprintf(w, "Budget %.0f, score %d, year %d\n", state.Budget, state.Score, state.Year)
	fmt.Fprintf(w, "Temperature +%.4f C, %d of %d fields still active\n",
		state.GlobalTemperature, totals.ActiveFields, totals.TotalFields)
	return nil
}

// closestFieldName suggests the nearest known field name for a typo, or ""
// when nothing is close enough to be a plausible misspelling.
func closestFieldName(input string, fields []game.Field) string {
	const maxDistance = 3

	needle := strings.ToLower(game.NormalizeName(input))
	best, bestDist := "", maxDistance+1
	for _, f := range fields {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(f.Name))
		if d < bestDist {
			best, bestDist = f.Name, d
		}
	}
	if bestDist > maxDistance {
		return ""
	}
	return best
}
