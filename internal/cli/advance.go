package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phaseoutvillage/phaseout/internal/game"
)

// AdvanceOptions holds flags for the advance command.
type AdvanceOptions struct {
	*RootOptions
	Skip bool
}

// NewAdvanceCommand creates the advance command.
func NewAdvanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AdvanceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Advance the tutorial one step",
		Long: `Advance the tutorial one step and print the next message, or skip
the rest of it with --skip.

Examples:
  phaseout advance
  phaseout advance --skip`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdvance(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Skip, "skip", false, "skip the remaining tutorial steps")

	return cmd
}

func runAdvance(opts *AdvanceOptions, cmd *cobra.Command) error {
	env, err := openGame(opts.RootOptions)
	if err != nil {
		return err
	}
	defer env.Close()

	var action game.Action = game.AdvanceTutorial{}
	if opts.Skip {
		action = game.SkipTutorial{}
	}
	if err := env.Session.Dispatch(action); err != nil {
		return rejectionError(err)
	}

	state := env.Session.State()
	message := "Tutorial complete."
	if !game.TutorialDone(state) {
		message = game.TutorialScript[state.TutorialStep]
	}

	if opts.Format == "json" {
		return formatter(opts.RootOptions, cmd).Success(map[string]any{
			"tutorialStep": state.TutorialStep,
			"done":         game.TutorialDone(state),
			"message":      message,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), message)
	return nil
}
