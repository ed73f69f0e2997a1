package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phaseoutvillage/phaseout/internal/game"
	"github.com/phaseoutvillage/phaseout/internal/save"
)

// NewGameOptions holds flags for the new command.
type NewGameOptions struct {
	*RootOptions
	Force bool
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewGameOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game in the save slot",
		Long: `Start a fresh game in the configured save slot. Refuses to overwrite
an existing save unless --force is given.

Examples:
  phaseout new
  phaseout new --slot campaign --force`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNewGame(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing save")

	return cmd
}

func runNewGame(opts *NewGameOptions, cmd *cobra.Command) error {
	store := save.Acquire(opts.Save)
	defer store.Close()

	ctx := context.Background()
	if _, found, err := store.Get(ctx, opts.Slot); err != nil {
		return WrapExitError(ExitCommandError, "reading save slot", err)
	} else if found && !opts.Force {
		return NewExitError(ExitFailure,
			fmt.Sprintf("slot %q already has a save; use --force to overwrite", opts.Slot))
	}
	if err := store.Delete(ctx, opts.Slot); err != nil {
		return WrapExitError(ExitCommandError, "clearing save slot", err)
	}

	return resetSlot(opts.RootOptions, cmd, "New game started")
}

// NewRestartCommand creates the restart command.
func NewRestartCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Reset the save slot to a fresh game",
		Long: `Throw away all progress in the save slot and start over from the
reference dataset.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetSlot(rootOpts, cmd, "Game restarted")
		},
	}
}

// resetSlot dispatches Restart in the slot's session and reports the fresh
// state. The Restart transition persists the fresh snapshot.
func resetSlot(opts *RootOptions, cmd *cobra.Command, verb string) error {
	env, err := openGame(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.Session.Dispatch(game.Restart{}); err != nil {
		return rejectionError(err)
	}

	state := env.Session.State()
	if opts.Format == "json" {
		return formatter(opts, cmd).Success(map[string]any{
			"slot":   opts.Slot,
			"token":  env.Session.Token(),
			"budget": state.Budget,
			"year":   state.Year,
			"fields": len(state.Fields),
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s in slot %q: year %d, budget %.0f, %d fields.\n",
		verb, opts.Slot, state.Year, state.Budget, len(state.Fields))
	return nil
}
