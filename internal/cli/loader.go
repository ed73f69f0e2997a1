package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phaseoutvillage/phaseout/internal/dataset"
	"github.com/phaseoutvillage/phaseout/internal/game"
	"github.com/phaseoutvillage/phaseout/internal/save"
	"github.com/phaseoutvillage/phaseout/internal/session"
)

// GameEnv bundles the running pieces a command needs: the session plus the
// store it persists to. Close flushes pending writes before releasing the
// store.
type GameEnv struct {
	Session *session.Session
	Store   save.Store
	Rules   game.Rules
}

// Close flushes in-flight snapshot writes and releases the store.
func (e *GameEnv) Close() error {
	e.Session.Flush()
	return e.Store.Close()
}

// openGame loads the dataset, opens the save store and resumes (or starts)
// the session in the configured slot.
func openGame(opts *RootOptions) (*GameEnv, error) {
	ds, err := dataset.Load(opts.Data)
	if err != nil {
		return nil, WrapExitError(ExitCommandError,
			fmt.Sprintf("loading dataset %s", opts.Data), err)
	}

	rules := game.DefaultRules()
	reducer := game.NewReducer(rules, dataset.BuildFields(ds.Fields, ds.Coordinates, rules))

	store := save.Acquire(opts.Save)
	sess := session.New(reducer, session.Options{
		Slot:  opts.Slot,
		Store: store,
	})
	return &GameEnv{Session: sess, Store: store, Rules: rules}, nil
}

// formatter builds the output formatter for a command invocation.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// rejectionError converts a reducer rejection into an ExitError carrying
// the rule error's code, so scripted callers can distinguish gameplay
// rejections (exit 1) from command errors (exit 2).
func rejectionError(err error) error {
	var ruleErr *game.RuleError
	if errors.As(err, &ruleErr) {
		return WrapExitError(ExitFailure, string(ruleErr.Code), err)
	}
	return WrapExitError(ExitFailure, "action rejected", err)
}
