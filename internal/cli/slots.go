package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phaseoutvillage/phaseout/internal/save"
)

// NewSlotsCommand creates the slots command.
func NewSlotsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List save slots",
		Long: `List every slot in the save database, most recently played first.

Examples:
  phaseout slots
  phaseout slots --save other.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSlots(rootOpts, cmd)
		},
	}
}

func runSlots(opts *RootOptions, cmd *cobra.Command) error {
	store := save.Acquire(opts.Save)
	defer store.Close()

	slots, err := store.List(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "listing save slots", err)
	}

	if opts.Format == "json" {
		if slots == nil {
			slots = []save.SlotInfo{}
		}
		return formatter(opts, cmd).Success(slots)
	}

	if len(slots) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saves yet.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tREVISION\tUPDATED")
	for _, s := range slots {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Slot, s.Revision, s.UpdatedAt)
	}
	return tw.Flush()
}
