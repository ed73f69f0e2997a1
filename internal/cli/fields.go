package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phaseoutvillage/phaseout/internal/game"
)

// FieldsOptions holds flags for the fields command.
type FieldsOptions struct {
	*RootOptions
	ActiveOnly bool
}

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FieldsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the oil and gas fields",
		Long: `List every field with its status, production, phase-out cost and
transition potential.

Examples:
  phaseout fields
  phaseout fields --active
  phaseout fields --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.ActiveOnly, "active", false, "show only active fields")

	return cmd
}

func runFields(opts *FieldsOptions, cmd *cobra.Command) error {
	env, err := openGame(opts.RootOptions)
	if err != nil {
		return err
	}
	defer env.Close()

	state := env.Session.State()
	fields := state.Fields
	if opts.ActiveOnly {
		filtered := make([]game.Field, 0, len(fields))
		for _, f := range fields {
			if f.Status == game.StatusActive {
				filtered = append(filtered, f)
			}
		}
		fields = filtered
	}

	if opts.Format == "json" {
		return formatter(opts.RootOptions, cmd).Success(fields)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tSTATUS\tPRODUCTION\tEMISSION\tCOST\tPOTENTIAL")
	for _, f := range fields {
		latest := 0.0
		if len(f.EmissionsHistory) > 0 {
			latest = f.EmissionsHistory[0]
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.2f Mt\t%.0f\t%s\n",
			f.Name, f.Status, f.Production, latest, f.PhaseOutCost, f.Potential)
	}
	return tw.Flush()
}
