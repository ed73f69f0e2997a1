package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phaseoutvillage/phaseout/internal/game"
)

// NewInvestCommand creates the invest command.
func NewInvestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "invest <type> <amount>",
		Short: "Invest budget in a technology channel",
		Long: `Spend budget on one of the investment channels: solar, wind,
ai_research, green_tech or foreign_cloud.

Domestic channels raise the tech rank and lower foreign dependency;
foreign_cloud does the opposite and counts as a bad choice.

Examples:
  phaseout invest wind 250
  phaseout invest ai_research 500`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvest(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runInvest(opts *RootOptions, typ, amountArg string, cmd *cobra.Command) error {
	amount, err := strconv.ParseFloat(amountArg, 64)
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid amount %q", amountArg))
	}

	env, err := openGame(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.Session.Dispatch(game.MakeInvestment{
		Type:   game.InvestmentType(typ),
		Amount: amount,
	}); err != nil {
		return rejectionError(err)
	}

	state := env.Session.State()
	if opts.Format == "json" {
		return formatter(opts, cmd).Success(map[string]any{
			"budget":            state.Budget,
			"techRank":          state.TechRank,
			"foreignDependency": state.ForeignDependency,
			"investments":       state.Investments,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"Invested %.0f in %s. Budget %.0f, tech rank %.0f, foreign dependency %.0f\n",
		amount, typ, state.Budget, state.TechRank, state.ForeignDependency)
	return nil
}
