package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phaseoutvillage/phaseout/internal/game"
)

// StatusData is the JSON payload of the status command.
type StatusData struct {
	Slot                string         `json:"slot"`
	Token               string         `json:"token"`
	Budget              float64        `json:"budget"`
	Score               int            `json:"score"`
	Year                int            `json:"year"`
	GlobalTemperature   float64        `json:"globalTemperature"`
	TechRank            float64        `json:"techRank"`
	ForeignDependency   float64        `json:"foreignDependency"`
	ClimateDamage       float64        `json:"climateDamage"`
	SustainabilityScore float64        `json:"sustainabilityScore"`
	DataLayer           game.DataLayer `json:"dataLayer"`
	Phase               game.EnvPhase  `json:"environmentalPhase"`
	ActiveFields        int            `json:"activeFields"`
	TotalFields         int            `json:"totalFields"`
	PreventedMt         float64        `json:"preventedEmissionsMt"`
	Achievements        []string       `json:"achievements"`
	Tutorial            string         `json:"tutorial,omitempty"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current game state",
		Long: `Show the save slot's current budget, score, climate metrics and
environmental phase.

Examples:
  phaseout status
  phaseout status --slot campaign --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}
}

func runStatus(opts *RootOptions, cmd *cobra.Command) error {
	env, err := openGame(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	state := env.Session.State()
	totals := game.ActiveTotals(state.Fields)

	data := StatusData{
		Slot:                opts.Slot,
		Token:               env.Session.Token(),
		Budget:              state.Budget,
		Score:               state.Score,
		Year:                state.Year,
		GlobalTemperature:   state.GlobalTemperature,
		TechRank:            state.TechRank,
		ForeignDependency:   state.ForeignDependency,
		ClimateDamage:       state.ClimateDamage,
		SustainabilityScore: state.SustainabilityScore,
		DataLayer:           state.DataLayer,
		Phase:               state.Phase,
		ActiveFields:        totals.ActiveFields,
		TotalFields:         totals.TotalFields,
		PreventedMt:         game.PreventedEmissionsMt(state.Fields),
		Achievements:        state.Achievements,
	}
	if !game.TutorialDone(state) {
		data.Tutorial = game.TutorialScript[state.TutorialStep]
	}

	if opts.Format == "json" {
		return formatter(opts, cmd).Success(data)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Year %d  |  budget %.0f  |  score %d\n", data.Year, data.Budget, data.Score)
	fmt.Fprintf(w, "Temperature: +%.4f C (%s)\n", data.GlobalTemperature, data.Phase.Phase)
	fmt.Fprintf(w, "  %s\n", data.Phase.Message)
	fmt.Fprintf(w, "Tech rank %.0f, foreign dependency %.0f\n", data.TechRank, data.ForeignDependency)
	fmt.Fprintf(w, "Climate damage %.2f, sustainability %.2f, data layer %s\n",
		data.ClimateDamage, data.SustainabilityScore, data.DataLayer)
	fmt.Fprintf(w, "Fields: %d of %d active, %.1f Mt CO2 prevented\n",
		data.ActiveFields, data.TotalFields, data.PreventedMt)
	if len(data.Achievements) > 0 {
		fmt.Fprintf(w, "Achievements: %s\n", strings.Join(data.Achievements, ", "))
	}
	if data.Tutorial != "" {
		fmt.Fprintf(w, "Tutorial: %s\n", data.Tutorial)
	}
	return nil
}
