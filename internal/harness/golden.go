package harness

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/phaseoutvillage/phaseout/internal/game"
)

// StateSnapshot is the curated final-state summary compared against golden
// files. It carries the gameplay-relevant scalars plus per-field status, not
// the raw serialized state, so golden files stay small and reviewable.
type StateSnapshot struct {
	ScenarioName string `json:"scenario_name"`

	Budget            float64 `json:"budget"`
	Score             int     `json:"score"`
	Year              int     `json:"year"`
	GlobalTemperature float64 `json:"global_temperature"`
	TechRank          float64 `json:"tech_rank"`
	ForeignDependency float64 `json:"foreign_dependency"`

	ClimateDamage       float64 `json:"climate_damage"`
	SustainabilityScore float64 `json:"sustainability_score"`

	DataLayer game.DataLayer `json:"data_layer"`
	Phase     game.EnvPhase  `json:"environmental_phase"`

	GoodChoiceStreak int `json:"good_choice_streak"`
	BadChoiceCount   int `json:"bad_choice_count"`

	FieldStatuses map[string]game.FieldStatus `json:"field_statuses"`
	Shutdowns     map[string]int              `json:"shutdowns"`
	Achievements  []string                    `json:"achievements"`
	ChoiceLog     []game.ChoiceEntry          `json:"choice_log"`
}

func snapshotOf(sc *Scenario, final game.GameState) StateSnapshot {
	statuses := make(map[string]game.FieldStatus, len(final.Fields))
	for _, f := range final.Fields {
		statuses[f.Name] = f.Status
	}
	snap := StateSnapshot{
		ScenarioName:        sc.Name,
		Budget:              round6(final.Budget),
		Score:               final.Score,
		Year:                final.Year,
		GlobalTemperature:   round6(final.GlobalTemperature),
		TechRank:            round6(final.TechRank),
		ForeignDependency:   round6(final.ForeignDependency),
		ClimateDamage:       round6(final.ClimateDamage),
		SustainabilityScore: round6(final.SustainabilityScore),
		DataLayer:           final.DataLayer,
		Phase:               final.Phase,
		GoodChoiceStreak:    final.GoodChoiceStreak,
		BadChoiceCount:      final.BadChoiceCount,
		FieldStatuses:       statuses,
		Shutdowns:           final.Shutdowns,
		Achievements:        final.Achievements,
		ChoiceLog:           final.ChoiceLog,
	}
	if snap.Achievements == nil {
		snap.Achievements = []string{}
	}
	if snap.ChoiceLog == nil {
		snap.ChoiceLog = []game.ChoiceEntry{}
	}
	if snap.Shutdowns == nil {
		snap.Shutdowns = map[string]int{}
	}
	return snap
}

// round6 rounds to micro precision so the derived float chains serialize
// as the clean decimals the golden files are written with.
func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}

// RunWithGolden executes a scenario and compares the final-state summary
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) error {
	t.Helper()

	result, err := Run(sc)
	if err != nil {
		return err
	}

	snap := snapshotOf(sc, result.Final)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, data)
	return nil
}
