package game

import "math"

// Derived metrics are pure functions of the canonical field collection and
// the climate indices. The reducer stores the results of some of them on
// the state (Phase, DataLayer, ClimateDamage, SustainabilityScore) purely
// as a convenience snapshot for the presentation layer; it recomputes them
// on every transition so the stored values can never go stale.

// Totals is the aggregate over currently active fields.
type Totals struct {
	// EmissionsMt is the sum of latest-year emissions, Mt CO2.
	EmissionsMt float64
	// Production is the sum of latest-year production, million boe.
	Production float64
	// ActiveFields and TotalFields give the active ratio.
	ActiveFields int
	TotalFields  int
}

// ActiveTotals sums current-year emission and production over fields with
// status active. Computed on demand, never cached.
func ActiveTotals(fields []Field) Totals {
	t := Totals{TotalFields: len(fields)}
	for i := range fields {
		f := &fields[i]
		if f.Status != StatusActive {
			continue
		}
		t.ActiveFields++
		t.Production += f.Production
		if len(f.EmissionsHistory) > 0 {
			t.EmissionsMt += f.EmissionsHistory[0]
		}
	}
	return t
}

// PreventedEmissionsMt sums the lifetime combustion emissions of every
// non-active field, converted from kilotons to megatons.
func PreventedEmissionsMt(fields []Field) float64 {
	var kt float64
	for i := range fields {
		if fields[i].Status != StatusActive {
			kt += fields[i].LifetimeEmissions
		}
	}
	return kt / 1000
}

// EnvPhaseOf classifies the environmental phase with a fixed priority
// ladder evaluated top-down on global temperature, falling back to the
// active-field ratio, else normal.
func EnvPhaseOf(temperature float64, fields []Field) EnvPhase {
	switch {
	case temperature > CrisisTemperature:
		return EnvPhase{Phase: PhaseCrisis, Saturation: 20,
			Message: "Climate crisis. Extreme weather is the new normal."}
	case temperature > DangerTemperature:
		return EnvPhase{Phase: PhaseDanger, Saturation: 40,
			Message: "Dangerous warming. Ecosystems are failing."}
	case temperature > WarningTemperature:
		return EnvPhase{Phase: PhaseWarning, Saturation: 70,
			Message: "Warming past safe limits. Act now."}
	}

	t := ActiveTotals(fields)
	if t.TotalFields > 0 && float64(t.ActiveFields)/float64(t.TotalFields) < VictoryActiveRatio {
		return EnvPhase{Phase: PhaseVictory, Saturation: 100,
			Message: "The village has phased out its oil age. You did it."}
	}
	return EnvPhase{Phase: PhaseNormal, Saturation: 85,
		Message: "The climate holds, for now."}
}

// DataLayerForScore maps the score to the unlocked data-layer tier.
func DataLayerForScore(score int) DataLayer {
	switch {
	case score > ExpertScore:
		return LayerExpert
	case score > AdvancedScore:
		return LayerAdvanced
	case score > IntermediateScore:
		return LayerIntermediate
	default:
		return LayerBasic
	}
}

// ClimateDamageOf converts the temperature overshoot above baseline to
// damage cost units.
func ClimateDamageOf(temperature, baseline float64) float64 {
	return (temperature - baseline) * 100
}

// SustainabilityOf converts the temperature overshoot above baseline to a
// 0-100 sustainability score.
func SustainabilityOf(temperature, baseline float64) float64 {
	return math.Max(0, 100-(temperature-baseline)*50)
}

// RefreshDerived recomputes every stored derived snapshot value (data
// layer, climate damage, sustainability, environmental phase) and
// re-evaluates achievements. The reducer calls this after each successful
// transition; the persistence reconciler calls it after merging a save.
func RefreshDerived(s *GameState, rules Rules) {
	s.DataLayer = DataLayerForScore(s.Score)
	s.ClimateDamage = ClimateDamageOf(s.GlobalTemperature, rules.BaselineTemperature)
	s.SustainabilityScore = SustainabilityScoreOf(s.GlobalTemperature,
		rules.BaselineTemperature, s.Investments)
	s.Phase = EnvPhaseOf(s.GlobalTemperature, s.Fields)
	evaluateAchievements(s)
}

// SustainabilityScoreOf is the full sustainability derivation: the
// temperature component plus the cumulative investment adjustment (good
// channels add, foreign cloud subtracts), clamped to [0, 100].
//
// Deriving the investment component from the Investments map instead of
// accumulating it on the state keeps the score consistent with its inputs
// under reconciliation of partial saves.
func SustainabilityScoreOf(temperature, baseline float64, investments map[InvestmentType]float64) float64 {
	score := SustainabilityOf(temperature, baseline)
	for typ, amount := range investments {
		if typ == InvestForeignCloud {
			score -= amount / 20
		} else {
			score += amount / 20
		}
	}
	return math.Min(100, math.Max(0, score))
}
