package game

// Rules holds the tuning constants of the simulation. All handlers read
// their constants from here so tests can shrink thresholds without touching
// formulas.
//
// Two lifetime-emission formulas circulated in early balancing (a flat 49x
// multiplier and a 15-year remaining-lifetime multiplier); the engine uses
// the lifetime-years variant exclusively.
type Rules struct {
	// InitialBudget is the starting budget in budget units (arbitrary
	// million-NOK-ish scale).
	InitialBudget float64

	// InitialYear is the simulation start year.
	InitialYear int

	// InitialTemperature is the starting global temperature offset in
	// degrees C above pre-industrial.
	InitialTemperature float64

	// BaselineTemperature is the floor the temperature can never drop
	// below, regardless of cumulative phase-outs.
	BaselineTemperature float64

	// InitialTechRank and InitialForeignDependency seed the 0-100
	// technology-independence and foreign-cloud-dependency indices.
	InitialTechRank          float64
	InitialForeignDependency float64

	// LifetimeYears is the assumed remaining production lifetime used to
	// estimate a field's Scope-3 combustion emissions.
	LifetimeYears float64

	// PhaseOutCostFloor and PhaseOutCostPerMboe define the floor-clamped
	// linear phase-out cost: max(floor, production * perMboe).
	PhaseOutCostFloor   float64
	PhaseOutCostPerMboe float64

	// RevenuePerMboe converts yearly production to yearly revenue.
	RevenuePerMboe float64

	// WorkersPerMboe estimates direct workforce from production.
	WorkersPerMboe float64

	// HistoryYears is how many yearly emission values a field summary
	// keeps (fewer if the dataset has less).
	HistoryYears int
}

// DefaultRules returns the shipped game balance.
func DefaultRules() Rules {
	return Rules{
		InitialBudget:       10000,
		InitialYear:         2025,
		InitialTemperature:  1.5,
		BaselineTemperature: 1.1,

		InitialTechRank:          50,
		InitialForeignDependency: 50,

		LifetimeYears:       15,
		PhaseOutCostFloor:   100,
		PhaseOutCostPerMboe: 10,
		RevenuePerMboe:      30,
		WorkersPerMboe:      200,
		HistoryYears:        5,
	}
}

// Data-layer unlock thresholds (score, exclusive).
const (
	ExpertScore       = 500
	AdvancedScore     = 300
	IntermediateScore = 100
)

// Environmental phase thresholds (degrees C, exclusive) and the
// active-field ratio below which the player has won.
const (
	CrisisTemperature  = 2.5
	DangerTemperature  = 2.0
	WarningTemperature = 1.5
	VictoryActiveRatio = 0.3
)

// TutorialScript is the fixed tutorial text, one entry per step. The
// tutorial is complete once TutorialStep reaches len(TutorialScript).
var TutorialScript = []string{
	"Welcome to Phase Out Village. The map shows every Norwegian oil and gas field.",
	"Each field lists its production, emissions and the cost of phasing it out.",
	"Phase out a field to prevent its remaining lifetime emissions. Watch your budget.",
	"Phasing out lowers the global temperature and raises your score.",
	"Invest in wind, solar, AI research or green tech to build domestic capability.",
	"Foreign cloud spending is cheap but raises your dependency on others.",
	"Reach a low enough active-field share and the village wins. Good luck.",
}
