package game

// Achievement ids. The set on GameState holds these strings; evaluation is
// idempotent, so crossing a threshold twice never duplicates an entry.
const (
	AchFirstShutdown   = "first_shutdown"
	AchScore100        = "score_100"
	AchScore500        = "score_500"
	AchClimateGuardian = "climate_guardian"
	AchTechPioneer     = "tech_pioneer"
	AchTechLeader      = "tech_leader"
	AchEmissionSaver   = "emission_saver"
	AchBudgetMaster    = "budget_master"
)

// Achievement thresholds.
const (
	guardianTemperature = 1.5
	pioneerInvestment   = 100.0
	leaderTechRank      = 80.0
	saverPreventedMt    = 500.0
	masterBudget        = 1000.0
)

// evaluateAchievements appends every newly earned achievement id to the
// state's set. Called by the reducer after any transition that can move a
// threshold input.
func evaluateAchievements(s *GameState) {
	award := func(id string, earned bool) {
		if earned && !s.HasAchievement(id) {
			s.Achievements = append(s.Achievements, id)
		}
	}

	shutdowns := len(s.Shutdowns)

	award(AchFirstShutdown, shutdowns >= 1)
	award(AchScore100, s.Score >= 100)
	award(AchScore500, s.Score >= 500)
	award(AchClimateGuardian, s.GlobalTemperature < guardianTemperature)
	award(AchTechPioneer, techInvestments(s.Investments) >= pioneerInvestment)
	award(AchTechLeader, s.TechRank >= leaderTechRank)
	award(AchEmissionSaver, PreventedEmissionsMt(s.Fields) >= saverPreventedMt)
	award(AchBudgetMaster, shutdowns >= 1 && s.Budget >= masterBudget)
}

// techInvestments sums cumulative spend on the domestic technology
// channels (everything except foreign cloud).
func techInvestments(investments map[InvestmentType]float64) float64 {
	var total float64
	for typ, amount := range investments {
		if typ != InvestForeignCloud {
			total += amount
		}
	}
	return total
}
