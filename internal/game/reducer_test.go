package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFields returns a small dataset-shaped field list. Lifetime emissions
// are in kilotons, so Ekofisk's 18000 kt is worth 18 score points and a
// 0.018 degree temperature drop when phased out.
func testFields() []Field {
	return []Field{
		{
			Name:              "Ekofisk",
			Lat:               56.5, Lon: 3.2,
			EmissionsHistory:  []float64{1.2, 1.3, 1.1},
			EmissionIntensity: 9.1,
			Status:            StatusActive,
			Production:        12,
			Workers:           2400,
			PhaseOutCost:      120,
			YearlyRevenue:     360,
			LifetimeEmissions: 18000,
			Potential:         PotentialSolar,
		},
		{
			Name:              "Snøhvit",
			Lat:               71.6, Lon: 21.1,
			EmissionsHistory:  []float64{0.3, 0.3},
			EmissionIntensity: 4.2,
			Status:            StatusActive,
			Production:        4,
			Workers:           800,
			PhaseOutCost:      100,
			YearlyRevenue:     120,
			LifetimeEmissions: 4500,
			Potential:         PotentialWind,
		},
		{
			Name:              "Åsgard",
			Lat:               65.1, Lon: 6.8,
			EmissionsHistory:  []float64{0.8},
			EmissionIntensity: 7.7,
			Status:            StatusActive,
			Production:        8,
			Workers:           1600,
			PhaseOutCost:      100,
			YearlyRevenue:     240,
			LifetimeEmissions: 12000,
			Potential:         PotentialDataCenter,
		},
	}
}

func newTestReducer() *Reducer {
	return NewReducer(DefaultRules(), testFields())
}

func TestNewGame_InitialState(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	assert.Equal(t, DefaultRules().InitialBudget, s.Budget)
	assert.Equal(t, DefaultRules().InitialYear, s.Year)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, ViewMap, s.View)
	assert.Equal(t, LayerBasic, s.DataLayer)
	assert.Equal(t, PhaseNormal, s.Phase.Phase)
	assert.Empty(t, s.Achievements)
	assert.Empty(t, s.Shutdowns)
	for _, f := range s.Fields {
		assert.Equal(t, StatusActive, f.Status)
	}
}

func TestPhaseOut_Success(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	next, err := r.Apply(s, PhaseOutField{Name: "Ekofisk"})
	require.NoError(t, err)

	f := next.FieldByName("Ekofisk")
	require.NotNil(t, f)
	assert.Equal(t, StatusClosed, f.Status)
	assert.Zero(t, f.Production, "closed field must have zero production")

	assert.Equal(t, 10000.0-120, next.Budget)
	assert.Equal(t, 18, next.Score, "one point per Mt of prevented lifetime emissions")
	assert.InDelta(t, 1.5-0.018, next.GlobalTemperature, 1e-9)
	assert.Equal(t, DefaultRules().InitialYear+1, next.Year)
	assert.Equal(t, DefaultRules().InitialYear, next.Shutdowns["Ekofisk"],
		"shutdown recorded at the year of the action")
	assert.Equal(t, 1, next.GoodChoiceStreak)

	require.Len(t, next.ChoiceLog, 1)
	assert.Contains(t, next.ChoiceLog[0].Text, "Ekofisk")
}

func TestPhaseOut_InputStateUntouched(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	_, err := r.Apply(s, PhaseOutField{Name: "Ekofisk"})
	require.NoError(t, err)

	// The reducer works on a clone: the caller's snapshot is unchanged.
	assert.Equal(t, StatusActive, s.FieldByName("Ekofisk").Status)
	assert.Equal(t, 10000.0, s.Budget)
}

func TestPhaseOut_InsufficientFunds(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()
	s.Budget = 50 // below every phase-out cost

	next, err := r.Apply(s, PhaseOutField{Name: "Ekofisk"})
	require.Error(t, err)
	assert.True(t, IsInsufficientFunds(err))
	assert.Equal(t, s, next, "rejected action must be a no-op")
	assert.GreaterOrEqual(t, next.Budget, 0.0)
}

func TestPhaseOut_UnknownField(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	next, err := r.Apply(s, PhaseOutField{Name: "Atlantis"})
	require.Error(t, err)
	assert.True(t, IsUnknownField(err))
	assert.Equal(t, s, next)
}

func TestPhaseOut_AlreadyClosed(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	s, err := r.Apply(s, PhaseOutField{Name: "Snøhvit"})
	require.NoError(t, err)

	next, err := r.Apply(s, PhaseOutField{Name: "Snøhvit"})
	require.Error(t, err)
	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeFieldNotActive, re.Code)
	assert.Equal(t, s, next)
}

func TestPhaseOut_NormalizedNameLookup(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	// Decomposed "Å" (A + combining ring) must resolve to the composed key.
	next, err := r.Apply(s, PhaseOutField{Name: "Åsgard"})
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, next.FieldByName("Åsgard").Status)
}

func TestPhaseOut_TemperatureFlooredAtBaseline(t *testing.T) {
	fields := testFields()
	fields[0].LifetimeEmissions = 5e6 // absurd, would cool 5 degrees

	r := NewReducer(DefaultRules(), fields)
	s := r.NewGame()

	next, err := r.Apply(s, PhaseOutField{Name: "Ekofisk"})
	require.NoError(t, err)
	assert.Equal(t, 1.1, next.GlobalTemperature,
		"temperature never drops below the baseline")
}

func TestPhaseOut_DecaysBadChoiceCount(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()
	s.BadChoiceCount = 2

	next, err := r.Apply(s, PhaseOutField{Name: "Ekofisk"})
	require.NoError(t, err)
	assert.Equal(t, 1, next.BadChoiceCount)
}

func TestInvest_ForeignCloudIsTheBadChoice(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()
	s.GoodChoiceStreak = 3

	next, err := r.Apply(s, MakeInvestment{Type: InvestForeignCloud, Amount: 100})
	require.NoError(t, err)

	assert.Equal(t, 0, next.GoodChoiceStreak, "streak resets on foreign cloud")
	assert.Equal(t, 1, next.BadChoiceCount)
	assert.Equal(t, 60.0, next.ForeignDependency, "50 + 100/10")
	assert.Equal(t, 45.0, next.TechRank, "50 - 100/20")
	assert.Equal(t, 9900.0, next.Budget)
	assert.Equal(t, 100.0, next.Investments[InvestForeignCloud])
}

func TestInvest_GoodChoices(t *testing.T) {
	tests := []struct {
		name     string
		typ      InvestmentType
		amount   float64
		wantRank float64
	}{
		{"solar", InvestSolar, 100, 60},           // 50 + 100/10
		{"wind", InvestWind, 50, 55},              // 50 + 50/10
		{"ai research weighted", InvestAIResearch, 100, 70}, // 50 + 100/5
		{"green tech", InvestGreenTech, 200, 70},  // 50 + 200/10
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReducer()
			s := r.NewGame()
			s.BadChoiceCount = 1

			next, err := r.Apply(s, MakeInvestment{Type: tt.typ, Amount: tt.amount})
			require.NoError(t, err)

			assert.Equal(t, tt.wantRank, next.TechRank)
			assert.Equal(t, 50-tt.amount/10, next.ForeignDependency)
			assert.Equal(t, 1, next.GoodChoiceStreak)
			assert.Equal(t, 1, next.BadChoiceCount,
				"good investments leave the bad-choice count alone")
			assert.Equal(t, 10000-tt.amount, next.Budget)
		})
	}
}

func TestInvest_ForeignDependencyFlooredAtZero(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()
	s.ForeignDependency = 5

	next, err := r.Apply(s, MakeInvestment{Type: InvestSolar, Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, 0.0, next.ForeignDependency)
}

func TestInvest_Rejections(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	_, err := r.Apply(s, MakeInvestment{Type: InvestSolar, Amount: 20000})
	assert.True(t, IsInsufficientFunds(err))

	_, err = r.Apply(s, MakeInvestment{Type: "crypto", Amount: 10})
	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidArgument, re.Code)

	_, err = r.Apply(s, MakeInvestment{Type: InvestSolar, Amount: -5})
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidArgument, re.Code)
}

func TestTutorial_AdvanceAndSkip(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	s = r.Reduce(s, AdvanceTutorial{})
	assert.Equal(t, 1, s.TutorialStep)
	assert.False(t, TutorialDone(s))

	s = r.Reduce(s, SkipTutorial{})
	assert.Equal(t, len(TutorialScript), s.TutorialStep)
	assert.True(t, TutorialDone(s))

	// Advancing past the end is clamped.
	s = r.Reduce(s, AdvanceTutorial{})
	assert.Equal(t, len(TutorialScript), s.TutorialStep)
}

func TestSetView(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	next, err := r.Apply(s, SetView{View: ViewDashboard})
	require.NoError(t, err)
	assert.Equal(t, ViewDashboard, next.View)

	_, err = r.Apply(s, SetView{View: "globe"})
	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidArgument, re.Code)
}

func TestRestart_DiscardsAllProgress(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	s = r.Reduce(s, PhaseOutField{Name: "Ekofisk"})
	s = r.Reduce(s, MakeInvestment{Type: InvestWind, Amount: 500})
	require.NotEqual(t, DefaultRules().InitialBudget, s.Budget)

	fresh := r.Reduce(s, Restart{})
	assert.Equal(t, DefaultRules().InitialBudget, fresh.Budget)
	assert.Equal(t, DefaultRules().InitialYear, fresh.Year)
	assert.Empty(t, fresh.Shutdowns)
	assert.Empty(t, fresh.ChoiceLog)
	for _, f := range fresh.Fields {
		assert.Equal(t, StatusActive, f.Status)
	}
}

func TestSelection_PhaseOutSelected(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	s = r.Reduce(s, SelectField{Name: "Ekofisk"})
	s = r.Reduce(s, SelectField{Name: "Snøhvit"})
	s = r.Reduce(s, SelectField{Name: "Ekofisk"}) // idempotent
	require.Equal(t, []string{"Ekofisk", "Snøhvit"}, s.Selected)

	s = r.Reduce(s, DeselectField{Name: "Snøhvit"})
	s = r.Reduce(s, SelectField{Name: "Åsgard"})

	next := r.Reduce(s, PhaseOutSelected{})
	assert.Nil(t, next.Selected, "buffer cleared after the sweep")
	assert.Equal(t, StatusClosed, next.FieldByName("Ekofisk").Status)
	assert.Equal(t, StatusClosed, next.FieldByName("Åsgard").Status)
	assert.Equal(t, StatusActive, next.FieldByName("Snøhvit").Status)
	assert.Len(t, next.Shutdowns, 2)
}

func TestSelection_SweepSkipsUnaffordable(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()
	s = r.Reduce(s, SelectField{Name: "Ekofisk"})
	s = r.Reduce(s, SelectField{Name: "Åsgard"})
	s.Budget = 130 // enough for Ekofisk (120), not for Åsgard afterwards

	next := r.Reduce(s, PhaseOutSelected{})
	assert.Equal(t, StatusClosed, next.FieldByName("Ekofisk").Status)
	assert.Equal(t, StatusActive, next.FieldByName("Åsgard").Status)
	assert.Equal(t, 10.0, next.Budget)
}

func TestAddAchievement_Idempotent(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	s = r.Reduce(s, AddAchievement{ID: "hand_of_the_king"})
	require.Contains(t, s.Achievements, "hand_of_the_king")
	n := len(s.Achievements)

	s = r.Reduce(s, AddAchievement{ID: "hand_of_the_king"})
	assert.Len(t, s.Achievements, n, "re-adding must not duplicate")
}

func TestSetModal(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	s = r.Reduce(s, SetModal{Name: "help", Visible: true})
	assert.True(t, s.Modals["help"])
	s = r.Reduce(s, SetModal{Name: "help", Visible: false})
	assert.False(t, s.Modals["help"])
}

func TestEvents_TriggerAndResolve(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	ev := GameEvent{
		ID:    "storm",
		Title: "North Sea storm",
		Text:  "A storm damages platform infrastructure.",
		Options: []EventOption{
			{Label: "Pay for repairs", BudgetDelta: -500, Good: true},
			{Label: "Defer maintenance", TemperatureDelta: 0.05, ScoreDelta: -5},
		},
	}

	s, err := r.Apply(s, TriggerEvent{Event: ev})
	require.NoError(t, err)
	require.NotNil(t, s.PendingEvent)

	// A second event cannot stack.
	_, err = r.Apply(s, TriggerEvent{Event: ev})
	require.Error(t, err)

	next, err := r.Apply(s, ResolveEvent{Option: 0})
	require.NoError(t, err)
	assert.Nil(t, next.PendingEvent)
	assert.Equal(t, 9500.0, next.Budget)
	assert.Equal(t, 1, next.GoodChoiceStreak)
	require.Len(t, next.ChoiceLog, 1)
	assert.Contains(t, next.ChoiceLog[0].Text, "North Sea storm")
}

func TestEvents_Rejections(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	_, err := r.Apply(s, ResolveEvent{Option: 0})
	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeNoPendingEvent, re.Code)

	ev := GameEvent{ID: "tax", Title: "Windfall tax", Options: []EventOption{
		{Label: "Pay up", BudgetDelta: -20000},
	}}
	s, err = r.Apply(s, TriggerEvent{Event: ev})
	require.NoError(t, err)

	_, err = r.Apply(s, ResolveEvent{Option: 5})
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidArgument, re.Code)

	// Option would take the budget negative: rejected at the boundary.
	_, err = r.Apply(s, ResolveEvent{Option: 0})
	assert.True(t, IsInsufficientFunds(err))
}

type bogusAction struct{}

func (bogusAction) ActionName() string { return "bogus" }

func TestUnknownAction_IsNoOp(t *testing.T) {
	r := newTestReducer()
	s := r.NewGame()

	next, err := r.Apply(s, bogusAction{})
	var re *RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeUnknownAction, re.Code)
	assert.Equal(t, s, next)

	// Reduce swallows the rejection entirely.
	assert.Equal(t, s, r.Reduce(s, bogusAction{}))
}

func TestChoiceLog_SequenceIsDeterministic(t *testing.T) {
	r := newTestReducer()

	play := func() GameState {
		s := r.NewGame()
		s = r.Reduce(s, PhaseOutField{Name: "Snøhvit"})
		s = r.Reduce(s, MakeInvestment{Type: InvestWind, Amount: 100})
		s = r.Reduce(s, PhaseOutField{Name: "Ekofisk"})
		return s
	}

	a, b := play(), play()
	require.Equal(t, a.ChoiceLog, b.ChoiceLog)
	for i, entry := range a.ChoiceLog {
		assert.Equal(t, int64(i), entry.Seq)
	}
}
