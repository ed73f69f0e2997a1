package game

// FieldStatus is the lifecycle state of an extraction field.
// Transitions are one-way: active fields can be closed or put into
// transition, and both of those are terminal.
type FieldStatus string

const (
	StatusActive        FieldStatus = "active"
	StatusClosed        FieldStatus = "closed"
	StatusTransitioning FieldStatus = "transitioning"
)

// ValidStatuses defines the allowed field status values.
var ValidStatuses = map[FieldStatus]bool{
	StatusActive:        true,
	StatusClosed:        true,
	StatusTransitioning: true,
}

// TransitionPotential classifies what a phased-out field site is best
// repurposed into. Assigned once from latitude/production heuristics at
// dataset load time and never changed afterwards.
type TransitionPotential string

const (
	PotentialWind        TransitionPotential = "wind"
	PotentialSolar       TransitionPotential = "solar"
	PotentialDataCenter  TransitionPotential = "data_center"
	PotentialResearchHub TransitionPotential = "research_hub"
)

// InvestmentType identifies an investment channel. ForeignCloud is the
// single flagged bad choice; every other type counts as a good choice.
type InvestmentType string

const (
	InvestSolar        InvestmentType = "solar"
	InvestWind         InvestmentType = "wind"
	InvestAIResearch   InvestmentType = "ai_research"
	InvestGreenTech    InvestmentType = "green_tech"
	InvestForeignCloud InvestmentType = "foreign_cloud"
)

// ValidInvestments defines the allowed investment types.
var ValidInvestments = map[InvestmentType]bool{
	InvestSolar:        true,
	InvestWind:         true,
	InvestAIResearch:   true,
	InvestGreenTech:    true,
	InvestForeignCloud: true,
}

// ViewMode selects which top-level view the presentation layer renders.
type ViewMode string

const (
	ViewMap       ViewMode = "map"
	ViewDashboard ViewMode = "dashboard"
	ViewCharts    ViewMode = "charts"
)

// ValidViews defines the allowed view modes.
var ValidViews = map[ViewMode]bool{
	ViewMap:       true,
	ViewDashboard: true,
	ViewCharts:    true,
}

// DataLayer is the tiered unlock level controlling how much derived
// statistical detail is shown to the player. Unlocked by score.
type DataLayer string

const (
	LayerBasic        DataLayer = "basic"
	LayerIntermediate DataLayer = "intermediate"
	LayerAdvanced     DataLayer = "advanced"
	LayerExpert       DataLayer = "expert"
)

// ValidLayers defines the allowed data layers.
var ValidLayers = map[DataLayer]bool{
	LayerBasic:        true,
	LayerIntermediate: true,
	LayerAdvanced:     true,
	LayerExpert:       true,
}

// Field is a single oil/gas extraction site tracked by the simulation.
//
// Emission bookkeeping uses two units: EmissionsHistory is in megatons CO2
// per year (display scale), LifetimeEmissions is in kilotons CO2 (scoring
// scale). The scoring formulas in the reducer divide by 1000 or 1e6 exactly
// as documented on each handler.
type Field struct {
	// Name is the unique key, NFC-normalized (Norwegian field names carry
	// composed characters: Åsgard, Snøhvit).
	Name string `json:"name"`

	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// EmissionsHistory holds up to five yearly values in Mt CO2,
	// most recent year first.
	EmissionsHistory []float64 `json:"emissionsHistory"`

	// EmissionIntensity is kg CO2 per boe produced, from the latest
	// dataset year.
	EmissionIntensity float64 `json:"emissionIntensity"`

	Status FieldStatus `json:"status"`

	// Production is latest-year oil+gas output in million boe.
	// Zero whenever Status != active.
	Production float64 `json:"production"`

	// Workers is the estimated direct workforce.
	Workers int `json:"workers"`

	// PhaseOutCost is what the player pays to close the field,
	// in budget units.
	PhaseOutCost float64 `json:"phaseOutCost"`

	// YearlyRevenue is the field's contribution per year while active,
	// in budget units.
	YearlyRevenue float64 `json:"yearlyRevenue"`

	// LifetimeEmissions is the estimated remaining Scope-3 combustion
	// emissions in kilotons CO2: latest yearly emission times the assumed
	// remaining field lifetime.
	LifetimeEmissions float64 `json:"lifetimeEmissions"`

	Potential TransitionPotential `json:"potential"`
}

// ChoiceEntry is one human-readable line in the session's choice history.
// Seq is assigned from the state's own monotonic log counter so replays of
// the same action sequence produce an identical log.
type ChoiceEntry struct {
	Seq  int64  `json:"seq"`
	Year int    `json:"year"`
	Text string `json:"text"`
}

// EventOption is one selectable outcome of a pending game event.
type EventOption struct {
	Label            string  `json:"label"`
	BudgetDelta      float64 `json:"budgetDelta"`
	TemperatureDelta float64 `json:"temperatureDelta"`
	ScoreDelta       int     `json:"scoreDelta"`
	// Good marks whether choosing this option counts toward the
	// good-choice streak or the bad-choice count.
	Good bool `json:"good"`
}

// GameEvent is a pending narrative event awaiting player resolution.
// At most one event is pending at a time.
type GameEvent struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Text    string        `json:"text"`
	Options []EventOption `json:"options"`
}

// PhaseName is the coarse environmental classification.
type PhaseName string

const (
	PhaseNormal  PhaseName = "normal"
	PhaseWarning PhaseName = "warning"
	PhaseDanger  PhaseName = "danger"
	PhaseCrisis  PhaseName = "crisis"
	PhaseVictory PhaseName = "victory"
)

// EnvPhase is the derived environmental classification snapshot.
// Saturation drives a purely presentational color-desaturation effect.
type EnvPhase struct {
	Phase      PhaseName `json:"phase"`
	Saturation int       `json:"saturation"`
	Message    string    `json:"message"`
}

// GameState is the complete serializable simulation snapshot.
//
// Created once per session (fresh or reconciled from storage), mutated only
// via reducer actions, persisted after every mutation by the session host.
type GameState struct {
	Fields []Field `json:"gameFields"`

	Budget float64 `json:"budget"`
	Score  int     `json:"score"`
	Year   int     `json:"currentYear"`

	View ViewMode `json:"viewMode"`

	// Investments is cumulative spend per investment type.
	Investments map[InvestmentType]float64 `json:"investments"`

	// GlobalTemperature is degrees C above pre-industrial. Never drops
	// below BaselineTemperature.
	GlobalTemperature float64 `json:"globalTemperature"`

	// TechRank and ForeignDependency are 0-100 indices.
	TechRank          float64 `json:"techRank"`
	ForeignDependency float64 `json:"foreignDependency"`

	// ClimateDamage and SustainabilityScore are recomputed from
	// GlobalTemperature on every transition.
	ClimateDamage       float64 `json:"climateDamage"`
	SustainabilityScore float64 `json:"sustainabilityScore"`

	// Achievements holds unlocked achievement ids, no duplicates,
	// in unlock order.
	Achievements []string `json:"achievements"`

	TutorialStep int `json:"tutorialStep"`

	ChoiceLog []ChoiceEntry `json:"choiceLog"`

	// logSeq is the next sequence number for ChoiceLog entries. Kept in
	// the state (not the session) so the reducer stays pure and replays
	// are deterministic.
	LogSeq int64 `json:"logSeq"`

	// Selected is the multi-phase-out selection buffer (field names).
	Selected []string `json:"selectedFields"`

	// Modals tracks presentation-layer modal visibility flags.
	Modals map[string]bool `json:"modals"`

	// Shutdowns maps field name to the year it was phased out.
	// Append-only, at most one entry per field.
	Shutdowns map[string]int `json:"shutdowns"`

	GoodChoiceStreak int `json:"goodChoiceStreak"`
	BadChoiceCount   int `json:"badChoiceCount"`

	DataLayer DataLayer `json:"dataLayer"`

	Phase EnvPhase `json:"environmentalPhase"`

	PendingEvent *GameEvent `json:"pendingEvent,omitempty"`
}

// Clone returns a deep copy of the state. Reducer handlers mutate a clone
// so the caller's snapshot is never aliased.
func (s GameState) Clone() GameState {
	out := s

	out.Fields = make([]Field, len(s.Fields))
	copy(out.Fields, s.Fields)
	for i := range out.Fields {
		if s.Fields[i].EmissionsHistory != nil {
			out.Fields[i].EmissionsHistory = append([]float64(nil), s.Fields[i].EmissionsHistory...)
		}
	}

	if s.Investments != nil {
		out.Investments = make(map[InvestmentType]float64, len(s.Investments))
		for k, v := range s.Investments {
			out.Investments[k] = v
		}
	}
	if s.Achievements != nil {
		out.Achievements = append([]string(nil), s.Achievements...)
	}
	if s.ChoiceLog != nil {
		out.ChoiceLog = append([]ChoiceEntry(nil), s.ChoiceLog...)
	}
	if s.Selected != nil {
		out.Selected = append([]string(nil), s.Selected...)
	}
	if s.Modals != nil {
		out.Modals = make(map[string]bool, len(s.Modals))
		for k, v := range s.Modals {
			out.Modals[k] = v
		}
	}
	if s.Shutdowns != nil {
		out.Shutdowns = make(map[string]int, len(s.Shutdowns))
		for k, v := range s.Shutdowns {
			out.Shutdowns[k] = v
		}
	}
	if s.PendingEvent != nil {
		ev := *s.PendingEvent
		ev.Options = append([]EventOption(nil), s.PendingEvent.Options...)
		out.PendingEvent = &ev
	}

	return out
}

// FieldByName returns a pointer into s.Fields for the NFC-normalized name,
// or nil if absent.
func (s *GameState) FieldByName(name string) *Field {
	key := NormalizeName(name)
	for i := range s.Fields {
		if s.Fields[i].Name == key {
			return &s.Fields[i]
		}
	}
	return nil
}

// HasAchievement reports whether the achievement id is already unlocked.
func (s *GameState) HasAchievement(id string) bool {
	for _, a := range s.Achievements {
		if a == id {
			return true
		}
	}
	return false
}
