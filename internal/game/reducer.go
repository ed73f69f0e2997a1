package game

import (
	"fmt"
	"math"
)

// Reducer applies actions to GameState values. It is stateless apart from
// the rules and the pristine dataset-derived field list used by Restart.
//
// Apply is a pure total function: it never mutates its input, never
// panics, and either returns the fully transitioned state or the input
// state unchanged together with a *RuleError explaining the rejection.
type Reducer struct {
	rules   Rules
	initial []Field
}

// NewReducer creates a reducer over the given rules and freshly loaded
// dataset fields. The field slice is deep-copied so later dataset mutation
// cannot corrupt Restart.
func NewReducer(rules Rules, fields []Field) *Reducer {
	initial := make([]Field, len(fields))
	copy(initial, fields)
	for i := range initial {
		if fields[i].EmissionsHistory != nil {
			initial[i].EmissionsHistory = append([]float64(nil), fields[i].EmissionsHistory...)
		}
	}
	return &Reducer{rules: rules, initial: initial}
}

// Rules returns the reducer's tuning constants.
func (r *Reducer) Rules() Rules { return r.rules }

// NewGame builds a fresh session state from the reference dataset and the
// initial constants. Every field starts active regardless of what the
// dataset implies about its production level: the player decides phase-out,
// not the data.
func (r *Reducer) NewGame() GameState {
	s := GameState{
		Fields:            make([]Field, len(r.initial)),
		Budget:            r.rules.InitialBudget,
		Year:              r.rules.InitialYear,
		View:              ViewMap,
		Investments:       map[InvestmentType]float64{},
		GlobalTemperature: r.rules.InitialTemperature,
		TechRank:          r.rules.InitialTechRank,
		ForeignDependency: r.rules.InitialForeignDependency,
		Achievements:      []string{},
		ChoiceLog:         []ChoiceEntry{},
		Modals:            map[string]bool{},
		Shutdowns:         map[string]int{},
	}
	copy(s.Fields, r.initial)
	for i := range s.Fields {
		if r.initial[i].EmissionsHistory != nil {
			s.Fields[i].EmissionsHistory = append([]float64(nil), r.initial[i].EmissionsHistory...)
		}
		s.Fields[i].Status = StatusActive
	}
	r.refreshDerived(&s)
	return s
}

// Reduce applies the action and swallows rejections: unknown or invalid
// actions return the input state unchanged. This is the dispatch surface
// the presentation layer sees.
func (r *Reducer) Reduce(s GameState, a Action) GameState {
	next, _ := r.Apply(s, a)
	return next
}

// Apply applies the action, returning the next state and a *RuleError when
// the action was rejected. On rejection the returned state is the input
// state, untouched.
func (r *Reducer) Apply(s GameState, a Action) (GameState, error) {
	next := s.Clone()

	var err error
	switch act := a.(type) {
	case PhaseOutField:
		err = r.phaseOut(&next, act.Name)
	case MakeInvestment:
		err = r.invest(&next, act.Type, act.Amount)
	case AdvanceTutorial:
		if next.TutorialStep < len(TutorialScript) {
			next.TutorialStep++
		}
	case SkipTutorial:
		next.TutorialStep = len(TutorialScript)
	case SetView:
		if !ValidViews[act.View] {
			err = &RuleError{Code: ErrCodeInvalidArgument,
				Message: fmt.Sprintf("unknown view mode %q", act.View)}
		} else {
			next.View = act.View
		}
	case Restart:
		return r.NewGame(), nil
	case SelectField:
		err = r.selectField(&next, act.Name)
	case DeselectField:
		next.Selected = removeName(next.Selected, act.Name)
	case ClearSelection:
		next.Selected = nil
	case PhaseOutSelected:
		// Drain in selection order; entries that became unaffordable or
		// inactive are skipped, not errors.
		for _, name := range append([]string(nil), next.Selected...) {
			_ = r.phaseOut(&next, name)
		}
		next.Selected = nil
	case AddAchievement:
		if act.ID != "" && !next.HasAchievement(act.ID) {
			next.Achievements = append(next.Achievements, act.ID)
		}
	case SetModal:
		if next.Modals == nil {
			next.Modals = map[string]bool{}
		}
		next.Modals[act.Name] = act.Visible
	case TriggerEvent:
		err = triggerEvent(&next, act.Event)
	case ResolveEvent:
		err = r.resolveEvent(&next, act.Option)
	default:
		err = &RuleError{Code: ErrCodeUnknownAction,
			Message: fmt.Sprintf("unhandled action %T", a)}
	}

	if err != nil {
		return s, err
	}
	r.refreshDerived(&next)
	return next, nil
}

// TutorialDone reports whether the tutorial script has been exhausted.
func TutorialDone(s GameState) bool {
	return s.TutorialStep >= len(TutorialScript)
}

// phaseOut closes a field in place. Mutates next only on success.
func (r *Reducer) phaseOut(next *GameState, name string) error {
	f := next.FieldByName(name)
	if f == nil {
		return NewUnknownFieldError(name)
	}
	if f.Status != StatusActive {
		return &RuleError{Code: ErrCodeFieldNotActive,
			Message: fmt.Sprintf("field is already %s", f.Status), Field: f.Name}
	}
	if next.Budget < f.PhaseOutCost {
		return NewFundsError(f.Name, f.PhaseOutCost, next.Budget)
	}

	next.Budget -= f.PhaseOutCost

	// One score point per 1000 kt (= 1 Mt) of prevented lifetime
	// emissions, floored.
	next.Score += int(math.Floor(f.LifetimeEmissions / 1000))

	// Lifetime kilotons cool the planet at 1e-6 degrees per kt, floored
	// at the pre-industrial-plus baseline.
	next.GlobalTemperature = math.Max(r.rules.BaselineTemperature,
		next.GlobalTemperature-f.LifetimeEmissions/1e6)

	f.Status = StatusClosed
	f.Production = 0

	if next.Shutdowns == nil {
		next.Shutdowns = map[string]int{}
	}
	next.Shutdowns[f.Name] = next.Year

	appendLog(next, fmt.Sprintf("Phased out %s for %.0f, preventing %.1f Mt CO2",
		f.Name, f.PhaseOutCost, f.LifetimeEmissions/1000))

	next.Year++
	next.GoodChoiceStreak++
	if next.BadChoiceCount > 0 {
		next.BadChoiceCount--
	}
	return nil
}

// invest debits the budget and moves the climate/tech indices. Foreign
// cloud is the single flagged bad choice.
func (r *Reducer) invest(next *GameState, typ InvestmentType, amount float64) error {
	if !ValidInvestments[typ] {
		return &RuleError{Code: ErrCodeInvalidArgument,
			Message: fmt.Sprintf("unknown investment type %q", typ)}
	}
	if amount <= 0 {
		return &RuleError{Code: ErrCodeInvalidArgument,
			Message: "investment amount must be positive"}
	}
	if next.Budget < amount {
		return NewFundsError("", amount, next.Budget)
	}

	next.Budget -= amount
	if next.Investments == nil {
		next.Investments = map[InvestmentType]float64{}
	}
	next.Investments[typ] += amount

	if typ == InvestForeignCloud {
		next.ForeignDependency = math.Min(100, next.ForeignDependency+amount/10)
		next.TechRank = math.Max(0, next.TechRank-amount/20)
		next.BadChoiceCount++
		next.GoodChoiceStreak = 0
		appendLog(next, fmt.Sprintf("Bought foreign cloud capacity for %.0f", amount))
		return nil
	}

	// AI research builds domestic capability faster than the other
	// channels.
	gain := amount / 10
	if typ == InvestAIResearch {
		gain = amount / 5
	}
	next.TechRank = math.Min(100, next.TechRank+gain)
	next.ForeignDependency = math.Max(0, next.ForeignDependency-amount/10)
	next.GoodChoiceStreak++
	appendLog(next, fmt.Sprintf("Invested %.0f in %s", amount, typ))
	return nil
}

func (r *Reducer) selectField(next *GameState, name string) error {
	f := next.FieldByName(name)
	if f == nil {
		return NewUnknownFieldError(name)
	}
	if f.Status != StatusActive {
		return &RuleError{Code: ErrCodeFieldNotActive,
			Message: fmt.Sprintf("field is already %s", f.Status), Field: f.Name}
	}
	for _, sel := range next.Selected {
		if sel == f.Name {
			return nil // already selected, idempotent
		}
	}
	next.Selected = append(next.Selected, f.Name)
	return nil
}

func triggerEvent(next *GameState, ev GameEvent) error {
	if next.PendingEvent != nil {
		return &RuleError{Code: ErrCodeInvalidArgument,
			Message: "an event is already pending"}
	}
	if len(ev.Options) == 0 {
		return &RuleError{Code: ErrCodeInvalidArgument,
			Message: "event has no options"}
	}
	installed := ev
	installed.Options = append([]EventOption(nil), ev.Options...)
	next.PendingEvent = &installed
	return nil
}

func (r *Reducer) resolveEvent(next *GameState, option int) error {
	ev := next.PendingEvent
	if ev == nil {
		return &RuleError{Code: ErrCodeNoPendingEvent,
			Message: "no event to resolve"}
	}
	if option < 0 || option >= len(ev.Options) {
		return &RuleError{Code: ErrCodeInvalidArgument,
			Message: fmt.Sprintf("event option %d out of range", option)}
	}
	opt := ev.Options[option]
	if next.Budget+opt.BudgetDelta < 0 {
		return NewFundsError("", -opt.BudgetDelta, next.Budget)
	}

	next.Budget += opt.BudgetDelta
	next.GlobalTemperature = math.Max(r.rules.BaselineTemperature,
		next.GlobalTemperature+opt.TemperatureDelta)
	if next.Score += opt.ScoreDelta; next.Score < 0 {
		next.Score = 0
	}
	if opt.Good {
		next.GoodChoiceStreak++
	} else {
		next.BadChoiceCount++
		next.GoodChoiceStreak = 0
	}
	appendLog(next, fmt.Sprintf("%s: %s", ev.Title, opt.Label))
	next.PendingEvent = nil
	return nil
}

// refreshDerived recomputes the stored derived snapshot after a
// successful transition.
func (r *Reducer) refreshDerived(next *GameState) {
	RefreshDerived(next, r.rules)
}

func appendLog(next *GameState, text string) {
	next.ChoiceLog = append(next.ChoiceLog, ChoiceEntry{
		Seq:  next.LogSeq,
		Year: next.Year,
		Text: text,
	})
	next.LogSeq++
}

func removeName(names []string, name string) []string {
	key := NormalizeName(name)
	out := names[:0]
	for _, n := range names {
		if n != key {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
