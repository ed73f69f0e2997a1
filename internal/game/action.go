package game

// Action is a discrete state transition request. The concrete types below
// form the complete action vocabulary; anything else is a no-op.
//
// Actions are plain data. Handlers in reducer.go give them meaning.
type Action interface {
	// ActionName returns the stable wire name of the action, used in
	// logs and scenario files.
	ActionName() string
}

// PhaseOutField permanently closes a field, preventing its remaining
// lifetime combustion emissions. Rejected if the field is unknown, not
// active, or the budget cannot cover its phase-out cost.
type PhaseOutField struct {
	Name string
}

func (PhaseOutField) ActionName() string { return "phase_out_field" }

// MakeInvestment spends Amount on the given channel. Rejected if the
// budget cannot cover Amount or the type is unknown.
type MakeInvestment struct {
	Type   InvestmentType
	Amount float64
}

func (MakeInvestment) ActionName() string { return "make_investment" }

// AdvanceTutorial moves the tutorial forward one step, clamped at the
// script length.
type AdvanceTutorial struct{}

func (AdvanceTutorial) ActionName() string { return "advance_tutorial" }

// SkipTutorial jumps the tutorial straight to completion.
type SkipTutorial struct{}

func (SkipTutorial) ActionName() string { return "skip_tutorial" }

// SetView switches the top-level view mode.
type SetView struct {
	View ViewMode
}

func (SetView) ActionName() string { return "set_view" }

// Restart discards all progress and regenerates a fresh state from the
// reference dataset.
type Restart struct{}

func (Restart) ActionName() string { return "restart" }

// SelectField adds a field to the multi-phase-out selection buffer.
// Rejected if the field is unknown or not active; selecting an already
// selected field is a no-op.
type SelectField struct {
	Name string
}

func (SelectField) ActionName() string { return "select_field" }

// DeselectField removes a field from the selection buffer.
type DeselectField struct {
	Name string
}

func (DeselectField) ActionName() string { return "deselect_field" }

// ClearSelection empties the selection buffer.
type ClearSelection struct{}

func (ClearSelection) ActionName() string { return "clear_selection" }

// PhaseOutSelected drains the selection buffer in order, phasing out each
// affordable entry under the PhaseOutField rules. Entries that can no
// longer be afforded (or are no longer active) are skipped, not errors.
// The buffer is cleared afterwards.
type PhaseOutSelected struct{}

func (PhaseOutSelected) ActionName() string { return "phase_out_selected" }

// AddAchievement records an achievement id. Idempotent: adding a present
// id leaves the set unchanged.
type AddAchievement struct {
	ID string
}

func (AddAchievement) ActionName() string { return "add_achievement" }

// SetModal toggles a presentation-layer modal visibility flag.
type SetModal struct {
	Name    string
	Visible bool
}

func (SetModal) ActionName() string { return "set_modal" }

// TriggerEvent installs a pending narrative event. No-op if another event
// is already pending.
type TriggerEvent struct {
	Event GameEvent
}

func (TriggerEvent) ActionName() string { return "trigger_event" }

// ResolveEvent applies the chosen option of the pending event and clears
// it. Rejected if nothing is pending, the option index is out of range, or
// the option's budget delta would take the budget negative.
type ResolveEvent struct {
	Option int
}

func (ResolveEvent) ActionName() string { return "resolve_event" }
