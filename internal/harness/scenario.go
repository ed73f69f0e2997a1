package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/phaseoutvillage/phaseout/internal/dataset"
	"github.com/phaseoutvillage/phaseout/internal/game"
	"github.com/phaseoutvillage/phaseout/internal/session"
)

// Scenario defines a scripted playthrough.
// Scenarios validate gameplay rules by executing a sequence of actions
// against a fresh session and asserting on the final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dataset is the field dataset path, relative to the scenario file.
	Dataset string `yaml:"dataset"`

	// Steps contains the action script, applied in order.
	Steps []Step `yaml:"steps"`

	// Expect validates the final state. Optional; golden comparison
	// usually carries the full assertion load.
	Expect *Expectation `yaml:"expect,omitempty"`

	// dir is the scenario file's directory, for resolving Dataset.
	dir string
}

// Step is a single scripted action. Reject marks steps the rules must
// refuse; the run fails when a rejection expectation is wrong either way.
type Step struct {
	// Action is the step kind: phase_out, invest, advance_tutorial,
	// skip_tutorial, set_view, restart, select, deselect,
	// clear_selection, phase_out_selected, add_achievement, set_modal,
	// resolve_event.
	Action string `yaml:"action"`

	Field   string  `yaml:"field,omitempty"`
	Type    string  `yaml:"type,omitempty"`
	Amount  float64 `yaml:"amount,omitempty"`
	View    string  `yaml:"view,omitempty"`
	ID      string  `yaml:"id,omitempty"`
	Name    string  `yaml:"name,omitempty"`
	Visible bool    `yaml:"visible,omitempty"`
	Option  int     `yaml:"option,omitempty"`
	Reject  bool    `yaml:"reject,omitempty"`
}

// Expectation asserts on the final state. Every field is optional;
// absent fields are not checked.
type Expectation struct {
	Budget *float64 `yaml:"budget,omitempty"`
	Score  *int     `yaml:"score,omitempty"`
	Year   *int     `yaml:"year,omitempty"`
	Phase  string   `yaml:"phase,omitempty"`
	Closed []string `yaml:"closed,omitempty"`
}

// Result is a completed scenario run.
type Result struct {
	Scenario *Scenario
	Final    game.GameState
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	sc.dir = filepath.Dir(path)

	if err := validateScenario(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

// Run executes a scenario against a fresh session backed by an in-memory
// store and a fixed session token, so runs are fully deterministic.
func Run(sc *Scenario) (*Result, error) {
	ds, err := dataset.Load(filepath.Join(sc.dir, sc.Dataset))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	rules := game.DefaultRules()
	reducer := game.NewReducer(rules, dataset.BuildFields(ds.Fields, ds.Coordinates, rules))
	sess := session.New(reducer, session.Options{
		Tokens: session.NewFixedGenerator("scenario-" + sc.Name),
	})

	for i, step := range sc.Steps {
		action, err := step.toAction()
		if err != nil {
			return nil, fmt.Errorf("scenario %s step %d: %w", sc.Name, i, err)
		}
		dispatchErr := sess.Dispatch(action)
		switch {
		case step.Reject && dispatchErr == nil:
			return nil, fmt.Errorf("scenario %s step %d (%s): expected rejection, action succeeded",
				sc.Name, i, step.Action)
		case !step.Reject && dispatchErr != nil:
			return nil, fmt.Errorf("scenario %s step %d (%s): %w",
				sc.Name, i, step.Action, dispatchErr)
		}
	}
	sess.Flush()

	result := &Result{Scenario: sc, Final: sess.State()}
	if err := checkExpectation(sc, result.Final); err != nil {
		return nil, err
	}
	return result, nil
}

func (st Step) toAction() (game.Action, error) {
	switch st.Action {
	case "phase_out":
		return game.PhaseOutField{Name: st.Field}, nil
	case "invest":
		return game.MakeInvestment{Type: game.InvestmentType(st.Type), Amount: st.Amount}, nil
	case "advance_tutorial":
		return game.AdvanceTutorial{}, nil
	case "skip_tutorial":
		return game.SkipTutorial{}, nil
	case "set_view":
		return game.SetView{View: game.ViewMode(st.View)}, nil
	case "restart":
		return game.Restart{}, nil
	case "select":
		return game.SelectField{Name: st.Field}, nil
	case "deselect":
		return game.DeselectField{Name: st.Field}, nil
	case "clear_selection":
		return game.ClearSelection{}, nil
	case "phase_out_selected":
		return game.PhaseOutSelected{}, nil
	case "add_achievement":
		return game.AddAchievement{ID: st.ID}, nil
	case "set_modal":
		return game.SetModal{Name: st.Name, Visible: st.Visible}, nil
	case "resolve_event":
		return game.ResolveEvent{Option: st.Option}, nil
	default:
		return nil, fmt.Errorf("unknown step action %q", st.Action)
	}
}

func checkExpectation(sc *Scenario, final game.GameState) error {
	ex := sc.Expect
	if ex == nil {
		return nil
	}
	if ex.Budget != nil && final.Budget != *ex.Budget {
		return fmt.Errorf("scenario %s: budget = %v, want %v", sc.Name, final.Budget, *ex.Budget)
	}
	if ex.Score != nil && final.Score != *ex.Score {
		return fmt.Errorf("scenario %s: score = %d, want %d", sc.Name, final.Score, *ex.Score)
	}
	if ex.Year != nil && final.Year != *ex.Year {
		return fmt.Errorf("scenario %s: year = %d, want %d", sc.Name, final.Year, *ex.Year)
	}
	if ex.Phase != "" && final.Phase.Phase != game.PhaseName(ex.Phase) {
		return fmt.Errorf("scenario %s: phase = %s, want %s", sc.Name, final.Phase.Phase, ex.Phase)
	}
	for _, name := range ex.Closed {
		f := final.FieldByName(name)
		if f == nil {
			return fmt.Errorf("scenario %s: closed field %q is not in the dataset", sc.Name, name)
		}
		if f.Status != game.StatusClosed {
			return fmt.Errorf("scenario %s: field %q is %s, want closed", sc.Name, name, f.Status)
		}
	}
	return nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(sc *Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if sc.Description == "" {
		return fmt.Errorf("description is required")
	}
	if sc.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	if _, err := os.Stat(filepath.Join(sc.dir, sc.Dataset)); os.IsNotExist(err) {
		return fmt.Errorf("dataset file not found: %s", sc.Dataset)
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range sc.Steps {
		if _, err := step.toAction(); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}
