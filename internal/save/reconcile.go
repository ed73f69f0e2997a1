package save

import (
	"encoding/json"
	"log/slog"

	"github.com/phaseoutvillage/phaseout/internal/game"
)

// Encode serializes a snapshot to its persisted JSON layout.
func Encode(s game.GameState) ([]byte, error) {
	return json.Marshal(s)
}

// Reconcile merges a raw saved blob onto a freshly computed default state.
//
// A nil/empty or syntactically corrupt blob yields the fresh state
// unchanged (corruption is logged and the blob discarded whole). Otherwise
// each top-level key is copied only if it passes the type guard for its
// declared type; field statuses are merged via a name->status lookup built
// from both the saved field list and the saved shutdown map, onto fields
// rebuilt from the current dataset.
//
// Derived values are recomputed at the end, so a save with stale derived
// numbers self-heals on load.
func Reconcile(fresh game.GameState, rules game.Rules, raw []byte) game.GameState {
	if len(raw) == 0 {
		return fresh
	}

	var blob map[string]any
	if err := json.Unmarshal(raw, &blob); err != nil {
		slog.Warn("discarding corrupt save blob", "error", err)
		return fresh
	}

	out := fresh.Clone()

	if v, ok := number(blob["budget"]); ok && v >= 0 {
		out.Budget = v
	}
	if v, ok := integer(blob["score"]); ok && v >= 0 {
		out.Score = v
	}
	if v, ok := integer(blob["currentYear"]); ok && v > 0 {
		out.Year = v
	}
	if v, ok := blob["viewMode"].(string); ok && game.ValidViews[game.ViewMode(v)] {
		out.View = game.ViewMode(v)
	}
	if v, ok := number(blob["globalTemperature"]); ok {
		if v < rules.BaselineTemperature {
			v = rules.BaselineTemperature
		}
		out.GlobalTemperature = v
	}
	if v, ok := number(blob["techRank"]); ok && v >= 0 && v <= 100 {
		out.TechRank = v
	}
	if v, ok := number(blob["foreignDependency"]); ok && v >= 0 && v <= 100 {
		out.ForeignDependency = v
	}
	if v, ok := integer(blob["tutorialStep"]); ok && v >= 0 {
		if v > len(game.TutorialScript) {
			v = len(game.TutorialScript)
		}
		out.TutorialStep = v
	}
	if v, ok := integer(blob["logSeq"]); ok && v >= 0 {
		out.LogSeq = int64(v)
	}
	if v, ok := integer(blob["goodChoiceStreak"]); ok && v >= 0 {
		out.GoodChoiceStreak = v
	}
	if v, ok := integer(blob["badChoiceCount"]); ok && v >= 0 {
		out.BadChoiceCount = v
	}

	if m, ok := blob["investments"].(map[string]any); ok {
		merged := map[game.InvestmentType]float64{}
		for key, val := range m {
			typ := game.InvestmentType(key)
			if amount, isNum := number(val); isNum && amount >= 0 && game.ValidInvestments[typ] {
				merged[typ] = amount
			}
		}
		out.Investments = merged
	}

	if arr, ok := blob["achievements"].([]any); ok {
		merged := []string{}
		seen := map[string]bool{}
		for _, v := range arr {
			if id, isStr := v.(string); isStr && id != "" && !seen[id] {
				seen[id] = true
				merged = append(merged, id)
			}
		}
		out.Achievements = merged
	}

	if arr, ok := blob["choiceLog"].([]any); ok {
		merged := []game.ChoiceEntry{}
		for _, v := range arr {
			entry, isMap := v.(map[string]any)
			if !isMap {
				continue
			}
			text, hasText := entry["text"].(string)
			if !hasText {
				continue
			}
			seq, _ := integer(entry["seq"])
			year, _ := integer(entry["year"])
			merged = append(merged, game.ChoiceEntry{Seq: int64(seq), Year: year, Text: text})
		}
		out.ChoiceLog = merged
	}

	if arr, ok := blob["selectedFields"].([]any); ok {
		merged := []string(nil)
		for _, v := range arr {
			if name, isStr := v.(string); isStr {
				merged = append(merged, game.NormalizeName(name))
			}
		}
		out.Selected = merged
	}

	if m, ok := blob["modals"].(map[string]any); ok {
		merged := map[string]bool{}
		for key, val := range m {
			if visible, isBool := val.(bool); isBool {
				merged[key] = visible
			}
		}
		out.Modals = merged
	}

	if m, ok := blob["shutdowns"].(map[string]any); ok {
		merged := map[string]int{}
		for name, val := range m {
			if year, isNum := integer(val); isNum && year > 0 {
				merged[game.NormalizeName(name)] = year
			}
		}
		out.Shutdowns = merged
	}

	reconcileStatuses(&out, blob)
	game.RefreshDerived(&out, rules)
	return out
}

// reconcileStatuses rebuilds the field collection from the current dataset
// (already in out.Fields), overwriting only the status of each field whose
// name appears in the saved field list or the saved shutdown map. Any name
// present in the shutdown map without an explicit saved status is treated
// as closed. A non-active status forces production to zero to preserve the
// engine invariant.
func reconcileStatuses(out *game.GameState, blob map[string]any) {
	statusByName := map[string]game.FieldStatus{}

	if arr, ok := blob["gameFields"].([]any); ok {
		for _, v := range arr {
			entry, isMap := v.(map[string]any)
			if !isMap {
				continue
			}
			name, hasName := entry["name"].(string)
			status, hasStatus := entry["status"].(string)
			if !hasName || !hasStatus || !game.ValidStatuses[game.FieldStatus(status)] {
				continue
			}
			statusByName[game.NormalizeName(name)] = game.FieldStatus(status)
		}
	}

	if m, ok := blob["shutdowns"].(map[string]any); ok {
		for name, val := range m {
			if _, isNum := integer(val); !isNum {
				continue
			}
			key := game.NormalizeName(name)
			if _, typed := statusByName[key]; !typed {
				statusByName[key] = game.StatusClosed
			}
		}
	}

	for i := range out.Fields {
		f := &out.Fields[i]
		status, saved := statusByName[f.Name]
		if !saved {
			continue
		}
		f.Status = status
		if status != game.StatusActive {
			f.Production = 0
		}
	}
}

// number is the type guard for JSON number fields.
func number(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

// integer accepts JSON numbers that are whole.
func integer(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
