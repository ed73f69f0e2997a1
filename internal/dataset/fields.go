package dataset

import (
	"math"
	"sort"
	"strconv"

	"github.com/phaseoutvillage/phaseout/internal/game"
)

// BuildFields summarizes the dataset into one game.Field per key, sorted by
// name for deterministic ordering.
//
// For each field the numerically maximal year present is "latest":
// production is that year's oil+gas sum, the emissions history covers up to
// rules.HistoryYears descending years (fewer if unavailable) converted from
// kilotons to megatons, and lifetime combustion emissions are the latest
// yearly emission times the assumed remaining lifetime. Fields with no year
// data at all get zero metrics, never an error.
func BuildFields(table Table, coords Coordinates, rules game.Rules) []game.Field {
	pos := make(map[string]Coordinate, len(coords))
	for name, c := range coords {
		pos[game.NormalizeName(name)] = c
	}

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, game.NormalizeName(name))
	}
	sort.Strings(names)

	fields := make([]game.Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, buildField(name, yearsFor(table, name), pos[name], rules))
	}
	return fields
}

// yearsFor finds the table entry for a normalized name. The table may be
// keyed by a denormalized spelling of the same name.
func yearsFor(table Table, name string) map[string]YearRecord {
	for key, years := range table {
		if game.NormalizeName(key) == name {
			return years
		}
	}
	return nil
}

func buildField(name string, years map[string]YearRecord, c Coordinate, rules game.Rules) game.Field {
	f := game.Field{
		Name:   name,
		Lat:    c.Lat,
		Lon:    c.Lon,
		Status: game.StatusActive,
	}

	latest, ok := latestYear(years)
	if !ok {
		// No per-year data: numeric fields stay zero, the field still
		// exists and starts active.
		f.PhaseOutCost = rules.PhaseOutCostFloor
		f.Potential = classify(f.Lat, 0)
		return f
	}

	rec := years[strconv.Itoa(latest)]
	f.Production = rec.OilProduction + rec.GasProduction
	f.EmissionIntensity = rec.EmissionIntensity
	f.LifetimeEmissions = rec.Emission * rules.LifetimeYears

	for y := latest; y > latest-rules.HistoryYears && len(f.EmissionsHistory) < rules.HistoryYears; y-- {
		if r, present := years[strconv.Itoa(y)]; present {
			f.EmissionsHistory = append(f.EmissionsHistory, r.Emission/1000)
		}
	}

	f.PhaseOutCost = math.Max(rules.PhaseOutCostFloor, f.Production*rules.PhaseOutCostPerMboe)
	f.YearlyRevenue = f.Production * rules.RevenuePerMboe
	f.Workers = int(f.Production * rules.WorkersPerMboe)
	f.Potential = classify(f.Lat, f.Production)
	return f
}

// latestYear returns the numerically maximal year key.
func latestYear(years map[string]YearRecord) (int, bool) {
	max, found := 0, false
	for key := range years {
		y, err := strconv.Atoi(key)
		if err != nil {
			continue // schema guarantees digits, belt and braces
		}
		if !found || y > max {
			max, found = y, true
		}
	}
	return max, found
}

// classify assigns the transition potential with a fixed decision order:
// far-north sites get wind, southern sites solar, high-production sites a
// data center, the rest a research hub.
func classify(lat, production float64) game.TransitionPotential {
	switch {
	case lat > 70:
		return game.PotentialWind
	case lat < 58:
		return game.PotentialSolar
	case production > 5:
		return game.PotentialDataCenter
	default:
		return game.PotentialResearchHub
	}
}
