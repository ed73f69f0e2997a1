package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phaseoutvillage/phaseout/internal/game"
)

func loadTestDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Load(filepath.Join("testdata", "fields.yaml"))
	require.NoError(t, err)
	return ds
}

func TestLoad_DecodesFieldsAndCoordinates(t *testing.T) {
	ds := loadTestDataset(t)

	require.Contains(t, ds.Fields, "Ekofisk")
	assert.Equal(t, 8.5, ds.Fields["Ekofisk"]["2023"].OilProduction)
	assert.Equal(t, 71.6, ds.Coordinates["Snøhvit"].Lat)
}

func TestValidateSchema_RejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"negative emission", `
fields:
  Ekofisk:
    "2023": {emission: -5}
`},
		{"non-numeric production", `
fields:
  Ekofisk:
    "2023": {oil_production: "lots"}
`},
		{"bad year key", `
fields:
  Ekofisk:
    latest: {emission: 5}
`},
		{"latitude out of range", `
fields:
  Ekofisk:
    "2023": {emission: 5}
coordinates:
  Ekofisk: {lat: 156.5, lon: 3.2}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchema("test.yaml", []byte(tt.doc))
			require.Error(t, err)
			var se *SchemaError
			assert.ErrorAs(t, err, &se)
		})
	}
}

func TestValidateSchema_AcceptsPartialYearRecords(t *testing.T) {
	doc := `
fields:
  Ekofisk:
    "2023": {emission: 5}
`
	assert.NoError(t, ValidateSchema("test.yaml", []byte(doc)))
}

func TestBuildFields_LatestYearSummary(t *testing.T) {
	ds := loadTestDataset(t)
	fields := BuildFields(ds.Fields, ds.Coordinates, game.DefaultRules())

	byName := map[string]game.Field{}
	for _, f := range fields {
		byName[f.Name] = f
	}

	ekofisk := byName["Ekofisk"]
	assert.Equal(t, 12.0, ekofisk.Production, "latest-year oil+gas sum")
	assert.Equal(t, 9.1, ekofisk.EmissionIntensity)
	assert.Equal(t, 1200.0*15, ekofisk.LifetimeEmissions,
		"latest emission times assumed lifetime years")
	assert.Equal(t, []float64{1.2, 1.25, 1.3}, ekofisk.EmissionsHistory,
		"descending years, kilotons converted to megatons")
	assert.Equal(t, 120.0, ekofisk.PhaseOutCost)
	assert.Equal(t, 360.0, ekofisk.YearlyRevenue)
	assert.Equal(t, 2400, ekofisk.Workers)
	assert.Equal(t, 56.5, ekofisk.Lat)
}

func TestBuildFields_AllStartActive(t *testing.T) {
	ds := loadTestDataset(t)
	for _, f := range BuildFields(ds.Fields, ds.Coordinates, game.DefaultRules()) {
		assert.Equal(t, game.StatusActive, f.Status, f.Name)
	}
}

func TestBuildFields_MissingYearDataDefaultsToZero(t *testing.T) {
	ds := loadTestDataset(t)
	fields := BuildFields(ds.Fields, ds.Coordinates, game.DefaultRules())

	for _, f := range fields {
		if f.Name != "Tomtebo" {
			continue
		}
		assert.Zero(t, f.Production)
		assert.Zero(t, f.LifetimeEmissions)
		assert.Empty(t, f.EmissionsHistory)
		assert.Equal(t, game.DefaultRules().PhaseOutCostFloor, f.PhaseOutCost,
			"cost is floor-clamped even with no data")
		assert.Equal(t, game.StatusActive, f.Status)
		return
	}
	t.Fatal("Tomtebo missing from built fields")
}

func TestBuildFields_CostFloor(t *testing.T) {
	table := Table{"Tiny": {"2023": {OilProduction: 0.5}}}
	fields := BuildFields(table, nil, game.DefaultRules())
	require.Len(t, fields, 1)
	assert.Equal(t, 100.0, fields[0].PhaseOutCost, "5 < floor of 100")
}

func TestBuildFields_Classification(t *testing.T) {
	tests := []struct {
		name       string
		lat        float64
		production float64
		want       game.TransitionPotential
	}{
		{"far north is wind", 71.0, 20, game.PotentialWind},
		{"south is solar", 56.0, 20, game.PotentialSolar},
		{"mid with production is data center", 65.0, 6, game.PotentialDataCenter},
		{"mid with low production is research hub", 65.0, 2, game.PotentialResearchHub},
		{"latitude outranks production", 70.1, 1, game.PotentialWind},
	}

	rules := game.DefaultRules()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := Table{"X": {"2023": {OilProduction: tt.production}}}
			coords := Coordinates{"X": {Lat: tt.lat, Lon: 5}}
			fields := BuildFields(table, coords, rules)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.want, fields[0].Potential)
		})
	}
}

func TestBuildFields_SortedAndNormalized(t *testing.T) {
	table := Table{
		"Åsgard": {"2023": {Emission: 10}}, // decomposed A + ring
		"Balder": {"2023": {Emission: 10}},
	}
	fields := BuildFields(table, nil, game.DefaultRules())
	require.Len(t, fields, 2)
	assert.Equal(t, "Balder", fields[0].Name)
	assert.Equal(t, "Åsgard", fields[1].Name, "NFC-composed key")
}

func TestBuildFields_HistoryShorterThanWindow(t *testing.T) {
	ds := loadTestDataset(t)
	fields := BuildFields(ds.Fields, ds.Coordinates, game.DefaultRules())
	for _, f := range fields {
		if f.Name == "Snøhvit" {
			assert.Equal(t, []float64{0.3}, f.EmissionsHistory)
			return
		}
	}
	t.Fatal("Snøhvit missing")
}
