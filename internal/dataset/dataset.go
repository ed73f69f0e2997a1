package dataset

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YearRecord is one dataset row: a field's production and emissions for a
// single year. Production is in million boe, emission in kilotons CO2,
// intensity in kg CO2 per boe.
type YearRecord struct {
	OilProduction     float64 `yaml:"oil_production"`
	GasProduction     float64 `yaml:"gas_production"`
	Emission          float64 `yaml:"emission"`
	EmissionIntensity float64 `yaml:"emission_intensity"`
}

// Table maps field name -> year (as a quoted string key) -> record.
type Table map[string]map[string]YearRecord

// Coordinate is a field's position.
type Coordinate struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// Coordinates maps field name -> position.
type Coordinates map[string]Coordinate

// Dataset is one decoded reference document.
type Dataset struct {
	Fields      Table       `yaml:"fields"`
	Coordinates Coordinates `yaml:"coordinates"`
}

// Load reads, schema-validates and decodes a reference dataset file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(path, data)
}

// Parse schema-validates and decodes reference dataset bytes. The filename
// is used only for error positions.
func Parse(filename string, data []byte) (*Dataset, error) {
	if err := ValidateSchema(filename, data); err != nil {
		return nil, err
	}

	var ds Dataset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", filename, err)
	}
	return &ds, nil
}
