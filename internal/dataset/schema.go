package dataset

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// datasetSchema constrains the reference document shape. Year keys are
// four-digit strings; all metrics are non-negative numbers and individually
// optional (absent values default to zero at summary time).
const datasetSchema = `
#YearRecord: {
	oil_production?:     number & >=0
	gas_production?:     number & >=0
	emission?:           number & >=0
	emission_intensity?: number & >=0
}

#Coordinate: {
	lat: number & >=-90 & <=90
	lon: number & >=-180 & <=180
}

fields: [string]: close({[=~"^[0-9]{4}$"]: #YearRecord})
coordinates?: [string]: #Coordinate
`

// SchemaError reports a dataset document that failed CUE validation.
type SchemaError struct {
	Filename string
	Detail   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset %s does not match schema: %s", e.Filename, e.Detail)
}

// ValidateSchema checks raw YAML bytes against the embedded dataset schema
// using the CUE SDK's Go API directly (not a CLI subprocess).
func ValidateSchema(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(datasetSchema)
	if err := schema.Err(); err != nil {
		// The schema is a compile-time constant; failing to compile it
		// is a programming error, not a data error.
		return fmt.Errorf("compile dataset schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return &SchemaError{Filename: filename, Detail: cueerrors.Details(err, nil)}
	}

	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return &SchemaError{Filename: filename, Detail: cueerrors.Details(err, nil)}
	}

	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{Filename: filename, Detail: cueerrors.Details(err, nil)}
	}
	return nil
}
