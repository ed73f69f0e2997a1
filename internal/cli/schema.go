package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/phaseoutvillage/phaseout/internal/game"
)

// SchemaOptions holds flags for the schema command.
type SchemaOptions struct {
	*RootOptions
	Output string
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Emit the JSON Schema of the save snapshot",
		Long: `Emit the JSON Schema describing the persisted game snapshot, for
external tooling that reads or writes save files.

Examples:
  phaseout schema
  phaseout schema -o snapshot.schema.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the schema to a file instead of stdout")

	return cmd
}

func runSchema(opts *SchemaOptions, cmd *cobra.Command) error {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: false,
	}
	schema := reflector.Reflect(&game.GameState{})

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	data = append(data, '\n')

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "writing schema file", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", opts.Output)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
