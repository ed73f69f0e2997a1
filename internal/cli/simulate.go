package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phaseoutvillage/phaseout/internal/harness"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Budget float64  `json:"budget,omitempty"`
	Score  int      `json:"score,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// SimulateResult holds the overall simulation result.
type SimulateResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <scenario-file-or-dir>",
		Short: "Run scripted gameplay scenarios",
		Long: `Run scenario YAML files against a fresh in-memory session, checking
every step's accept/reject expectation and the final-state assertions.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  phaseout simulate scenarios/first_shutdown.yaml
  phaseout simulate scenarios/ --filter "foreign-*"
  phaseout simulate scenarios/ --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runSimulate(opts *SimulateOptions, path string, cmd *cobra.Command) error {
	files, err := findScenarioFiles(path, opts.Filter)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		if opts.Format == "json" {
			return formatter(opts.RootOptions, cmd).Success(SimulateResult{
				Scenarios: []ScenarioResult{},
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	result := SimulateResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	for _, file := range files {
		sr := runScenarioFile(file, opts, cmd)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		if err := formatter(opts.RootOptions, cmd).Success(result); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Summary: %d passed, %d failed, %d total\n",
			result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// findScenarioFiles resolves a scenario file or directory of YAML files,
// applying the optional glob filter on base names.
func findScenarioFiles(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("scenario path not found: %s", path))
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "reading scenario path", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	walkErr := filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(p), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, p)
		return nil
	})
	if walkErr != nil {
		return nil, WrapExitError(ExitCommandError, "scanning scenarios", walkErr)
	}
	return files, nil
}

// runScenarioFile executes a single scenario file and reports the result.
func runScenarioFile(file string, opts *SimulateOptions, cmd *cobra.Command) ScenarioResult {
	w := cmd.OutOrStdout()
	text := opts.Format != "json"

	sc, err := harness.LoadScenario(file)
	if err != nil {
		if text {
			fmt.Fprintf(w, "FAIL %s\n  load error: %v\n", filepath.Base(file), err)
		}
		return ScenarioResult{
			Name:   filepath.Base(file),
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}

	result, err := harness.Run(sc)
	if err != nil {
		if text {
			fmt.Fprintf(w, "FAIL %s\n  %v\n", sc.Name, err)
		}
		return ScenarioResult{
			Name:   sc.Name,
			Errors: []string{err.Error()},
		}
	}

	if text {
		fmt.Fprintf(w, "ok   %s (budget %.0f, score %d)\n",
			sc.Name, result.Final.Budget, result.Final.Score)
	}
	return ScenarioResult{
		Name:   sc.Name,
		Pass:   true,
		Budget: result.Final.Budget,
		Score:  result.Final.Score,
	}
}
