package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)

	var ran int
	for _, path := range paths {
		if filepath.Base(path) == "fields.yaml" {
			continue // shared dataset, not a scenario
		}
		sc, err := LoadScenario(path)
		require.NoError(t, err, path)
		t.Run(sc.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, sc))
		})
		ran++
	}
	require.NotZero(t, ran, "no scenario files found")
}

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()

	dataset, err := os.ReadFile(filepath.Join("testdata", "scenarios", "fields.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fields.yaml"), dataset, 0o644))

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "missing name",
			body: `description: "d"
dataset: fields.yaml
steps:
  - action: skip_tutorial
`,
			wantErr: "name is required",
		},
		{
			name: "missing dataset",
			body: `name: s
description: "d"
steps:
  - action: skip_tutorial
`,
			wantErr: "dataset is required",
		},
		{
			name: "no steps",
			body: `name: s
description: "d"
dataset: fields.yaml
`,
			wantErr: "steps list is required",
		},
		{
			name: "unknown step action",
			body: `name: s
description: "d"
dataset: fields.yaml
steps:
  - action: launch_rocket
`,
			wantErr: `unknown step action "launch_rocket"`,
		},
		{
			name: "typo in top-level key",
			body: `name: s
description: "d"
dataset: fields.yaml
step:
  - action: skip_tutorial
`,
			wantErr: "failed to parse YAML",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestRun_RejectExpectationMismatch(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, `name: mismatch
description: "a step marked reject that actually succeeds fails the run"
dataset: fields.yaml
steps:
  - action: phase_out
    field: Ekofisk
    reject: true
`))
	require.NoError(t, err)

	_, err = Run(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected rejection")
}

func TestRun_UnexpectedRejection(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, `name: surprise
description: "an unmarked rejected step fails the run"
dataset: fields.yaml
steps:
  - action: phase_out
    field: Atlantis
`))
	require.NoError(t, err)

	_, err = Run(sc)
	require.Error(t, err)
}

func TestRun_ExpectationFailure(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, `name: wrong_budget
description: "a wrong expect block fails the run"
dataset: fields.yaml
steps:
  - action: phase_out
    field: Ekofisk
expect:
  budget: 1
`))
	require.NoError(t, err)

	_, err = Run(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "budget")
}
