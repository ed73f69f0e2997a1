// Package harness provides scripted-scenario conformance testing for the
// game rules.
//
// The harness loads a YAML scenario naming a field dataset, plays its action
// steps through a real session, and validates the final state, optionally
// against a golden file.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	dataset: fields.yaml
//	steps:
//	  - action: skip_tutorial
//	  - action: phase_out
//	    field: Ekofisk
//	  - action: invest
//	    type: wind
//	    amount: 250
//	  - action: phase_out
//	    field: Atlantis
//	    reject: true
//	expect:
//	  budget: 9605
//	  score: 18
//	  phase: normal
//	  closed: [Ekofisk]
//
// Steps marked reject: true must be refused by the rules; every other step
// must succeed. The expect block is optional and asserts a subset of the
// final state.
//
// # Deterministic Testing
//
// Scenarios run against an in-memory store with a fixed session token, so
// the same script always yields byte-identical state snapshots and golden
// comparison is stable across runs.
//
// # Usage
//
//	sc, err := harness.LoadScenario("testdata/scenarios/first_shutdown.yaml")
//	if err != nil {
//	    t.Fatal(err)
//	}
//	if err := harness.RunWithGolden(t, sc); err != nil {
//	    t.Fatal(err)
//	}
package harness
