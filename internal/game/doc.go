// Package game implements the Phase Out Village state engine.
//
// The engine is a single mutable model (budget, score, per-field status,
// climate indices, achievements, tutorial progress) updated by a fixed
// vocabulary of actions, with derived quantities recomputed on every
// transition.
//
// ARCHITECTURE:
//
// Pure Reducer:
// All mutations flow through Reducer.Apply(state, action), a total function
// from (GameState, Action) to GameState. Handlers never panic and never
// partially apply: an action either produces the fully transitioned state or
// is rejected as a no-op with a typed RuleError. Unknown actions are no-ops.
//
// Derived Metrics:
// Aggregate emissions/production, environmental phase, data-layer tier and
// climate indices are pure functions of the canonical field collection.
// Nothing is cached ad hoc; the reducer recomputes the stored snapshot
// values (Phase, DataLayer, ClimateDamage, SustainabilityScore) on every
// transition so they can never go stale relative to their inputs.
//
// INVARIANTS:
//   - Budget never goes negative: insufficient-funds actions are rejected,
//     not clamped.
//   - GlobalTemperature never drops below the pre-industrial-plus baseline
//     (1.1 degrees C).
//   - Field status transitions only active->closed or active->transitioning;
//     a non-active field always has zero production.
//   - The achievement set holds no duplicates.
//
// The engine is deliberately single-threaded: handlers run to completion,
// require no locking, and the only asynchronous boundary (persistence) lives
// in package session, outside the reducer.
package game
