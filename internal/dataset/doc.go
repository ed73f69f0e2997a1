// Package dataset loads the static reference data the simulation runs on:
// a per-field, per-year production/emission table plus a field coordinate
// lookup, shipped as YAML.
//
// Loading is two-phase. The raw document is first validated against an
// embedded CUE schema, so malformed reference data fails loudly at session
// start instead of leaking zeros into gameplay. The validated table is then
// summarized into one game.Field per dataset key: latest-year metrics, a
// bounded emissions history, estimated lifetime combustion emissions, a
// floor-clamped phase-out cost and a transition-potential classification.
//
// Missing per-year values inside a validated document default numeric
// fields to zero and never produce an error; the player decides phase-out,
// not the data, so every field starts active.
package dataset
