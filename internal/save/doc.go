// Package save persists and reconciles game snapshots.
//
// The persisted layout is a single JSON object keyed by the GameState
// attribute names. There is no version field: the reconciler's
// type-guarded per-key merge is the sole forward/backward compatibility
// mechanism. Each top-level key of a saved blob is copied onto a freshly
// computed default state only if it passes a type check matching the
// field's declared type; anything malformed falls back to the fresh
// default, silently self-healing stale saves across schema changes.
//
// Field statuses are the one thing merged specially: gameplay progress
// (which fields are phased out) survives dataset changes, while every
// other field attribute (cost, production, revenue) always comes from the
// current dataset, never from the save.
//
// Storage is a save-slot store: SQLite when a database can be opened,
// with a guaranteed in-memory fallback so a broken disk never blocks a
// session. Corrupt blobs are logged and discarded whole - there is no
// partial application.
package save
