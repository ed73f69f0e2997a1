// Package session hosts a running game: it owns the authoritative
// GameState, serializes dispatch through the pure reducer, and persists a
// snapshot after every transition.
//
// Persistence is fire-and-forget: gameplay never waits on the store, and a
// write failure is logged, never surfaced as a gameplay error. The store's
// revision check plus the session clock make late writes harmless.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phaseoutvillage/phaseout/internal/game"
	"github.com/phaseoutvillage/phaseout/internal/save"
)

// DefaultSlot is the save slot used when the caller does not pick one.
const DefaultSlot = "default"

// Options configures a session.
type Options struct {
	// Slot is the save-slot name. Defaults to DefaultSlot.
	Slot string

	// Store receives snapshots. The session does not own it; the caller
	// closes it. Defaults to an in-memory store.
	Store save.Store

	// Tokens generates the session token. Defaults to UUIDv7Generator.
	Tokens TokenGenerator
}

// Session is the single-owner game host.
//
// Thread-safety model:
//   - Dispatch(), State(): safe from any goroutine (mutex-serialized)
//   - the reducer runs to completion inside Dispatch; handlers are never
//     reentered
type Session struct {
	mu      sync.Mutex
	token   string
	slot    string
	reducer *game.Reducer
	state   game.GameState
	store   save.Store
	clock   *Clock

	// writes tracks in-flight async persistence for Flush.
	writes sync.WaitGroup
}

// New creates a session over the reducer, resuming from the store's slot
// when a save exists there.
//
// Loading never fails the session: a read error or malformed blob is
// logged and the session starts fresh instead.
func New(r *game.Reducer, opts Options) *Session {
	if opts.Slot == "" {
		opts.Slot = DefaultSlot
	}
	if opts.Store == nil {
		opts.Store = save.NewMemoryStore()
	}
	if opts.Tokens == nil {
		opts.Tokens = UUIDv7Generator{}
	}

	s := &Session{
		token:   opts.Tokens.Generate(),
		slot:    opts.Slot,
		reducer: r,
		store:   opts.Store,
		clock:   NewClock(),
	}

	fresh := r.NewGame()
	rec, found, err := opts.Store.Get(context.Background(), opts.Slot)
	switch {
	case err != nil:
		slog.Warn("could not read save slot, starting fresh",
			"slot", opts.Slot, "error", err)
		s.state = fresh
	case found:
		s.state = save.Reconcile(fresh, r.Rules(), rec.Snapshot)
		s.clock = NewClockAt(rec.Revision)
		slog.Info("session resumed",
			"slot", opts.Slot, "revision", rec.Revision, "token", s.token)
	default:
		s.state = fresh
		slog.Info("session started fresh", "slot", opts.Slot, "token", s.token)
	}
	return s
}

// Token returns the session's correlation token.
func (s *Session) Token() string { return s.token }

// State returns a deep-copied read-only snapshot of the current state.
// The presentation layer never mutates state directly; Dispatch is the
// sole mutation entry point.
func (s *Session) State() game.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies an action. On rejection the state is unchanged, nothing
// is persisted, and the reducer's *game.RuleError is returned so the
// caller can explain the rejection.
//
// On success the new state is persisted asynchronously; persistence
// failures are logged and never block or fail gameplay.
func (s *Session) Dispatch(a game.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.reducer.Apply(s.state, a)
	if err != nil {
		slog.Debug("action rejected",
			"action", a.ActionName(), "token", s.token, "error", err)
		return err
	}
	s.state = next

	rev := s.clock.Next()
	snapshot, encErr := save.Encode(next)
	if encErr != nil {
		slog.Error("snapshot encoding failed, skipping persist",
			"action", a.ActionName(), "revision", rev, "error", encErr)
		return nil
	}

	slog.Info("action applied",
		"action", a.ActionName(),
		"token", s.token,
		"revision", rev,
		"budget", next.Budget,
		"score", next.Score,
		"year", next.Year,
	)

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		rec := save.Record{SessionToken: s.token, Revision: rev, Snapshot: snapshot}
		if putErr := s.store.Put(context.Background(), s.slot, rec); putErr != nil {
			slog.Error("snapshot persist failed",
				"slot", s.slot, "revision", rev, "error", putErr)
		}
	}()
	return nil
}

// Flush blocks until every in-flight snapshot write has finished. Called
// before process exit and by tests; gameplay never calls it.
func (s *Session) Flush() {
	s.writes.Wait()
}
