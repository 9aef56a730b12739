// Package session keeps the current flow state for each visit.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"hexnews/internal/flow"
	"hexnews/internal/logger"
)

// Session errors.
var (
	ErrNotFound   = errors.New("session not found")
	ErrSuperseded = errors.New("call superseded by a newer action")
	ErrWrongPage  = errors.New("session is on another page")
)

type entry struct {
	state  flow.State
	staged flow.State
	seen   time.Time
	cancel context.CancelFunc
	call   uint64
}

// Store is an in-memory map of visit id to flow state. Every access sweeps
// sessions idle for longer than the configured TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
	logger   *logger.Logger
}

// NewStore creates a store. A non-positive ttl disables expiry.
func NewStore(ttl time.Duration, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}

	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
		logger:   log.With("component", "session"),
	}
}

// Create stores st under a fresh id and returns the id.
func (s *Store) Create(st flow.State) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.sessions[id] = &entry{state: st, seen: s.now()}

	s.logger.Debug("session created", "id", id, "page", st.Page())

	return id
}

// Get returns the state for id.
func (s *Store) Get(id string) (flow.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	e.seen = s.now()

	return e.state, nil
}

// Discard drops the session and cancels its in-flight call, if any.
func (s *Store) Discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[id]; ok {
		if e.cancel != nil {
			e.cancel()
		}

		delete(s.sessions, id)
		s.logger.Debug("session discarded", "id", id)
	}
}

// Call is one state transition of a session. Every write to a session's
// state goes through a call, so a call only commits a state derived from
// the state it started with.
type Call struct {
	store  *Store
	id     string
	seq    uint64
	state  flow.State
	staged flow.State
	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns the context the backend call must run under.
func (c *Call) Context() context.Context {
	return c.ctx
}

// State returns the session state when the call began.
func (c *Call) State() flow.State {
	return c.state
}

// Staged returns the state staged by the call this one superseded, or nil.
// It is the user's latest intent, not yet backed by a completed call.
func (c *Call) Staged() flow.State {
	return c.staged
}

// Stage records st as the intent of this call. A call that supersedes this
// one sees it through Staged. Staged states are never shown as the
// session's state.
func (c *Call) Stage(st flow.State) error {
	s := c.store

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[c.id]
	if !ok {
		return ErrNotFound
	}

	if e.call != c.seq || c.ctx.Err() != nil {
		return ErrSuperseded
	}

	e.staged = st

	return nil
}

// Commit stores st as the session's state unless a newer action superseded
// this call or the session is gone.
func (c *Call) Commit(st flow.State) error {
	s := c.store

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[c.id]
	if !ok {
		return ErrNotFound
	}

	if e.call != c.seq || c.ctx.Err() != nil {
		return ErrSuperseded
	}

	e.state = st
	e.staged = nil
	e.seen = s.now()

	return nil
}

// Done releases the call. A staged state that was never committed is
// dropped. It is safe to call more than once.
func (c *Call) Done() {
	c.cancel()

	s := c.store

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[c.id]; ok && e.call == c.seq {
		e.cancel = nil
		e.staged = nil
	}
}

// Begin starts a transition of id from the given page. Its context is
// cancelled when parent is, when another Begin for the same id starts, or
// when the session is discarded or expires. A session showing another page
// returns ErrWrongPage and leaves any in-flight call running. The caller
// must call Done once the call returns.
func (s *Store) Begin(parent context.Context, id string, page flow.Page) (*Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	if e.state.Page() != page {
		return nil, ErrWrongPage
	}

	if e.cancel != nil {
		s.logger.Debug("superseding in-flight call", "id", id)
		e.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	e.call++
	e.cancel = cancel
	e.seen = s.now()

	call := &Call{
		store:  s,
		id:     id,
		seq:    e.call,
		state:  e.state,
		staged: e.staged,
		ctx:    ctx,
		cancel: cancel,
	}
	e.staged = nil

	return call, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	return len(s.sessions)
}

func (s *Store) sweepLocked() {
	if s.ttl <= 0 {
		return
	}

	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.sessions {
		if e.seen.Before(cutoff) {
			if e.cancel != nil {
				e.cancel()
			}

			delete(s.sessions, id)
			s.logger.Debug("session expired", "id", id)
		}
	}
}
