// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	// ErrRateLimited is returned when sessions are started too quickly.
	ErrRateLimited = errors.New("too many download requests")
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("download session not found")
)

// Session is one simulated download owned by the registry.
type Session struct {
	ID      string
	Slug    string
	Created time.Time

	runner *Runner
}

// State returns the current simulator snapshot.
func (s *Session) State() State {
	return s.runner.State()
}

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	Interval   time.Duration // tick interval
	Step       int           // progress per tick
	TTL        time.Duration // lifetime of a session before it is reaped
	StartEvery time.Duration // minimum average gap between session starts
	StartBurst int           // starts allowed back to back
}

// Registry tracks the download sessions of the web front end.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      RegistryConfig
	limiter  *rate.Limiter
	now      func() time.Time

	ctx    context.Context //nolint:containedctx // parent of every session runner
	cancel context.CancelFunc
}

// NewRegistry creates an empty registry. Close releases every session.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}

	if cfg.StartBurst <= 0 {
		cfg.StartBurst = 5
	}

	limit := rate.Inf
	if cfg.StartEvery > 0 {
		limit = rate.Every(cfg.StartEvery)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Registry{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, cfg.StartBurst),
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start creates a session for slug and starts its simulated download.
func (r *Registry) Start(slug string, urls []string) (*Session, error) {
	if !r.limiter.Allow() {
		return nil, ErrRateLimited
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to create session id: %w", err)
	}

	session := &Session{
		ID:      id.String(),
		Slug:    slug,
		Created: r.now(),
		runner:  NewRunner(NewSimulator(urls, r.cfg.Step), r.cfg.Interval, nil),
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	session.runner.Start(r.ctx)

	return session, nil
}

// Get returns the session with id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// Cancel stops and forgets the session with id.
func (r *Registry) Cancel(id string) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	session.runner.Stop()

	return nil
}

// Reap removes sessions older than the TTL and returns how many were removed.
func (r *Registry) Reap() int {
	cutoff := r.now().Add(-r.cfg.TTL)

	r.mu.Lock()

	var expired []*Session

	for id, session := range r.sessions {
		if session.Created.Before(cutoff) {
			expired = append(expired, session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, session := range expired {
		session.runner.Stop()
	}

	return len(expired)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Run reaps expired sessions until ctx ends, then closes the registry.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(max(r.cfg.TTL/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()

			return
		case <-ticker.C:
			r.Reap()
		}
	}
}

// Close stops every session and forgets them.
func (r *Registry) Close() {
	r.cancel()

	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, session := range sessions {
		session.runner.Stop()
	}
}
