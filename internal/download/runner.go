// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package download

import (
	"context"
	"sync"
	"time"
)

// Runner drives a Simulator from a ticker goroutine.
// The ticker stops when the simulator reaches Ready or on Stop.
type Runner struct {
	mu       sync.Mutex
	sim      *Simulator
	interval time.Duration
	onChange func(State)

	started  bool
	stopped  bool
	ctx      context.Context //nolint:containedctx
	cancel   context.CancelFunc
	done     chan struct{}
	doneOnce sync.Once
}

// NewRunner wraps sim. onChange, if set, is called from the ticker goroutine
// after every state change.
func NewRunner(sim *Simulator, interval time.Duration, onChange func(State)) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Runner{
		sim:      sim,
		interval: interval,
		onChange: onChange,
		done:     make(chan struct{}),
	}
}

// Start triggers the download and begins ticking until ctx ends, Stop is
// called, or Ready is reached. A second Start is ignored and reports false.
func (r *Runner) Start(ctx context.Context) bool {
	r.mu.Lock()

	if r.started || r.stopped || !r.sim.Start() {
		r.mu.Unlock()

		return false
	}

	r.started = true

	r.ctx, r.cancel = context.WithCancel(ctx)
	ctx = r.ctx
	state := r.sim.State()
	r.mu.Unlock()

	r.notify(state)

	go r.loop(ctx)

	return true
}

func (r *Runner) loop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)

	defer func() {
		ticker.Stop()

		r.mu.Lock()
		r.cancel()
		r.mu.Unlock()

		r.closeDone()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			changed := r.sim.Tick()
			state := r.sim.State()
			r.mu.Unlock()

			if changed {
				r.notify(state)
			}

			if state.Phase == PhaseReady {
				return
			}
		}
	}
}

func (r *Runner) notify(state State) {
	if r.onChange != nil {
		r.onChange(state)
	}
}

func (r *Runner) closeDone() {
	r.doneOnce.Do(func() { close(r.done) })
}

// Stop tears the runner down. Safe to call repeatedly and before Start.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.stopped = true
	cancel := r.cancel
	started := r.started
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if !started {
		r.closeDone()
	}
}

// Stopped reports whether Stop has been called.
func (r *Runner) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stopped
}

// Done is closed once the ticker goroutine has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// State returns a snapshot of the underlying simulator.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sim.State()
}
