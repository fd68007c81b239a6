// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package download

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) record(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states = append(r.states, s)
}

func (r *recorder) progress() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int, len(r.states))
	for i, s := range r.states {
		out[i] = s.Progress
	}

	return out
}

func waitDone(t *testing.T, r *Runner) {
	t.Helper()

	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not finish")
	}
}

func TestRunnerReachesReadyAndStops(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	runner := NewRunner(NewSimulator(urls, DefaultStep), time.Millisecond, rec.record)

	require.True(t, runner.Start(context.Background()))
	waitDone(t, runner)

	state := runner.State()
	assert.Equal(t, PhaseReady, state.Phase)
	assert.Equal(t, MaxProgress, state.Progress)
	assert.Len(t, state.Links, 2)
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, rec.progress())
}

func TestRunnerReleasesContextAtReady(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := NewRunner(NewSimulator(urls, DefaultStep), time.Millisecond, nil)
	require.True(t, runner.Start(parent))
	waitDone(t, runner)

	require.Equal(t, PhaseReady, runner.State().Phase)
	require.NoError(t, parent.Err())

	runner.mu.Lock()
	defer runner.mu.Unlock()

	assert.ErrorIs(t, runner.ctx.Err(), context.Canceled)
}

func TestRunnerIgnoresSecondStart(t *testing.T) {
	t.Parallel()

	runner := NewRunner(NewSimulator(urls, DefaultStep), time.Hour, nil)
	defer runner.Stop()

	require.True(t, runner.Start(context.Background()))
	assert.False(t, runner.Start(context.Background()))
	assert.Equal(t, PhaseDownloading, runner.State().Phase)
	assert.Equal(t, 0, runner.State().Progress)
}

func TestRunnerStopHaltsTicking(t *testing.T) {
	t.Parallel()

	runner := NewRunner(NewSimulator(urls, DefaultStep), time.Hour, nil)

	require.True(t, runner.Start(context.Background()))
	runner.Stop()
	runner.Stop()
	waitDone(t, runner)

	assert.True(t, runner.Stopped())
	assert.Equal(t, PhaseDownloading, runner.State().Phase)
}

func TestRunnerContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(NewSimulator(urls, DefaultStep), time.Hour, nil)

	require.True(t, runner.Start(ctx))
	cancel()
	waitDone(t, runner)

	assert.Nil(t, runner.State().Links)
}

func TestRunnerStopBeforeStart(t *testing.T) {
	t.Parallel()

	runner := NewRunner(NewSimulator(urls, DefaultStep), 0, nil)
	runner.Stop()
	waitDone(t, runner)

	assert.False(t, runner.Start(context.Background()), "stopped runner cannot start")
	assert.Equal(t, PhaseIdle, runner.State().Phase)
}
