package waiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/eventlog"
	"github.com/seqctl/seqctl/internal/viewport"
	"github.com/seqctl/seqctl/internal/waiter"
)

// fakeClock advances its Now() by the requested duration on every Sleep,
// so a Wait loop with a short timeout terminates without real delay.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time         { return c.now }
func (c *fakeClock) Sleep(d time.Duration)  { c.now = c.now.Add(d) }

func TestWaitMatchesImmediately(t *testing.T) {
	t.Parallel()

	log := eventlog.New(t.TempDir())
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, log.Append(ctx, "demo", domain.NewTaskStarted(now, uuid.New())))

	outcome, state, err := waiter.Wait(ctx, log, viewport.NewFakeDriver(), &fakeClock{now: now}, waiter.Params{
		Task:        "demo",
		WorkflowLen: 2,
		Until:       map[domain.Status]bool{domain.StatusRunning: true},
		Timeout:     time.Minute,
		Interval:    time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, waiter.OutcomeMatch, outcome)
	require.NotNil(t, state)
	assert.Equal(t, domain.StatusRunning, state.Status)
}

func TestWaitUnreachableWhenCompleted(t *testing.T) {
	t.Parallel()

	log := eventlog.New(t.TempDir())
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, log.AppendAll(ctx, "demo",
		domain.NewTaskStarted(now, uuid.New()),
		domain.NewStepFinished(now, 0, 0, true, time.Second, "", ""),
	))

	outcome, _, err := waiter.Wait(ctx, log, viewport.NewFakeDriver(), &fakeClock{now: now}, waiter.Params{
		Task:        "demo",
		WorkflowLen: 1,
		Until:       map[domain.Status]bool{domain.StatusFailed: true},
		Timeout:     time.Minute,
		Interval:    time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, waiter.OutcomeUnreachable, outcome)
}

func TestWaitTimesOutWhenNeverStarted(t *testing.T) {
	t.Parallel()

	log := eventlog.New(t.TempDir())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	outcome, state, err := waiter.Wait(context.Background(), log, viewport.NewFakeDriver(), &fakeClock{now: now}, waiter.Params{
		Task:        "ghost",
		WorkflowLen: 1,
		Until:       map[domain.Status]bool{domain.StatusCompleted: true},
		Timeout:     5 * time.Second,
		Interval:    time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, waiter.OutcomeTimeout, outcome)
	assert.Nil(t, state)
}

func TestWaitStopsImmediatelyOnContextCancel(t *testing.T) {
	t.Parallel()

	log := eventlog.New(t.TempDir())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := waiter.Wait(ctx, log, viewport.NewFakeDriver(), &fakeClock{now: now}, waiter.Params{
		Task:        "ghost",
		WorkflowLen: 1,
		Until:       map[domain.Status]bool{domain.StatusCompleted: true},
		Timeout:     time.Hour,
		Interval:    time.Second,
	})
	assert.Error(t, err)
}
