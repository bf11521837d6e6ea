package settle_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/eventlog"
	"github.com/seqctl/seqctl/internal/replay"
	"github.com/seqctl/seqctl/internal/settle"
)

func newStartedLog(t *testing.T, dir, task string) *eventlog.Log {
	t.Helper()
	log := eventlog.New(dir)
	require.NoError(t, log.Append(context.Background(), task, domain.NewTaskStarted(time.Now().UTC(), uuid.New())))
	return log
}

func TestSettleAdvanceOnSuccess(t *testing.T) {
	t.Parallel()

	log := newStartedLog(t, t.TempDir(), "demo")
	p := settle.New(log)

	cont, err := p.Settle(context.Background(), "demo", 2, 0, domain.OnFailRetry, 0,
		domain.StepRecord{ExitCode: 0, Duration: time.Second}, domain.VerifyPassed, "")
	require.NoError(t, err)
	assert.True(t, cont)

	events, err := log.Read("demo")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventStepFinished, events[1].Type)
	assert.True(t, events[1].IsSuccess())
}

func TestSettleRetryAutoAppendsFinishedThenReset(t *testing.T) {
	t.Parallel()

	log := newStartedLog(t, t.TempDir(), "demo")
	p := settle.New(log)

	cont, err := p.Settle(context.Background(), "demo", 1, 0, domain.OnFailRetry, 2,
		domain.StepRecord{ExitCode: 1, Duration: time.Second}, domain.VerifyPassed, "")
	require.NoError(t, err)
	assert.True(t, cont)

	events, err := log.Read("demo")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.EventStepFinished, events[1].Type)
	assert.False(t, events[1].IsSuccess())
	assert.Equal(t, domain.EventStepReset, events[2].Type)
	assert.True(t, events[2].IsAuto())
}

func TestSettleRetryBudgetExhaustedFails(t *testing.T) {
	t.Parallel()

	log := newStartedLog(t, t.TempDir(), "demo")
	p := settle.New(log)
	ctx := context.Background()

	// Two auto-retries to exhaust a budget of 2.
	for i := 0; i < 2; i++ {
		_, err := p.Settle(ctx, "demo", 1, 0, domain.OnFailRetry, 2,
			domain.StepRecord{ExitCode: 1, Duration: time.Second}, domain.VerifyPassed, "")
		require.NoError(t, err)
	}

	cont, err := p.Settle(ctx, "demo", 1, 0, domain.OnFailRetry, 2,
		domain.StepRecord{ExitCode: 1, Duration: time.Second}, domain.VerifyPassed, "")
	require.NoError(t, err)
	assert.False(t, cont)

	events, err := log.Read("demo")
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, domain.EventStepFinished, last.Type)
	assert.False(t, last.IsSuccess())

	res := replay.Replay(events, 1)
	assert.Equal(t, domain.StatusFailed, res.State.Status)
}

func TestSettleHumanOnFailYieldsOnFailManual(t *testing.T) {
	t.Parallel()

	log := newStartedLog(t, t.TempDir(), "demo")
	p := settle.New(log)

	cont, err := p.Settle(context.Background(), "demo", 1, 0, domain.OnFailHuman, 0,
		domain.StepRecord{ExitCode: 1, Duration: time.Second}, domain.VerifyPassed, "")
	require.NoError(t, err)
	assert.False(t, cont)

	events, err := log.Read("demo")
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, domain.EventStepYielded, last.Type)
	assert.Equal(t, domain.ReasonOnFailManual, last.Reason)
}

func TestSettleVerifyFailureEmitsVerifyFailed(t *testing.T) {
	t.Parallel()

	log := newStartedLog(t, t.TempDir(), "demo")
	p := settle.New(log)

	cont, err := p.Settle(context.Background(), "demo", 1, 0, domain.OnFailHuman, 0,
		domain.StepRecord{ExitCode: 0, Duration: time.Second}, domain.VerifyFailed, "expected 200, got 500")
	require.NoError(t, err)
	assert.False(t, cont)

	events, err := log.Read("demo")
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, domain.EventVerifyFailed, last.Type)
	assert.Equal(t, "expected 200, got 500", last.Feedback)
}

func TestSettleIsIdempotentOnDuplicateCall(t *testing.T) {
	t.Parallel()

	log := newStartedLog(t, t.TempDir(), "demo")
	p := settle.New(log)
	ctx := context.Background()

	record := domain.StepRecord{ExitCode: 1, Duration: time.Second}
	_, err := p.Settle(ctx, "demo", 1, 0, domain.OnFailHuman, 0, record, domain.VerifyPassed, "")
	require.NoError(t, err)

	before, err := log.Read("demo")
	require.NoError(t, err)

	// A second invocation for the same step, simulating a race where two
	// processes both tried to settle it, must not append another event.
	_, err = p.Settle(ctx, "demo", 1, 0, domain.OnFailHuman, 0, record, domain.VerifyPassed, "")
	require.NoError(t, err)

	after, err := log.Read("demo")
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

func TestSettleVerifyPendingYieldsVerifyManual(t *testing.T) {
	t.Parallel()

	log := newStartedLog(t, t.TempDir(), "demo")
	p := settle.New(log)

	cont, err := p.Settle(context.Background(), "demo", 1, 0, domain.OnFailRetry, 0,
		domain.StepRecord{ExitCode: 0, Duration: time.Second}, domain.VerifyPending, "")
	require.NoError(t, err)
	assert.False(t, cont)

	events, err := log.Read("demo")
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, domain.EventStepYielded, last.Type)
	assert.Equal(t, domain.ReasonVerifyManual, last.Reason)
}
