package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seqctl/seqctl/internal/domain"
)

func TestCombine(t *testing.T) {
	t.Parallel()

	t.Run("zero exit and passed verify is success", func(t *testing.T) {
		t.Parallel()
		out := domain.Combine(domain.StepRecord{ExitCode: 0}, domain.VerifyPassed, "")
		assert.Equal(t, domain.OutcomeSuccess, out.Kind)
	})

	t.Run("zero exit and failed verify carries feedback", func(t *testing.T) {
		t.Parallel()
		out := domain.Combine(domain.StepRecord{ExitCode: 0}, domain.VerifyFailed, "boom")
		assert.Equal(t, domain.OutcomeVerifyFailed, out.Kind)
		assert.Equal(t, "boom", out.Feedback)
	})

	t.Run("zero exit and pending verify yields", func(t *testing.T) {
		t.Parallel()
		out := domain.Combine(domain.StepRecord{ExitCode: 0}, domain.VerifyPending, "")
		assert.Equal(t, domain.OutcomeYielded, out.Kind)
	})

	t.Run("nonzero exit is run failure regardless of verify", func(t *testing.T) {
		t.Parallel()
		out := domain.Combine(domain.StepRecord{ExitCode: 1}, domain.VerifyPassed, "")
		assert.Equal(t, domain.OutcomeRunFailed, out.Kind)
		assert.Equal(t, 1, out.ExitCode)
	})
}

func TestDecide(t *testing.T) {
	t.Parallel()

	t.Run("success always advances", func(t *testing.T) {
		t.Parallel()
		v := domain.Decide(domain.Outcome{Kind: domain.OutcomeSuccess}, domain.OnFailRetry, 0, 3)
		assert.Equal(t, domain.VerdictAdvance, v.Kind)
	})

	t.Run("yielded outcome always yields verify_manual", func(t *testing.T) {
		t.Parallel()
		v := domain.Decide(domain.Outcome{Kind: domain.OutcomeYielded}, domain.OnFailRetry, 0, 3)
		assert.Equal(t, domain.VerdictYield, v.Kind)
		assert.Equal(t, domain.ReasonVerifyManual, v.Reason)
	})

	t.Run("retry policy under budget retries", func(t *testing.T) {
		t.Parallel()
		v := domain.Decide(domain.Outcome{Kind: domain.OutcomeRunFailed, ExitCode: 1}, domain.OnFailRetry, 1, 2)
		assert.Equal(t, domain.VerdictRetryAuto, v.Kind)
	})

	t.Run("retry policy at budget fails", func(t *testing.T) {
		t.Parallel()
		v := domain.Decide(domain.Outcome{Kind: domain.OutcomeRunFailed, ExitCode: 1}, domain.OnFailRetry, 2, 2)
		assert.Equal(t, domain.VerdictFail, v.Kind)
	})

	t.Run("human policy yields on_fail_manual with feedback", func(t *testing.T) {
		t.Parallel()
		v := domain.Decide(domain.Outcome{Kind: domain.OutcomeRunFailed, ExitCode: 1, Feedback: "nope"}, domain.OnFailHuman, 0, 0)
		assert.Equal(t, domain.VerdictYield, v.Kind)
		assert.Equal(t, domain.ReasonOnFailManual, v.Reason)
		assert.Equal(t, "nope", v.Outcome.Feedback)
	})
}

func TestStatusCanReach(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.StatusRunning.CanReach(domain.StatusCompleted))
	assert.True(t, domain.StatusRunning.CanReach(domain.StatusFailed))
	assert.False(t, domain.StatusCompleted.CanReach(domain.StatusFailed))
	assert.True(t, domain.StatusFailed.CanReach(domain.StatusStopped))
	assert.False(t, domain.StatusFailed.CanReach(domain.StatusCompleted))
}

func TestTaskStateCompleted(t *testing.T) {
	t.Parallel()

	st := domain.TaskState{CurrentStep: 2}
	assert.True(t, st.Completed(2))
	assert.False(t, st.Completed(3))
}
