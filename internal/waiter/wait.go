package waiter

import (
	"context"
	"time"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/replay"
	"github.com/seqctl/seqctl/internal/viewport"
)

// Outcome is the terminal result of a Wait call.
type Outcome string

const (
	OutcomeMatch       Outcome = "match"
	OutcomeTimeout     Outcome = "timeout"
	OutcomeUnreachable Outcome = "unreachable"
)

// Clock abstracts the passage of time so Wait's poll loop can be driven
// deterministically in tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock drives Wait with real wall-clock time.
type SystemClock struct{}

func (SystemClock) Now() time.Time     { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Params configures a Wait call.
type Params struct {
	Task        string
	WorkflowLen int
	Until       map[domain.Status]bool
	Timeout     time.Duration
	Interval    time.Duration
}

// Wait polls task's event log until its replayed status is in until, the
// status can no longer reach any member of until without a reset, or
// timeout elapses. Before every replay it runs the viewport-loss health
// check so a Running status is never trusted stale.
func Wait(ctx context.Context, log Log, vp viewport.Driver, clock Clock, p Params) (Outcome, *domain.TaskState, error) {
	deadline := clock.Now().Add(p.Timeout)
	name := viewport.NameFor(p.Task)

	for {
		events, err := log.Read(p.Task)
		if err != nil {
			return "", nil, err
		}
		res := replay.Replay(events, p.WorkflowLen)
		if err := CheckViewport(ctx, log, vp, name, p.Task, res); err != nil {
			return "", nil, err
		}
		if res.OpenViewport >= 0 {
			// CheckViewport may have appended viewport_lost; reload so the
			// status we act on reflects it.
			events, err = log.Read(p.Task)
			if err != nil {
				return "", nil, err
			}
			res = replay.Replay(events, p.WorkflowLen)
		}

		if res.State != nil {
			if p.Until[res.State.Status] {
				return OutcomeMatch, res.State, nil
			}
			if !canReachAny(res.State.Status, p.Until) {
				return OutcomeUnreachable, res.State, nil
			}
		}

		if clock.Now().Add(p.Interval).After(deadline) {
			return OutcomeTimeout, res.State, nil
		}

		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		default:
		}
		clock.Sleep(p.Interval)
	}
}

func canReachAny(s domain.Status, until map[domain.Status]bool) bool {
	for target := range until {
		if s.CanReach(target) {
			return true
		}
	}
	return false
}

