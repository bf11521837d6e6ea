// Package waiter implements the polling Wait and file-watch Stream
// operations, plus the viewport-loss self-repair that both invoke before
// trusting a replayed Running status.
package waiter

import (
	"context"
	"time"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/eventlog"
	"github.com/seqctl/seqctl/internal/replay"
	"github.com/seqctl/seqctl/internal/viewport"
)

// Log is the narrow eventlog view health-checking and waiting need.
type Log interface {
	Read(task string) ([]domain.Event, error)
	Append(ctx context.Context, task string, event domain.Event) error
}

var _ Log = (*eventlog.Log)(nil)

// CheckViewport is the one automatic repair in the system: a Running task
// whose most recent viewport_launched was never followed by a settling
// event, and whose named viewport no longer exists, gets a viewport_lost
// event appended so the task stops claiming a reachable settlement it can
// no longer produce. It is invoked before every status read that matters
// (Wait's poll loop, and every statusview read behind the status and list
// commands and /api/status) so staleness never persists past one
// observation.
func CheckViewport(ctx context.Context, log Log, vp viewport.Driver, viewportName string, task string, res replay.Result) error {
	if res.State == nil || res.State.Status != domain.StatusRunning {
		return nil
	}
	if res.OpenViewport < 0 {
		return nil
	}
	exists, err := vp.Exists(ctx, viewportName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	// Zero timestamp: Log.Append stamps it with the append-time clock.
	return log.Append(ctx, task, domain.NewViewportLost(time.Time{}, res.OpenViewport))
}
