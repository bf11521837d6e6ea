// Package eventlog implements the append-only per-task JSONL journal that
// is the sole source of truth for task state. Nothing in this package
// interprets event contents; that is replay's job.
package eventlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/seqctl/seqctl/internal/clock"
	"github.com/seqctl/seqctl/internal/constants"
	"github.com/seqctl/seqctl/internal/ctxutil"
	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/errors"
	"github.com/seqctl/seqctl/internal/flock"
)

// Log is an append-only event journal rooted at a single directory, one
// file per task named <task>.jsonl.
type Log struct {
	dir   string
	clock clock.Clock
}

// New returns a Log that stores task journals under dir. dir is created on
// first append if it does not already exist.
func New(dir string) *Log {
	return &Log{dir: dir, clock: clock.RealClock{}}
}

// WithClock overrides the clock used to stamp append-time fallback
// timestamps; used in tests to get deterministic output.
func (l *Log) WithClock(c clock.Clock) *Log {
	l.clock = c
	return l
}

func (l *Log) path(task string) string {
	return filepath.Join(l.dir, task+".jsonl")
}

func (l *Log) lockPath(task string) string {
	return filepath.Join(l.dir, "."+task+".lock")
}

// Append atomically appends one event to task's journal. The append is
// serialized against other processes by an exclusive flock on a sidecar
// lock file, then performed as a single O_APPEND write of a complete,
// newline-terminated line so readers never observe a torn write larger
// than the write itself.
func (l *Log) Append(ctx context.Context, task string, event domain.Event) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if task == "" {
		return errors.Wrap(errors.ErrEmptyValue, "task name")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.clock.Now().UTC()
	}

	if err := os.MkdirAll(l.dir, constants.DirPerm); err != nil {
		return fmt.Errorf("failed to create event log directory: %w", err)
	}

	line, err := event.MarshalLine()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if len(line) > constants.MaxEventLineBytes {
		return errors.Wrapf(errors.ErrEventLineTooLong, "%d bytes", len(line))
	}

	lock, err := l.acquireLock(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	defer func() { _ = releaseLock(lock) }()

	f, err := os.OpenFile(l.path(task), os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FilePerm) //#nosec G304 -- path constructed from validated task name
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return f.Sync()
}

// AppendAll appends events to task's journal one at a time, preserving the
// order given. Each event is a separate Append with its own lock
// acquisition, so a reader may observe the first event before the next is
// written, but never the events out of order. Used for two-event
// sequences like reset-then-start.
func (l *Log) AppendAll(ctx context.Context, task string, events ...domain.Event) error {
	for _, e := range events {
		if err := l.Append(ctx, task, e); err != nil {
			return err
		}
	}
	return nil
}

// Read returns all events recorded for task, in file order. A malformed
// JSON line is a hard error: the event log is state-bearing data and is
// never silently repaired. A final line lacking a trailing newline is
// treated as an incomplete write-in-progress and discarded rather than
// rejected.
func (l *Log) Read(task string) ([]domain.Event, error) {
	data, err := os.ReadFile(l.path(task)) //#nosec G304 -- path constructed from validated task name
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}
	return parseLines(data)
}

// Exists reports whether task has an event log file at all.
func (l *Log) Exists(task string) bool {
	_, err := os.Stat(l.path(task))
	return err == nil
}

// Path exposes the on-disk location of task's journal, used by the
// streamer to watch for writes.
func (l *Log) Path(task string) string {
	return l.path(task)
}

func parseLines(data []byte) ([]domain.Event, error) {
	if len(data) == 0 {
		return nil, nil
	}
	trailingNewline := data[len(data)-1] == '\n'

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, constants.MaxEventLineBytes), constants.MaxEventLineBytes*2)

	var lines [][]byte
	for scanner.Scan() {
		lines = append(lines, append([]byte(nil), scanner.Bytes()...))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan event log: %w", err)
	}

	if !trailingNewline && len(lines) > 0 {
		lines = lines[:len(lines)-1]
	}

	events := make([]domain.Event, 0, len(lines))
	for i, line := range lines {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var e domain.Event
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, errors.Wrapf(errors.ErrCorruptEventLog, "line %d: %v", i+1, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func (l *Log) acquireLock(ctx context.Context, task string) (*os.File, error) {
	if err := os.MkdirAll(l.dir, constants.DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create event log directory: %w", err)
	}
	f, err := os.OpenFile(l.lockPath(task), os.O_CREATE|os.O_RDWR, constants.FilePerm) //#nosec G302,G304 -- lock file needs write access, path constructed from validated task name
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(constants.LockTimeout)
	for {
		if err := ctxutil.Canceled(ctx); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := flock.Exclusive(f.Fd()); err == nil {
			return f, nil
		}
		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, errors.ErrLockTimeout
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func releaseLock(f *os.File) error {
	if f == nil {
		return nil
	}
	if err := flock.Unlock(f.Fd()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return f.Close()
}
