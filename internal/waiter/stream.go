package waiter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Line is one emitted event, decoded just enough to add the task name as
// a "task" JSON field without needing to know the event schema.
type Line struct {
	Task string
	Raw  json.RawMessage
}

// MarshalJSON adds task to Raw's own members. The merged object's keys are
// written in sorted order, and a "task" member already in Raw wins.
func (l Line) MarshalJSON() ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(l.Raw, &fields); err != nil {
		return nil, err
	}
	merged := make(map[string]json.RawMessage, len(fields)+1)
	taskJSON, err := json.Marshal(l.Task)
	if err != nil {
		return nil, err
	}
	merged["task"] = taskJSON
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Stream watches a task's event log file for writes and emits each
// complete newline-terminated line as it appears, starting from the
// current end of file. A trailing partial line (a write still in
// progress) is held back until the next notification completes it. The
// returned channel is closed when ctx is canceled or the watch fails
// unrecoverably, in which case the error is sent on errc first.
func Stream(ctx context.Context, task, path string, errc chan<- error) <-chan Line {
	out := make(chan Line)

	go func() {
		defer close(out)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			errc <- fmt.Errorf("failed to create file watcher: %w", err)
			return
		}
		defer func() { _ = watcher.Close() }()

		if err := watcher.Add(filepath.Dir(path)); err != nil {
			errc <- fmt.Errorf("failed to watch log directory: %w", err)
			return
		}

		offset, err := currentSize(path)
		if err != nil {
			errc <- err
			return
		}
		// offset always points at the first byte of the oldest line not yet
		// known to be complete; a trailing partial write is simply re-read
		// from disk on the next notification rather than buffered here.
		emit := func() error {
			f, err := os.Open(path) //#nosec G304 -- path constructed from validated task name
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			defer func() { _ = f.Close() }()

			if _, err := f.Seek(offset, 0); err != nil {
				return err
			}
			data, err := io.ReadAll(f)
			if err != nil {
				return err
			}

			consumed := 0
			for {
				i := bytes.IndexByte(data[consumed:], '\n')
				if i < 0 {
					break
				}
				line := data[consumed : consumed+i]
				consumed += i + 1
				if len(bytes.TrimSpace(line)) == 0 {
					continue
				}
				select {
				case out <- Line{Task: task, Raw: json.RawMessage(append([]byte(nil), line...))}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			offset += int64(consumed)
			return nil
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := emit(); err != nil {
					errc <- err
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				errc <- err
				return
			}
		}
	}()

	return out
}

func currentSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to stat event log: %w", err)
	}
	return info.Size(), nil
}
