package viewport

import (
	"context"
	"sync"
)

// FakeDriver is an in-memory Driver for tests, recording sent text and
// allowing surfaces to be marked as lost out of band.
type FakeDriver struct {
	mu       sync.Mutex
	surfaces map[string]*fakeSurface
}

type fakeSurface struct {
	cwd  string
	sent []string
}

// NewFakeDriver returns an empty FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{surfaces: map[string]*fakeSurface{}}
}

func (d *FakeDriver) Open(_ context.Context, name, cwd string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.surfaces[name]; ok {
		return nil
	}
	d.surfaces[name] = &fakeSurface{cwd: cwd}
	return nil
}

func (d *FakeDriver) Exists(_ context.Context, name string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.surfaces[name]
	return ok, nil
}

func (d *FakeDriver) Send(_ context.Context, name, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.surfaces[name]
	if !ok {
		return nil
	}
	s.sent = append(s.sent, text)
	return nil
}

func (d *FakeDriver) Read(_ context.Context, name string, _ int) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.surfaces[name]
	if !ok {
		return "", false, nil
	}
	out := ""
	for _, line := range s.sent {
		out += line + "\n"
	}
	return out, true, nil
}

func (d *FakeDriver) Close(_ context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.surfaces, name)
	return nil
}

func (d *FakeDriver) Attach(_ context.Context, _ string) error {
	return nil
}

// Lose removes name's surface without going through Close, simulating an
// external process killing the session out from under seqctl.
func (d *FakeDriver) Lose(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.surfaces, name)
}

// Sent returns the text sent to name's surface, for test assertions.
func (d *FakeDriver) Sent(name string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.surfaces[name]; ok {
		return append([]string(nil), s.sent...)
	}
	return nil
}

var _ Driver = (*FakeDriver)(nil)
