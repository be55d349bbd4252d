// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/errors"
)

// mockSource es un mock de ports.Source configurable por host.
type mockSource struct {
	name    string
	results map[domain.Host][]string
	errs    map[domain.Host]error
	delay   time.Duration
	panics  bool

	calls atomic.Int32
}

func newMockSource(name string, found ...string) *mockSource {
	return &mockSource{name: name, results: map[domain.Host][]string{"*": found}}
}

func failingSource(name string, err error) *mockSource {
	return &mockSource{name: name, errs: map[domain.Host]error{"*": err}}
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Fetch(ctx context.Context, host domain.Host) (domain.SubdomainSet, error) {
	m.calls.Add(1)
	if m.panics {
		panic("adapter bug")
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, errors.Unavailable(ctx.Err(), m.name)
		}
	}
	if err, ok := m.errs[host]; ok {
		return nil, err
	}
	if err, ok := m.errs["*"]; ok {
		return nil, err
	}
	if found, ok := m.results[host]; ok {
		return domain.NewSubdomainSet(found...), nil
	}
	return domain.NewSubdomainSet(m.results["*"]...), nil
}

// concurrencyProbe cuenta hosts en curso para verificar la cota del scheduler.
type concurrencyProbe struct {
	inFlight atomic.Int64
	peak     atomic.Int64
	delay    time.Duration
}

func (p *concurrencyProbe) Name() string { return "probe" }

func (p *concurrencyProbe) Fetch(ctx context.Context, host domain.Host) (domain.SubdomainSet, error) {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		cur := p.peak.Load()
		if n <= cur || p.peak.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(p.delay)
	return domain.NewSubdomainSet("www." + host.String()), nil
}

// recordingNotifier guarda los eventos recibidos.
type recordingNotifier struct {
	mu     sync.Mutex
	events []ports.Event
}

func (r *recordingNotifier) Notify(e ports.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingNotifier) count(t ports.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func staticBuilder(byMode map[domain.RunMode][]ports.Source) SourceBuilder {
	return SourceBuilderFunc(func(mode domain.RunMode) ([]ports.Source, error) {
		srcs, ok := byMode[mode]
		if !ok || len(srcs) == 0 {
			return nil, domain.ErrNoSourcesAvailable
		}
		return srcs, nil
	})
}
