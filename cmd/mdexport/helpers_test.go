package main

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	mdexport "github.com/alnah/go-mdexport"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock exporter and pool
// ---------------------------------------------------------------------------

// mockExporter echoes the format and title so tests can check what was sent.
type mockExporter struct {
	err   error
	mu    sync.Mutex
	calls []mdexport.Input
}

func (m *mockExporter) Export(_ context.Context, format mdexport.Format, in mdexport.Input) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, in)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return []byte(string(format) + ":" + in.Title), nil
}

func (m *mockExporter) inputs() []mdexport.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mdexport.Input(nil), m.calls...)
}

type mockPool struct {
	exp        Exporter
	acquireErr error
	size       int

	inUse    atomic.Int32
	peak     atomic.Int32
	released atomic.Int32
	closed   atomic.Int32
}

func (p *mockPool) Acquire() (Exporter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	n := p.inUse.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	return p.exp, nil
}

func (p *mockPool) Release(Exporter) {
	p.inUse.Add(-1)
	p.released.Add(1)
}

func (p *mockPool) Size() int {
	if p.size == 0 {
		return 1
	}
	return p.size
}

func (p *mockPool) Close() error {
	p.closed.Add(1)
	return nil
}

// testEnv returns an environment with captured output and pool.
func testEnv(pool Pool) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(string) string { return "" },
		NewPool: func(int, ...mdexport.Option) Pool {
			return pool
		},
	}
	return env, stdout, stderr
}

var errMock = errors.New("mock failure")

func assertErrorIs(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}
