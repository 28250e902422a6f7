package mdexport

// Notes:
// - Pool tests inject newConv so converters are built with a mock rasterizer
// - Concurrency tests are run with -race in CI

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// newTestPool creates a pool whose converters never start a browser.
func newTestPool(t *testing.T, n int) (*ConverterPool, *atomic.Int32) {
	t.Helper()

	var created atomic.Int32
	pool := NewConverterPool(n)
	pool.newConv = func(opts ...Option) (*Converter, error) {
		created.Add(1)
		return NewConverter(append(opts, withRasterizer(&mockRasterizer{}))...)
	}
	return pool, &created
}

// ---------------------------------------------------------------------------
// TestNewConverterPool
// ---------------------------------------------------------------------------

func TestNewConverterPool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"positive size", 3, 3},
		{"zero becomes one", 0, 1},
		{"negative becomes one", -2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := NewConverterPool(tt.n)
			defer pool.Close()
			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConverterPool_Acquire
// ---------------------------------------------------------------------------

func TestConverterPool_AcquireCreatesLazily(t *testing.T) {
	t.Parallel()

	pool, created := newTestPool(t, 2)
	defer pool.Close()

	if created.Load() != 0 {
		t.Fatalf("converters created before first Acquire: %d", created.Load())
	}

	conv, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	if created.Load() != 1 {
		t.Errorf("created = %d, want 1", created.Load())
	}
	pool.Release(conv)

	// A released converter is reused instead of building a second one.
	again, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	if again != conv {
		t.Error("Acquire() did not reuse the released converter")
	}
	if created.Load() != 1 {
		t.Errorf("created = %d, want 1", created.Load())
	}
	pool.Release(again)
}

func TestConverterPool_AcquireBlocksWhenExhausted(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(t, 1)
	defer pool.Close()

	first, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}

	got := make(chan *Converter, 1)
	go func() {
		conv, _ := pool.Acquire()
		got <- conv
	}()

	select {
	case <-got:
		t.Fatal("Acquire() returned while the only converter was in use")
	case <-time.After(50 * time.Millisecond):
	}

	pool.Release(first)

	select {
	case conv := <-got:
		if conv != first {
			t.Error("waiting Acquire() got a different converter")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Acquire() did not unblock after Release")
	}
}

func TestConverterPool_AcquireCreationError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	pool := NewConverterPool(1)
	defer pool.Close()

	var calls int
	pool.newConv = func(...Option) (*Converter, error) {
		calls++
		if calls == 1 {
			return nil, wantErr
		}
		return NewConverter(withRasterizer(&mockRasterizer{}))
	}

	if _, err := pool.Acquire(); !errors.Is(err, wantErr) {
		t.Fatalf("Acquire() error = %v, want %v", err, wantErr)
	}

	// The failed slot is returned so a later Acquire can retry.
	conv, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() retry unexpected error: %v", err)
	}
	pool.Release(conv)
}

func TestConverterPool_AcquireAfterClose(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(t, 1)
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	if _, err := pool.Acquire(); !errors.Is(err, ErrClosed) {
		t.Errorf("Acquire() error = %v, want ErrClosed", err)
	}
}

// ---------------------------------------------------------------------------
// TestConverterPool_Release and Close
// ---------------------------------------------------------------------------

func TestConverterPool_ReleaseNilAndAfterClose(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(t, 1)
	conv, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}

	pool.Release(nil)
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	// Must not panic on a closed channel.
	pool.Release(conv)
}

func TestConverterPool_CloseIdempotent(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(t, 2)
	conv, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	pool.Release(conv)

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("second Close() unexpected error: %v", err)
	}
	if !conv.closed {
		t.Error("Close() did not close pooled converters")
	}
}

func TestConverterPool_CloseAggregatesErrors(t *testing.T) {
	t.Parallel()

	errA := errors.New("close a")
	errB := errors.New("close b")
	closeErrs := []error{errA, errB}

	pool := NewConverterPool(2)
	var i int
	pool.newConv = func(...Option) (*Converter, error) {
		r := &mockRasterizer{closeErr: closeErrs[i]}
		i++
		return NewConverter(withRasterizer(r))
	}

	a, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	b, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	pool.Release(a)
	pool.Release(b)

	err = pool.Close()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Close() error = %v, want both close errors", err)
	}
}

// ---------------------------------------------------------------------------
// TestConverterPool_Concurrent
// ---------------------------------------------------------------------------

func TestConverterPool_Concurrent(t *testing.T) {
	t.Parallel()

	const size, workers = 2, 8
	pool, created := newTestPool(t, size)
	defer pool.Close()

	var wg sync.WaitGroup
	var inUse, peak atomic.Int32
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv, err := pool.Acquire()
			if err != nil {
				t.Errorf("Acquire() unexpected error: %v", err)
				return
			}
			n := inUse.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inUse.Add(-1)
			pool.Release(conv)
		}()
	}
	wg.Wait()

	if created.Load() > size {
		t.Errorf("created %d converters, want at most %d", created.Load(), size)
	}
	if peak.Load() > size {
		t.Errorf("peak concurrent use = %d, want at most %d", peak.Load(), size)
	}
}

// ---------------------------------------------------------------------------
// TestResolvePoolSize
// ---------------------------------------------------------------------------

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	if got := ResolvePoolSize(5); got != 5 {
		t.Errorf("ResolvePoolSize(5) = %d, want 5", got)
	}

	want := runtime.GOMAXPROCS(0) / cpuDivisor
	want = max(MinPoolSize, min(MaxPoolSize, want))
	if got := ResolvePoolSize(0); got != want {
		t.Errorf("ResolvePoolSize(0) = %d, want %d", got, want)
	}
}
