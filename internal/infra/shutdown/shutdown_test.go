package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/yndnr/civ7save-go/internal/telemetry/logger"
)

func TestNewHandler(t *testing.T) {
	h := NewHandler(5*time.Second, nil)
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if h.hooks == nil || h.done == nil || h.log == nil {
		t.Error("handler not fully initialised")
	}

	select {
	case <-h.Done():
		t.Error("Done channel should not be closed initially")
	default:
	}
}

func recordingHooks(h *Handler, n int) (func() []string, *sync.Mutex) {
	var mu sync.Mutex
	var order []string
	for i := 0; i < n; i++ {
		name := string(rune('a' + i))
		h.OnShutdown(name, func(ctx context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}
	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), order...)
	}, &mu
}

func TestHandler_Wait_Trigger(t *testing.T) {
	h := NewHandler(time.Second, logger.Nop())
	order, _ := recordingHooks(h, 3)

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(context.Background()) }()

	h.Trigger()
	h.Trigger()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}

	got := order()
	if len(got) != 3 || got[0] != "c" || got[1] != "b" || got[2] != "a" {
		t.Errorf("hooks called in order %v, want [c b a]", got)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Wait completes")
	}
}

func TestHandler_Wait_Context(t *testing.T) {
	h := NewHandler(time.Second, logger.Nop())
	order, _ := recordingHooks(h, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.Wait(ctx); err != nil {
		t.Errorf("Wait() returned error: %v", err)
	}
	if len(order()) != 1 {
		t.Error("hook did not run")
	}
}

func TestHandler_Wait_Signal(t *testing.T) {
	h := NewHandler(time.Second, logger.Nop())
	order, _ := recordingHooks(h, 2)

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(context.Background()) }()

	// give Wait time to install the signal handler
	time.Sleep(50 * time.Millisecond)
	syscall.Kill(syscall.Getpid(), syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}
	if len(order()) != 2 {
		t.Errorf("hooks called = %v", order())
	}
}

func TestHandler_Wait_HookErrors(t *testing.T) {
	h := NewHandler(time.Second, logger.Nop())

	errIndex := errors.New("index close failed")
	errHTTP := errors.New("http shutdown failed")
	ran := false

	h.OnShutdown("index", func(ctx context.Context) error { return errIndex })
	h.OnShutdown("cache", func(ctx context.Context) error { ran = true; return nil })
	h.OnShutdown("http", func(ctx context.Context) error { return errHTTP })

	h.Trigger()
	err := h.Wait(context.Background())
	if !errors.Is(err, errIndex) || !errors.Is(err, errHTTP) {
		t.Errorf("Wait() = %v, want both hook errors", err)
	}
	if !ran {
		t.Error("a failing hook should not stop the others")
	}
}

func TestHandler_HookDeadline(t *testing.T) {
	h := NewHandler(20*time.Millisecond, logger.Nop())
	h.OnShutdown("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	h.Trigger()
	err := h.Wait(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() = %v, want deadline exceeded", err)
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(5*time.Second, logger.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown("noop", func(ctx context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hooks) != 10 {
		t.Errorf("expected 10 hooks, got %d", len(h.hooks))
	}
}
