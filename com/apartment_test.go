package com

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

type fakeRuntime struct {
	mu      sync.Mutex
	fail    HRESULT
	depth   int
	inits   int
	uninits int
}

func (f *fakeRuntime) CoInitializeEx(uint32) HRESULT {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	if f.fail != 0 {
		return f.fail
	}
	f.depth++
	if f.depth > 1 {
		return S_FALSE
	}
	return S_OK
}

func (f *fakeRuntime) CoUninitialize() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uninits++
	f.depth--
}

func (f *fakeRuntime) counts() (inits, uninits, depth int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inits, f.uninits, f.depth
}

func withFakeRuntime(t *testing.T) *fakeRuntime {
	t.Helper()
	prev := nativeRuntime
	f := &fakeRuntime{}
	nativeRuntime = f
	t.Cleanup(func() { nativeRuntime = prev })
	return f
}

func TestInitialize_Idempotent(t *testing.T) {
	rt := withFakeRuntime(t)

	if err := Initialize(); err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	if err := Initialize(); err != nil {
		t.Fatalf("second Initialize should succeed with S_FALSE: %v", err)
	}
	Uninitialize()
	Uninitialize()

	inits, uninits, depth := rt.counts()
	if inits != 2 || uninits != 2 || depth != 0 {
		t.Fatalf("inits=%d uninits=%d depth=%d", inits, uninits, depth)
	}
}

func TestInitialize_FailurePassThrough(t *testing.T) {
	rt := withFakeRuntime(t)
	rt.fail = RPC_E_CHANGED_MODE

	err := InitializeEx(ApartmentThreaded)
	if err == nil {
		t.Fatal("expected failure")
	}
	var hr HRESULT
	if !errors.As(err, &hr) || hr != RPC_E_CHANGED_MODE {
		t.Fatalf("got %v, want RPC_E_CHANGED_MODE unchanged", err)
	}
}

func TestEnter_LeaveOnce(t *testing.T) {
	rt := withFakeRuntime(t)

	apt, err := Enter(MultiThreaded)
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if apt.Nested() {
		t.Error("first apartment should not be nested")
	}
	if apt.Model() != MultiThreaded {
		t.Errorf("Model = %v", apt.Model())
	}

	apt.Leave()
	apt.Leave()

	_, uninits, depth := rt.counts()
	if uninits != 1 || depth != 0 {
		t.Fatalf("uninits=%d depth=%d, want exactly one release", uninits, depth)
	}
}

func TestEnter_Nested(t *testing.T) {
	rt := withFakeRuntime(t)

	outer, err := Enter(MultiThreaded)
	if err != nil {
		t.Fatalf("outer Enter: %v", err)
	}
	inner, err := Enter(MultiThreaded)
	if err != nil {
		t.Fatalf("inner Enter: %v", err)
	}
	if !inner.Nested() {
		t.Error("inner apartment should be nested")
	}
	inner.Leave()
	outer.Leave()

	inits, uninits, _ := rt.counts()
	if inits != uninits {
		t.Fatalf("unbalanced: inits=%d uninits=%d", inits, uninits)
	}
}

func TestEnter_FailureDoesNotUninitialize(t *testing.T) {
	rt := withFakeRuntime(t)
	rt.fail = E_OUTOFMEMORY

	apt, err := Enter(MultiThreaded)
	if apt != nil {
		t.Fatal("expected nil apartment")
	}
	if CodeOf(err) != E_OUTOFMEMORY {
		t.Fatalf("got %v, want E_OUTOFMEMORY", err)
	}
	apt.Leave()

	if _, uninits, _ := rt.counts(); uninits != 0 {
		t.Fatalf("failed init must not be balanced, uninits=%d", uninits)
	}
}

func TestRun(t *testing.T) {
	defer goleak.VerifyNone(t)
	rt := withFakeRuntime(t)

	called := false
	err := Run(context.Background(), MultiThreaded, func(ctx context.Context) error {
		called = true
		if _, _, depth := rt.counts(); depth != 1 {
			t.Errorf("COM not initialised inside Run, depth=%d", depth)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !called {
		t.Fatal("fn not called")
	}
	if inits, uninits, _ := rt.counts(); inits != 1 || uninits != 1 {
		t.Fatalf("inits=%d uninits=%d", inits, uninits)
	}
}

func TestRun_PropagatesError(t *testing.T) {
	defer goleak.VerifyNone(t)
	rt := withFakeRuntime(t)

	want := errors.New("query failed")
	err := Run(context.Background(), MultiThreaded, func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("got %v, want %v", err, want)
	}
	if _, uninits, _ := rt.counts(); uninits != 1 {
		t.Fatalf("uninits=%d, want 1 on error path", uninits)
	}
}

func TestRun_InitFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	rt := withFakeRuntime(t)
	rt.fail = CO_E_NOTINITIALIZED

	err := Run(context.Background(), MultiThreaded, func(context.Context) error {
		t.Error("fn must not run when initialisation fails")
		return nil
	})
	if CodeOf(err) != CO_E_NOTINITIALIZED {
		t.Fatalf("got %v", err)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	rt := withFakeRuntime(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, MultiThreaded, func(context.Context) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if inits, _, _ := rt.counts(); inits != 0 {
		t.Fatalf("inits=%d, want 0", inits)
	}
}
