package com

import (
	"context"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
)

// Concurrency selects the apartment model passed to CoInitializeEx.
type Concurrency uint32

const (
	MultiThreaded     Concurrency = 0x0
	ApartmentThreaded Concurrency = 0x2
)

func (c Concurrency) String() string {
	switch c {
	case MultiThreaded:
		return "mta"
	case ApartmentThreaded:
		return "sta"
	default:
		return "unknown"
	}
}

// runtimeAPI is the native COM runtime entry points used by this package.
type runtimeAPI interface {
	CoInitializeEx(coinit uint32) HRESULT
	CoUninitialize()
}

// nativeRuntime is assigned per platform.
var nativeRuntime runtimeAPI = platformRuntime()

// Initialize initialises COM for the calling thread in the multithreaded
// apartment. It must run before any object is created on that thread.
//
// A repeated call on an initialised thread succeeds. Every successful call
// must be balanced by Uninitialize on the same thread; callers that cannot
// guarantee the thread should use Enter or Run instead.
func Initialize() error {
	return InitializeEx(MultiThreaded)
}

// InitializeEx is Initialize with an explicit apartment model.
// Failure codes such as RPC_E_CHANGED_MODE are returned unchanged.
func InitializeEx(model Concurrency) error {
	hr := nativeRuntime.CoInitializeEx(uint32(model))
	if hr.Failed() {
		Logger().Debug("CoInitializeEx failed",
			zap.Stringer("model", model),
			zap.Stringer("hresult", hr))
		return hr
	}
	return nil
}

// Uninitialize closes COM on the calling thread.
// No COM object from this thread may be used afterwards.
func Uninitialize() {
	nativeRuntime.CoUninitialize()
}

// Apartment is a COM initialisation bound to a locked OS thread.
type Apartment struct {
	model Concurrency
	hr    HRESULT
	left  atomic.Bool
}

// Enter locks the calling goroutine to its OS thread and initialises COM.
// On failure the thread is unlocked and the HRESULT is returned unchanged.
func Enter(model Concurrency) (*Apartment, error) {
	runtime.LockOSThread()
	hr := nativeRuntime.CoInitializeEx(uint32(model))
	if hr.Failed() {
		runtime.UnlockOSThread()
		Logger().Debug("enter apartment failed",
			zap.Stringer("model", model),
			zap.Stringer("hresult", hr))
		return nil, hr
	}
	Logger().Debug("entered apartment",
		zap.Stringer("model", model),
		zap.Bool("nested", hr == S_FALSE))
	return &Apartment{model: model, hr: hr}, nil
}

// Model returns the apartment model requested on Enter.
func (a *Apartment) Model() Concurrency { return a.model }

// Nested reports whether the thread was already initialised when entered.
func (a *Apartment) Nested() bool { return a.hr == S_FALSE }

// Leave uninitialises COM and unlocks the thread. It must be called from
// the goroutine that called Enter. Calls after the first are no-ops.
func (a *Apartment) Leave() {
	if a == nil || !a.left.CompareAndSwap(false, true) {
		return
	}
	nativeRuntime.CoUninitialize()
	runtime.UnlockOSThread()
	Logger().Debug("left apartment", zap.Stringer("model", a.model))
}

// Run calls fn on a dedicated goroutine locked to an OS thread with COM
// initialised, and uninitialises once fn returns. Run waits for fn; COM
// calls cannot be interrupted, so fn should observe ctx itself.
func Run(ctx context.Context, model Concurrency, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		apt, err := Enter(model)
		if err != nil {
			done <- err
			return
		}
		defer apt.Leave()
		done <- fn(ctx)
	}()
	return <-done
}
