// Package com provides the small slice of the Component Object Model runtime
// that the Visual Studio setup binding depends on.
//
// # Apartments
//
// COM must be initialised on an OS thread before any object is created or
// used on that thread. Goroutines migrate between threads, so initialisation
// is always paired with runtime.LockOSThread:
//
//	apt, err := com.Enter(com.MultiThreaded)
//	if err != nil {
//	    return err // the HRESULT from CoInitializeEx, unchanged
//	}
//	defer apt.Leave()
//
// Or run a function on a dedicated thread:
//
//	err := com.Run(ctx, com.MultiThreaded, func(ctx context.Context) error {
//	    // use COM objects here
//	    return nil
//	})
//
// Initialisation is idempotent: a second CoInitializeEx on the same thread
// reports S_FALSE, which is treated as success. Every successful call is
// balanced by exactly one CoUninitialize.
//
// # Result codes
//
// HRESULT implements error. Use CodeOf to recover the exact code from any
// error chain returned by the binding.
//
// On platforms other than Windows the runtime reports E_NOTIMPL.
package com
