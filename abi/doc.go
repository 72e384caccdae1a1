// Package abi mirrors the binary contract of the Visual Studio setup
// configuration service.
//
// Each COM interface has one Go interface here. Methods return the raw
// com.HRESULT exactly as the service produced it; no interpretation
// happens at this layer beyond converting native strings, arrays and
// variants to Go values. Returned objects carry one reference that the
// caller must Release.
//
// The Windows implementation lives in internal/native. Tests use the
// in-memory implementation from setup/setuptest.
package abi
