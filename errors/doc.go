// Package errors provides structured error types for the setup binding.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). Failures reported by the external COM service have Kind
// KindHRESULT and carry the native com.HRESULT unchanged as their Cause, so
// the exact code is always recoverable:
//
//	var hr com.HRESULT
//	if errors.As(err, &hr) {
//	    // hr is exactly what the service returned
//	}
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseQuery, errors.KindHRESULT).
//		Interface("ISetupInstance").
//		Method("GetDisplayName").
//		Code(hr).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Call(errors.PhaseQuery, "ISetupInstance", "GetInstanceId", hr)
//	err := errors.NilPointer(errors.PhaseQuery, "ISetupInstance2", "GetPackages")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
