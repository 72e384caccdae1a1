// Package native implements the abi interfaces on top of the setup
// configuration COM server.
//
// Calls go through the object's vtable with syscall.SyscallN. Native
// strings, arrays and variants are copied into Go values and freed before
// a method returns, so nothing returned from this package refers to native
// memory except the interface objects themselves. Those carry one
// reference each and must be released by the caller.
//
// On platforms other than Windows the factory reports E_NOTIMPL.
package native
