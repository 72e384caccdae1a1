// Package resource tracks externally owned objects behind integer handles.
//
// Every object acquired from the setup configuration service is inserted
// into a table owned by the configuration that produced it. Removing the
// handle runs the value's Drop method, which releases the native reference.
// A handle can be removed only once and is never issued again, so the
// reference is released exactly once however many times Close is called on
// the wrapper.
//
// # Handle Table
//
//	table := resource.NewTable()
//
//	// Insert a value, get a handle
//	handle := table.Insert(typeID, obj)
//
//	// Retrieve value by handle
//	value, ok := table.Get(handle)
//
//	// Remove, running Drop if the value implements Dropper
//	value, ok := table.Remove(handle)
//
// Handles are typed. GetTyped only succeeds when the stored type ID matches:
//
//	value, ok := table.GetTyped(handle, instanceType)
//
// # Observers
//
//	unsubscribe := table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    log.Debug("resource", zap.Stringer("event", e.Type), zap.Uint32("handle", uint32(e.Handle)))
//	}))
//	defer unsubscribe()
//
// # Shutdown
//
// Close drops every remaining value, newest first, and rejects further
// inserts. Tables are safe for concurrent use.
package resource
