package resource

import (
	"slices"
	"sync"
	"sync/atomic"
)

type subscription struct {
	observer Observer
	id       uint64
}

// UnifiedTable implements Table on a LocalBackend and notifies observers
// of every insert and removal.
type UnifiedTable struct {
	backend *LocalBackend
	closed  atomic.Bool

	obsMu     sync.RWMutex
	observers []subscription
	nextSub   uint64
}

// NewTable creates an empty table.
func NewTable() *UnifiedTable {
	return &UnifiedTable{backend: NewLocalBackend()}
}

// Insert adds value and returns its handle, or 0 once the table is closed.
func (t *UnifiedTable) Insert(typeID uint32, value any) Handle {
	if t.closed.Load() {
		return 0
	}
	h, err := t.backend.Create(typeID, value)
	if err != nil {
		return 0
	}
	t.notify(Event{Type: EventCreated, Handle: h, TypeID: typeID, Value: value})
	return h
}

func (t *UnifiedTable) Get(h Handle) (any, bool) {
	return t.backend.Get(h)
}

// GetTyped returns the value behind h only when it was inserted as typeID.
func (t *UnifiedTable) GetTyped(h Handle, typeID uint32) (any, bool) {
	if actual, ok := t.backend.TypeID(h); !ok || actual != typeID {
		return nil, false
	}
	return t.backend.Get(h)
}

// Remove drops h, runs the value's Drop and reports the removal. A handle
// is removed at most once.
func (t *UnifiedTable) Remove(h Handle) (any, bool) {
	typeID, _ := t.backend.TypeID(h)
	value, ok := t.backend.Drop(h)
	if !ok {
		return nil, false
	}
	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	t.notify(Event{Type: EventDropped, Handle: h, TypeID: typeID, Value: value})
	return value, true
}

func (t *UnifiedTable) Subscribe(o Observer) func() {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.nextSub++
	id := t.nextSub
	t.observers = append(t.observers, subscription{id: id, observer: o})

	return func() {
		t.obsMu.Lock()
		defer t.obsMu.Unlock()
		t.observers = slices.DeleteFunc(t.observers, func(s subscription) bool {
			return s.id == id
		})
	}
}

func (t *UnifiedTable) Len() int {
	return t.backend.Len()
}

// CountType returns the number of live resources inserted as typeID.
func (t *UnifiedTable) CountType(typeID uint32) int {
	return t.backend.CountType(typeID)
}

// Clear removes every resource, newest first, so dependents go before
// the objects that produced them.
func (t *UnifiedTable) Clear() {
	var handles []Handle
	t.backend.Each(func(h Handle, _ uint32, _ any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range slices.Backward(handles) {
		t.Remove(h)
	}
}

// Close clears the table and rejects further inserts. Only the first call
// does anything.
func (t *UnifiedTable) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	t.Clear()
	return t.backend.Close()
}

func (t *UnifiedTable) Closed() bool {
	return t.closed.Load()
}

func (t *UnifiedTable) notify(e Event) {
	t.obsMu.RLock()
	subs := slices.Clone(t.observers)
	t.obsMu.RUnlock()
	for _, s := range subs {
		s.observer.OnResourceEvent(e)
	}
}
