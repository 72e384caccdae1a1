package resource

import (
	"errors"
	"maps"
	"math"
	"slices"
	"sync"
)

var (
	// ErrClosed is returned by Create after Close.
	ErrClosed = errors.New("resource backend closed")
	// ErrExhausted is returned by Create once every handle value was issued.
	ErrExhausted = errors.New("resource handles exhausted")
)

// LocalBackend is an in-memory resource backend.
//
// Handles are issued in increasing order and never reused, so a handle
// kept past its Drop can never resolve to a later resource.
type LocalBackend struct {
	mu     sync.RWMutex
	live   map[Handle]slot
	last   Handle
	closed bool
}

type slot struct {
	value  any
	typeID uint32
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{live: make(map[Handle]slot)}
}

// Create stores value and returns its handle.
func (b *LocalBackend) Create(typeID uint32, value any) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}
	if b.last == math.MaxUint32 {
		return 0, ErrExhausted
	}
	b.last++
	b.live[b.last] = slot{value: value, typeID: typeID}
	return b.last, nil
}

func (b *LocalBackend) lookup(h Handle) (slot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.live[h]
	return s, ok
}

// Get returns the value behind a live handle.
func (b *LocalBackend) Get(h Handle) (any, bool) {
	s, ok := b.lookup(h)
	return s.value, ok
}

// TypeID returns the type a live handle was created with.
func (b *LocalBackend) TypeID(h Handle) (uint32, bool) {
	s, ok := b.lookup(h)
	return s.typeID, ok
}

// Drop forgets h and returns its value. Only the first Drop of a handle
// reports true; the caller runs the destructor.
func (b *LocalBackend) Drop(h Handle) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.live[h]
	if !ok {
		return nil, false
	}
	delete(b.live, h)
	return s.value, true
}

// Close drops whatever is still live, newest first, and refuses further
// Creates. Values implementing Dropper are dropped here.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	live := b.live
	b.live = make(map[Handle]slot)
	b.mu.Unlock()

	for _, h := range slices.Backward(slices.Sorted(maps.Keys(live))) {
		if d, ok := live[h].value.(Dropper); ok {
			d.Drop()
		}
	}
	return nil
}

// Len returns the number of live resources.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.live)
}

// CountType returns the number of live resources created with typeID.
func (b *LocalBackend) CountType(typeID uint32) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, s := range b.live {
		if s.typeID == typeID {
			n++
		}
	}
	return n
}

// Each calls fn for every live resource in creation order until fn
// returns false. fn runs without the backend lock held.
func (b *LocalBackend) Each(fn func(Handle, uint32, any) bool) {
	b.mu.RLock()
	handles := slices.Sorted(maps.Keys(b.live))
	snapshot := maps.Clone(b.live)
	b.mu.RUnlock()

	for _, h := range handles {
		s := snapshot[h]
		if !fn(h, s.typeID, s.value) {
			return
		}
	}
}
