package traitx

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// All is the wildcard attribute name: observers registered under it see
// every attribute's events.
const All = "*"

// Registration is the handle returned by Observe. Removing it guarantees no
// further deliveries, including changes already pending in an open hold.
type Registration struct {
	id      uuid.UUID
	name    string
	fn      ObserverFunc
	removed atomic.Bool
	owner   *observerSet
}

// ID returns the registration's unique identity.
func (r *Registration) ID() uuid.UUID { return r.id }

// Name returns the observed attribute name, or All.
func (r *Registration) Name() string { return r.name }

// Removed reports whether Remove has been called.
func (r *Registration) Removed() bool { return r.removed.Load() }

// Remove unregisters the observer. It is idempotent.
func (r *Registration) Remove() {
	if !r.removed.CompareAndSwap(false, true) {
		return
	}
	r.owner.remove(r)
}

// observerSet is an ordered, concurrency-safe list of registrations keyed by
// attribute name. Schema-level sets are shared by instances on any goroutine.
type observerSet struct {
	mu     sync.RWMutex
	byName map[string][]*Registration
}

func newObserverSet() *observerSet {
	return &observerSet{byName: make(map[string][]*Registration)}
}

func (s *observerSet) add(name string, fn ObserverFunc) *Registration {
	r := &Registration{id: uuid.New(), name: name, fn: fn, owner: s}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName[name] = append(s.byName[name], r)
	return r
}

func (s *observerSet) remove(r *Registration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byName[r.name]
	for i, cur := range list {
		if cur == r {
			next := make([]*Registration, 0, len(list)-1)
			next = append(next, list[:i]...)
			s.byName[r.name] = append(next, list[i+1:]...)
			return
		}
	}
}

// snapshot appends the registrations for name to dst in registration order.
func (s *observerSet) snapshot(dst []*Registration, name string) []*Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(dst, s.byName[name]...)
}

// removeAll drops every registration in the set.
func (s *observerSet) removeAll() {
	s.mu.Lock()
	regs := s.byName
	s.byName = make(map[string][]*Registration)
	s.mu.Unlock()
	for _, list := range regs {
		for _, r := range list {
			r.removed.Store(true)
		}
	}
}
