package traitx

import "sync"

// Shared serializes access to one Instance across goroutines. Every call
// holds the lock for the whole propose, store and notify sequence.
//
// Validators and observers run under the lock and must use the *Instance
// they are handed, never the Shared wrapper.
type Shared struct {
	mu   sync.Mutex
	inst *Instance
}

// NewShared wraps inst.
func NewShared(inst *Instance) *Shared {
	return &Shared{inst: inst}
}

// Get reads an attribute under the lock.
func (s *Shared) Get(name string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inst.Get(name)
}

// Set writes an attribute under the lock.
func (s *Shared) Set(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inst.Set(name, v)
}

// Update runs fn inside a hold under the lock, so a multi-attribute
// transaction cannot interleave with other goroutines.
func (s *Shared) Update(fn func(*Instance) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inst.Hold(fn)
}

// Values returns a copy of the committed values under the lock.
func (s *Shared) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inst.Values()
}
