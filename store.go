package traitx

// store holds an instance's committed attribute values in the order they
// were first committed. It is not synchronized; see Shared.
type store struct {
	data map[string]any
	keys []string
}

func newStore() *store {
	return &store{data: make(map[string]any)}
}

// Get retrieves a committed value by name.
func (s *store) Get(name string) (any, bool) {
	v, ok := s.data[name]
	return v, ok
}

// Set commits a value, appending name to the order on first commit.
func (s *store) Set(name string, v any) {
	if _, ok := s.data[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.data[name] = v
}

// Delete removes a committed value. Only hold rollback uses it.
func (s *store) Delete(name string) {
	if _, ok := s.data[name]; !ok {
		return
	}
	delete(s.data, name)
	for i, k := range s.keys {
		if k == name {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns committed names in commit order.
func (s *store) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// GetAll returns a snapshot copy of all committed values.
func (s *store) GetAll() map[string]any {
	snapshot := make(map[string]any, len(s.data))
	for k, v := range s.data {
		snapshot[k] = v
	}
	return snapshot
}
