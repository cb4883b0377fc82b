package traitx

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Schema is an entity type: the registry of declared attributes with their
// defaults, validators and type-level observers.
//
// Declarations are accepted until the first instance is created; after that
// the attribute registry is sealed and read without locking. Observers may
// be added and removed at any time.
type Schema struct {
	name      string
	mu        sync.Mutex
	sealed    atomic.Bool
	attrs     map[string]*Descriptor
	order     []*Descriptor
	observers *observerSet
	logger    *zap.Logger
	delivery  Delivery
}

// NewSchema creates an empty schema.
func NewSchema(name string, opts ...Option) *Schema {
	s := &Schema{
		name:      name,
		attrs:     make(map[string]*Descriptor),
		observers: newObserverSet(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Declare registers an attribute.
func (s *Schema) Declare(name string, c Constraint, opts ...AttrOption) (*Descriptor, error) {
	if name == "" || name == All {
		return nil, fmt.Errorf("declare %q on %s: %w", name, s.name, ErrEmptyName)
	}
	if c == nil {
		return nil, fmt.Errorf("declare %s.%s: %w", s.name, name, ErrNilConstraint)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed.Load() {
		return nil, fmt.Errorf("declare %s.%s: %w", s.name, name, ErrSchemaSealed)
	}
	if _, exists := s.attrs[name]; exists {
		return nil, fmt.Errorf("declare %s.%s: %w", s.name, name, ErrDuplicateAttribute)
	}
	d := &Descriptor{name: name, index: len(s.order), constraint: c}
	for _, opt := range opts {
		opt(d)
	}
	s.attrs[name] = d
	s.order = append(s.order, d)
	return d, nil
}

// RegisterDefault registers the dynamic default provider for an attribute,
// replacing any earlier one.
func (s *Schema) RegisterDefault(name string, fn DefaultFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.mutable(name)
	if err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("default for %s.%s: %w", s.name, name, ErrNilFunc)
	}
	d.provider = fn
	return nil
}

// RegisterValidator appends a cross-validator for an attribute. Validators
// run in registration order, each receiving the previous one's output.
func (s *Schema) RegisterValidator(name string, fn ValidatorFunc, opts ...ValidatorOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.mutable(name)
	if err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("validator for %s.%s: %w", s.name, name, ErrNilFunc)
	}
	e := validatorEntry{fn: fn}
	for _, opt := range opts {
		opt(&e)
	}
	if e.id == "" {
		e.id = funcName(fn)
	}
	d.validators = append(d.validators, e)
	return nil
}

// Observe registers a type-level observer for name, or for every attribute
// when name is All.
func (s *Schema) Observe(name string, fn ObserverFunc) (*Registration, error) {
	if fn == nil {
		return nil, fmt.Errorf("observe %s.%s: %w", s.name, name, ErrNilFunc)
	}
	if name != All {
		if _, err := s.lookup(name); err != nil {
			return nil, err
		}
	}
	return s.observers.add(name, fn), nil
}

// Descriptor returns the declared attribute called name.
func (s *Schema) Descriptor(name string) (*Descriptor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.attrs[name]
	return d, ok
}

// Descriptors returns every declared attribute in declaration order.
func (s *Schema) Descriptors() []*Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Descriptor, len(s.order))
	copy(out, s.order)
	return out
}

// Names returns declared attribute names in declaration order.
func (s *Schema) Names() []string {
	ds := s.Descriptors()
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.name
	}
	return names
}

// Logger returns the schema's logger.
func (s *Schema) Logger() *zap.Logger { return s.logger }

// New seals the schema and creates an instance. Initial values given with
// WithValue are applied inside a single hold.
func (s *Schema) New(opts ...InstanceOption) (*Instance, error) {
	s.mu.Lock()
	s.sealed.Store(true)
	s.mu.Unlock()

	inst := &Instance{
		id:        uuid.New(),
		schema:    s,
		values:    newStore(),
		observers: newObserverSet(),
	}

	var cfg instanceConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.values) == 0 {
		return inst, nil
	}
	err := inst.Hold(func(i *Instance) error {
		for _, iv := range cfg.values {
			if err := i.Force(iv.name, iv.value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// lookup resolves a declared attribute. Once sealed the registry is
// immutable and read without the lock.
func (s *Schema) lookup(name string) (*Descriptor, error) {
	var (
		d  *Descriptor
		ok bool
	)
	if s.sealed.Load() {
		d, ok = s.attrs[name]
	} else {
		s.mu.Lock()
		d, ok = s.attrs[name]
		s.mu.Unlock()
	}
	if !ok {
		return nil, &Error{
			Kind:      KindUnknownAttribute,
			Schema:    s.name,
			Attribute: name,
			Reason:    "not declared",
		}
	}
	return d, nil
}

// mutable returns the descriptor for a declaration-time change. Caller holds s.mu.
func (s *Schema) mutable(name string) (*Descriptor, error) {
	if s.sealed.Load() {
		return nil, fmt.Errorf("register on %s.%s: %w", s.name, name, ErrSchemaSealed)
	}
	d, ok := s.attrs[name]
	if !ok {
		return nil, &Error{
			Kind:      KindUnknownAttribute,
			Schema:    s.name,
			Attribute: name,
			Reason:    "not declared",
		}
	}
	return d, nil
}
