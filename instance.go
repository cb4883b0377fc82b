package traitx

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Instance is one live entity. It is not safe for concurrent use; wrap it in
// Shared when several goroutines touch it.
type Instance struct {
	id        uuid.UUID
	schema    *Schema
	values    *store
	holdDepth int
	tx        *transaction
	settling  bool
	frames    []frame
	observers *observerSet
}

// ID returns the instance's identity, used in logs.
func (i *Instance) ID() uuid.UUID { return i.id }

// Schema returns the instance's entity type.
func (i *Instance) Schema() *Schema { return i.schema }

// Get returns the attribute's committed value, resolving its default on
// first access.
func (i *Instance) Get(name string) (any, error) {
	d, err := i.schema.lookup(name)
	if err != nil {
		return nil, err
	}
	if v, ok := i.values.Get(name); ok {
		return v, nil
	}
	return i.resolve(d)
}

// Set validates v and commits it, notifying observers when the stored value
// changes. On rejection nothing is stored and nothing is emitted. The first
// write to an unset attribute reports the constraint's static default as Old,
// even when a default provider is registered; the provider is not invoked.
func (i *Instance) Set(name string, v any) error {
	d, err := i.schema.lookup(name)
	if err != nil {
		return err
	}
	if d.readOnly {
		return &Error{
			Kind:      KindReadOnly,
			Schema:    i.schema.name,
			Attribute: name,
			Value:     v,
			Reason:    "external write rejected",
		}
	}
	return i.write(d, v)
}

// Force is the owner-privileged write: it ignores the read-only flag but
// runs the same validation and notification as Set.
func (i *Instance) Force(name string, v any) error {
	d, err := i.schema.lookup(name)
	if err != nil {
		return err
	}
	return i.write(d, v)
}

// IsSet reports whether the attribute has a committed value.
func (i *Instance) IsSet(name string) bool {
	_, ok := i.values.Get(name)
	return ok
}

// Values returns a copy of every committed value. Unset attributes are absent.
func (i *Instance) Values() map[string]any {
	return i.values.GetAll()
}

// Names returns the names of committed attributes in commit order.
func (i *Instance) Names() []string {
	return i.values.Keys()
}

// HoldDepth returns the number of open holds.
func (i *Instance) HoldDepth() int { return i.holdDepth }

// Observe registers an observer on this instance only. name may be All.
func (i *Instance) Observe(name string, fn ObserverFunc) (*Registration, error) {
	if fn == nil {
		return nil, fmt.Errorf("observe %s.%s: %w", i.schema.name, name, ErrNilFunc)
	}
	if name != All {
		if _, err := i.schema.lookup(name); err != nil {
			return nil, err
		}
	}
	return i.observers.add(name, fn), nil
}

// Close releases every instance-level observer registration.
func (i *Instance) Close() {
	i.observers.removeAll()
}

// As reads an attribute and asserts its type.
func As[T any](i *Instance, name string) (T, error) {
	var zero T
	v, err := i.Get(name)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("traitx: %s.%s holds %T, not %s", i.schema.name, name, v, reflect.TypeFor[T]())
	}
	return t, nil
}

func (i *Instance) write(d *Descriptor, v any) error {
	accepted, err := i.propose(d, v, phaseValidatingWrite)
	if err != nil {
		return err
	}
	old, had := i.values.Get(d.name)
	if !had {
		old = d.constraint.Default()
	}
	i.touch(d.name)
	i.values.Set(d.name, accepted)
	return i.record(d, old, accepted, Change)
}
