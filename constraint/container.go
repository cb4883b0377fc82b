package constraint

import (
	"fmt"
	"reflect"
	"sort"
)

// ListConstraint accepts slices and arrays whose elements all satisfy an
// element constraint. Accepted values are []any holding coerced elements.
type ListConstraint struct {
	s    settings
	elem Constraint
}

// List returns a homogeneous list constraint. A nil elem admits any element.
// Honors MinLen, MaxLen, WithDefault, Nullable.
func List(elem Constraint, opts ...Option) *ListConstraint {
	if elem == nil {
		elem = Any()
	}
	c := &ListConstraint{s: newSettings(opts), elem: elem}
	c.s.canonicalDefault(c)
	return c
}

func (c *ListConstraint) Name() string { return "list[" + c.elem.Name() + "]" }

func (c *ListConstraint) Default() any { return c.s.defaultOr([]any{}) }

// Elem returns the element constraint.
func (c *ListConstraint) Elem() Constraint { return c.elem }

func (c *ListConstraint) Accept(v any) (any, error) {
	if v == nil {
		return c.s.acceptNil(c)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, reject(c, v, "expected list, got %T", v)
	}
	if err := c.s.checkLen(c, v, rv.Len()); err != nil {
		return nil, err
	}
	out := make([]any, rv.Len())
	for i := range out {
		e, err := c.elem.Accept(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("%s: element %d: %w", c.Name(), i, err)
		}
		out[i] = e
	}
	return out, nil
}

func (c *ListConstraint) Equal(a, b any) bool {
	la, okA := a.([]any)
	lb, okB := b.([]any)
	if !okA || !okB {
		return deepEqual(a, b)
	}
	if len(la) != len(lb) {
		return false
	}
	for i := range la {
		if !c.elem.Equal(la[i], lb[i]) {
			return false
		}
	}
	return true
}

// DictConstraint accepts maps keyed by strings whose values satisfy a value
// constraint. Accepted values are map[string]any.
type DictConstraint struct {
	s     settings
	value Constraint
}

// Dict returns a string-keyed mapping constraint. A nil value admits any value.
// Honors MinLen, MaxLen, WithDefault, Nullable.
func Dict(value Constraint, opts ...Option) *DictConstraint {
	if value == nil {
		value = Any()
	}
	c := &DictConstraint{s: newSettings(opts), value: value}
	c.s.canonicalDefault(c)
	return c
}

func (c *DictConstraint) Name() string { return "dict[string]" + c.value.Name() }

func (c *DictConstraint) Default() any { return c.s.defaultOr(map[string]any{}) }

func (c *DictConstraint) Accept(v any) (any, error) {
	if v == nil {
		return c.s.acceptNil(c)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, reject(c, v, "expected string-keyed map, got %T", v)
	}
	if err := c.s.checkLen(c, v, rv.Len()); err != nil {
		return nil, err
	}
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		e, err := c.value.Accept(rv.MapIndex(k).Interface())
		if err != nil {
			return nil, fmt.Errorf("%s: key %q: %w", c.Name(), k.String(), err)
		}
		out[k.String()] = e
	}
	return out, nil
}

func (c *DictConstraint) Equal(a, b any) bool {
	ma, okA := a.(map[string]any)
	mb, okB := b.(map[string]any)
	if !okA || !okB {
		return deepEqual(a, b)
	}
	if len(ma) != len(mb) {
		return false
	}
	for k, va := range ma {
		vb, ok := mb[k]
		if !ok || !c.value.Equal(va, vb) {
			return false
		}
	}
	return true
}
