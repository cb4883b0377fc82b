package constraint

import (
	"reflect"
	"strings"
)

// UnionConstraint accepts a value if any member constraint does; the first
// accepting member determines the coerced result.
type UnionConstraint struct {
	s       settings
	members []Constraint
}

// Union returns a constraint over members, tried in order.
// The static default is the first member's unless WithDefault is given.
func Union(members []Constraint, opts ...Option) *UnionConstraint {
	ms := make([]Constraint, 0, len(members))
	for _, m := range members {
		if m != nil {
			ms = append(ms, m)
		}
	}
	c := &UnionConstraint{s: newSettings(opts), members: ms}
	c.s.canonicalDefault(c)
	return c
}

func (c *UnionConstraint) Name() string {
	names := make([]string, len(c.members))
	for i, m := range c.members {
		names[i] = m.Name()
	}
	return strings.Join(names, "|")
}

func (c *UnionConstraint) Default() any {
	if c.s.hasDef || len(c.members) == 0 {
		return c.s.def
	}
	return c.members[0].Default()
}

func (c *UnionConstraint) Accept(v any) (any, error) {
	if v == nil && c.s.nullable {
		return nil, nil
	}
	for _, m := range c.members {
		if out, err := m.Accept(v); err == nil {
			return out, nil
		}
	}
	return nil, reject(c, v, "no member accepts value")
}

// Equal delegates to the first member that admits a. Values of different
// dynamic types are never equal.
func (c *UnionConstraint) Equal(a, b any) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	for _, m := range c.members {
		if _, err := m.Accept(a); err == nil {
			return m.Equal(a, b)
		}
	}
	return deepEqual(a, b)
}

// InstanceConstraint accepts values assignable to a Go type.
type InstanceConstraint struct {
	s settings
	t reflect.Type
}

// InstanceOf returns a constraint accepting values assignable to T.
// When T is an interface, implementing values are accepted.
// The static default is nil unless WithDefault is given.
func InstanceOf[T any](opts ...Option) *InstanceConstraint {
	c := &InstanceConstraint{s: newSettings(opts), t: reflect.TypeFor[T]()}
	c.s.canonicalDefault(c)
	return c
}

func (c *InstanceConstraint) Name() string { return "instance(" + c.t.String() + ")" }

func (c *InstanceConstraint) Default() any { return c.s.def }

func (c *InstanceConstraint) Accept(v any) (any, error) {
	if v == nil {
		return c.s.acceptNil(c)
	}
	if !reflect.TypeOf(v).AssignableTo(c.t) {
		return nil, reject(c, v, "expected %s, got %T", c.t, v)
	}
	return v, nil
}

// Equal compares comparable values by ==, falling back to deep equality.
func (c *InstanceConstraint) Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == tb && ta.Comparable() {
		return a == b
	}
	return deepEqual(a, b)
}
