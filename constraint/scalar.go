package constraint

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// BoolConstraint accepts booleans and the strings understood by
// strconv.ParseBool.
type BoolConstraint struct {
	s settings
}

// Bool returns a boolean constraint. Honors WithDefault, Nullable.
func Bool(opts ...Option) *BoolConstraint {
	c := &BoolConstraint{s: newSettings(opts)}
	c.s.canonicalDefault(c)
	return c
}

func (c *BoolConstraint) Name() string { return "bool" }

func (c *BoolConstraint) Default() any { return c.s.defaultOr(false) }

func (c *BoolConstraint) Accept(v any) (any, error) {
	switch b := v.(type) {
	case nil:
		return c.s.acceptNil(c)
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return nil, reject(c, v, "not a boolean string")
		}
		return parsed, nil
	}
	return nil, reject(c, v, "expected bool, got %T", v)
}

func (c *BoolConstraint) Equal(a, b any) bool { return deepEqual(a, b) }

// StringConstraint accepts strings and byte slices.
type StringConstraint struct {
	s settings
}

// String returns a string constraint.
// Honors MinLen, MaxLen (in runes), Pattern, WithDefault, Nullable.
func String(opts ...Option) *StringConstraint {
	c := &StringConstraint{s: newSettings(opts)}
	c.s.canonicalDefault(c)
	return c
}

func (c *StringConstraint) Name() string {
	if c.s.pattern != nil {
		return "string(" + c.s.pattern.String() + ")"
	}
	return "string"
}

func (c *StringConstraint) Default() any { return c.s.defaultOr("") }

func (c *StringConstraint) Accept(v any) (any, error) {
	var str string
	switch t := v.(type) {
	case nil:
		return c.s.acceptNil(c)
	case string:
		str = t
	case []byte:
		str = string(t)
	default:
		return nil, reject(c, v, "expected string, got %T", v)
	}
	if err := c.s.checkLen(c, v, utf8.RuneCountInString(str)); err != nil {
		return nil, err
	}
	if c.s.pattern != nil && !c.s.pattern.MatchString(str) {
		return nil, reject(c, v, "does not match %s", c.s.pattern)
	}
	return str, nil
}

func (c *StringConstraint) Equal(a, b any) bool { return deepEqual(a, b) }

// EnumConstraint accepts one of a fixed set of values. A string candidate
// matching the printed form of a member is coerced to that member.
type EnumConstraint struct {
	s      settings
	values []any
}

// Enum returns a constraint admitting exactly values.
// The static default is the first value unless WithDefault is given.
func Enum(values []any, opts ...Option) *EnumConstraint {
	vs := make([]any, len(values))
	copy(vs, values)
	c := &EnumConstraint{s: newSettings(opts), values: vs}
	c.s.canonicalDefault(c)
	return c
}

func (c *EnumConstraint) Name() string {
	parts := make([]string, len(c.values))
	for i, v := range c.values {
		parts[i] = fmt.Sprint(v)
	}
	return "enum(" + strings.Join(parts, "|") + ")"
}

func (c *EnumConstraint) Default() any {
	if c.s.hasDef || len(c.values) == 0 {
		return c.s.def
	}
	return c.values[0]
}

// Values returns a copy of the admitted values.
func (c *EnumConstraint) Values() []any {
	out := make([]any, len(c.values))
	copy(out, c.values)
	return out
}

func (c *EnumConstraint) Accept(v any) (any, error) {
	if v == nil {
		return c.s.acceptNil(c)
	}
	for _, member := range c.values {
		if deepEqual(member, v) {
			return member, nil
		}
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		for _, member := range c.values {
			if fmt.Sprint(member) == s {
				return member, nil
			}
		}
	}
	return nil, reject(c, v, "not a member")
}

func (c *EnumConstraint) Equal(a, b any) bool { return deepEqual(a, b) }

// AnyConstraint accepts every value unchanged.
type AnyConstraint struct {
	s settings
}

// Any returns a constraint that accepts everything. Honors WithDefault.
func Any(opts ...Option) *AnyConstraint {
	return &AnyConstraint{s: newSettings(opts)}
}

func (c *AnyConstraint) Name() string { return "any" }

func (c *AnyConstraint) Default() any { return c.s.def }

func (c *AnyConstraint) Accept(v any) (any, error) { return v, nil }

func (c *AnyConstraint) Equal(a, b any) bool { return deepEqual(a, b) }
