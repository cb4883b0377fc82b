// Package constraint provides the type constraints attached to traitx
// attributes. A constraint validates a candidate value, optionally coerces
// it into a canonical representation, supplies a static default and
// decides structural equality between two accepted values.
//
// Canonical representations:
//
//	Int     -> int
//	Float   -> float64
//	Bool    -> bool
//	String  -> string
//	List    -> []any
//	Dict    -> map[string]any
//
// All constraints are immutable after construction and Accept is pure.
package constraint

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
)

// Constraint validates and coerces candidate values for one attribute.
type Constraint interface {
	// Name describes the constraint in error messages and help output.
	Name() string
	// Accept returns the canonical form of v or a rejection error.
	Accept(v any) (any, error)
	// Default returns the static fallback used when no provider is registered.
	Default() any
	// Equal reports whether two accepted values are structurally equal.
	Equal(a, b any) bool
}

// ErrRejected is wrapped by every rejection returned from Accept.
var ErrRejected = errors.New("constraint: value rejected")

// Option tunes a constraint at construction time.
// Each constraint honors the subset of options that applies to it.
type Option func(*settings)

type settings struct {
	def      any
	hasDef   bool
	nullable bool
	min, max *float64
	minLen   int
	maxLen   int // -1 means unbounded
	pattern  *regexp.Regexp
}

func newSettings(opts []Option) settings {
	s := settings{maxLen: -1}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithDefault overrides the constraint's static default value.
// The value is trusted as declared: it is converted to canonical form when
// Accept admits it (int64(5) becomes int 5 for Int) and kept as is otherwise.
func WithDefault(v any) Option {
	return func(s *settings) {
		s.def = v
		s.hasDef = true
	}
}

// Nullable allows nil as an accepted value.
func Nullable() Option {
	return func(s *settings) { s.nullable = true }
}

// Min sets an inclusive lower bound for numeric constraints.
func Min(v float64) Option {
	return func(s *settings) { s.min = &v }
}

// Max sets an inclusive upper bound for numeric constraints.
func Max(v float64) Option {
	return func(s *settings) { s.max = &v }
}

// MinLen sets the minimum length of strings, lists and dicts.
func MinLen(n int) Option {
	return func(s *settings) {
		if n < 0 {
			n = 0
		}
		s.minLen = n
	}
}

// MaxLen sets the maximum length of strings, lists and dicts.
// A negative value removes the bound.
func MaxLen(n int) Option {
	return func(s *settings) { s.maxLen = n }
}

// Pattern requires strings to match the regular expression expr.
// It panics if expr does not compile, like regexp.MustCompile.
func Pattern(expr string) Option {
	re := regexp.MustCompile(expr)
	return func(s *settings) { s.pattern = re }
}

// canonicalDefault passes a declared default through c.Accept once, so it
// compares equal to written values.
func (s *settings) canonicalDefault(c Constraint) {
	if !s.hasDef || s.def == nil {
		return
	}
	if v, err := c.Accept(s.def); err == nil {
		s.def = v
	}
}

func (s settings) defaultOr(v any) any {
	if s.hasDef {
		return s.def
	}
	return v
}

func (s settings) checkRange(c Constraint, v any, f float64) error {
	if s.min != nil && f < *s.min {
		return reject(c, v, "below minimum %s", formatFloat(*s.min))
	}
	if s.max != nil && f > *s.max {
		return reject(c, v, "above maximum %s", formatFloat(*s.max))
	}
	return nil
}

func (s settings) checkLen(c Constraint, v any, n int) error {
	if n < s.minLen {
		return reject(c, v, "length %d below minimum %d", n, s.minLen)
	}
	if s.maxLen >= 0 && n > s.maxLen {
		return reject(c, v, "length %d above maximum %d", n, s.maxLen)
	}
	return nil
}

func (s settings) rangeSuffix() string {
	switch {
	case s.min != nil && s.max != nil:
		return "[" + formatFloat(*s.min) + "," + formatFloat(*s.max) + "]"
	case s.min != nil:
		return "[" + formatFloat(*s.min) + ",)"
	case s.max != nil:
		return "(," + formatFloat(*s.max) + "]"
	}
	return ""
}

// acceptNil handles a nil candidate according to the nullable flag.
func (s settings) acceptNil(c Constraint) (any, error) {
	if s.nullable {
		return nil, nil
	}
	return nil, reject(c, nil, "nil not allowed")
}

func reject(c Constraint, v any, format string, args ...any) error {
	return fmt.Errorf("%s: %s (got %#v): %w", c.Name(), fmt.Sprintf(format, args...), v, ErrRejected)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func deepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
