package constraint

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// IntConstraint accepts integers and coerces integral floats and numeric
// strings into int.
type IntConstraint struct {
	s settings
}

// Int returns an integer constraint. Honors Min, Max, WithDefault, Nullable.
func Int(opts ...Option) *IntConstraint {
	c := &IntConstraint{s: newSettings(opts)}
	c.s.canonicalDefault(c)
	return c
}

func (c *IntConstraint) Name() string { return "int" + c.s.rangeSuffix() }

func (c *IntConstraint) Default() any { return c.s.defaultOr(0) }

func (c *IntConstraint) Accept(v any) (any, error) {
	if v == nil {
		return c.s.acceptNil(c)
	}
	n, err := toInt(v)
	if err != nil {
		return nil, reject(c, v, "%v", err)
	}
	if err := c.s.checkRange(c, v, float64(n)); err != nil {
		return nil, err
	}
	return n, nil
}

func (c *IntConstraint) Equal(a, b any) bool { return deepEqual(a, b) }

// FloatConstraint accepts any numeric value and numeric strings, widening
// them to float64.
type FloatConstraint struct {
	s settings
}

// Float returns a float constraint. Honors Min, Max, WithDefault, Nullable.
func Float(opts ...Option) *FloatConstraint {
	c := &FloatConstraint{s: newSettings(opts)}
	c.s.canonicalDefault(c)
	return c
}

func (c *FloatConstraint) Name() string { return "float" + c.s.rangeSuffix() }

func (c *FloatConstraint) Default() any { return c.s.defaultOr(0.0) }

func (c *FloatConstraint) Accept(v any) (any, error) {
	if v == nil {
		return c.s.acceptNil(c)
	}
	f, err := toFloat(v)
	if err != nil {
		return nil, reject(c, v, "%v", err)
	}
	if err := c.s.checkRange(c, v, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Equal treats two NaNs as equal so that rewriting NaN is not a change.
func (c *FloatConstraint) Equal(a, b any) bool {
	fa, okA := a.(float64)
	fb, okB := b.(float64)
	if okA && okB {
		return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
	}
	return deepEqual(a, b)
}

func toInt(v any) (int, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < math.MinInt || n > math.MaxInt {
			return 0, fmt.Errorf("%d overflows int", n)
		}
		return int(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := rv.Uint()
		if n > math.MaxInt {
			return 0, fmt.Errorf("%d overflows int", n)
		}
		return int(n), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, fmt.Errorf("%v is not integral", f)
		}
		if f < math.MinInt || f >= math.MaxInt {
			return 0, fmt.Errorf("%v overflows int", f)
		}
		return int(f), nil
	case reflect.String:
		n, err := strconv.Atoi(strings.TrimSpace(rv.String()))
		if err != nil {
			return 0, fmt.Errorf("not an integer string")
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected integer, got %T", v)
}

func toFloat(v any) (float64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		if err != nil {
			return 0, fmt.Errorf("not a numeric string")
		}
		return f, nil
	}
	return 0, fmt.Errorf("expected number, got %T", v)
}
