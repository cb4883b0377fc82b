// Package hooks provides ready-made validators and observers for traitx
// schemas.
package hooks

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/comalice/traitx"
)

// ErrBadExpression is returned by Expression for unparsable input.
var ErrBadExpression = errors.New("hooks: bad expression")

// Expression builds a cross-validator from a comparison "op operand", for
// example "<= max", "> 0" or "!= other". The operand is a number, true,
// false, nil, a quoted string, or the name of another attribute of the same
// instance, which is read at validation time.
//
// Supported operators: == != < <= > >=. Ordering operators compare
// numerically. The proposed value passes through unchanged.
func Expression(expr string) (traitx.ValidatorFunc, error) {
	parts := strings.Fields(expr)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q: want \"op operand\"", ErrBadExpression, expr)
	}
	op, operand := parts[0], parts[1]
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
	default:
		return nil, fmt.Errorf("%w: %q: unknown operator %q", ErrBadExpression, expr, op)
	}
	lit, isLiteral := parseLiteral(operand)

	return func(p traitx.Proposal) (any, error) {
		rhs := lit
		if !isLiteral {
			v, err := p.Instance.Get(operand)
			if err != nil {
				return nil, err
			}
			rhs = v
		}
		ok, err := compare(p.Value, op, rhs)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%v is not %s %s (%v)", p.Value, op, operand, rhs)
		}
		return p.Value, nil
	}, nil
}

// MustExpression is Expression for declarations; it panics on a bad expression.
func MustExpression(expr string) traitx.ValidatorFunc {
	fn, err := Expression(expr)
	if err != nil {
		panic(err)
	}
	return fn
}

func parseLiteral(s string) (any, bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	case "nil":
		return nil, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	if unq, err := strconv.Unquote(s); err == nil {
		return unq, true
	}
	return nil, false
}

func compare(lhs any, op string, rhs any) (bool, error) {
	lf, lnum := toFloat(lhs)
	rf, rnum := toFloat(rhs)
	switch op {
	case "==", "!=":
		eq := reflect.DeepEqual(lhs, rhs)
		if lnum && rnum {
			eq = lf == rf
		}
		return eq == (op == "=="), nil
	}
	if !lnum || !rnum {
		return false, fmt.Errorf("cannot order %T against %T", lhs, rhs)
	}
	switch op {
	case "<":
		return lf < rf, nil
	case "<=":
		return lf <= rf, nil
	case ">":
		return lf > rf, nil
	default:
		return lf >= rf, nil
	}
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
