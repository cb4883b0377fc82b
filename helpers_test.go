package traitx_test

import (
	"fmt"
	"testing"

	"github.com/comalice/traitx"
	"github.com/comalice/traitx/constraint"
	"github.com/comalice/traitx/testutil"
)

// parityCheck enforces value % 2 == parity.
func parityCheck(value, parity int) error {
	if value%2 != parity {
		return fmt.Errorf("value %d does not have parity %d", value, parity)
	}
	return nil
}

func newParitySchema(t testing.TB) *traitx.Schema {
	t.Helper()
	s, err := traitx.Define("Parity").
		Attr("value", constraint.Int()).
		Attr("parity", constraint.Int(constraint.Min(0), constraint.Max(1))).
		Validate("value", func(p traitx.Proposal) (any, error) {
			parity, err := traitx.As[int](p.Instance, "parity")
			if err != nil {
				return nil, err
			}
			return p.Value, parityCheck(p.Value.(int), parity)
		}, traitx.WithValidatorID("value-parity")).
		Validate("parity", func(p traitx.Proposal) (any, error) {
			value, err := traitx.As[int](p.Instance, "value")
			if err != nil {
				return nil, err
			}
			return p.Value, parityCheck(value, p.Value.(int))
		}, traitx.WithValidatorID("parity-value")).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// recorded creates an instance of s with a wildcard Recorder attached.
func recorded(t testing.TB, s *traitx.Schema, opts ...traitx.InstanceOption) (*traitx.Instance, *testutil.Recorder) {
	t.Helper()
	inst, err := s.New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := &testutil.Recorder{}
	if _, err := inst.Observe(traitx.All, rec.Observe); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	return inst, rec
}

func mustGet(t testing.TB, inst *traitx.Instance, name string) any {
	t.Helper()
	v, err := inst.Get(name)
	if err != nil {
		t.Fatalf("Get(%s): %v", name, err)
	}
	return v
}

func mustSet(t testing.TB, inst *traitx.Instance, name string, v any) {
	t.Helper()
	if err := inst.Set(name, v); err != nil {
		t.Fatalf("Set(%s, %v): %v", name, v, err)
	}
}
