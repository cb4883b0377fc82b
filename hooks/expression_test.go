package hooks_test

import (
	"errors"
	"testing"

	"github.com/comalice/traitx"
	"github.com/comalice/traitx/constraint"
	"github.com/comalice/traitx/hooks"
)

func rangeSchema(t *testing.T) *traitx.Schema {
	t.Helper()
	s, err := traitx.Define("Range").
		Attr("low", constraint.Int()).
		Attr("high", constraint.Int(constraint.WithDefault(10))).
		Validate("low", hooks.MustExpression("<= high"), traitx.WithValidatorID("low<=high")).
		Validate("low", hooks.MustExpression(">= 0")).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestExpressionAgainstAttribute(t *testing.T) {
	inst, err := rangeSchema(t).New()
	if err != nil {
		t.Fatal(err)
	}

	if err := inst.Set("low", 5); err != nil {
		t.Fatalf("Set(low, 5): %v", err)
	}
	err = inst.Set("low", 11)
	if !errors.Is(err, traitx.ErrCrossValidation) {
		t.Fatalf("Set(low, 11) = %v, want ErrCrossValidation", err)
	}
	var te *traitx.Error
	if !errors.As(err, &te) || te.Validator != "low<=high" {
		t.Errorf("validator identity = %+v", te)
	}
	if got, _ := inst.Get("low"); got != 5 {
		t.Errorf("low = %v after rejection, want 5", got)
	}
}

func TestExpressionAgainstLiteral(t *testing.T) {
	inst, err := rangeSchema(t).New()
	if err != nil {
		t.Fatal(err)
	}
	if err := inst.Set("low", -1); !errors.Is(err, traitx.ErrCrossValidation) {
		t.Fatalf("Set(low, -1) = %v, want ErrCrossValidation", err)
	}
}

func TestExpressionParse(t *testing.T) {
	tests := []struct {
		expr string
		ok   bool
	}{
		{"<= max", true},
		{"== \"on\"", true},
		{"!= nil", true},
		{"> 1.5", true},
		{"=~ x", false},
		{"<=", false},
		{"a <= b", false},
	}
	for _, tt := range tests {
		_, err := hooks.Expression(tt.expr)
		if tt.ok != (err == nil) {
			t.Errorf("Expression(%q) error = %v, want ok=%v", tt.expr, err, tt.ok)
		}
		if err != nil && !errors.Is(err, hooks.ErrBadExpression) {
			t.Errorf("Expression(%q) error %v does not wrap ErrBadExpression", tt.expr, err)
		}
	}
}

func TestExpressionEquality(t *testing.T) {
	s := traitx.Define("Mode").
		Attr("mode", constraint.String()).
		Validate("mode", hooks.MustExpression(`!= "off"`)).
		MustBuild()
	inst, err := s.New()
	if err != nil {
		t.Fatal(err)
	}
	if err := inst.Set("mode", "on"); err != nil {
		t.Fatalf("Set(on): %v", err)
	}
	if err := inst.Set("mode", "off"); !errors.Is(err, traitx.ErrCrossValidation) {
		t.Fatalf("Set(off) = %v, want ErrCrossValidation", err)
	}
}
