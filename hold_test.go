package traitx_test

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/comalice/traitx"
	"github.com/comalice/traitx/constraint"
)

func pairSchema() *traitx.Schema {
	return traitx.Define("Pair").
		Attr("a", constraint.Int()).
		Attr("b", constraint.String()).
		MustBuild()
}

func TestHoldCoalesces(t *testing.T) {
	inst, rec := recorded(t, pairSchema(), traitx.WithValue("a", 1), traitx.WithValue("b", "x"))

	err := inst.Hold(func(i *traitx.Instance) error {
		mustSet(t, i, "a", 2)
		mustSet(t, i, "a", 3)
		mustSet(t, i, "b", "y")
		if got := mustGet(t, i, "a"); got != 3 {
			t.Errorf("a = %v inside hold, want 3", got)
		}
		if rec.Len() != 0 {
			t.Errorf("events delivered inside hold: %v", rec.Summary())
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a:1->3", "b:x->y"}; !reflect.DeepEqual(rec.Summary(), want) {
		t.Errorf("events = %v, want %v", rec.Summary(), want)
	}
}

func TestHoldNetNoChangeIsSilent(t *testing.T) {
	inst, rec := recorded(t, pairSchema(), traitx.WithValue("a", 1))
	err := inst.Hold(func(i *traitx.Instance) error {
		mustSet(t, i, "a", 2)
		mustSet(t, i, "a", 1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Len() != 0 {
		t.Errorf("events = %v, want none", rec.Summary())
	}
}

func TestHoldOrderIsFirstTouched(t *testing.T) {
	inst, rec := recorded(t, pairSchema())
	err := inst.Hold(func(i *traitx.Instance) error {
		mustSet(t, i, "b", "y")
		mustSet(t, i, "a", 1)
		mustSet(t, i, "b", "z")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"b:->z", "a:0->1"}; !reflect.DeepEqual(rec.Summary(), want) {
		t.Errorf("events = %v, want %v", rec.Summary(), want)
	}
}

func TestHoldBuffersDefaults(t *testing.T) {
	inst, rec := recorded(t, pairSchema())
	g := inst.BeginHold()
	mustGet(t, inst, "a")
	mustSet(t, inst, "a", 5)
	mustGet(t, inst, "b")
	if err := g.Release(); err != nil {
		t.Fatal(err)
	}
	events := rec.Events()
	if want := []string{"a:=5", "b:="}; !reflect.DeepEqual(rec.Summary(), want) {
		t.Fatalf("events = %v, want %v", rec.Summary(), want)
	}
	if events[0].Kind != traitx.Default || events[0].Old != nil {
		t.Errorf("first event = %+v, want a default", events[0])
	}
}

func TestNestedHolds(t *testing.T) {
	inst, rec := recorded(t, pairSchema())

	outer := inst.BeginHold()
	inner := inst.BeginHold()
	if inst.HoldDepth() != 2 {
		t.Fatalf("depth = %d", inst.HoldDepth())
	}
	mustSet(t, inst, "a", 1)
	if err := inner.Release(); err != nil {
		t.Fatal(err)
	}
	if rec.Len() != 0 {
		t.Errorf("inner release delivered %v", rec.Summary())
	}
	mustSet(t, inst, "a", 2)
	if err := outer.Release(); err != nil {
		t.Fatal(err)
	}
	if inst.HoldDepth() != 0 {
		t.Errorf("depth = %d after release", inst.HoldDepth())
	}
	if want := []string{"a:0->2"}; !reflect.DeepEqual(rec.Summary(), want) {
		t.Errorf("events = %v", rec.Summary())
	}

	if err := outer.Release(); err != nil || inst.HoldDepth() != 0 {
		t.Errorf("second Release = %v, depth %d", err, inst.HoldDepth())
	}
}

func TestHoldBodyErrorKeepsWrites(t *testing.T) {
	bad := errors.New("bad body")
	inst, rec := recorded(t, pairSchema())
	err := inst.Hold(func(i *traitx.Instance) error {
		mustSet(t, i, "a", 4)
		return bad
	})
	if !errors.Is(err, bad) {
		t.Fatalf("Hold = %v", err)
	}
	if got := mustGet(t, inst, "a"); got != 4 {
		t.Errorf("a = %v", got)
	}
	if want := []string{"a:0->4"}; !reflect.DeepEqual(rec.Summary(), want) {
		t.Errorf("events = %v", rec.Summary())
	}
}

func TestHoldReleasedOnPanic(t *testing.T) {
	inst, rec := recorded(t, pairSchema())
	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic was swallowed")
			}
		}()
		inst.Hold(func(i *traitx.Instance) error {
			mustSet(t, i, "a", 9)
			panic("boom")
		})
	}()

	if inst.HoldDepth() != 0 {
		t.Fatalf("depth = %d after panic", inst.HoldDepth())
	}
	if want := []string{"a:0->9"}; !reflect.DeepEqual(rec.Summary(), want) {
		t.Errorf("events = %v", rec.Summary())
	}
	mustSet(t, inst, "a", 10)
	if rec.Len() != 2 {
		t.Errorf("writes after the panic are not delivered immediately: %v", rec.Summary())
	}
}

func TestParity(t *testing.T) {
	s := newParitySchema(t)
	inst, rec := recorded(t, s, traitx.WithValue("value", 2))

	if got := mustGet(t, inst, "parity"); got != 0 {
		t.Fatalf("parity = %v, want 0", got)
	}

	err := inst.Hold(func(i *traitx.Instance) error {
		if err := i.Set("parity", 1); err != nil {
			return err
		}
		return i.Set("value", 3)
	})
	if err != nil {
		t.Fatalf("transactional update rejected: %v", err)
	}
	if want := []string{"parity:0->1", "value:2->3"}; !reflect.DeepEqual(rec.Summary(), want) {
		t.Errorf("events = %v, want %v", rec.Summary(), want)
	}

	fresh, freshRec := recorded(t, s, traitx.WithValue("value", 2))
	err = fresh.Set("parity", 1)
	var te *traitx.Error
	if !errors.As(err, &te) || te.Kind != traitx.KindCrossValidation {
		t.Fatalf("Set(parity, 1) = %v, want CrossValidationRejected", err)
	}
	if te.Validator != "parity-value" || te.Attribute != "parity" {
		t.Errorf("error = %+v", te)
	}
	if got := mustGet(t, fresh, "parity"); got != 0 {
		t.Errorf("parity = %v after rejection", got)
	}
	if freshRec.Len() != 0 {
		t.Errorf("rejection emitted %v", freshRec.Summary())
	}
}

func TestHoldRejectionRollsBack(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s, err := traitx.Define("Parity", traitx.WithLogger(zap.New(core))).
		Attr("value", constraint.Int()).
		Attr("note", constraint.String()).
		Validate("value", func(p traitx.Proposal) (any, error) {
			if p.Value.(int)%2 != 0 {
				return nil, errors.New("odd")
			}
			return p.Value, nil
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	inst, rec := recorded(t, s, traitx.WithValue("value", 2))

	err = inst.Hold(func(i *traitx.Instance) error {
		mustSet(t, i, "note", "pending")
		mustSet(t, i, "value", 3)
		mustSet(t, i, "value", 5)
		return nil
	})
	if !errors.Is(err, traitx.ErrCrossValidation) {
		t.Fatalf("Hold = %v, want deferred rejection", err)
	}
	if got := mustGet(t, inst, "value"); got != 2 {
		t.Errorf("value = %v, want rolled back to 2", got)
	}
	if rec.Len() != 0 {
		t.Errorf("rejected hold emitted %v", rec.Summary())
	}
	if inst.IsSet("note") {
		t.Errorf("note = %v, want unset again", inst.Values()["note"])
	}
	if inst.HoldDepth() != 0 {
		t.Errorf("depth = %d", inst.HoldDepth())
	}
	if logs.FilterMessage("hold rolled back").Len() != 1 {
		t.Errorf("rollback not logged: %v", logs.All())
	}
}

func TestSettleStoresRecoercedValue(t *testing.T) {
	s := traitx.Define("Clamp").
		Attr("n", constraint.Int()).
		Validate("n", func(p traitx.Proposal) (any, error) {
			return min(p.Value.(int), 10), nil
		}).
		MustBuild()
	inst, rec := recorded(t, s)

	g := inst.BeginHold()
	mustSet(t, inst, "n", 50)
	if got := mustGet(t, inst, "n"); got != 50 {
		t.Errorf("n = %v inside hold, want the unvalidated 50", got)
	}
	if err := g.Release(); err != nil {
		t.Fatal(err)
	}
	if got := mustGet(t, inst, "n"); got != 10 {
		t.Errorf("n = %v, want 10", got)
	}
	mustSet(t, inst, "n", 20)
	if want := []string{"n:0->10"}; !reflect.DeepEqual(rec.Summary(), want) {
		t.Errorf("events = %v, want %v", rec.Summary(), want)
	}
}

func TestHoldIntrinsicCheckIsImmediate(t *testing.T) {
	inst, _ := recorded(t, pairSchema())
	err := inst.Hold(func(i *traitx.Instance) error {
		if err := i.Set("a", "nope"); !errors.Is(err, traitx.ErrTypeConstraint) {
			t.Errorf("Set inside hold = %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if inst.IsSet("a") {
		t.Error("rejected value stored")
	}
}
