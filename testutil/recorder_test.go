package testutil_test

import (
	"reflect"
	"testing"

	"github.com/comalice/traitx"
	"github.com/comalice/traitx/constraint"
	"github.com/comalice/traitx/testutil"
)

func TestRecorderSummary(t *testing.T) {
	s := traitx.Define("Point").
		Attr("x", constraint.Int()).
		MustBuild()
	inst, err := s.New()
	if err != nil {
		t.Fatal(err)
	}

	rec := &testutil.Recorder{}
	if _, err := inst.Observe(traitx.All, rec.Observe); err != nil {
		t.Fatal(err)
	}

	if _, err := inst.Get("x"); err != nil {
		t.Fatal(err)
	}
	if err := inst.Set("x", 4); err != nil {
		t.Fatal(err)
	}

	want := []string{"x:=0", "x:0->4"}
	if got := rec.Summary(); !reflect.DeepEqual(got, want) {
		t.Errorf("Summary() = %v, want %v", got, want)
	}

	rec.Reset()
	if rec.Len() != 0 {
		t.Errorf("Len() after Reset = %d", rec.Len())
	}
}
