package traitx

import (
	"fmt"
	"weak"
)

// ChangeKind tells an explicit write apart from default materialization.
type ChangeKind int

const (
	// Change is produced by a write that altered the stored value.
	Change ChangeKind = iota
	// Default is produced when a default value is materialized on first read.
	Default
)

func (k ChangeKind) String() string {
	if k == Default {
		return "default"
	}
	return "change"
}

// ChangeEvent describes one committed change of an attribute.
//
// Events are values and must not be mutated after construction. The owner is
// held weakly: an event kept by an observer never extends the lifetime of the
// instance it came from. For Default events Old is nil.
type ChangeEvent struct {
	owner weak.Pointer[Instance]
	Name  string
	Old   any
	New   any
	Kind  ChangeKind
}

func newChangeEvent(owner *Instance, name string, old, new any, kind ChangeKind) ChangeEvent {
	return ChangeEvent{
		owner: weak.Make(owner),
		Name:  name,
		Old:   old,
		New:   new,
		Kind:  kind,
	}
}

// Owner returns the instance that emitted the event, or nil if it has been
// garbage collected.
func (e ChangeEvent) Owner() *Instance {
	return e.owner.Value()
}

func (e ChangeEvent) String() string {
	return fmt.Sprintf("%s %s: %v -> %v", e.Kind, e.Name, e.Old, e.New)
}
