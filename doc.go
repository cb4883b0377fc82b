// Package traitx is a runtime for declaratively typed object attributes.
//
// A Schema declares attributes, each with a constraint.Constraint, an
// optional dynamic default and any number of cross-validators. Instances of
// the schema store values lazily: the first Get materializes the default,
// and every Set runs the validation pipeline before the value is committed.
// Observers receive a ChangeEvent for every committed change, exactly once
// per logical change.
//
// # Pipeline
//
//	Set -> constraint.Accept -> validators (in order, chained) -> store -> observers
//
// A rejection at any step leaves the stored value untouched and emits
// nothing. Validators may read other attributes; re-entering an attribute
// whose validators are already running yields a ValidationCycle error, and a
// default provider reading its own attribute yields a ResolutionCycle error.
//
// # Holds
//
// Hold (or BeginHold/Release) batches a multi-attribute transaction:
//
//	err := inst.Hold(func(i *traitx.Instance) error {
//		if err := i.Set("parity", 1); err != nil {
//			return err
//		}
//		return i.Set("value", 3)
//	})
//
// Inside a hold only intrinsic constraints run on write; cross-validators
// run once against the final state when the outermost hold is released.
// Events are coalesced per attribute (first old value, last new value) and
// dispatched in first-touched order. A deferred rejection restores the
// pre-hold values of every touched attribute.
//
// # Concurrency
//
// An Instance belongs to one goroutine at a time. Schemas are safe for
// concurrent use. Shared adds a per-instance lock around whole operations.
package traitx
