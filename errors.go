package traitx

import (
	"errors"
	"fmt"
)

// Kind classifies a runtime fault.
type Kind int

const (
	// KindTypeConstraint: the candidate failed the attribute's intrinsic constraint.
	KindTypeConstraint Kind = iota + 1
	// KindCrossValidation: a registered validator rejected the value.
	KindCrossValidation
	// KindReadOnly: an external write targeted a read-only attribute.
	KindReadOnly
	// KindResolutionCycle: a default provider re-entered its own resolution.
	KindResolutionCycle
	// KindValidationCycle: cross-validators re-entered an attribute already being validated.
	KindValidationCycle
	// KindUnknownAttribute: the name is not declared on the schema.
	KindUnknownAttribute
)

var (
	ErrTypeConstraint   = errors.New("traitx: type constraint violation")
	ErrCrossValidation  = errors.New("traitx: cross-validation rejected")
	ErrReadOnly         = errors.New("traitx: read-only attribute")
	ErrResolutionCycle  = errors.New("traitx: default resolution cycle")
	ErrValidationCycle  = errors.New("traitx: validation cycle")
	ErrUnknownAttribute = errors.New("traitx: unknown attribute")

	// ErrSchemaSealed is returned when a declaration arrives after the first instance was created.
	ErrSchemaSealed = errors.New("traitx: schema is sealed")
	// ErrDuplicateAttribute is returned when a name is declared twice on one schema.
	ErrDuplicateAttribute = errors.New("traitx: duplicate attribute")
	// ErrNilConstraint is returned when an attribute is declared without a constraint.
	ErrNilConstraint = errors.New("traitx: nil constraint")
	// ErrEmptyName is returned when an attribute or schema name is empty.
	ErrEmptyName = errors.New("traitx: empty name")
	// ErrNilFunc is returned when a default provider, validator or observer is nil.
	ErrNilFunc = errors.New("traitx: nil function")
)

func (k Kind) String() string {
	switch k {
	case KindTypeConstraint:
		return "TypeConstraintViolation"
	case KindCrossValidation:
		return "CrossValidationRejected"
	case KindReadOnly:
		return "ReadOnlyAttribute"
	case KindResolutionCycle:
		return "ResolutionCycle"
	case KindValidationCycle:
		return "ValidationCycle"
	case KindUnknownAttribute:
		return "UnknownAttribute"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) sentinel() error {
	switch k {
	case KindTypeConstraint:
		return ErrTypeConstraint
	case KindCrossValidation:
		return ErrCrossValidation
	case KindReadOnly:
		return ErrReadOnly
	case KindResolutionCycle:
		return ErrResolutionCycle
	case KindValidationCycle:
		return ErrValidationCycle
	case KindUnknownAttribute:
		return ErrUnknownAttribute
	}
	return nil
}

// Error is the rejection surfaced by Get, Set and hold release.
// errors.Is matches both the kind's sentinel and the wrapped cause.
type Error struct {
	Kind       Kind
	Schema     string
	Attribute  string
	Constraint string // name of the violated constraint, for KindTypeConstraint
	Value      any    // the rejected candidate
	Validator  string // validator identity, for KindCrossValidation
	Reason     string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("traitx: %s.%s: %s", e.Schema, e.Attribute, e.Kind)
	switch {
	case e.Validator != "":
		msg += " by " + e.Validator
	case e.Constraint != "":
		msg += " (" + e.Constraint + ")"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf reports the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}
