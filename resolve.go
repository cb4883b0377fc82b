package traitx

import (
	"fmt"
	"strings"
)

type phase int

const (
	phaseProviding phase = iota
	phaseValidatingDefault
	phaseValidatingWrite
)

// frame marks an attribute whose default provider or validator chain is on
// the call stack of this instance.
type frame struct {
	name  string
	phase phase
}

func (i *Instance) push(name string, p phase) {
	i.frames = append(i.frames, frame{name: name, phase: p})
}

func (i *Instance) pop() {
	i.frames = i.frames[:len(i.frames)-1]
}

// activeFrame returns the innermost frame for name.
func (i *Instance) activeFrame(name string) (frame, bool) {
	for n := len(i.frames) - 1; n >= 0; n-- {
		if i.frames[n].name == name {
			return i.frames[n], true
		}
	}
	return frame{}, false
}

func (i *Instance) cycleError(d *Descriptor, kind Kind) error {
	path := make([]string, 0, len(i.frames)+1)
	for _, f := range i.frames {
		path = append(path, f.name)
	}
	path = append(path, d.name)
	return &Error{
		Kind:      kind,
		Schema:    i.schema.name,
		Attribute: d.name,
		Reason:    strings.Join(path, " -> "),
	}
}

// resolve materializes the default of an unset attribute, stores it and
// records a Default event.
func (i *Instance) resolve(d *Descriptor) (any, error) {
	if f, ok := i.activeFrame(d.name); ok {
		switch f.phase {
		case phaseProviding:
			return nil, i.cycleError(d, KindResolutionCycle)
		case phaseValidatingDefault:
			return nil, i.cycleError(d, KindValidationCycle)
		case phaseValidatingWrite:
			return i.peekDefault(d)
		}
	}

	if d.provider == nil {
		v := d.constraint.Default()
		i.touch(d.name)
		i.values.Set(d.name, v)
		return v, i.record(d, nil, v, Default)
	}

	raw, err := i.provide(d)
	if err != nil {
		return nil, err
	}
	if v, ok := i.values.Get(d.name); ok {
		// The provider committed the attribute itself.
		return v, nil
	}
	v, err := i.propose(d, raw, phaseValidatingDefault)
	if err != nil {
		return nil, err
	}
	i.touch(d.name)
	i.values.Set(d.name, v)
	return v, i.record(d, nil, v, Default)
}

func (i *Instance) provide(d *Descriptor) (any, error) {
	i.push(d.name, phaseProviding)
	defer i.pop()
	v, err := d.provider(i)
	if err != nil {
		if KindOf(err) != 0 {
			return nil, err
		}
		return nil, fmt.Errorf("traitx: default for %s.%s: %w", i.schema.name, d.name, err)
	}
	return v, nil
}

// peekDefault returns the static default of an attribute whose write is
// being validated, without storing it or emitting anything, so a rejected
// write leaves no trace. A provided default would need the running chain to
// validate it, which is a cycle.
func (i *Instance) peekDefault(d *Descriptor) (any, error) {
	if d.provider != nil {
		return nil, i.cycleError(d, KindValidationCycle)
	}
	return d.constraint.Default(), nil
}
