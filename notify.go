package traitx

import (
	"fmt"

	"go.uber.org/zap"
)

// record emits or buffers the change of d from old to new.
func (i *Instance) record(d *Descriptor, old, new any, kind ChangeKind) error {
	if i.holdDepth > 0 {
		i.tx.buffer(d, old, new, kind)
		return nil
	}
	if kind == Change && d.constraint.Equal(old, new) {
		return nil
	}
	return i.dispatch(newChangeEvent(i, d.name, old, new, kind))
}

// dispatch delivers ev to type-level then instance-level observers of the
// attribute, followed by type-level then instance-level wildcard observers.
func (i *Instance) dispatch(ev ChangeEvent) error {
	regs := i.schema.observers.snapshot(nil, ev.Name)
	regs = i.observers.snapshot(regs, ev.Name)
	regs = i.schema.observers.snapshot(regs, All)
	regs = i.observers.snapshot(regs, All)

	for _, r := range regs {
		if r.Removed() {
			continue
		}
		if err := r.fn(ev); err != nil {
			if i.schema.delivery == BestEffort {
				i.schema.logger.Warn("observer failed",
					zap.String("schema", i.schema.name),
					zap.String("attribute", ev.Name),
					zap.Stringer("instance", i.id),
					zap.Stringer("registration", r.id),
					zap.Error(err),
				)
				continue
			}
			return fmt.Errorf("traitx: observer %s on %s.%s: %w", r.id, i.schema.name, ev.Name, err)
		}
	}
	return nil
}
