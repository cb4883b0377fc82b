package traitx

// propose runs the intrinsic constraint and then the cross-validator chain.
// Inside a hold the chain is deferred until the outermost release.
func (i *Instance) propose(d *Descriptor, candidate any, p phase) (any, error) {
	if f, ok := i.activeFrame(d.name); ok && f.phase != phaseProviding {
		return nil, i.cycleError(d, KindValidationCycle)
	}

	accepted, err := d.constraint.Accept(candidate)
	if err != nil {
		return nil, &Error{
			Kind:       KindTypeConstraint,
			Schema:     i.schema.name,
			Attribute:  d.name,
			Constraint: d.constraint.Name(),
			Value:      candidate,
			Reason:     err.Error(),
			Err:        err,
		}
	}

	if len(d.validators) == 0 {
		return accepted, nil
	}
	if i.holdDepth > 0 && !i.settling {
		i.tx.deferValidation(d)
		return accepted, nil
	}
	return i.crossValidate(d, accepted, p)
}

// crossValidate threads v through the validators; each sees the previous
// one's output.
func (i *Instance) crossValidate(d *Descriptor, v any, p phase) (any, error) {
	i.push(d.name, p)
	defer i.pop()

	for _, val := range d.validators {
		out, err := val.fn(Proposal{Instance: i, Name: d.name, Value: v})
		if err != nil {
			if KindOf(err) != 0 {
				return nil, err
			}
			return nil, &Error{
				Kind:      KindCrossValidation,
				Schema:    i.schema.name,
				Attribute: d.name,
				Value:     v,
				Validator: val.id,
				Reason:    err.Error(),
				Err:       err,
			}
		}
		v = out
	}
	return v, nil
}
