package traitx

import (
	"errors"

	"go.uber.org/zap"
)

// HoldGuard is an open hold. Release it exactly once, typically with defer.
type HoldGuard struct {
	inst     *Instance
	released bool
}

// BeginHold opens a (nestable) hold: notifications and cross-validation are
// deferred until the outermost guard is released.
func (i *Instance) BeginHold() *HoldGuard {
	if i.holdDepth == 0 {
		i.tx = newTransaction()
	}
	i.holdDepth++
	return &HoldGuard{inst: i}
}

// Release closes the hold. Releasing the outermost hold runs the deferred
// cross-validators in first-touched order; if one rejects, every attribute
// touched in the hold is restored to its pre-hold value, no events are
// emitted and the rejection is returned. Otherwise one event per changed
// attribute is dispatched. Further calls are no-ops.
func (g *HoldGuard) Release() error {
	if g.released {
		return nil
	}
	g.released = true
	return g.inst.endHold()
}

// Hold runs fn inside a hold and always releases it, including when fn
// fails or panics. Writes committed before a failure of fn are kept and
// flushed; fn's error and the release error are joined.
func (i *Instance) Hold(fn func(*Instance) error) (err error) {
	g := i.BeginHold()
	defer func() {
		if rerr := g.Release(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()
	return fn(i)
}

func (i *Instance) endHold() error {
	if i.holdDepth == 0 {
		return nil
	}
	if i.holdDepth > 1 {
		i.holdDepth--
		return nil
	}

	tx := i.tx
	err := func() error {
		defer func() { i.holdDepth, i.tx = 0, nil }()
		return i.settle(tx)
	}()
	if err != nil {
		i.rollback(tx, err)
		return err
	}
	return i.flush(tx)
}

// settle runs deferred cross-validation against the final held state. The
// hold stays open meanwhile so defaults materialized here are buffered.
func (i *Instance) settle(tx *transaction) error {
	i.settling = true
	defer func() { i.settling = false }()

	for _, d := range tx.deferred {
		cur, _ := i.values.Get(d.name)
		out, err := i.crossValidate(d, cur, phaseValidatingWrite)
		if err != nil {
			return err
		}
		if !d.constraint.Equal(cur, out) {
			i.values.Set(d.name, out)
			tx.buffer(d, cur, out, Change)
		}
	}
	return nil
}

func (i *Instance) rollback(tx *transaction, cause error) {
	for _, name := range tx.order {
		p := tx.prior[name]
		if p.set {
			i.values.Set(name, p.value)
		} else {
			i.values.Delete(name)
		}
	}
	i.schema.logger.Debug("hold rolled back",
		zap.String("schema", i.schema.name),
		zap.Stringer("instance", i.id),
		zap.Strings("attributes", tx.order),
		zap.Error(cause),
	)
}

// flush dispatches the net change per attribute in first-touched order,
// stopping at the first observer fault.
func (i *Instance) flush(tx *transaction) error {
	for _, name := range tx.order {
		p, ok := tx.pending[name]
		if !ok {
			continue
		}
		if p.kind == Change && p.desc.constraint.Equal(p.old, p.new) {
			continue
		}
		if err := i.dispatch(newChangeEvent(i, name, p.old, p.new, p.kind)); err != nil {
			return err
		}
	}
	return nil
}

func (i *Instance) touch(name string) {
	if i.holdDepth == 0 {
		return
	}
	i.tx.touch(name, i.values)
}

// transaction is the buffer of one outermost hold.
type transaction struct {
	order       []string // first-touched order
	prior       map[string]priorValue
	pending     map[string]*pendingChange
	deferred    []*Descriptor
	deferredSet map[string]bool
}

type priorValue struct {
	value any
	set   bool
}

type pendingChange struct {
	desc *Descriptor
	old  any
	new  any
	kind ChangeKind
}

func newTransaction() *transaction {
	return &transaction{
		prior:       make(map[string]priorValue),
		pending:     make(map[string]*pendingChange),
		deferredSet: make(map[string]bool),
	}
}

func (t *transaction) touch(name string, s *store) {
	if _, ok := t.prior[name]; ok {
		return
	}
	v, set := s.Get(name)
	t.prior[name] = priorValue{value: v, set: set}
	t.order = append(t.order, name)
}

// buffer keeps the first old value and the latest new value per attribute.
func (t *transaction) buffer(d *Descriptor, old, new any, kind ChangeKind) {
	if p, ok := t.pending[d.name]; ok {
		p.new = new
		return
	}
	if kind == Change && d.constraint.Equal(old, new) {
		return
	}
	t.pending[d.name] = &pendingChange{desc: d, old: old, new: new, kind: kind}
}

func (t *transaction) deferValidation(d *Descriptor) {
	if t.deferredSet[d.name] {
		return
	}
	t.deferredSet[d.name] = true
	t.deferred = append(t.deferred, d)
}
