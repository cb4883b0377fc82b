package traitx

import (
	"reflect"
	"runtime"

	"github.com/comalice/traitx/constraint"
)

// Constraint is the validator+coercer owned by every attribute.
type Constraint = constraint.Constraint

// DefaultFunc computes an attribute's initial value for one instance.
// It runs at most once per instance on success.
type DefaultFunc func(inst *Instance) (any, error)

// Proposal is what a cross-validator receives: the running accepted value
// and read access to the instance's committed state.
type Proposal struct {
	Instance *Instance
	Name     string
	Value    any
}

// ValidatorFunc checks (and may re-coerce) a proposed value. Returning an
// error rejects the write.
type ValidatorFunc func(p Proposal) (any, error)

// ObserverFunc receives committed change events. A returned error aborts
// delivery and reaches the writer unless best-effort delivery is enabled.
type ObserverFunc func(ev ChangeEvent) error

// MetaConfigurable is the metadata key marking attributes the configuration
// loader may set.
const MetaConfigurable = "config"

// Descriptor is the definition of one declared attribute, shared by every
// instance of its schema.
type Descriptor struct {
	name       string
	index      int
	constraint Constraint
	readOnly   bool
	help       string
	metadata   map[string]any
	provider   DefaultFunc
	validators []validatorEntry
}

type validatorEntry struct {
	id string
	fn ValidatorFunc
}

// AttrOption configures a Descriptor at declaration time.
type AttrOption func(*Descriptor)

// ReadOnly rejects external writes; defaults and Force still apply.
func ReadOnly() AttrOption {
	return func(d *Descriptor) { d.readOnly = true }
}

// Help attaches a human-readable description used by help output.
func Help(text string) AttrOption {
	return func(d *Descriptor) { d.help = text }
}

// Tag attaches an arbitrary metadata entry.
func Tag(key string, value any) AttrOption {
	return func(d *Descriptor) {
		if d.metadata == nil {
			d.metadata = make(map[string]any)
		}
		d.metadata[key] = value
	}
}

// Configurable marks the attribute as settable by the configuration loader.
func Configurable() AttrOption {
	return Tag(MetaConfigurable, true)
}

// Name returns the attribute name.
func (d *Descriptor) Name() string { return d.name }

// Constraint returns the attribute's type constraint.
func (d *Descriptor) Constraint() Constraint { return d.constraint }

// ReadOnly reports whether external writes are rejected.
func (d *Descriptor) ReadOnly() bool { return d.readOnly }

// Help returns the attribute's description.
func (d *Descriptor) Help() string { return d.help }

// HasDefaultProvider reports whether a dynamic default is registered.
func (d *Descriptor) HasDefaultProvider() bool { return d.provider != nil }

// Meta returns one metadata entry.
func (d *Descriptor) Meta(key string) (any, bool) {
	v, ok := d.metadata[key]
	return v, ok
}

// Configurable reports whether the attribute carries the config tag.
func (d *Descriptor) Configurable() bool {
	v, _ := d.metadata[MetaConfigurable].(bool)
	return v
}

// ValidatorOption configures a validator registration.
type ValidatorOption func(*validatorEntry)

// WithValidatorID names a validator in rejection errors. The default is the
// function's symbol name.
func WithValidatorID(id string) ValidatorOption {
	return func(e *validatorEntry) { e.id = id }
}

func funcName(fn any) string {
	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		return f.Name()
	}
	return "validator"
}
