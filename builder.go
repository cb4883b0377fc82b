package traitx

import "errors"

// SchemaBuilder provides a fluent API for declaring a schema. Errors are
// collected and reported together by Build.
type SchemaBuilder struct {
	s    *Schema
	errs []error
}

// Define starts a schema declaration.
func Define(name string, opts ...Option) *SchemaBuilder {
	b := &SchemaBuilder{s: NewSchema(name, opts...)}
	if name == "" {
		b.errs = append(b.errs, ErrEmptyName)
	}
	return b
}

// Attr declares an attribute.
func (b *SchemaBuilder) Attr(name string, c Constraint, opts ...AttrOption) *SchemaBuilder {
	if _, err := b.s.Declare(name, c, opts...); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// DefaultFunc registers a dynamic default for a declared attribute.
func (b *SchemaBuilder) DefaultFunc(name string, fn DefaultFunc) *SchemaBuilder {
	if err := b.s.RegisterDefault(name, fn); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Validate registers a cross-validator for a declared attribute.
func (b *SchemaBuilder) Validate(name string, fn ValidatorFunc, opts ...ValidatorOption) *SchemaBuilder {
	if err := b.s.RegisterValidator(name, fn, opts...); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Observe registers a type-level observer. The handle is discarded; use
// Schema.Observe when the registration must be removable.
func (b *SchemaBuilder) Observe(name string, fn ObserverFunc) *SchemaBuilder {
	if _, err := b.s.Observe(name, fn); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Build returns the schema, or every declaration error joined.
func (b *SchemaBuilder) Build() (*Schema, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return b.s, nil
}

// MustBuild is Build for package-level declarations; it panics on error.
func (b *SchemaBuilder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
