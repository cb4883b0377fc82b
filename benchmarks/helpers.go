// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/traitx"
	"github.com/comalice/traitx/constraint"
)

// GenFlatSchema creates a schema with n independent int attributes a0..a(n-1).
func GenFlatSchema(n int) *traitx.Schema {
	if n < 1 {
		n = 1
	}
	b := traitx.Define(fmt.Sprintf("Flat%d", n))
	for i := 0; i < n; i++ {
		b.Attr(fmt.Sprintf("a%d", i), constraint.Int(), traitx.Configurable())
	}
	return b.MustBuild()
}

// GenChainSchema creates depth attributes whose defaults each read the
// previous one, so resolving the last one materializes the whole chain.
func GenChainSchema(depth int) *traitx.Schema {
	if depth < 1 {
		depth = 1
	}
	b := traitx.Define(fmt.Sprintf("Chain%d", depth)).
		Attr("c0", constraint.Int(constraint.WithDefault(1)))
	for i := 1; i < depth; i++ {
		prev := fmt.Sprintf("c%d", i-1)
		name := fmt.Sprintf("c%d", i)
		b.Attr(name, constraint.Int()).
			DefaultFunc(name, func(inst *traitx.Instance) (any, error) {
				v, err := traitx.As[int](inst, prev)
				return v + 1, err
			})
	}
	return b.MustBuild()
}

// GenValidatedSchema creates one attribute "v" guarded by n pass-through
// validators that each read a sibling attribute.
func GenValidatedSchema(n int) *traitx.Schema {
	b := traitx.Define(fmt.Sprintf("Validated%d", n)).
		Attr("v", constraint.Int()).
		Attr("limit", constraint.Int(constraint.WithDefault(1<<30)))
	for i := 0; i < n; i++ {
		b.Validate("v", func(p traitx.Proposal) (any, error) {
			limit, err := traitx.As[int](p.Instance, "limit")
			if err != nil {
				return nil, err
			}
			if p.Value.(int) > limit {
				return nil, fmt.Errorf("over limit %d", limit)
			}
			return p.Value, nil
		})
	}
	return b.MustBuild()
}

// GenConfigYAML generates a YAML document assigning every attribute of a
// GenFlatSchema(n) schema.
func GenConfigYAML(n int) []byte {
	s := GenFlatSchema(n)
	attrs := make(map[string]any, n)
	for i, name := range s.Names() {
		attrs[name] = i
	}
	data, err := yaml.Marshal(map[string]any{s.Name(): attrs})
	if err != nil {
		panic(err)
	}
	return data
}

// MustNew creates an instance or panics.
func MustNew(s *traitx.Schema, opts ...traitx.InstanceOption) *traitx.Instance {
	inst, err := s.New(opts...)
	if err != nil {
		panic(err)
	}
	return inst
}
