package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/comalice/traitx"
)

// Entry describes one configurable attribute.
type Entry struct {
	Flag       string
	Constraint string
	Default    string
	Help       string
}

// Describe lists the configurable attributes of schemas in declaration order.
func Describe(schemas ...*traitx.Schema) []Entry {
	var out []Entry
	for _, s := range schemas {
		for _, d := range s.Descriptors() {
			if !d.Configurable() {
				continue
			}
			def := fmt.Sprintf("%v", d.Constraint().Default())
			if d.HasDefaultProvider() {
				def = "<dynamic>"
			}
			out = append(out, Entry{
				Flag:       "--" + s.Name() + "." + d.Name(),
				Constraint: d.Constraint().Name(),
				Default:    def,
				Help:       d.Help(),
			})
		}
	}
	return out
}

// Help writes a usage listing of the configurable attributes of schemas.
func Help(w io.Writer, schemas ...*traitx.Schema) error {
	var buf strings.Builder
	for _, e := range Describe(schemas...) {
		fmt.Fprintf(&buf, "%s=<%s>\n", e.Flag, e.Constraint)
		fmt.Fprintf(&buf, "    Default: %s\n", e.Default)
		if e.Help != "" {
			fmt.Fprintf(&buf, "    %s\n", e.Help)
		}
	}
	_, err := io.WriteString(w, buf.String())
	return err
}
