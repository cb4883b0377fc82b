// Package config loads attribute values from files and command-line
// arguments and applies them to configurable attributes.
//
// Sources are keyed by schema name then attribute name:
//
//	# app.yaml
//	Parity:
//	  value: 3
//	  parity: 1
//
//	--Parity.value=3 --Parity.parity=1
//
// Scalars from YAML files and arguments are kept as text; the attribute's
// constraint coerces them, so "123" stays a string for a string attribute
// and becomes 123 for an int one. Argument values for list and dict
// attributes are parsed as YAML flow collections ("[1, 2]", "{a: b}").
// JSON files are typed by JSON itself.
//
// Values are applied with Instance.Set inside one hold, so they pass the
// full validation pipeline and observers see one event per attribute.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/comalice/traitx"
	"github.com/comalice/traitx/constraint"
)

// ErrUnsupportedFormat is returned for files that are neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("config: unsupported file format")

// Values maps schema name to attribute name to raw value.
type Values map[string]map[string]any

// Merge copies every entry of other into v, overriding existing entries.
func (v Values) Merge(other Values) {
	for section, attrs := range other {
		dst, ok := v[section]
		if !ok {
			dst = make(map[string]any, len(attrs))
			v[section] = dst
		}
		for name, val := range attrs {
			dst[name] = val
		}
	}
}

// Loader gathers Values from files and arguments.
type Loader struct {
	files  []string
	args   []string
	logger *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithFiles adds configuration files. Later files override earlier ones.
func WithFiles(paths ...string) Option {
	return func(l *Loader) { l.files = append(l.files, paths...) }
}

// WithArgs sets the command-line arguments; they override every file.
func WithArgs(args []string) Option {
	return func(l *Loader) { l.args = args }
}

// WithLogger sets the logger used to report skipped entries.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every file concurrently, then merges files in order followed
// by arguments. It also returns the arguments that were not assignments.
func (l *Loader) Load(ctx context.Context) (Values, []string, error) {
	parsed := make([]Values, len(l.files))
	g, ctx := errgroup.WithContext(ctx)
	for idx, path := range l.files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := ReadFile(path)
			if err != nil {
				return err
			}
			parsed[idx] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := Values{}
	for _, v := range parsed {
		out.Merge(v)
	}
	fromArgs, rest, err := ParseArgs(l.args)
	if err != nil {
		return nil, nil, err
	}
	out.Merge(fromArgs)
	return out, rest, nil
}

// ReadFile decodes one YAML (.yaml, .yml) or JSON (.json) file.
func ReadFile(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	v := Values{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]map[string]yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("yaml unmarshal %s: %w", path, err)
		}
		for section, attrs := range doc {
			v[section] = make(map[string]any, len(attrs))
			for name, node := range attrs {
				v[section][name] = nodeValue(&node)
			}
		}
	case ".json":
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("json unmarshal %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	return v, nil
}

// ParseArgs extracts "--Schema.attr=value" assignments. Values are kept as
// raw text for the attribute's constraint to coerce. Other arguments are
// returned untouched.
func ParseArgs(args []string) (Values, []string, error) {
	out := Values{}
	var rest []string
	for _, arg := range args {
		key, raw, ok := splitAssignment(arg)
		if !ok {
			rest = append(rest, arg)
			continue
		}
		section, name, ok := strings.Cut(key, ".")
		if !ok || section == "" || name == "" {
			return nil, nil, fmt.Errorf("config: argument %q: want --Schema.attr=value", arg)
		}
		if out[section] == nil {
			out[section] = make(map[string]any)
		}
		out[section][name] = raw
	}
	return out, rest, nil
}

func splitAssignment(arg string) (key, value string, ok bool) {
	if !strings.HasPrefix(arg, "--") {
		return "", "", false
	}
	key, value, ok = strings.Cut(strings.TrimPrefix(arg, "--"), "=")
	if !ok || !strings.Contains(key, ".") {
		return "", "", false
	}
	return key, value, true
}

// nodeValue converts a YAML node to plain values, keeping every scalar as
// its source text. Null scalars become nil.
func nodeValue(n *yaml.Node) any {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			out[i] = nodeValue(c)
		}
		return out
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			out[n.Content[i].Value] = nodeValue(n.Content[i+1])
		}
		return out
	}
	if n.Tag == "!!null" {
		return nil
	}
	return n.Value
}

// forConstraint parses raw text meant for a list or dict attribute as a
// YAML flow collection. Everything else is returned unchanged.
func forConstraint(c traitx.Constraint, v any) any {
	raw, ok := v.(string)
	if !ok {
		return v
	}
	switch c.(type) {
	case *constraint.ListConstraint, *constraint.DictConstraint:
	default:
		return v
	}
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &n); err != nil {
		return v
	}
	if len(n.Content) == 0 {
		return v
	}
	if k := n.Content[0].Kind; k != yaml.SequenceNode && k != yaml.MappingNode {
		return v
	}
	return nodeValue(&n)
}

// Apply sets every configurable attribute of inst found in v, inside one
// hold. Unknown and non-configurable entries are logged and skipped.
func (l *Loader) Apply(v Values, inst *traitx.Instance) error {
	schema := inst.Schema()
	section := v[schema.Name()]
	if len(section) == 0 {
		return nil
	}
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)

	return inst.Hold(func(i *traitx.Instance) error {
		for _, name := range names {
			d, ok := schema.Descriptor(name)
			if !ok {
				l.logger.Warn("config: unknown attribute",
					zap.String("schema", schema.Name()), zap.String("attribute", name))
				continue
			}
			if !d.Configurable() {
				l.logger.Warn("config: attribute not configurable",
					zap.String("schema", schema.Name()), zap.String("attribute", name))
				continue
			}
			if err := i.Set(name, forConstraint(d.Constraint(), section[name])); err != nil {
				return fmt.Errorf("config %s.%s: %w", schema.Name(), name, err)
			}
		}
		return nil
	})
}
