package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/errors"
)

// Document is a set of named type declarations.
//
//	types:
//	  sample:
//	    fields:
//	      - {name: level, type: i8}
//	      - {name: gain, type: f32}
//	  mode:
//	    union:
//	      repr: u8
//	      variants:
//	        - {name: a, tag: 5}
//	        - {name: b, tag: 0}
type Document struct {
	Types map[string]*TypeSpec `yaml:"types"`
}

// TypeSpec declares one type. At most one of Fields, Tuple, Union and Alias is
// set; a declaration with none of them is a unit type.
type TypeSpec struct {
	Union  *UnionSpec  `yaml:"union,omitempty"`
	Alias  string      `yaml:"type,omitempty"`
	Fields []FieldSpec `yaml:"fields,omitempty"`
	Tuple  []string    `yaml:"tuple,omitempty"`
}

type FieldSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// UnionSpec declares a unit-only tagged union.
//
// Zero names the zero variant as an alternative to a per-variant flag.
// Strict makes a missing zero designation an error.
type UnionSpec struct {
	Repr     string        `yaml:"repr"`
	Zero     string        `yaml:"zero,omitempty"`
	Variants []VariantSpec `yaml:"variants"`
	Strict   bool          `yaml:"strict,omitempty"`
}

type VariantSpec struct {
	Name string  `yaml:"name"`
	Tag  Literal `yaml:"tag"`
	Zero bool    `yaml:"zero,omitempty"`
}

// Literal keeps a scalar's source text so tags like 0x10, -1 and 1_000 are
// interpreted against the representation type rather than by YAML.
type Literal string

func (l *Literal) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New(errors.PhaseConfig, errors.KindParse).
			Detail("tag must be a scalar (line %d)", node.Line).
			Build()
	}
	*l = Literal(node.Value)
	return nil
}

// MarshalYAML writes the literal as a plain scalar.
func (l Literal) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: string(l)}, nil
}

// Shape reports which form the declaration takes.
func (s *TypeSpec) Shape() podcodec.Kind {
	switch {
	case s.Union != nil:
		return podcodec.KindUnion
	case len(s.Fields) > 0:
		return podcodec.KindStruct
	case len(s.Tuple) > 0:
		return podcodec.KindTuple
	case s.Alias != "":
		return podcodec.KindUnknown
	default:
		return podcodec.KindUnit
	}
}

// Parse decodes and validates a YAML document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.InvalidConfig(nil, "empty document")
		}
		var e *errors.Error
		if stderrors.As(err, &e) {
			return nil, e
		}
		return nil, errors.ParseFailed("document", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	Logger().Debug("document loaded", zap.Int("types", len(doc.Types)))
	return &doc, nil
}

// Load reads and parses a YAML document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ParseFailed(path, err)
	}
	return Parse(data)
}

// Marshal renders the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Names returns the declared type names in sorted order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Types))
	for name := range d.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the declaration of name.
func (d *Document) Lookup(name string) (*TypeSpec, error) {
	spec, ok := d.Types[name]
	if !ok || spec == nil {
		return nil, errors.NotFound(errors.PhaseConfig, "type", name)
	}
	return spec, nil
}

// Validate checks every declaration and every type reference. Unions are
// fully resolved so that tag problems surface here.
func (d *Document) Validate() error {
	for _, name := range d.Names() {
		if err := d.validateType(name); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) validateType(name string) error {
	path := []string{name}
	if !validName(name) {
		return errors.InvalidConfig(path, "invalid type name")
	}
	if _, ok := podcodec.ParseKind(name); ok {
		return errors.InvalidConfig(path, "type name shadows a primitive")
	}

	spec := d.Types[name]
	if spec == nil {
		// "name: {}" and "name:" both declare a unit type.
		d.Types[name] = &TypeSpec{}
		return nil
	}

	forms := 0
	for _, set := range []bool{spec.Union != nil, len(spec.Fields) > 0, len(spec.Tuple) > 0, spec.Alias != ""} {
		if set {
			forms++
		}
	}
	if forms > 1 {
		return errors.InvalidConfig(path, "declare only one of fields, tuple, union or type")
	}

	switch spec.Shape() {
	case podcodec.KindStruct:
		seen := make(map[string]bool, len(spec.Fields))
		for _, f := range spec.Fields {
			if f.Name == "" {
				return errors.InvalidConfig(path, "field without a name")
			}
			if seen[f.Name] {
				return errors.InvalidConfig(append(path, f.Name), "duplicate field name")
			}
			seen[f.Name] = true
			if err := d.checkRef(f.Type); err != nil {
				return errors.WithPath(errors.WithPath(err, f.Name), name)
			}
		}
	case podcodec.KindTuple:
		for _, ref := range spec.Tuple {
			if err := d.checkRef(ref); err != nil {
				return errors.WithPath(err, name)
			}
		}
	case podcodec.KindUnknown:
		if err := d.checkRef(spec.Alias); err != nil {
			return errors.WithPath(err, name)
		}
	case podcodec.KindUnion:
		if _, err := d.ResolveUnion(name); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) checkRef(s string) error {
	ref, err := ParseTypeRef(s)
	if err != nil {
		return err
	}
	for _, name := range ref.Names() {
		if _, ok := d.Types[name]; !ok {
			return errors.NotFound(errors.PhaseConfig, "type", name)
		}
	}
	return nil
}
