package config

import (
	"fmt"
	"io"
	"strconv"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/pod-codec/errors"
)

// FromWIT builds a document from named WIT type definitions. Records become
// structs, tuples become tuples, enums become unions whose tags are the case
// indexes and whose representation is the Canonical ABI discriminant. Named
// type definitions referenced by defs are imported as well.
//
// Types without a fixed size (strings, lists, options, results, variants with
// payloads, resources) are rejected.
func FromWIT(defs ...*wit.TypeDef) (*Document, error) {
	doc := &Document{Types: make(map[string]*TypeSpec)}
	imp := &witImporter{doc: doc, seen: make(map[*wit.TypeDef]bool)}
	for _, td := range defs {
		if err := imp.importDef(td); err != nil {
			return nil, err
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadWITJSON imports every fixed-size named type from a WIT resolve in JSON
// form, as produced by wasm-tools component wit --json. Types that cannot be
// expressed are skipped and their names returned.
func LoadWITJSON(r io.Reader) (*Document, []string, error) {
	res, err := wit.DecodeJSON(r)
	if err != nil {
		return nil, nil, errors.ParseFailed("WIT JSON", err)
	}

	doc := &Document{Types: make(map[string]*TypeSpec)}
	var skipped []string
	for _, td := range res.TypeDefs {
		if td.Name == nil {
			continue
		}
		// Import each definition into a scratch document so a failure
		// leaves no partial declarations behind.
		scratch := &witImporter{
			doc:  &Document{Types: make(map[string]*TypeSpec)},
			seen: make(map[*wit.TypeDef]bool),
		}
		if err := scratch.importDef(td); err != nil {
			Logger().Debug("skipping WIT type", zap.String("type", *td.Name), zap.Error(err))
			skipped = append(skipped, *td.Name)
			continue
		}
		conflict := false
		for name, spec := range scratch.doc.Types {
			if prev, ok := doc.Types[name]; ok && prev != spec && !sameSpec(prev, spec) {
				conflict = true
			}
		}
		if conflict {
			Logger().Debug("skipping WIT type with conflicting name", zap.String("type", *td.Name))
			skipped = append(skipped, *td.Name)
			continue
		}
		for name, spec := range scratch.doc.Types {
			doc.Types[name] = spec
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, nil, err
	}
	Logger().Debug("WIT imported", zap.Int("types", len(doc.Types)), zap.Int("skipped", len(skipped)))
	return doc, skipped, nil
}

type witImporter struct {
	doc  *Document
	seen map[*wit.TypeDef]bool
}

func (imp *witImporter) importDef(td *wit.TypeDef) error {
	if td == nil {
		return errors.InvalidConfig(nil, "nil WIT type definition")
	}
	if td.Name == nil {
		return errors.InvalidConfig(nil, "WIT %T has no name", td.Kind)
	}
	if imp.seen[td] {
		return nil
	}
	imp.seen[td] = true
	name := *td.Name
	if _, dup := imp.doc.Types[name]; dup {
		return errors.InvalidConfig([]string{name}, "WIT type declared twice")
	}

	spec, err := imp.convertKind(name, td.Kind)
	if err != nil {
		return err
	}
	imp.doc.Types[name] = spec
	return nil
}

func (imp *witImporter) convertKind(name string, kind wit.TypeDefKind) (*TypeSpec, error) {
	switch k := kind.(type) {
	case *wit.Record:
		spec := &TypeSpec{Fields: make([]FieldSpec, 0, len(k.Fields))}
		for _, f := range k.Fields {
			ref, err := imp.ref(f.Type)
			if err != nil {
				return nil, errors.WithPath(errors.WithPath(err, f.Name), name)
			}
			spec.Fields = append(spec.Fields, FieldSpec{Name: f.Name, Type: ref})
		}
		if len(spec.Fields) == 0 {
			return &TypeSpec{}, nil
		}
		return spec, nil

	case *wit.Tuple:
		spec := &TypeSpec{Tuple: make([]string, 0, len(k.Types))}
		for i, t := range k.Types {
			ref, err := imp.ref(t)
			if err != nil {
				return nil, errors.WithPath(errors.WithPath(err, strconv.Itoa(i)), name)
			}
			spec.Tuple = append(spec.Tuple, ref)
		}
		if len(spec.Tuple) == 0 {
			return &TypeSpec{}, nil
		}
		return spec, nil

	case *wit.Enum:
		if len(k.Cases) == 0 {
			return nil, errors.InvalidConfig([]string{name}, "enum has no cases")
		}
		u := &UnionSpec{
			Repr:     discriminant(len(k.Cases)),
			Variants: make([]VariantSpec, len(k.Cases)),
		}
		for i, c := range k.Cases {
			u.Variants[i] = VariantSpec{Name: c.Name, Tag: Literal(strconv.Itoa(i))}
		}
		return &TypeSpec{Union: u}, nil

	case *wit.Variant:
		// A variant whose cases carry no payload is an enum.
		u := &UnionSpec{
			Repr:     discriminant(len(k.Cases)),
			Variants: make([]VariantSpec, len(k.Cases)),
		}
		for i, c := range k.Cases {
			if c.Type != nil {
				return nil, errors.Unsupported([]string{name, c.Name}, "variant case with payload")
			}
			u.Variants[i] = VariantSpec{Name: c.Name, Tag: Literal(strconv.Itoa(i))}
		}
		if len(u.Variants) == 0 {
			return nil, errors.InvalidConfig([]string{name}, "variant has no cases")
		}
		return &TypeSpec{Union: u}, nil

	case wit.Type:
		ref, err := imp.ref(k)
		if err != nil {
			return nil, errors.WithPath(err, name)
		}
		return &TypeSpec{Alias: ref}, nil

	default:
		return nil, errors.Unsupported([]string{name}, fmt.Sprintf("WIT %T", kind))
	}
}

// ref renders a WIT type as a type reference, importing named definitions.
func (imp *witImporter) ref(t wit.Type) (string, error) {
	switch v := t.(type) {
	case wit.Bool:
		return "bool", nil
	case wit.U8:
		return "u8", nil
	case wit.S8:
		return "s8", nil
	case wit.U16:
		return "u16", nil
	case wit.S16:
		return "s16", nil
	case wit.U32:
		return "u32", nil
	case wit.S32:
		return "s32", nil
	case wit.U64:
		return "u64", nil
	case wit.S64:
		return "s64", nil
	case wit.F32:
		return "f32", nil
	case wit.F64:
		return "f64", nil
	case *wit.TypeDef:
		if v.Name == nil {
			return "", errors.Unsupported(nil, fmt.Sprintf("anonymous WIT %T", v.Kind))
		}
		if err := imp.importDef(v); err != nil {
			return "", err
		}
		return *v.Name, nil
	default:
		return "", errors.Unsupported(nil, fmt.Sprintf("WIT %T", t))
	}
}

// discriminant is the Canonical ABI tag width for n cases.
func discriminant(n int) string {
	switch {
	case n <= 1<<8:
		return "u8"
	case n <= 1<<16:
		return "u16"
	default:
		return "u32"
	}
}

func sameSpec(a, b *TypeSpec) bool {
	x, err1 := (&Document{Types: map[string]*TypeSpec{"t": a}}).Marshal()
	y, err2 := (&Document{Types: map[string]*TypeSpec{"t": b}}).Marshal()
	return err1 == nil && err2 == nil && string(x) == string(y)
}
