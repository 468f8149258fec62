package schema

import (
	"math"
	"strconv"

	"go.uber.org/zap"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/config"
	"github.com/wippyai/pod-codec/errors"
)

// Schema holds a dynamic codec for every type declared in a document.
type Schema struct {
	doc     *config.Document
	entries map[string]*entry
}

type entry struct {
	codec  podcodec.Codec[any]
	layout []podcodec.FieldInfo
}

// Compile validates doc and builds the codec of each declared type.
// Recursive type references are rejected since their size is unbounded.
func Compile(doc *config.Document) (*Schema, error) {
	if doc == nil {
		return nil, errors.InvalidConfig(nil, "document cannot be nil")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	s := &Schema{doc: doc, entries: make(map[string]*entry, len(doc.Types))}
	c := &compiler{schema: s, active: make(map[string]bool)}
	for _, name := range doc.Names() {
		if _, err := c.named(name); err != nil {
			return nil, err
		}
	}

	logger().Debug("schema compiled", zap.Int("types", len(s.entries)))
	return s, nil
}

// Types returns the declared type names in sorted order.
func (s *Schema) Types() []string {
	return s.doc.Names()
}

// Codec returns the codec of the named type.
func (s *Schema) Codec(name string) (podcodec.Codec[any], error) {
	e, ok := s.entries[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseConfig, "type", name)
	}
	return e.codec, nil
}

// Layout returns the field layout of a struct or tuple type, or nil for
// other kinds.
func (s *Schema) Layout(name string) ([]podcodec.FieldInfo, error) {
	e, ok := s.entries[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseConfig, "type", name)
	}
	return append([]podcodec.FieldInfo(nil), e.layout...), nil
}

// Lookup returns a codec for any type reference, such as "[4]u16" or "[2]point".
func (s *Schema) Lookup(ref string) (podcodec.Codec[any], error) {
	r, err := config.ParseTypeRef(ref)
	if err != nil {
		return nil, err
	}
	c := &compiler{schema: s, active: make(map[string]bool)}
	return c.ref(r)
}

type compiler struct {
	schema *Schema
	active map[string]bool
}

func (c *compiler) named(name string) (podcodec.Codec[any], error) {
	if e, ok := c.schema.entries[name]; ok {
		return e.codec, nil
	}
	if c.active[name] {
		return nil, errors.InvalidConfig([]string{name}, "recursive type reference")
	}
	spec, err := c.schema.doc.Lookup(name)
	if err != nil {
		return nil, err
	}

	c.active[name] = true
	defer delete(c.active, name)

	e, err := c.build(name, spec)
	if err != nil {
		return nil, err
	}
	c.schema.entries[name] = e

	logger().Debug("schema type",
		zap.String("type", name),
		zap.Stringer("kind", podcodec.KindOf(e.codec)),
		zap.Int("size", e.codec.Size()))
	return e.codec, nil
}

func (c *compiler) build(name string, spec *config.TypeSpec) (*entry, error) {
	switch spec.Shape() {
	case podcodec.KindUnion:
		codec, err := c.union(name)
		if err != nil {
			return nil, err
		}
		return &entry{codec: codec}, nil

	case podcodec.KindUnknown:
		codec, err := c.refString(spec.Alias)
		if err != nil {
			return nil, errors.WithPath(err, name)
		}
		return &entry{codec: codec}, nil

	case podcodec.KindStruct:
		fields := make([]podcodec.Field[Record], len(spec.Fields))
		names := make([]string, len(spec.Fields))
		for i, f := range spec.Fields {
			codec, err := c.refString(f.Type)
			if err != nil {
				return nil, errors.WithPath(errors.WithPath(err, f.Name), name)
			}
			names[i] = f.Name
			fields[i] = &recordField{name: f.Name, index: i, codec: codec}
		}
		return c.record(name, podcodec.ShapeStruct, names, fields)

	case podcodec.KindTuple:
		fields := make([]podcodec.Field[Record], len(spec.Tuple))
		for i, ref := range spec.Tuple {
			codec, err := c.refString(ref)
			if err != nil {
				return nil, errors.WithPath(errors.WithPath(err, strconv.Itoa(i)), name)
			}
			fields[i] = &recordField{index: i, codec: codec}
		}
		return c.record(name, podcodec.ShapeTuple, nil, fields)

	default:
		return c.record(name, podcodec.ShapeUnit, []string{}, nil)
	}
}

func (c *compiler) record(name string, shape podcodec.Shape, names []string, fields []podcodec.Field[Record]) (*entry, error) {
	p, err := podcodec.Struct(fields...)
	if err != nil {
		return nil, errors.WithPath(err, name)
	}
	p = p.WithAlloc(func() Record {
		return Record{Type: name, Shape: shape, Fields: names, Values: make([]any, len(fields))}
	})
	return &entry{
		codec:  &recordCodec{Product: p, name: name, n: len(fields)},
		layout: p.Layout(),
	}, nil
}

func (c *compiler) refString(s string) (podcodec.Codec[any], error) {
	r, err := config.ParseTypeRef(s)
	if err != nil {
		return nil, err
	}
	return c.ref(r)
}

func (c *compiler) ref(r config.TypeRef) (podcodec.Codec[any], error) {
	switch {
	case r.IsNamed():
		return c.named(r.Name)
	case r.Kind == podcodec.KindArray:
		elem, err := c.ref(*r.Elem)
		if err != nil {
			return nil, err
		}
		if size := elem.Size(); size > 0 && r.Len > math.MaxInt/size {
			return nil, errors.InvalidConfig(nil, "%s does not fit in memory", r)
		}
		return podcodec.Erase[[]any](podcodec.FixedSlice(elem, r.Len)), nil
	default:
		return primitive(r.Kind)
	}
}

func (c *compiler) union(name string) (podcodec.Codec[any], error) {
	ru, err := c.schema.doc.ResolveUnion(name)
	if err != nil {
		return nil, err
	}
	repr, err := reprFor(ru.Repr)
	if err != nil {
		return nil, errors.WithPath(err, name)
	}

	cfg := podcodec.UnionConfig[Variant, podcodec.U128]{
		Name:     name,
		Repr:     repr,
		Policy:   ru.Policy,
		Variants: make([]podcodec.Variant[Variant, podcodec.U128], len(ru.Variants)),
	}
	for i, v := range ru.Variants {
		cfg.Variants[i] = podcodec.Variant[Variant, podcodec.U128]{
			Name:  v.Name,
			Value: Variant{Type: name, Name: v.Name},
			Tag:   v.Tag,
			Zero:  v.Name == ru.Zero,
		}
	}
	u, err := podcodec.Union(cfg)
	if err != nil {
		return nil, errors.WithPath(err, name)
	}
	return podcodec.Erase[Variant](u), nil
}

func primitive(k podcodec.Kind) (podcodec.Codec[any], error) {
	switch k {
	case podcodec.KindBool:
		return podcodec.Erase[bool](podcodec.Bool), nil
	case podcodec.KindU8:
		return podcodec.Erase[uint8](podcodec.Uint8), nil
	case podcodec.KindI8:
		return podcodec.Erase[int8](podcodec.Int8), nil
	case podcodec.KindU16:
		return podcodec.Erase[uint16](podcodec.Uint16), nil
	case podcodec.KindI16:
		return podcodec.Erase[int16](podcodec.Int16), nil
	case podcodec.KindU32:
		return podcodec.Erase[uint32](podcodec.Uint32), nil
	case podcodec.KindI32:
		return podcodec.Erase[int32](podcodec.Int32), nil
	case podcodec.KindU64:
		return podcodec.Erase[uint64](podcodec.Uint64), nil
	case podcodec.KindI64:
		return podcodec.Erase[int64](podcodec.Int64), nil
	case podcodec.KindU128:
		return podcodec.Erase[podcodec.U128](podcodec.Uint128), nil
	case podcodec.KindI128:
		return podcodec.Erase[podcodec.I128](podcodec.Int128), nil
	case podcodec.KindF32:
		return podcodec.Erase[float32](podcodec.Float32), nil
	case podcodec.KindF64:
		return podcodec.Erase[float64](podcodec.Float64), nil
	default:
		return nil, errors.Unsupported(nil, "kind "+k.String())
	}
}
