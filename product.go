package podcodec

import (
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/pod-codec/errors"
)

// Shape distinguishes how the fields of a product are addressed.
type Shape uint8

const (
	ShapeUnit   Shape = iota // no fields
	ShapeTuple               // fields addressed by position
	ShapeStruct              // fields addressed by name
)

func (s Shape) String() string {
	switch s {
	case ShapeTuple:
		return "tuple"
	case ShapeStruct:
		return "struct"
	default:
		return "unit"
	}
}

// FieldInfo describes where a field lives inside its product's encoding.
type FieldInfo struct {
	Name   string // empty for positional fields
	Index  int
	Offset int
	Size   int
	Kind   Kind
}

// Label is the field name, or its index for positional fields.
func (fi FieldInfo) Label() string {
	if fi.Name != "" {
		return fi.Name
	}
	return strconv.Itoa(fi.Index)
}

// Field reads and writes one member of T. Decode and Encode receive a window
// of exactly the field's size.
type Field[T any] interface {
	// Info reports name, size and kind; Index and Offset are assigned by the product.
	Info() FieldInfo
	Zero(dst *T)
	Decode(dst *T, b []byte, order Endian) error
	Encode(src *T, b []byte, order Endian) (int, error)
}

type accessorField[T, F any] struct {
	codec Codec[F]
	at    func(*T) *F
	name  string
}

// Named declares a field addressed by name; at returns the field's location in T.
func Named[T, F any](name string, c Codec[F], at func(*T) *F) Field[T] {
	return &accessorField[T, F]{name: name, codec: c, at: at}
}

// Positional declares a field addressed by its declaration index.
func Positional[T, F any](c Codec[F], at func(*T) *F) Field[T] {
	return &accessorField[T, F]{codec: c, at: at}
}

func (f *accessorField[T, F]) validate() error {
	if f.codec == nil || f.at == nil {
		return errors.InvalidConfig(nil, "field %q needs a codec and an accessor", f.name)
	}
	return nil
}

func (f *accessorField[T, F]) Info() FieldInfo {
	return FieldInfo{Name: f.name, Size: f.codec.Size(), Kind: KindOf(f.codec)}
}

func (f *accessorField[T, F]) Zero(dst *T) {
	*f.at(dst) = f.codec.Zero()
}

func (f *accessorField[T, F]) Decode(dst *T, b []byte, order Endian) error {
	v, err := f.codec.Decode(b, order)
	if err != nil {
		return err
	}
	*f.at(dst) = v
	return nil
}

func (f *accessorField[T, F]) Encode(src *T, b []byte, order Endian) (int, error) {
	return f.codec.Encode(*f.at(src), b, order)
}

// Product is the codec for an ordered-field aggregate. Fields are packed in
// declaration order with no padding.
type Product[T any] struct {
	alloc  func() T
	fields []Field[T]
	layout []FieldInfo
	size   int
	shape  Shape
}

// Struct composes a product codec from its fields. With no fields the product
// is a unit; with only positional fields it is a tuple; with only named
// fields it is a struct. Mixing the two or repeating a name is a
// configuration error.
func Struct[T any](fields ...Field[T]) (*Product[T], error) {
	p := &Product[T]{
		fields: fields,
		layout: make([]FieldInfo, len(fields)),
	}

	named := 0
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f == nil {
			return nil, errors.InvalidConfig([]string{strconv.Itoa(i)}, "nil field")
		}
		if v, ok := f.(interface{ validate() error }); ok {
			if err := v.validate(); err != nil {
				return nil, errors.WithPath(err, strconv.Itoa(i))
			}
		}
		info := f.Info()
		info.Index = i
		info.Offset = p.size
		if info.Name != "" {
			if seen[info.Name] {
				return nil, errors.InvalidConfig([]string{info.Name}, "duplicate field name")
			}
			seen[info.Name] = true
			named++
		}
		p.layout[i] = info
		p.size += info.Size
	}

	switch {
	case len(fields) == 0:
		p.shape = ShapeUnit
	case named == 0:
		p.shape = ShapeTuple
	case named == len(fields):
		p.shape = ShapeStruct
	default:
		return nil, errors.InvalidConfig(nil, "%d of %d fields are named; use all named or all positional", named, len(fields))
	}

	Logger().Debug("product layout",
		zap.Stringer("type", reflect.TypeFor[T]()),
		zap.Stringer("shape", p.shape),
		zap.Int("fields", len(fields)),
		zap.Int("size", p.size))

	return p, nil
}

// Unit is the codec for a field-less type. It always has size 0.
func Unit[T any]() *Product[T] {
	return &Product[T]{shape: ShapeUnit}
}

// WithAlloc returns a copy of p that starts every decoded or zero value from
// fn() instead of the Go zero value of T.
func (p *Product[T]) WithAlloc(fn func() T) *Product[T] {
	cp := *p
	cp.alloc = fn
	return &cp
}

func (p *Product[T]) Size() int    { return p.size }
func (p *Product[T]) Shape() Shape { return p.shape }

func (p *Product[T]) Kind() Kind {
	switch p.shape {
	case ShapeTuple:
		return KindTuple
	case ShapeStruct:
		return KindStruct
	default:
		return KindUnit
	}
}

// Layout returns a copy of the field layout in declaration order.
func (p *Product[T]) Layout() []FieldInfo {
	return append([]FieldInfo(nil), p.layout...)
}

func (p *Product[T]) new() T {
	if p.alloc != nil {
		return p.alloc()
	}
	var v T
	return v
}

// Zero aggregates the zero value of every field.
func (p *Product[T]) Zero() T {
	v := p.new()
	for _, f := range p.fields {
		f.Zero(&v)
	}
	return v
}

func (p *Product[T]) Decode(b []byte, order Endian) (T, error) {
	var zero T
	if err := checkSpace(errors.PhaseDecode, p.Kind(), p.size, b); err != nil {
		return zero, err
	}
	v := p.new()
	for i, f := range p.fields {
		info := p.layout[i]
		if err := f.Decode(&v, b[info.Offset:info.Offset+info.Size], order); err != nil {
			return zero, errors.WithPath(err, info.Label())
		}
	}
	return v, nil
}

func (p *Product[T]) Encode(v T, b []byte, order Endian) (int, error) {
	if err := checkSpace(errors.PhaseEncode, p.Kind(), p.size, b); err != nil {
		return 0, err
	}
	written := 0
	for i, f := range p.fields {
		info := p.layout[i]
		n, err := f.Encode(&v, b[info.Offset:info.Offset+info.Size], order)
		if err != nil {
			return 0, errors.WithPath(err, info.Label())
		}
		written += n
	}
	return written, nil
}

// Tuple2 is a positional pair.
type Tuple2[A, B any] struct {
	V0 A
	V1 B
}

// Tuple3 is a positional triple.
type Tuple3[A, B, C any] struct {
	V0 A
	V1 B
	V2 C
}

func Pair[A, B any](a Codec[A], b Codec[B]) (*Product[Tuple2[A, B]], error) {
	return Struct(
		Positional(a, func(t *Tuple2[A, B]) *A { return &t.V0 }),
		Positional(b, func(t *Tuple2[A, B]) *B { return &t.V1 }),
	)
}

func Triple[A, B, C any](a Codec[A], b Codec[B], c Codec[C]) (*Product[Tuple3[A, B, C]], error) {
	return Struct(
		Positional(a, func(t *Tuple3[A, B, C]) *A { return &t.V0 }),
		Positional(b, func(t *Tuple3[A, B, C]) *B { return &t.V1 }),
		Positional(c, func(t *Tuple3[A, B, C]) *C { return &t.V2 }),
	)
}
