package derive

import (
	"reflect"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/errors"
)

// convertCodec adapts a typed codec to reflect.Values of typ, which is T or a
// named type with T's underlying type.
type convertCodec[T any] struct {
	inner podcodec.Codec[T]
	typ   reflect.Type
}

func (c *convertCodec[T]) Size() int           { return c.inner.Size() }
func (c *convertCodec[T]) Kind() podcodec.Kind { return podcodec.KindOf(c.inner) }

func (c *convertCodec[T]) Zero() reflect.Value {
	return reflect.ValueOf(c.inner.Zero()).Convert(c.typ)
}

func (c *convertCodec[T]) Decode(b []byte, order podcodec.Endian) (reflect.Value, error) {
	v, err := c.inner.Decode(b, order)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(v).Convert(c.typ), nil
}

func (c *convertCodec[T]) Encode(v reflect.Value, b []byte, order podcodec.Endian) (int, error) {
	target := reflect.TypeFor[T]()
	if !v.IsValid() || !v.Type().ConvertibleTo(target) {
		return 0, errors.TypeMismatch(errors.PhaseEncode, nil, valueType(v), c.typ.String())
	}
	return c.inner.Encode(v.Convert(target).Interface().(T), b, order)
}

// arrayCodec decodes Go arrays element by element through a fixed slice.
type arrayCodec struct {
	elems *podcodec.SliceCodec[reflect.Value]
	typ   reflect.Type
}

func (a *arrayCodec) Size() int           { return a.elems.Size() }
func (a *arrayCodec) Kind() podcodec.Kind { return podcodec.KindArray }

func (a *arrayCodec) Zero() reflect.Value {
	return a.fill(a.elems.Zero())
}

func (a *arrayCodec) fill(elems []reflect.Value) reflect.Value {
	arr := reflect.New(a.typ).Elem()
	for i, e := range elems {
		arr.Index(i).Set(e)
	}
	return arr
}

func (a *arrayCodec) Decode(b []byte, order podcodec.Endian) (reflect.Value, error) {
	elems, err := a.elems.Decode(b, order)
	if err != nil {
		return reflect.Value{}, err
	}
	return a.fill(elems), nil
}

func (a *arrayCodec) Encode(v reflect.Value, b []byte, order podcodec.Endian) (int, error) {
	if !v.IsValid() || v.Kind() != reflect.Array || v.Len() != a.typ.Len() {
		return 0, errors.TypeMismatch(errors.PhaseEncode, nil, valueType(v), a.typ.String())
	}
	elems := make([]reflect.Value, v.Len())
	for i := range elems {
		elems[i] = v.Index(i)
	}
	return a.elems.Encode(elems, b, order)
}

// structField reads and writes one exported field through reflection.
type structField struct {
	codec Value
	name  string
	index int
}

func (f *structField) Info() podcodec.FieldInfo {
	return podcodec.FieldInfo{Name: f.name, Size: f.codec.Size(), Kind: podcodec.KindOf(f.codec)}
}

func (f *structField) Zero(dst *reflect.Value) {
	dst.Field(f.index).Set(f.codec.Zero())
}

func (f *structField) Decode(dst *reflect.Value, b []byte, order podcodec.Endian) error {
	v, err := f.codec.Decode(b, order)
	if err != nil {
		return err
	}
	dst.Field(f.index).Set(v)
	return nil
}

func (f *structField) Encode(src *reflect.Value, b []byte, order podcodec.Endian) (int, error) {
	if !src.IsValid() || src.Kind() != reflect.Struct {
		return 0, errors.TypeMismatch(errors.PhaseEncode, []string{f.name}, valueType(*src), "struct")
	}
	return f.codec.Encode(src.Field(f.index), b, order)
}

func valueType(v reflect.Value) string {
	if !v.IsValid() {
		return "invalid"
	}
	return v.Type().String()
}

// typed exposes a derived codec as Codec[T].
type typed[T any] struct {
	inner Value
}

func (t *typed[T]) Size() int           { return t.inner.Size() }
func (t *typed[T]) Kind() podcodec.Kind { return podcodec.KindOf(t.inner) }
func (t *typed[T]) Zero() T             { return t.inner.Zero().Interface().(T) }

func (t *typed[T]) Decode(b []byte, order podcodec.Endian) (T, error) {
	v, err := t.inner.Decode(b, order)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.Interface().(T), nil
}

func (t *typed[T]) Encode(v T, b []byte, order podcodec.Endian) (int, error) {
	return t.inner.Encode(reflect.ValueOf(&v).Elem(), b, order)
}

// Layout reports the field layout of struct types, or nil.
func (t *typed[T]) Layout() []podcodec.FieldInfo {
	if p, ok := t.inner.(*podcodec.Product[reflect.Value]); ok {
		return p.Layout()
	}
	return nil
}

// For derives the codec for T with compiler c.
func For[T any](c *Compiler) (podcodec.Codec[T], error) {
	v, err := c.Compile(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return &typed[T]{inner: v}, nil
}

// Of derives the codec for T with the Default compiler.
func Of[T any]() (podcodec.Codec[T], error) {
	return For[T](Default)
}

// LayoutOf returns the field layout of a struct codec returned by For or Of.
func LayoutOf[T any](c podcodec.Codec[T]) []podcodec.FieldInfo {
	if l, ok := c.(interface{ Layout() []podcodec.FieldInfo }); ok {
		return l.Layout()
	}
	return nil
}
