package schema

import (
	"fmt"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/config"
	"github.com/wippyai/pod-codec/errors"
)

// recordField stores one member of a Record by position.
type recordField struct {
	codec podcodec.Codec[any]
	name  string
	index int
}

func (f *recordField) Info() podcodec.FieldInfo {
	return podcodec.FieldInfo{Name: f.name, Size: f.codec.Size(), Kind: podcodec.KindOf(f.codec)}
}

func (f *recordField) Zero(dst *Record) {
	dst.Values[f.index] = f.codec.Zero()
}

func (f *recordField) Decode(dst *Record, b []byte, order podcodec.Endian) error {
	v, err := f.codec.Decode(b, order)
	if err != nil {
		return err
	}
	dst.Values[f.index] = v
	return nil
}

func (f *recordField) Encode(src *Record, b []byte, order podcodec.Endian) (int, error) {
	return f.codec.Encode(src.Values[f.index], b, order)
}

// recordCodec checks a Record's type and arity before handing it to the product.
type recordCodec struct {
	*podcodec.Product[Record]
	name string
	n    int
}

func (r *recordCodec) Zero() any { return r.Product.Zero() }

func (r *recordCodec) Decode(b []byte, order podcodec.Endian) (any, error) {
	v, err := r.Product.Decode(b, order)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *recordCodec) Encode(v any, b []byte, order podcodec.Endian) (int, error) {
	var rec Record
	switch v := v.(type) {
	case Record:
		rec = v
	case *Record:
		if v == nil {
			return 0, errors.TypeMismatch(errors.PhaseEncode, nil, "nil", r.name)
		}
		rec = *v
	default:
		return 0, errors.TypeMismatch(errors.PhaseEncode, nil, typeName(v), r.name)
	}
	if rec.Type != "" && rec.Type != r.name {
		return 0, errors.TypeMismatch(errors.PhaseEncode, nil, rec.Type, r.name)
	}
	if len(rec.Values) != r.n {
		return 0, errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
			WireType(r.name).
			Detail("record has %d values, want %d", len(rec.Values), r.n).
			Build()
	}
	return r.Product.Encode(rec, b, order)
}

// reprCodec widens an integer representation to 128 bits. Signed values are
// sign-extended, matching how config resolves signed tags.
type reprCodec[R config.Integer] struct {
	inner  podcodec.Codec[R]
	signed bool
}

func widened[R config.Integer](c podcodec.Codec[R]) reprCodec[R] {
	return reprCodec[R]{inner: c, signed: podcodec.KindOf(c).IsSigned()}
}

func (r reprCodec[R]) Size() int           { return r.inner.Size() }
func (r reprCodec[R]) Kind() podcodec.Kind { return podcodec.KindOf(r.inner) }
func (r reprCodec[R]) Zero() podcodec.U128 { return r.widen(r.inner.Zero()) }

func (r reprCodec[R]) widen(v R) podcodec.U128 {
	if r.signed {
		return podcodec.U128{Hi: uint64(int64(v) >> 63), Lo: uint64(int64(v))}
	}
	return podcodec.U128{Lo: uint64(v)}
}

func (r reprCodec[R]) Decode(b []byte, order podcodec.Endian) (podcodec.U128, error) {
	v, err := r.inner.Decode(b, order)
	if err != nil {
		return podcodec.U128{}, err
	}
	return r.widen(v), nil
}

func (r reprCodec[R]) Encode(v podcodec.U128, b []byte, order podcodec.Endian) (int, error) {
	return r.inner.Encode(R(v.Lo), b, order)
}

// signedWide carries i128 tags as their two's complement bits.
type signedWide struct{}

func (signedWide) Size() int           { return podcodec.Int128.Size() }
func (signedWide) Kind() podcodec.Kind { return podcodec.KindI128 }
func (signedWide) Zero() podcodec.U128 { return podcodec.U128{} }

func (signedWide) Decode(b []byte, order podcodec.Endian) (podcodec.U128, error) {
	v, err := podcodec.Int128.Decode(b, order)
	return podcodec.U128{Hi: uint64(v.Hi), Lo: v.Lo}, err
}

func (signedWide) Encode(v podcodec.U128, b []byte, order podcodec.Endian) (int, error) {
	return podcodec.Int128.Encode(podcodec.I128{Hi: int64(v.Hi), Lo: v.Lo}, b, order)
}

func reprFor(k podcodec.Kind) (podcodec.Codec[podcodec.U128], error) {
	switch k {
	case podcodec.KindU8:
		return widened[uint8](podcodec.Uint8), nil
	case podcodec.KindI8:
		return widened[int8](podcodec.Int8), nil
	case podcodec.KindU16:
		return widened[uint16](podcodec.Uint16), nil
	case podcodec.KindI16:
		return widened[int16](podcodec.Int16), nil
	case podcodec.KindU32:
		return widened[uint32](podcodec.Uint32), nil
	case podcodec.KindI32:
		return widened[int32](podcodec.Int32), nil
	case podcodec.KindU64:
		return widened[uint64](podcodec.Uint64), nil
	case podcodec.KindI64:
		return widened[int64](podcodec.Int64), nil
	case podcodec.KindU128:
		return podcodec.Uint128, nil
	case podcodec.KindI128:
		return signedWide{}, nil
	default:
		return nil, errors.InvalidConfig(nil, "repr %s is not an integer type", k)
	}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
