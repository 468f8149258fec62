package podcodec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wippyai/pod-codec/errors"
)

// Primitive is the codec for a scalar of natural byte width.
type Primitive[T any] struct {
	// dec reports false when the bytes are not a valid T.
	dec  func(b []byte, o binary.ByteOrder) (T, bool)
	enc  func(b []byte, o binary.ByteOrder, v T)
	kind Kind
}

func (p *Primitive[T]) Kind() Kind { return p.kind }
func (p *Primitive[T]) Size() int  { return p.kind.Size() }

func (p *Primitive[T]) Zero() T {
	var zero T
	return zero
}

func (p *Primitive[T]) Decode(b []byte, order Endian) (T, error) {
	var zero T
	size := p.kind.Size()
	if err := checkSpace(errors.PhaseDecode, p.kind, size, b); err != nil {
		return zero, err
	}
	v, ok := p.dec(b[:size], order.byteOrder())
	if !ok {
		return zero, errors.OutOfRange(errors.PhaseDecode, p.kind.String(), fmt.Sprintf("%#x", b[:size]))
	}
	return v, nil
}

func (p *Primitive[T]) Encode(v T, b []byte, order Endian) (int, error) {
	size := p.kind.Size()
	if err := checkSpace(errors.PhaseEncode, p.kind, size, b); err != nil {
		return 0, err
	}
	p.enc(b[:size], order.byteOrder(), v)
	return size, nil
}

// Bool accepts only the bytes 0 and 1.
var Bool = &Primitive[bool]{
	kind: KindBool,
	dec: func(b []byte, _ binary.ByteOrder) (bool, bool) {
		switch b[0] {
		case 0:
			return false, true
		case 1:
			return true, true
		default:
			return false, false
		}
	},
	enc: func(b []byte, _ binary.ByteOrder, v bool) {
		if v {
			b[0] = 1
		} else {
			b[0] = 0
		}
	},
}

var Uint8 = &Primitive[uint8]{
	kind: KindU8,
	dec:  func(b []byte, _ binary.ByteOrder) (uint8, bool) { return b[0], true },
	enc:  func(b []byte, _ binary.ByteOrder, v uint8) { b[0] = v },
}

var Int8 = &Primitive[int8]{
	kind: KindI8,
	dec:  func(b []byte, _ binary.ByteOrder) (int8, bool) { return int8(b[0]), true },
	enc:  func(b []byte, _ binary.ByteOrder, v int8) { b[0] = uint8(v) },
}

var Uint16 = &Primitive[uint16]{
	kind: KindU16,
	dec:  func(b []byte, o binary.ByteOrder) (uint16, bool) { return o.Uint16(b), true },
	enc:  func(b []byte, o binary.ByteOrder, v uint16) { o.PutUint16(b, v) },
}

var Int16 = &Primitive[int16]{
	kind: KindI16,
	dec:  func(b []byte, o binary.ByteOrder) (int16, bool) { return int16(o.Uint16(b)), true },
	enc:  func(b []byte, o binary.ByteOrder, v int16) { o.PutUint16(b, uint16(v)) },
}

var Uint32 = &Primitive[uint32]{
	kind: KindU32,
	dec:  func(b []byte, o binary.ByteOrder) (uint32, bool) { return o.Uint32(b), true },
	enc:  func(b []byte, o binary.ByteOrder, v uint32) { o.PutUint32(b, v) },
}

var Int32 = &Primitive[int32]{
	kind: KindI32,
	dec:  func(b []byte, o binary.ByteOrder) (int32, bool) { return int32(o.Uint32(b)), true },
	enc:  func(b []byte, o binary.ByteOrder, v int32) { o.PutUint32(b, uint32(v)) },
}

var Uint64 = &Primitive[uint64]{
	kind: KindU64,
	dec:  func(b []byte, o binary.ByteOrder) (uint64, bool) { return o.Uint64(b), true },
	enc:  func(b []byte, o binary.ByteOrder, v uint64) { o.PutUint64(b, v) },
}

var Int64 = &Primitive[int64]{
	kind: KindI64,
	dec:  func(b []byte, o binary.ByteOrder) (int64, bool) { return int64(o.Uint64(b)), true },
	enc:  func(b []byte, o binary.ByteOrder, v int64) { o.PutUint64(b, uint64(v)) },
}

var Uint128 = &Primitive[U128]{
	kind: KindU128,
	dec: func(b []byte, o binary.ByteOrder) (U128, bool) {
		hi, lo := get128(b, o)
		return U128{Hi: hi, Lo: lo}, true
	},
	enc: func(b []byte, o binary.ByteOrder, v U128) { put128(b, o, v.Hi, v.Lo) },
}

var Int128 = &Primitive[I128]{
	kind: KindI128,
	dec: func(b []byte, o binary.ByteOrder) (I128, bool) {
		hi, lo := get128(b, o)
		return I128{Hi: int64(hi), Lo: lo}, true
	},
	enc: func(b []byte, o binary.ByteOrder, v I128) { put128(b, o, uint64(v.Hi), v.Lo) },
}

// Float bit patterns pass through unchanged, NaN payloads included.
var Float32 = &Primitive[float32]{
	kind: KindF32,
	dec:  func(b []byte, o binary.ByteOrder) (float32, bool) { return math.Float32frombits(o.Uint32(b)), true },
	enc:  func(b []byte, o binary.ByteOrder, v float32) { o.PutUint32(b, math.Float32bits(v)) },
}

var Float64 = &Primitive[float64]{
	kind: KindF64,
	dec:  func(b []byte, o binary.ByteOrder) (float64, bool) { return math.Float64frombits(o.Uint64(b)), true },
	enc:  func(b []byte, o binary.ByteOrder, v float64) { o.PutUint64(b, math.Float64bits(v)) },
}

// 128-bit values are two 64-bit halves; the low half comes first in little endian.
func get128(b []byte, o binary.ByteOrder) (hi, lo uint64) {
	if o == binary.ByteOrder(binary.BigEndian) {
		return o.Uint64(b[0:8]), o.Uint64(b[8:16])
	}
	return o.Uint64(b[8:16]), o.Uint64(b[0:8])
}

func put128(b []byte, o binary.ByteOrder, hi, lo uint64) {
	if o == binary.ByteOrder(binary.BigEndian) {
		o.PutUint64(b[0:8], hi)
		o.PutUint64(b[8:16], lo)
		return
	}
	o.PutUint64(b[0:8], lo)
	o.PutUint64(b[8:16], hi)
}
