package podcodec

import (
	"encoding/binary"
	"reflect"

	"github.com/wippyai/pod-codec/errors"
)

// Endian selects the byte ordering used by Decode and Encode.
type Endian uint8

const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) String() string {
	if e == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

func (e Endian) byteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Zeroer produces the canonical zero instance of a type.
type Zeroer[T any] interface {
	Zero() T
}

// Codec converts values of T to and from a fixed number of bytes.
//
// Decode reads the first Size() bytes of b and ignores the rest. Encode writes
// exactly Size() bytes to the front of b and returns Size(). Both fail with
// errors.KindOutOfSpace when len(b) < Size(). Decode fails with
// errors.KindOutOfRange when the bytes are no valid value of T.
type Codec[T any] interface {
	Zeroer[T]
	Size() int
	Decode(b []byte, order Endian) (T, error)
	Encode(v T, b []byte, order Endian) (int, error)
}

// Kinded is implemented by codecs that know their wire kind.
type Kinded interface {
	Kind() Kind
}

// KindOf returns the wire kind of c, or KindUnknown.
func KindOf(c any) Kind {
	if k, ok := c.(Kinded); ok {
		return k.Kind()
	}
	return KindUnknown
}

func DecodeLE[T any](c Codec[T], b []byte) (T, error) { return c.Decode(b, LittleEndian) }

func DecodeBE[T any](c Codec[T], b []byte) (T, error) { return c.Decode(b, BigEndian) }

func EncodeLE[T any](c Codec[T], v T, b []byte) (int, error) { return c.Encode(v, b, LittleEndian) }

func EncodeBE[T any](c Codec[T], v T, b []byte) (int, error) { return c.Encode(v, b, BigEndian) }

// Marshal encodes v into a freshly allocated buffer of exactly c.Size() bytes.
func Marshal[T any](c Codec[T], v T, order Endian) ([]byte, error) {
	buf := make([]byte, c.Size())
	if _, err := c.Encode(v, buf, order); err != nil {
		return nil, err
	}
	return buf, nil
}

// Must panics if err is non-nil. It is intended for package-level codec
// variables built from static descriptions.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Erase adapts a typed codec to Codec[any] for dynamic use.
func Erase[T any](c Codec[T]) Codec[any] {
	if e, ok := any(c).(Codec[any]); ok {
		return e
	}
	return &erased[T]{inner: c}
}

type erased[T any] struct {
	inner Codec[T]
}

func (e *erased[T]) Size() int  { return e.inner.Size() }
func (e *erased[T]) Zero() any  { return e.inner.Zero() }
func (e *erased[T]) Kind() Kind { return KindOf(e.inner) }

func (e *erased[T]) Decode(b []byte, order Endian) (any, error) {
	v, err := e.inner.Decode(b, order)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (e *erased[T]) Encode(v any, b []byte, order Endian) (int, error) {
	tv, ok := v.(T)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseEncode, nil, typeName(v), reflect.TypeFor[T]().String())
	}
	return e.inner.Encode(tv, b, order)
}

// typeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

func checkSpace(phase errors.Phase, kind Kind, need int, b []byte) error {
	if len(b) < need {
		return errors.OutOfSpace(phase, kind.String(), need, len(b))
	}
	return nil
}
