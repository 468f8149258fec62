package podcodec

import (
	"reflect"
	"strconv"
	"unsafe"

	"github.com/wippyai/pod-codec/errors"
)

// ArrayCodec encodes a Go array type A = [N]E as N consecutive elements.
type ArrayCodec[A, E any] struct {
	elem Codec[E]
	n    int
}

// Array builds the codec for A, which must be an array type with element type E.
func Array[A, E any](elem Codec[E]) (*ArrayCodec[A, E], error) {
	at := reflect.TypeFor[A]()
	et := reflect.TypeFor[E]()
	if at.Kind() != reflect.Array || at.Elem() != et {
		return nil, errors.TypeMismatch(errors.PhaseConfig, nil, at.String(), "[N]"+et.String())
	}
	if elem == nil {
		return nil, errors.InvalidConfig(nil, "array %s has no element codec", at)
	}
	return &ArrayCodec[A, E]{elem: elem, n: at.Len()}, nil
}

func (a *ArrayCodec[A, E]) Kind() Kind     { return KindArray }
func (a *ArrayCodec[A, E]) Len() int       { return a.n }
func (a *ArrayCodec[A, E]) Elem() Codec[E] { return a.elem }
func (a *ArrayCodec[A, E]) Size() int      { return a.n * a.elem.Size() }
func (a *ArrayCodec[A, E]) elems(v *A) []E { return asElems[A, E](v, a.n) }

func (a *ArrayCodec[A, E]) Zero() A {
	var v A
	zeroElems(a.elem, a.elems(&v))
	return v
}

func (a *ArrayCodec[A, E]) Decode(b []byte, order Endian) (A, error) {
	var zero A
	if err := checkSpace(errors.PhaseDecode, KindArray, a.Size(), b); err != nil {
		return zero, err
	}
	v := a.Zero()
	if err := decodeElems(a.elem, a.elems(&v), b, order); err != nil {
		return zero, err
	}
	return v, nil
}

func (a *ArrayCodec[A, E]) Encode(v A, b []byte, order Endian) (int, error) {
	if err := checkSpace(errors.PhaseEncode, KindArray, a.Size(), b); err != nil {
		return 0, err
	}
	return encodeElems(a.elem, a.elems(&v), b, order)
}

// asElems views the array behind v as a slice. A's underlying type is [n]E,
// checked when the codec was built.
func asElems[A, E any](v *A, n int) []E {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*E)(unsafe.Pointer(v)), n)
}

// SliceCodec encodes slices of exactly n elements. It is the dynamic
// counterpart of ArrayCodec for element counts known only at run time.
type SliceCodec[E any] struct {
	elem Codec[E]
	n    int
}

func FixedSlice[E any](elem Codec[E], n int) *SliceCodec[E] {
	return &SliceCodec[E]{elem: elem, n: n}
}

func (s *SliceCodec[E]) Kind() Kind     { return KindArray }
func (s *SliceCodec[E]) Len() int       { return s.n }
func (s *SliceCodec[E]) Elem() Codec[E] { return s.elem }
func (s *SliceCodec[E]) Size() int      { return s.n * s.elem.Size() }

func (s *SliceCodec[E]) Zero() []E {
	v := make([]E, s.n)
	zeroElems(s.elem, v)
	return v
}

func (s *SliceCodec[E]) Decode(b []byte, order Endian) ([]E, error) {
	if err := checkSpace(errors.PhaseDecode, KindArray, s.Size(), b); err != nil {
		return nil, err
	}
	v := s.Zero()
	if err := decodeElems(s.elem, v, b, order); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *SliceCodec[E]) Encode(v []E, b []byte, order Endian) (int, error) {
	if len(v) != s.n {
		return 0, errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
			WireType("[" + strconv.Itoa(s.n) + "]").
			Detail("slice has %d elements, want %d", len(v), s.n).
			Build()
	}
	if err := checkSpace(errors.PhaseEncode, KindArray, s.Size(), b); err != nil {
		return 0, err
	}
	return encodeElems(s.elem, v, b, order)
}

func zeroElems[E any](elem Codec[E], dst []E) {
	for i := range dst {
		dst[i] = elem.Zero()
	}
}

// decodeElems fills dst from successive element-sized windows of b.
// The caller has checked that b holds len(dst) elements.
func decodeElems[E any](elem Codec[E], dst []E, b []byte, order Endian) error {
	size := elem.Size()
	for i := range dst {
		v, err := elem.Decode(b[i*size:(i+1)*size], order)
		if err != nil {
			return errors.WithPath(err, "["+strconv.Itoa(i)+"]")
		}
		dst[i] = v
	}
	return nil
}

func encodeElems[E any](elem Codec[E], src []E, b []byte, order Endian) (int, error) {
	size := elem.Size()
	written := 0
	for i := range src {
		n, err := elem.Encode(src[i], b[written:written+size], order)
		if err != nil {
			return 0, errors.WithPath(err, "["+strconv.Itoa(i)+"]")
		}
		written += n
	}
	return written, nil
}
