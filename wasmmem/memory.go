// Package wasmmem loads and stores codec values in WebAssembly linear memory.
//
// Values are decoded straight from the guest's memory view without an
// intermediate copy. Stores encode into a scratch buffer first so that a
// failing encode never leaves a partially written value in the guest.
package wasmmem

import (
	"github.com/tetratelabs/wazero/api"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/errors"
)

// Load decodes one value of c at offset.
func Load[T any](mem api.Memory, offset uint32, c podcodec.Codec[T], order podcodec.Endian) (T, error) {
	var zero T
	view, err := region(mem, errors.PhaseDecode, c, offset, 1)
	if err != nil {
		return zero, err
	}
	return c.Decode(view, order)
}

// Store encodes v at offset.
func Store[T any](mem api.Memory, offset uint32, c podcodec.Codec[T], v T, order podcodec.Endian) error {
	view, err := region(mem, errors.PhaseEncode, c, offset, 1)
	if err != nil {
		return err
	}
	buf := make([]byte, len(view))
	if _, err := c.Encode(v, buf, order); err != nil {
		return err
	}
	copy(view, buf)
	return nil
}

// LoadSlice decodes n consecutive values of c starting at offset.
func LoadSlice[T any](mem api.Memory, offset uint32, n int, c podcodec.Codec[T], order podcodec.Endian) ([]T, error) {
	view, err := region(mem, errors.PhaseDecode, c, offset, n)
	if err != nil {
		return nil, err
	}
	return podcodec.FixedSlice(c, n).Decode(view, order)
}

// StoreSlice encodes vs as consecutive values of c starting at offset.
func StoreSlice[T any](mem api.Memory, offset uint32, c podcodec.Codec[T], vs []T, order podcodec.Endian) error {
	view, err := region(mem, errors.PhaseEncode, c, offset, len(vs))
	if err != nil {
		return err
	}
	buf := make([]byte, len(view))
	if _, err := podcodec.FixedSlice(c, len(vs)).Encode(vs, buf, order); err != nil {
		return err
	}
	copy(view, buf)
	return nil
}

// region returns the memory view holding n values of c at offset.
func region[T any](mem api.Memory, phase errors.Phase, c podcodec.Codec[T], offset uint32, n int) ([]byte, error) {
	if mem == nil {
		return nil, errors.InvalidConfig(nil, "memory cannot be nil")
	}
	if c == nil {
		return nil, errors.InvalidConfig(nil, "codec cannot be nil")
	}
	if n < 0 {
		return nil, errors.InvalidConfig(nil, "negative element count %d", n)
	}

	size := uint64(c.Size())
	limit := uint64(mem.Size())
	if size > 0 && uint64(n) > limit/size {
		return nil, errors.New(phase, errors.KindOutOfSpace).
			WireType(podcodec.KindOf(c).String()).
			Detail("%d elements of %d bytes exceed memory of %d bytes", n, size, limit).
			Build()
	}
	need := size * uint64(n)
	if uint64(offset)+need > limit {
		have := uint64(0)
		if uint64(offset) < limit {
			have = limit - uint64(offset)
		}
		return nil, errors.New(phase, errors.KindOutOfSpace).
			WireType(podcodec.KindOf(c).String()).
			Detail("need %d bytes at offset %d, memory has %d after it", need, offset, have).
			Build()
	}

	view, ok := mem.Read(offset, uint32(need))
	if !ok {
		return nil, errors.New(phase, errors.KindOutOfSpace).
			WireType(podcodec.KindOf(c).String()).
			Detail("read of %d bytes at offset %d out of bounds", need, offset).
			Build()
	}
	return view, nil
}
