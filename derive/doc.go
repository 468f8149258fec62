// Package derive builds codecs for Go types by reflection.
//
// A Compiler walks a Go type once and composes the codec from the primitive,
// array and product codecs of the root package. Results are cached per type,
// so deriving is cheap after the first call.
//
// # Type Mapping
//
//	Go type                  Encoding        Size
//	──────────────────────────────────────────────────
//	bool                     bool            1
//	uint8/int8               u8/i8           1
//	uint16/int16             u16/i16         2
//	uint32/int32/float32     u32/i32/f32     4
//	uint64/int64/float64     u64/i64/f64     8
//	podcodec.U128/I128       u128/i128       16
//	[N]T                     array           N * size(T)
//	struct                   struct          sum of fields
//
// Named types over these kinds are accepted. int, uint, uintptr, strings,
// slices, maps, pointers and interfaces have no fixed-size encoding and
// fail with errors.KindUnsupported.
//
// # Struct Tags
//
//	type Header struct {
//	    Magic   uint32 `pod:"magic"`
//	    Version uint16            // name "version"
//	    scratch []byte            // unexported, skipped
//	    Debug   bool   `pod:"-"`  // skipped
//	}
//
// # Unions
//
// Unit-only enumerations have no reflection shape of their own. Register
// their codec and derived structs will use it:
//
//	derive.Register(derive.Default, modeCodec)
//	codec, err := derive.Of[Packet]()
package derive
