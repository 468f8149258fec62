// Package podcodec converts fixed-size Go values to and from byte buffers in
// little-endian and big-endian order.
//
// Every codec has a size known when it is built, a canonical zero value, and
// Decode/Encode operations that touch exactly Size() bytes at the front of a
// buffer. Composite codecs are assembled once from the codecs of their parts
// and are safe for concurrent use on disjoint buffers.
//
// # Architecture Overview
//
//	podcodec/            Codec contract, primitives, arrays, products, unions
//	├── errors/          Structured error types (phase, kind, field path)
//	├── config/          YAML and WIT type documents, union resolution
//	├── derive/          Reflection-based codecs for Go structs and arrays
//	├── schema/          Dynamic codecs compiled from a config document
//	├── wasmmem/         Load and store values in wazero linear memory
//	└── cmd/podview/     Inspect bytes against a schema from the terminal
//
// # Quick Start
//
// Compose a product from field codecs:
//
//	type Sample struct {
//	    Level int8
//	    Gain  float32
//	}
//
//	codec := podcodec.Must(podcodec.Struct(
//	    podcodec.Named("level", podcodec.Int8, func(s *Sample) *int8 { return &s.Level }),
//	    podcodec.Named("gain", podcodec.Float32, func(s *Sample) *float32 { return &s.Gain }),
//	))
//
//	buf := make([]byte, codec.Size()) // 5
//	codec.Encode(Sample{1, 1.5}, buf, podcodec.LittleEndian)
//	// buf = [1 0 0 192 63]
//
// Unit-only enumerations map variants to tags of a representation codec:
//
//	mode := podcodec.Must(podcodec.Union(podcodec.UnionConfig[Mode, uint8]{
//	    Name: "mode",
//	    Repr: podcodec.Uint8,
//	    Variants: []podcodec.Variant[Mode, uint8]{
//	        {Name: "a", Value: ModeA, Tag: 5},
//	        {Name: "b", Value: ModeB, Tag: 0},
//	    },
//	}))
//	mode.Zero() // ModeB, its tag equals the zero of uint8
//
// # Errors
//
// Decode and Encode fail with only two kinds of error:
//
//   - errors.ErrOutOfSpace: the buffer is shorter than Size()
//   - errors.ErrOutOfRange: the bytes are no valid value (a bool byte other
//     than 0 or 1, or a tag no variant carries)
//
// Problems with a codec's description are reported when it is built, in the
// config phase, and never surface from Decode or Encode.
//
// # Zero Variants
//
// A union flags its zero variant explicitly, or under ZeroScan takes the first
// variant whose tag is the representation's zero, or else the first declared
// variant. ZeroExplicit turns a missing flag into a build error.
package podcodec
