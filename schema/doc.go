// Package schema compiles a config.Document into dynamic codecs.
//
// Every declared type gets a podcodec.Codec[any]. Decoded values use plain
// Go types so that callers without generated Go types can still inspect
// and produce encodings:
//
//	primitive      bool, uint8 ... int64, podcodec.U128, podcodec.I128, float32, float64
//	[N]T           []any of length N
//	struct/tuple   Record (Values in declaration order)
//	unit           Record with no values
//	union          Variant
//	type: T        the value of T
//
// Record and Variant marshal to JSON, so a decoded value can be printed
// directly:
//
//	s, err := schema.Compile(doc)
//	codec, err := s.Codec("sample")
//	v, err := codec.Decode(buf, podcodec.LittleEndian)
//	out, err := json.Marshal(v) // {"level":1,"gain":1.5}
package schema
