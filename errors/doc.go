// Package errors provides structured error types for the pod codec library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/wire type names, and cause chain.
//
// Two kinds are produced by buffer operations on an already-built codec:
//
//	out_of_space  the buffer is shorter than the codec's fixed size
//	out_of_range  the bytes are long enough but decode to no valid value
//
// Everything else is reported in PhaseConfig while a codec is being assembled.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConfig, errors.KindDuplicateTag).
//		Path("Shape").
//		WireType("u8").
//		Detail("variants %q and %q share tag %v", "A", "B", 3).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfSpace(errors.PhaseDecode, "u32", 4, 2)
//	err := errors.OutOfRange(errors.PhaseDecode, "bool", 2)
//
// All errors implement the standard error interface and support errors.Is/As.
// The sentinels ErrOutOfSpace and ErrOutOfRange match by Kind in any phase.
package errors
