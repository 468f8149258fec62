package podcodec

// Kind identifies the wire shape of a codec.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindBool
	KindU8
	KindI8
	KindU16
	KindI16
	KindU32
	KindI32
	KindU64
	KindI64
	KindU128
	KindI128
	KindF32
	KindF64
	KindArray
	KindUnit
	KindTuple
	KindStruct
	KindUnion
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindBool:    "bool",
	KindU8:      "u8",
	KindI8:      "i8",
	KindU16:     "u16",
	KindI16:     "i16",
	KindU32:     "u32",
	KindI32:     "i32",
	KindU64:     "u64",
	KindI64:     "i64",
	KindU128:    "u128",
	KindI128:    "i128",
	KindF32:     "f32",
	KindF64:     "f64",
	KindArray:   "array",
	KindUnit:    "unit",
	KindTuple:   "tuple",
	KindStruct:  "struct",
	KindUnion:   "union",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind resolves a primitive kind name. WIT-style signed names
// (s8, s16, s32, s64) are accepted as aliases.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "s8":
		return KindI8, true
	case "s16":
		return KindI16, true
	case "s32":
		return KindI32, true
	case "s64":
		return KindI64, true
	}
	for k := KindBool; k <= KindF64; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindUnknown, false
}

func (k Kind) IsPrimitive() bool {
	return k >= KindBool && k <= KindF64
}

// IsInteger reports whether k is a fixed-width integer kind.
func (k Kind) IsInteger() bool {
	return k >= KindU8 && k <= KindI128
}

func (k Kind) IsSigned() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64, KindI128:
		return true
	default:
		return false
	}
}

// Size returns the byte width of a primitive kind, or 0.
func (k Kind) Size() int {
	switch k {
	case KindBool, KindU8, KindI8:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32, KindF32:
		return 4
	case KindU64, KindI64, KindF64:
		return 8
	case KindU128, KindI128:
		return 16
	default:
		return 0
	}
}
