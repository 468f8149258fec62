package podcodec

import (
	"math/big"
)

// U128 is an unsigned 128-bit integer.
type U128 struct {
	Hi uint64
	Lo uint64
}

// I128 is a signed 128-bit integer in two's complement.
type I128 struct {
	Hi int64
	Lo uint64
}

func U128From64(v uint64) U128 { return U128{Lo: v} }

// I128From64 sign-extends v.
func I128From64(v int64) I128 {
	return I128{Hi: v >> 63, Lo: uint64(v)}
}

func (u U128) IsZero() bool { return u.Hi == 0 && u.Lo == 0 }
func (i I128) IsZero() bool { return i.Hi == 0 && i.Lo == 0 }

func (u U128) Big() *big.Int {
	v := new(big.Int).SetUint64(u.Hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(u.Lo))
}

func (i I128) Big() *big.Int {
	v := U128{Hi: uint64(i.Hi), Lo: i.Lo}.Big()
	if i.Hi < 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return v
}

func (u U128) String() string { return u.Big().String() }
func (i I128) String() string { return i.Big().String() }

func (u U128) MarshalText() ([]byte, error) { return []byte(u.String()), nil }
func (i I128) MarshalText() ([]byte, error) { return []byte(i.String()), nil }
