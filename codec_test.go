package podcodec

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/pod-codec/errors"
)

var orders = []Endian{LittleEndian, BigEndian}

// roundTrip encodes v into a buffer with trailing slack and decodes it back
// in both byte orders.
func roundTrip[T comparable](t *testing.T, c Codec[T], v T) {
	t.Helper()
	for _, order := range orders {
		buf := make([]byte, c.Size()+3)
		for i := range buf {
			buf[i] = 0xAA
		}
		n, err := c.Encode(v, buf, order)
		if err != nil {
			t.Fatalf("%s: Encode(%v) error = %v", order, v, err)
		}
		if n != c.Size() {
			t.Errorf("%s: Encode(%v) wrote %d bytes, want %d", order, v, n, c.Size())
		}
		for i := c.Size(); i < len(buf); i++ {
			if buf[i] != 0xAA {
				t.Errorf("%s: Encode(%v) touched byte %d past the end", order, v, i)
			}
		}
		got, err := c.Decode(buf, order)
		if err != nil {
			t.Fatalf("%s: Decode error = %v", order, err)
		}
		if got != v {
			t.Errorf("%s: round trip = %v, want %v", order, got, v)
		}
	}
}

// assertSpace checks that one byte short of Size fails with out_of_space in
// both directions and both orders.
func assertSpace[T any](t *testing.T, c Codec[T], v T) {
	t.Helper()
	if c.Size() == 0 {
		return
	}
	short := make([]byte, c.Size()-1)
	for _, order := range orders {
		if _, err := c.Decode(short, order); !stderrors.Is(err, errors.ErrOutOfSpace) {
			t.Errorf("%s: Decode(short) error = %v, want out_of_space", order, err)
		}
		if _, err := c.Encode(v, short, order); !stderrors.Is(err, errors.ErrOutOfSpace) {
			t.Errorf("%s: Encode(short) error = %v, want out_of_space", order, err)
		}
	}
}

func TestEndian_String(t *testing.T) {
	if LittleEndian.String() != "little-endian" || BigEndian.String() != "big-endian" {
		t.Errorf("unexpected endian names %q, %q", LittleEndian, BigEndian)
	}
}

func TestNamedHelpers(t *testing.T) {
	buf := make([]byte, 4)
	if _, err := EncodeLE(Uint32, 0x01020304, buf); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 4 || buf[3] != 1 {
		t.Errorf("EncodeLE = %v", buf)
	}
	if v, _ := DecodeBE(Uint32, buf); v != 0x04030201 {
		t.Errorf("DecodeBE = %#x, want 0x04030201", v)
	}
	if _, err := EncodeBE(Uint32, 0x01020304, buf); err != nil {
		t.Fatal(err)
	}
	if v, _ := DecodeLE(Uint32, buf); v != 0x04030201 {
		t.Errorf("DecodeLE = %#x, want 0x04030201", v)
	}
}

func TestMarshal(t *testing.T) {
	b, err := Marshal(Uint16, 0xBEEF, BigEndian)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 2 || b[0] != 0xBE || b[1] != 0xEF {
		t.Errorf("Marshal = %x, want beef", b)
	}
}

func TestMust(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Must should panic on error")
		}
	}()
	Must(Array[[2]int8](Codec[int8](nil)))
}

func TestErase(t *testing.T) {
	c := Erase[uint16](Uint16)
	if c.Size() != 2 {
		t.Errorf("Size = %d, want 2", c.Size())
	}
	if KindOf(c) != KindU16 {
		t.Errorf("Kind = %s, want u16", KindOf(c))
	}
	if again := Erase(c); again != c {
		t.Errorf("Erase(Erase(Uint16)) wrapped twice: %T", again)
	}
	if u8 := Erase(Erase[uint8](Uint8)); KindOf(u8) != KindU8 || u8.Size() != 1 {
		t.Errorf("double erase changed the codec: %s/%d", KindOf(u8), u8.Size())
	}

	buf := make([]byte, 2)
	if _, err := c.Encode(uint16(7), buf, LittleEndian); err != nil {
		t.Fatal(err)
	}
	v, err := c.Decode(buf, LittleEndian)
	if err != nil {
		t.Fatal(err)
	}
	if v.(uint16) != 7 {
		t.Errorf("Decode = %v, want 7", v)
	}

	_, err = c.Encode("seven", buf, LittleEndian)
	if errors.KindOf(err) != errors.KindTypeMismatch {
		t.Errorf("Encode(string) error = %v, want type_mismatch", err)
	}
	_, err = c.Encode(nil, buf, LittleEndian)
	if errors.KindOf(err) != errors.KindTypeMismatch {
		t.Errorf("Encode(nil) error = %v, want type_mismatch", err)
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(Bool) != KindBool {
		t.Errorf("KindOf(Bool) = %s", KindOf(Bool))
	}
	if KindOf(struct{}{}) != KindUnknown {
		t.Error("KindOf(non-codec) should be unknown")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name string
		want Kind
		ok   bool
	}{
		{"bool", KindBool, true},
		{"u8", KindU8, true},
		{"s8", KindI8, true},
		{"i16", KindI16, true},
		{"s64", KindI64, true},
		{"u128", KindU128, true},
		{"f64", KindF64, true},
		{"struct", KindUnknown, false},
		{"char", KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseKind(tt.name)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseKind(%q) = %s, %v; want %s, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKind_Predicates(t *testing.T) {
	if !KindI128.IsSigned() || KindU128.IsSigned() {
		t.Error("IsSigned wrong for 128-bit kinds")
	}
	if KindF32.IsInteger() || !KindU8.IsInteger() || KindBool.IsInteger() {
		t.Error("IsInteger wrong")
	}
	if KindArray.IsPrimitive() || !KindF64.IsPrimitive() {
		t.Error("IsPrimitive wrong")
	}
	if KindStruct.Size() != 0 || KindU128.Size() != 16 {
		t.Error("Size wrong")
	}
	if Kind(200).String() != "unknown" {
		t.Errorf("out of range kind = %q", Kind(200))
	}
}
