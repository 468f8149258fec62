package derive

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/errors"
)

type sample struct {
	Level int8
	Gain  float32
}

type header struct {
	Magic     uint32 `pod:"magic"`
	Version   uint16
	SeqNumber uint64
	Debug     bool `pod:"-"`
	scratch   []byte
}

type celsius float32

type reading struct {
	Sensor  uint8
	Temp    celsius
	History [3]celsius
}

type packet struct {
	Head    header
	Samples [2]sample
	Done    bool
}

func TestOf_Scenario(t *testing.T) {
	codec, err := Of[sample]()
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	if codec.Size() != 5 {
		t.Errorf("Size() = %d, want 5", codec.Size())
	}

	tests := []struct {
		order podcodec.Endian
		want  []byte
	}{
		{podcodec.LittleEndian, []byte{1, 0, 0, 192, 63}},
		{podcodec.BigEndian, []byte{1, 63, 192, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			buf := make([]byte, codec.Size())
			n, err := codec.Encode(sample{Level: 1, Gain: 1.5}, buf, tt.order)
			if err != nil || n != 5 {
				t.Fatalf("Encode() = %d, %v", n, err)
			}
			if diff := cmp.Diff(tt.want, buf); diff != "" {
				t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
			}
			got, err := codec.Decode(buf, tt.order)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != (sample{Level: 1, Gain: 1.5}) {
				t.Errorf("Decode() = %+v", got)
			}
		})
	}
}

func TestOf_Layout(t *testing.T) {
	codec, err := For[header](NewCompiler())
	if err != nil {
		t.Fatal(err)
	}
	want := []podcodec.FieldInfo{
		{Name: "magic", Index: 0, Offset: 0, Size: 4, Kind: podcodec.KindU32},
		{Name: "version", Index: 1, Offset: 4, Size: 2, Kind: podcodec.KindU16},
		{Name: "seq-number", Index: 2, Offset: 6, Size: 8, Kind: podcodec.KindU64},
	}
	if diff := cmp.Diff(want, LayoutOf(codec)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
	if podcodec.KindOf(codec) != podcodec.KindStruct {
		t.Errorf("Kind = %s, want struct", podcodec.KindOf(codec))
	}

	in := header{Magic: 0xCAFEBABE, Version: 2, SeqNumber: 9, Debug: true}
	buf := make([]byte, codec.Size())
	if _, err := codec.Encode(in, buf, podcodec.BigEndian); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0xCA || buf[5] != 2 || buf[13] != 9 {
		t.Errorf("unexpected encoding % x", buf)
	}
	out, err := codec.Decode(buf, podcodec.BigEndian)
	if err != nil {
		t.Fatal(err)
	}
	// Skipped fields come back as their Go zero value.
	in.Debug = false
	if diff := cmp.Diff(in, out, cmp.AllowUnexported(header{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestOf_NamedPrimitives(t *testing.T) {
	codec, err := For[reading](NewCompiler())
	if err != nil {
		t.Fatal(err)
	}
	if codec.Size() != 1+4+12 {
		t.Errorf("Size() = %d, want 17", codec.Size())
	}

	in := reading{Sensor: 3, Temp: 21.5, History: [3]celsius{20, 20.5, 21}}
	buf := make([]byte, codec.Size())
	if _, err := codec.Encode(in, buf, podcodec.LittleEndian); err != nil {
		t.Fatal(err)
	}
	out, err := codec.Decode(buf, podcodec.LittleEndian)
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("Decode() = %+v, want %+v", out, in)
	}
}

func TestOf_Nested(t *testing.T) {
	codec, err := For[packet](NewCompiler())
	if err != nil {
		t.Fatal(err)
	}
	if codec.Size() != 14+10+1 {
		t.Errorf("Size() = %d, want 25", codec.Size())
	}

	layout := LayoutOf(codec)
	if len(layout) != 3 || layout[1].Kind != podcodec.KindArray || layout[2].Offset != 24 {
		t.Errorf("unexpected layout %+v", layout)
	}

	in := packet{
		Head:    header{Magic: 1, Version: 2, SeqNumber: 3},
		Samples: [2]sample{{Level: -1, Gain: 0.5}, {Level: 7, Gain: -2}},
		Done:    true,
	}
	for _, order := range []podcodec.Endian{podcodec.LittleEndian, podcodec.BigEndian} {
		buf := make([]byte, codec.Size())
		if _, err := codec.Encode(in, buf, order); err != nil {
			t.Fatal(err)
		}
		out, err := codec.Decode(buf, order)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(in, out, cmp.AllowUnexported(header{})); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", order, diff)
		}
	}

	zero := codec.Zero()
	if zero.Done || zero.Samples[1].Gain != 0 {
		t.Errorf("Zero() = %+v", zero)
	}
}

func TestOf_FieldErrorPath(t *testing.T) {
	codec, err := For[packet](NewCompiler())
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, codec.Size())
	buf[24] = 2 // Done

	_, err = codec.Decode(buf, podcodec.LittleEndian)
	e, ok := err.(*errors.Error)
	if !ok || e.Kind != errors.KindOutOfRange {
		t.Fatalf("Decode() error = %v, want out_of_range", err)
	}
	if diff := cmp.Diff([]string{"done"}, e.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

type mode uint8

const (
	modeA mode = iota + 1
	modeB
	modeC
)

type command struct {
	Mode mode
	Arg  uint16
}

func modeCodec(t *testing.T) *podcodec.UnionCodec[mode, uint8] {
	t.Helper()
	u, err := podcodec.Union(podcodec.UnionConfig[mode, uint8]{
		Name: "mode",
		Repr: podcodec.Uint8,
		Variants: []podcodec.Variant[mode, uint8]{
			{Name: "a", Value: modeA, Tag: 5},
			{Name: "b", Value: modeB, Tag: 0},
			{Name: "c", Value: modeC, Tag: 7},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestRegister_Union(t *testing.T) {
	c := NewCompiler()

	// Before registration mode derives as a plain u8.
	plain, err := For[command](c)
	if err != nil {
		t.Fatal(err)
	}
	if LayoutOf(plain)[0].Kind != podcodec.KindU8 {
		t.Errorf("unregistered kind = %s, want u8", LayoutOf(plain)[0].Kind)
	}

	Register(c, modeCodec(t))
	codec, err := For[command](c)
	if err != nil {
		t.Fatal(err)
	}
	if LayoutOf(codec)[0].Kind != podcodec.KindUnion {
		t.Errorf("registered kind = %s, want union", LayoutOf(codec)[0].Kind)
	}

	if z := codec.Zero(); z.Mode != modeB {
		t.Errorf("Zero().Mode = %d, want b", z.Mode)
	}

	buf := make([]byte, codec.Size())
	if _, err := codec.Encode(command{Mode: modeC, Arg: 0x0102}, buf, podcodec.BigEndian); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{7, 1, 2}, buf); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}

	_, err = codec.Decode([]byte{6, 0, 0}, podcodec.BigEndian)
	if errors.KindOf(err) != errors.KindOutOfRange {
		t.Errorf("Decode(unknown tag) error = %v, want out_of_range", err)
	}
	if _, err := codec.Encode(command{Mode: 42}, buf, podcodec.BigEndian); errors.KindOf(err) != errors.KindOutOfRange {
		t.Errorf("Encode(undeclared) error = %v, want out_of_range", err)
	}
}

func TestCompile_Unsupported(t *testing.T) {
	type withString struct {
		Name string
	}
	type deep struct {
		Inner struct {
			List []uint8
		}
	}
	type withArray struct {
		Values [2]int
	}

	tests := []struct {
		name string
		typ  reflect.Type
		path []string
	}{
		{"int", reflect.TypeFor[int](), nil},
		{"uintptr", reflect.TypeFor[uintptr](), nil},
		{"string field", reflect.TypeFor[withString](), []string{"name"}},
		{"nested slice", reflect.TypeFor[deep](), []string{"inner", "list"}},
		{"array of int", reflect.TypeFor[withArray](), []string{"values", "[elem]"}},
		{"pointer", reflect.TypeFor[*sample](), nil},
		{"map", reflect.TypeFor[map[string]uint8](), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompiler().Compile(tt.typ)
			e, ok := err.(*errors.Error)
			if !ok || e.Kind != errors.KindUnsupported {
				t.Fatalf("Compile() error = %v, want unsupported", err)
			}
			if diff := cmp.Diff(tt.path, e.Path); diff != "" {
				t.Errorf("path mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompile_NilType(t *testing.T) {
	if _, err := NewCompiler().Compile(nil); errors.KindOf(err) != errors.KindInvalidConfig {
		t.Errorf("Compile(nil) error = %v, want invalid_config", err)
	}
}

func TestCompile_Cached(t *testing.T) {
	c := NewCompiler()
	a, err := c.Compile(reflect.TypeFor[packet]())
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Compile(reflect.TypeFor[packet]())
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("second Compile() should return the cached codec")
	}

	Register(c, modeCodec(t))
	d, err := c.Compile(reflect.TypeFor[packet]())
	if err != nil {
		t.Fatal(err)
	}
	if d == a {
		t.Error("Register() should invalidate the cache")
	}
}

func TestOf_Wide(t *testing.T) {
	type ledger struct {
		Balance podcodec.I128
		Serial  podcodec.U128
	}
	codec, err := For[ledger](NewCompiler())
	if err != nil {
		t.Fatal(err)
	}
	if codec.Size() != 32 {
		t.Errorf("Size() = %d, want 32", codec.Size())
	}
	in := ledger{Balance: podcodec.I128{Hi: -1, Lo: 0xFFFFFFFFFFFFFFFE}, Serial: podcodec.U128{Hi: 1, Lo: 2}}
	buf := make([]byte, codec.Size())
	if _, err := codec.Encode(in, buf, podcodec.LittleEndian); err != nil {
		t.Fatal(err)
	}
	out, err := codec.Decode(buf, podcodec.LittleEndian)
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("Decode() = %+v, want %+v", out, in)
	}
}

func TestOf_EmptyStruct(t *testing.T) {
	type marker struct{}
	codec, err := For[marker](NewCompiler())
	if err != nil {
		t.Fatal(err)
	}
	if codec.Size() != 0 || podcodec.KindOf(codec) != podcodec.KindUnit {
		t.Errorf("Size() = %d, Kind = %s", codec.Size(), podcodec.KindOf(codec))
	}
	if _, err := codec.Decode(nil, podcodec.LittleEndian); err != nil {
		t.Errorf("Decode(nil) error = %v", err)
	}
}

func TestToKebabCase(t *testing.T) {
	tests := map[string]string{
		"Level":     "level",
		"SeqNumber": "seq-number",
		"X":         "x",
	}
	for in, want := range tests {
		if got := toKebabCase(in); got != want {
			t.Errorf("toKebabCase(%q) = %q, want %q", in, got, want)
		}
	}
}
