package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.bytecodealliance.org/wit"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/errors"
)

func named(name string, kind wit.TypeDefKind) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: kind}
}

func TestFromWIT(t *testing.T) {
	color := named("color", &wit.Enum{Cases: []wit.EnumCase{{Name: "red"}, {Name: "green"}, {Name: "blue"}}})
	point := named("point", &wit.Record{Fields: []wit.Field{
		{Name: "x", Type: wit.S32{}},
		{Name: "y", Type: wit.S32{}},
	}})
	pixel := named("pixel", &wit.Record{Fields: []wit.Field{
		{Name: "at", Type: point},
		{Name: "color", Type: color},
		{Name: "alpha", Type: wit.F32{}},
		{Name: "visible", Type: wit.Bool{}},
	}})
	span := named("span", &wit.Tuple{Types: []wit.Type{wit.U64{}, wit.U64{}}})
	handle := named("handle", wit.U32{})

	doc, err := FromWIT(pixel, span, handle)
	if err != nil {
		t.Fatalf("FromWIT() error = %v", err)
	}

	want := &Document{Types: map[string]*TypeSpec{
		"color": {Union: &UnionSpec{Repr: "u8", Variants: []VariantSpec{
			{Name: "red", Tag: "0"},
			{Name: "green", Tag: "1"},
			{Name: "blue", Tag: "2"},
		}}},
		"point": {Fields: []FieldSpec{{Name: "x", Type: "s32"}, {Name: "y", Type: "s32"}}},
		"pixel": {Fields: []FieldSpec{
			{Name: "at", Type: "point"},
			{Name: "color", Type: "color"},
			{Name: "alpha", Type: "f32"},
			{Name: "visible", Type: "bool"},
		}},
		"span":   {Tuple: []string{"u64", "u64"}},
		"handle": {Alias: "u32"},
	}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("FromWIT() mismatch (-want +got):\n%s", diff)
	}

	ru, err := doc.ResolveUnion("color")
	if err != nil {
		t.Fatal(err)
	}
	if ru.Repr != podcodec.KindU8 || len(ru.Variants) != 3 || ru.Variants[2].Uint() != 2 {
		t.Errorf("unexpected enum resolution %+v", ru)
	}
}

func TestFromWIT_PayloadFreeVariant(t *testing.T) {
	v := named("state", &wit.Variant{Cases: []wit.Case{{Name: "off"}, {Name: "on"}}})
	doc, err := FromWIT(v)
	if err != nil {
		t.Fatal(err)
	}
	spec, _ := doc.Lookup("state")
	if spec.Shape() != podcodec.KindUnion || len(spec.Union.Variants) != 2 {
		t.Errorf("unexpected spec %+v", spec)
	}
}

func TestFromWIT_Unsupported(t *testing.T) {
	anon := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{{Name: "a", Type: wit.U8{}}}}}

	tests := []struct {
		name string
		def  *wit.TypeDef
		kind errors.Kind
	}{
		{"string field", named("s", &wit.Record{Fields: []wit.Field{{Name: "name", Type: wit.String{}}}}), errors.KindUnsupported},
		{"char field", named("c", &wit.Record{Fields: []wit.Field{{Name: "ch", Type: wit.Char{}}}}), errors.KindUnsupported},
		{"list", named("l", &wit.List{Type: wit.U8{}}), errors.KindUnsupported},
		{"option", named("o", &wit.Option{Type: wit.U8{}}), errors.KindUnsupported},
		{"payload variant", named("v", &wit.Variant{Cases: []wit.Case{{Name: "n", Type: wit.U32{}}}}), errors.KindUnsupported},
		{"anonymous field type", named("r", &wit.Record{Fields: []wit.Field{{Name: "inner", Type: anon}}}), errors.KindUnsupported},
		{"unnamed definition", anon, errors.KindInvalidConfig},
		{"empty enum", named("e", &wit.Enum{}), errors.KindInvalidConfig},
		{"nil definition", nil, errors.KindInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromWIT(tt.def)
			if got := errors.KindOf(err); got != tt.kind {
				t.Errorf("FromWIT() error = %v, want %s", err, tt.kind)
			}
		})
	}
}

func TestFromWIT_DuplicateName(t *testing.T) {
	a := named("same", wit.U8{})
	b := named("same", wit.U16{})
	if _, err := FromWIT(a, b); errors.KindOf(err) != errors.KindInvalidConfig {
		t.Errorf("FromWIT() error = %v, want invalid_config", err)
	}
	// The same definition twice is not a conflict.
	if _, err := FromWIT(a, a); err != nil {
		t.Errorf("FromWIT(a, a) error = %v", err)
	}
}

func TestDiscriminant(t *testing.T) {
	tests := []struct {
		cases int
		want  string
	}{
		{1, "u8"},
		{256, "u8"},
		{257, "u16"},
		{65536, "u16"},
		{65537, "u32"},
	}
	for _, tt := range tests {
		if got := discriminant(tt.cases); got != tt.want {
			t.Errorf("discriminant(%d) = %s, want %s", tt.cases, got, tt.want)
		}
	}
}

// witResolve spans two interfaces. The second redeclares color with a
// different shape and repeats pt unchanged.
const witResolve = `{
  "worlds": [],
  "interfaces": [
    {"name": "shapes", "types": {"color": 0, "pt": 1, "s": 2}, "functions": {}, "package": 0},
    {"name": "other", "types": {"color": 3, "pt": 4}, "functions": {}, "package": 0}
  ],
  "types": [
    {"name": "color", "kind": {"enum": {"cases": [{"name": "red"}, {"name": "green"}]}}, "owner": {"interface": 0}},
    {"name": "pt", "kind": {"record": {"fields": [{"name": "x", "type": "s32"}, {"name": "y", "type": "s32"}, {"name": "c", "type": 0}]}}, "owner": {"interface": 0}},
    {"name": "s", "kind": {"type": "string"}, "owner": {"interface": 0}},
    {"name": "color", "kind": {"type": "u8"}, "owner": {"interface": 1}},
    {"name": "pt", "kind": {"record": {"fields": [{"name": "x", "type": "s32"}, {"name": "y", "type": "s32"}, {"name": "c", "type": 0}]}}, "owner": {"interface": 1}}
  ],
  "packages": [
    {"name": "example:shapes", "interfaces": {"shapes": 0, "other": 1}, "worlds": {}}
  ]
}`

func TestLoadWITJSON(t *testing.T) {
	doc, skipped, err := LoadWITJSON(strings.NewReader(witResolve))
	if err != nil {
		t.Fatalf("LoadWITJSON() error = %v", err)
	}
	if diff := cmp.Diff([]string{"color", "pt"}, doc.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"s", "color"}, skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}

	// The enum that was imported first keeps its name.
	ru, err := doc.ResolveUnion("color")
	if err != nil {
		t.Fatalf("ResolveUnion(color) error = %v", err)
	}
	if ru.Repr != podcodec.KindU8 || len(ru.Variants) != 2 || ru.Variants[1].Name != "green" {
		t.Errorf("unexpected union %+v", ru)
	}
	pt, err := doc.Lookup("pt")
	if err != nil {
		t.Fatal(err)
	}
	if len(pt.Fields) != 3 || pt.Fields[2].Type != "color" {
		t.Errorf("pt fields = %+v", pt.Fields)
	}
}

func TestLoadWITJSON_Malformed(t *testing.T) {
	_, _, err := LoadWITJSON(strings.NewReader(`{"types": [`))
	if errors.KindOf(err) != errors.KindParse {
		t.Errorf("LoadWITJSON(truncated) error = %v, want parse", err)
	}
}
