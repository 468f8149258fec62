package schema

import (
	jsoniter "github.com/json-iterator/go"

	podcodec "github.com/wippyai/pod-codec"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is the dynamic value of a struct, tuple or unit type. Values holds
// one entry per field in declaration order; Fields holds the matching names
// and is nil for tuples.
type Record struct {
	Type   string
	Shape  podcodec.Shape
	Fields []string
	Values []any
}

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	for i, f := range r.Fields {
		if f == name && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return nil, false
}

// MarshalJSON writes structs and units as objects in field order and tuples
// as arrays.
func (r Record) MarshalJSON() ([]byte, error) {
	stream := json.BorrowStream(nil)
	defer json.ReturnStream(stream)

	if r.Shape == podcodec.ShapeTuple {
		stream.WriteArrayStart()
		for i, v := range r.Values {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteVal(v)
		}
		stream.WriteArrayEnd()
	} else {
		stream.WriteObjectStart()
		for i, v := range r.Values {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(r.Fields[i])
			stream.WriteVal(v)
		}
		stream.WriteObjectEnd()
	}

	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

// Variant is the dynamic value of a union type.
type Variant struct {
	Type string
	Name string
}

func (v Variant) String() string { return v.Name }

// MarshalJSON writes the variant name.
func (v Variant) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Name)
}
