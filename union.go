package podcodec

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/pod-codec/errors"
)

// ZeroPolicy decides how a union picks its zero variant when no variant is
// flagged as Zero.
type ZeroPolicy uint8

const (
	// ZeroScan picks the first variant whose tag equals the representation's
	// zero value, falling back to the first declared variant.
	ZeroScan ZeroPolicy = iota
	// ZeroExplicit requires exactly one variant flagged as Zero.
	ZeroExplicit
)

func (p ZeroPolicy) String() string {
	if p == ZeroExplicit {
		return "explicit"
	}
	return "scan"
}

// Variant binds a Go value to its wire tag.
type Variant[V, R any] struct {
	Name  string
	Value V
	Tag   R
	Zero  bool
}

// UnionConfig is the resolved description of a unit-only tagged union.
type UnionConfig[V, R any] struct {
	Name     string
	Repr     Codec[R]
	Variants []Variant[V, R]
	Policy   ZeroPolicy
}

// Tag is the set of Go types a union representation can carry. Floats are
// excluded: NaN never equals itself and the two zeros compare equal.
type Tag interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | U128 | I128
}

// UnionCodec encodes a closed set of variants as their representation tag.
type UnionCodec[V comparable, R Tag] struct {
	repr     Codec[R]
	name     string
	variants []Variant[V, R]
	byTag    map[R]int
	byValue  map[V]int
	zero     int
}

// Union validates cfg and builds its codec. Duplicate tags, values or names,
// an empty variant list and conflicting zero designations are rejected here
// so that a built codec can only fail on buffer contents.
func Union[V comparable, R Tag](cfg UnionConfig[V, R]) (*UnionCodec[V, R], error) {
	name := cfg.Name
	if name == "" {
		name = "union"
	}
	if cfg.Repr == nil {
		return nil, errors.InvalidConfig([]string{name}, "no representation codec")
	}
	if k := KindOf(cfg.Repr); k != KindUnknown && !k.IsInteger() {
		return nil, errors.InvalidConfig([]string{name}, "repr %s is not an integer type", k)
	}
	if len(cfg.Variants) == 0 {
		return nil, errors.InvalidConfig([]string{name}, "no variants")
	}

	u := &UnionCodec[V, R]{
		repr:     cfg.Repr,
		name:     name,
		variants: append([]Variant[V, R](nil), cfg.Variants...),
		byTag:    make(map[R]int, len(cfg.Variants)),
		byValue:  make(map[V]int, len(cfg.Variants)),
		zero:     -1,
	}

	names := make(map[string]bool, len(cfg.Variants))
	for i, v := range u.variants {
		label := v.Name
		if label == "" {
			label = fmt.Sprint(v.Value)
		}
		if j, dup := u.byTag[v.Tag]; dup {
			return nil, errors.New(errors.PhaseConfig, errors.KindDuplicateTag).
				Path(name, label).
				Value(v.Tag).
				Detail("tag already used by %s", u.label(j)).
				Build()
		}
		if _, dup := u.byValue[v.Value]; dup {
			return nil, errors.InvalidConfig([]string{name, label}, "variant value declared twice")
		}
		if v.Name != "" {
			if names[v.Name] {
				return nil, errors.InvalidConfig([]string{name, v.Name}, "duplicate variant name")
			}
			names[v.Name] = true
		}
		if v.Zero {
			if u.zero >= 0 {
				return nil, errors.InvalidConfig([]string{name, label}, "%s is already the zero variant", u.label(u.zero))
			}
			u.zero = i
		}
		u.byTag[v.Tag] = i
		u.byValue[v.Value] = i
	}

	rule := "explicit"
	if u.zero < 0 {
		if cfg.Policy == ZeroExplicit {
			return nil, errors.InvalidConfig([]string{name}, "no variant is marked as zero")
		}
		if i, ok := u.byTag[cfg.Repr.Zero()]; ok {
			u.zero, rule = i, "repr-zero"
		} else {
			u.zero, rule = 0, "first"
		}
	}

	Logger().Debug("union zero resolved",
		zap.String("union", name),
		zap.String("variant", u.label(u.zero)),
		zap.String("rule", rule),
		zap.Stringer("policy", cfg.Policy),
		zap.Int("variants", len(u.variants)))

	return u, nil
}

func (u *UnionCodec[V, R]) label(i int) string {
	if n := u.variants[i].Name; n != "" {
		return n
	}
	return fmt.Sprint(u.variants[i].Value)
}

func (u *UnionCodec[V, R]) Kind() Kind     { return KindUnion }
func (u *UnionCodec[V, R]) Name() string   { return u.name }
func (u *UnionCodec[V, R]) Size() int      { return u.repr.Size() }
func (u *UnionCodec[V, R]) Repr() Codec[R] { return u.repr }

// Zero returns the resolved zero variant.
func (u *UnionCodec[V, R]) Zero() V { return u.variants[u.zero].Value }

// ZeroVariant returns the full declaration of the zero variant.
func (u *UnionCodec[V, R]) ZeroVariant() Variant[V, R] { return u.variants[u.zero] }

// Variants returns a copy of the declarations in order.
func (u *UnionCodec[V, R]) Variants() []Variant[V, R] {
	return append([]Variant[V, R](nil), u.variants...)
}

// Tag returns the wire tag of v.
func (u *UnionCodec[V, R]) Tag(v V) (R, bool) {
	i, ok := u.byValue[v]
	if !ok {
		var zero R
		return zero, false
	}
	return u.variants[i].Tag, true
}

// Lookup returns the variant carrying tag.
func (u *UnionCodec[V, R]) Lookup(tag R) (V, bool) {
	i, ok := u.byTag[tag]
	if !ok {
		var zero V
		return zero, false
	}
	return u.variants[i].Value, true
}

func (u *UnionCodec[V, R]) Decode(b []byte, order Endian) (V, error) {
	var zero V
	tag, err := u.repr.Decode(b, order)
	if err != nil {
		return zero, err
	}
	v, ok := u.Lookup(tag)
	if !ok {
		return zero, errors.New(errors.PhaseDecode, errors.KindOutOfRange).
			WireType(u.name).
			Value(tag).
			Detail("no variant has tag %v", tag).
			Build()
	}
	return v, nil
}

// Encode writes the tag of v. Values outside the declared variants fail
// with out_of_range.
func (u *UnionCodec[V, R]) Encode(v V, b []byte, order Endian) (int, error) {
	if err := checkSpace(errors.PhaseEncode, KindUnion, u.Size(), b); err != nil {
		return 0, err
	}
	tag, ok := u.Tag(v)
	if !ok {
		return 0, errors.New(errors.PhaseEncode, errors.KindOutOfRange).
			WireType(u.name).
			Value(v).
			Detail("%v is not a declared variant", v).
			Build()
	}
	return u.repr.Encode(tag, b, order)
}
