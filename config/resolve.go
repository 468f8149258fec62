package config

import (
	"math"
	"math/big"
	"strings"

	"go.uber.org/zap"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/errors"
)

// Resolver supplies union configuration by type name.
type Resolver interface {
	ResolveUnion(name string) (*ResolvedUnion, error)
}

// ResolvedUnion is a validated union declaration.
type ResolvedUnion struct {
	Name     string
	Zero     string // explicit zero variant, empty when none is designated
	Variants []ResolvedVariant
	Repr     podcodec.Kind
	Policy   podcodec.ZeroPolicy
}

// ResolvedVariant carries a tag as 128 two's complement bits; signed tags are
// sign-extended.
type ResolvedVariant struct {
	Name string
	Tag  podcodec.U128
}

// Int returns the low 64 bits of the tag as a signed value.
func (v ResolvedVariant) Int() int64 { return int64(v.Tag.Lo) }

// Uint returns the low 64 bits of the tag.
func (v ResolvedVariant) Uint() uint64 { return v.Tag.Lo }

// ResolveUnion validates the union declared as name.
func (d *Document) ResolveUnion(name string) (*ResolvedUnion, error) {
	spec, err := d.Lookup(name)
	if err != nil {
		return nil, err
	}
	if spec.Union == nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindTypeMismatch).
			Path(name).
			WireType("union").
			Detail("declared as %s", spec.Shape()).
			Build()
	}
	u := spec.Union
	path := []string{name}

	repr, ok := podcodec.ParseKind(u.Repr)
	if !ok || !repr.IsInteger() {
		return nil, errors.InvalidConfig(path, "repr %q is not an integer type", u.Repr)
	}
	if len(u.Variants) == 0 {
		return nil, errors.InvalidConfig(path, "no variants")
	}

	ru := &ResolvedUnion{
		Name:     name,
		Repr:     repr,
		Variants: make([]ResolvedVariant, 0, len(u.Variants)),
		Zero:     u.Zero,
	}
	if u.Strict {
		ru.Policy = podcodec.ZeroExplicit
	}

	names := make(map[string]bool, len(u.Variants))
	tags := make(map[podcodec.U128]string, len(u.Variants))
	for _, v := range u.Variants {
		if v.Name == "" {
			return nil, errors.InvalidConfig(path, "variant without a name")
		}
		vpath := []string{name, v.Name}
		if names[v.Name] {
			return nil, errors.InvalidConfig(vpath, "duplicate variant name")
		}
		names[v.Name] = true

		tag, err := ParseTag(string(v.Tag), repr)
		if err != nil {
			return nil, errors.WithPath(errors.WithPath(err, v.Name), name)
		}
		if prev, dup := tags[tag]; dup {
			return nil, errors.New(errors.PhaseConfig, errors.KindDuplicateTag).
				Path(vpath...).
				Value(string(v.Tag)).
				Detail("tag already used by %s", prev).
				Build()
		}
		tags[tag] = v.Name

		if v.Zero {
			if ru.Zero != "" && ru.Zero != v.Name {
				return nil, errors.InvalidConfig(vpath, "%s is already the zero variant", ru.Zero)
			}
			ru.Zero = v.Name
		}
		ru.Variants = append(ru.Variants, ResolvedVariant{Name: v.Name, Tag: tag})
	}

	if ru.Zero != "" && !names[ru.Zero] {
		return nil, errors.InvalidConfig(path, "zero variant %q is not declared", ru.Zero)
	}
	if ru.Zero == "" && ru.Policy == podcodec.ZeroExplicit {
		return nil, errors.InvalidConfig(path, "no variant is marked as zero")
	}

	Logger().Debug("union resolved",
		zap.String("union", name),
		zap.Stringer("repr", repr),
		zap.Int("variants", len(ru.Variants)),
		zap.String("zero", ru.Zero))

	return ru, nil
}

// ParseTag parses an integer literal for repr. Base prefixes (0x, 0o, 0b) and
// underscores are accepted. The value must fit repr and is returned as 128
// two's complement bits.
func ParseTag(lit string, repr podcodec.Kind) (podcodec.U128, error) {
	lit = strings.TrimSpace(lit)
	if lit == "" {
		return podcodec.U128{}, errors.InvalidConfig(nil, "missing tag")
	}
	v, ok := new(big.Int).SetString(lit, 0)
	if !ok {
		return podcodec.U128{}, errors.New(errors.PhaseConfig, errors.KindParse).
			WireType(repr.String()).
			Value(lit).
			Detail("tag %q is not an integer literal", lit).
			Build()
	}

	bits := uint(repr.Size() * 8)
	lo, hi := new(big.Int), new(big.Int).Lsh(big.NewInt(1), bits)
	if repr.IsSigned() {
		hi.Rsh(hi, 1)
		lo.Neg(hi)
	}
	if v.Cmp(lo) < 0 || v.Cmp(hi) >= 0 {
		return podcodec.U128{}, errors.InvalidConfig(nil, "tag %s does not fit %s", lit, repr)
	}
	if v.Sign() < 0 {
		v.Add(v, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	low := new(big.Int).And(v, new(big.Int).SetUint64(math.MaxUint64))
	return podcodec.U128{Hi: v.Rsh(v, 64).Uint64(), Lo: low.Uint64()}, nil
}

// Integer is the set of Go types a resolved union can be bound to.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Wide is the set of 128-bit Go types a resolved union can be bound to.
type Wide interface {
	podcodec.U128 | podcodec.I128
}

// BindUnion turns the resolved union name into a typed configuration. values
// maps every variant name to its Go value; repr must encode the resolved
// representation kind.
func BindUnion[V comparable, R Integer](r Resolver, name string, repr podcodec.Codec[R], values map[string]V) (podcodec.UnionConfig[V, R], error) {
	return bind(r, name, repr, values, func(t podcodec.U128) R { return R(t.Lo) })
}

// BindWideUnion is BindUnion for u128 and i128 representations.
func BindWideUnion[V comparable, R Wide](r Resolver, name string, repr podcodec.Codec[R], values map[string]V) (podcodec.UnionConfig[V, R], error) {
	return bind(r, name, repr, values, wideTag[R])
}

// CompileUnion binds and builds the union codec in one step.
func CompileUnion[V comparable, R Integer](r Resolver, name string, repr podcodec.Codec[R], values map[string]V) (*podcodec.UnionCodec[V, R], error) {
	cfg, err := BindUnion(r, name, repr, values)
	if err != nil {
		return nil, err
	}
	return podcodec.Union(cfg)
}

// CompileWideUnion binds and builds a union with a 128-bit representation.
func CompileWideUnion[V comparable, R Wide](r Resolver, name string, repr podcodec.Codec[R], values map[string]V) (*podcodec.UnionCodec[V, R], error) {
	cfg, err := BindWideUnion(r, name, repr, values)
	if err != nil {
		return nil, err
	}
	return podcodec.Union(cfg)
}

func wideTag[R Wide](t podcodec.U128) R {
	var r R
	switch p := any(&r).(type) {
	case *podcodec.U128:
		*p = t
	case *podcodec.I128:
		*p = podcodec.I128{Hi: int64(t.Hi), Lo: t.Lo}
	}
	return r
}

func bind[V comparable, R any](r Resolver, name string, repr podcodec.Codec[R], values map[string]V, tag func(podcodec.U128) R) (podcodec.UnionConfig[V, R], error) {
	var cfg podcodec.UnionConfig[V, R]

	ru, err := r.ResolveUnion(name)
	if err != nil {
		return cfg, err
	}
	if got := podcodec.KindOf(repr); got != ru.Repr {
		return cfg, errors.TypeMismatch(errors.PhaseConfig, []string{name}, got.String(), ru.Repr.String())
	}

	cfg.Name = ru.Name
	cfg.Repr = repr
	cfg.Policy = ru.Policy
	cfg.Variants = make([]podcodec.Variant[V, R], len(ru.Variants))
	bound := 0
	for i, rv := range ru.Variants {
		v, ok := values[rv.Name]
		if !ok {
			return cfg, errors.New(errors.PhaseConfig, errors.KindNotFound).
				Path(name, rv.Name).
				Detail("no Go value bound to variant").
				Build()
		}
		bound++
		cfg.Variants[i] = podcodec.Variant[V, R]{
			Name:  rv.Name,
			Value: v,
			Tag:   tag(rv.Tag),
			Zero:  rv.Name == ru.Zero,
		}
	}
	if bound != len(values) {
		for n := range values {
			if !containsVariant(ru.Variants, n) {
				return cfg, errors.InvalidConfig([]string{name, n}, "value bound to an undeclared variant")
			}
		}
	}
	return cfg, nil
}

func containsVariant(vs []ResolvedVariant, name string) bool {
	for _, v := range vs {
		if v.Name == name {
			return true
		}
	}
	return false
}
