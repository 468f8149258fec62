package derive

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/errors"
)

// Value is the dynamic codec form every derived type compiles to.
type Value = podcodec.Codec[reflect.Value]

type Compiler struct {
	cache  sync.Map // reflect.Type -> Value
	custom sync.Map // reflect.Type -> Value, installed by Register
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Default is the compiler used by Of.
var Default = NewCompiler()

// Register installs codec for values of type V. Registered codecs take
// precedence over derivation, which is how unions and hand-written codecs
// become usable as struct fields.
func Register[V any](c *Compiler, codec podcodec.Codec[V]) {
	t := reflect.TypeFor[V]()
	c.custom.Store(t, Value(&convertCodec[V]{inner: codec, typ: t}))
	// Types already derived may have captured the previous codec.
	c.cache.Range(func(k, _ any) bool {
		c.cache.Delete(k)
		return true
	})
}

// Compile derives the codec for t. Results are cached per type.
func (c *Compiler) Compile(t reflect.Type) (Value, error) {
	if t == nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidConfig).
			Detail("Go type cannot be nil").
			Build()
	}
	if cached, ok := c.cache.Load(t); ok {
		return cached.(Value), nil
	}

	v, err := c.compile(t, nil)
	if err != nil {
		return nil, err
	}

	c.cache.Store(t, v)
	podcodec.Logger().Debug("derived codec",
		zap.Stringer("type", t),
		zap.Stringer("kind", podcodec.KindOf(v)),
		zap.Int("size", v.Size()))
	return v, nil
}

func (c *Compiler) compile(t reflect.Type, path []string) (Value, error) {
	if custom, ok := c.custom.Load(t); ok {
		return custom.(Value), nil
	}
	if cached, ok := c.cache.Load(t); ok {
		return cached.(Value), nil
	}

	switch t {
	case reflect.TypeFor[podcodec.U128]():
		return &convertCodec[podcodec.U128]{inner: podcodec.Uint128, typ: t}, nil
	case reflect.TypeFor[podcodec.I128]():
		return &convertCodec[podcodec.I128]{inner: podcodec.Int128, typ: t}, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return &convertCodec[bool]{inner: podcodec.Bool, typ: t}, nil
	case reflect.Uint8:
		return &convertCodec[uint8]{inner: podcodec.Uint8, typ: t}, nil
	case reflect.Int8:
		return &convertCodec[int8]{inner: podcodec.Int8, typ: t}, nil
	case reflect.Uint16:
		return &convertCodec[uint16]{inner: podcodec.Uint16, typ: t}, nil
	case reflect.Int16:
		return &convertCodec[int16]{inner: podcodec.Int16, typ: t}, nil
	case reflect.Uint32:
		return &convertCodec[uint32]{inner: podcodec.Uint32, typ: t}, nil
	case reflect.Int32:
		return &convertCodec[int32]{inner: podcodec.Int32, typ: t}, nil
	case reflect.Uint64:
		return &convertCodec[uint64]{inner: podcodec.Uint64, typ: t}, nil
	case reflect.Int64:
		return &convertCodec[int64]{inner: podcodec.Int64, typ: t}, nil
	case reflect.Float32:
		return &convertCodec[float32]{inner: podcodec.Float32, typ: t}, nil
	case reflect.Float64:
		return &convertCodec[float64]{inner: podcodec.Float64, typ: t}, nil
	case reflect.Array:
		return c.compileArray(t, path)
	case reflect.Struct:
		return c.compileStruct(t, path)
	default:
		return nil, errors.New(errors.PhaseConfig, errors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("%s has no fixed-size encoding", t.Kind()).
			Build()
	}
}

func (c *Compiler) compileArray(t reflect.Type, path []string) (Value, error) {
	elemPath := append(append([]string{}, path...), "[elem]")
	elem, err := c.compile(t.Elem(), elemPath)
	if err != nil {
		return nil, err
	}
	return &arrayCodec{
		elems: podcodec.FixedSlice(elem, t.Len()),
		typ:   t,
	}, nil
}

func (c *Compiler) compileStruct(t reflect.Type, path []string) (Value, error) {
	fields := make([]podcodec.Field[reflect.Value], 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, ok := fieldName(sf)
		if !ok {
			continue
		}

		fieldPath := append(append([]string{}, path...), name)
		codec, err := c.compile(sf.Type, fieldPath)
		if err != nil {
			return nil, err
		}
		fields = append(fields, &structField{name: name, index: i, codec: codec})
	}

	p, err := podcodec.Struct(fields...)
	if err != nil {
		return nil, errors.WithPath(err, t.String())
	}
	return p.WithAlloc(func() reflect.Value { return reflect.New(t).Elem() }), nil
}

// fieldName applies the pod struct tag. Unexported fields and fields tagged
// "-" are skipped; untagged fields use the kebab-case Go name.
func fieldName(sf reflect.StructField) (string, bool) {
	if !sf.IsExported() {
		return "", false
	}
	tag := sf.Tag.Get("pod")
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		if name == "-" {
			return "", false
		}
		return name, true
	}
	return toKebabCase(sf.Name), true
}

func toKebabCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteByte('-')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
