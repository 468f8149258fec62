package config

import (
	"math"
	"strconv"
	"strings"

	podcodec "github.com/wippyai/pod-codec"
	"github.com/wippyai/pod-codec/errors"
)

// MaxArrayLen bounds the length of a single array dimension.
const MaxArrayLen = math.MaxInt32

// TypeRef is a parsed type reference: a primitive, a fixed-length array of
// another reference, or the name of a declared type.
type TypeRef struct {
	Elem *TypeRef      // array element, set when Kind is KindArray
	Name string        // declared type name, set when Kind is KindUnknown
	Len  int           // array length
	Kind podcodec.Kind // primitive kind, KindArray, or KindUnknown for names
}

// ParseTypeRef parses "u32", "s8", "[4]f32", "[2][3]u8" or a type name.
func ParseTypeRef(s string) (TypeRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TypeRef{}, errors.InvalidConfig(nil, "empty type reference")
	}

	if s[0] == '[' {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return TypeRef{}, errors.InvalidConfig(nil, "unterminated array length in %q", s)
		}
		n, err := strconv.Atoi(s[1:end])
		if err != nil || n < 0 {
			return TypeRef{}, errors.InvalidConfig(nil, "invalid array length in %q", s)
		}
		if n > MaxArrayLen {
			return TypeRef{}, errors.InvalidConfig(nil, "array length %d in %q exceeds %d", n, s, MaxArrayLen)
		}
		elem, err := ParseTypeRef(s[end+1:])
		if err != nil {
			return TypeRef{}, err
		}
		return TypeRef{Kind: podcodec.KindArray, Len: n, Elem: &elem}, nil
	}

	if k, ok := podcodec.ParseKind(s); ok {
		return TypeRef{Kind: k}, nil
	}
	if !validName(s) {
		return TypeRef{}, errors.InvalidConfig(nil, "invalid type name %q", s)
	}
	return TypeRef{Name: s}, nil
}

// IsNamed reports whether r refers to a declared type.
func (r TypeRef) IsNamed() bool { return r.Kind == podcodec.KindUnknown }

// Names returns the declared type names r depends on.
func (r TypeRef) Names() []string {
	switch {
	case r.Kind == podcodec.KindArray:
		return r.Elem.Names()
	case r.IsNamed():
		return []string{r.Name}
	default:
		return nil
	}
}

func (r TypeRef) String() string {
	switch {
	case r.Kind == podcodec.KindArray:
		return "[" + strconv.Itoa(r.Len) + "]" + r.Elem.String()
	case r.IsNamed():
		return r.Name
	default:
		return r.Kind.String()
	}
}

// validName accepts Go-style and WIT-style (kebab-case) identifiers.
func validName(s string) bool {
	for i, c := range s {
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case i > 0 && (c == '-' || c == '.' || (c >= '0' && c <= '9')):
		default:
			return false
		}
	}
	return s != ""
}
