package resolver

import (
	"hash/fnv"
	"strings"

	"gentype/resolver-go/pkg/catalog"
)

// ResolvedType is a fully-instantiated generic type: a raw type paired with
// the concrete arguments bound to its parameters, in declaration order. The
// argument list is empty for non-generic types and for types resolved from a
// raw (argument-less) reference. Values are immutable once constructed.
type ResolvedType struct {
	raw  catalog.TypeName
	args []catalog.TypeName
}

// NewResolvedType constructs a resolved type. The argument slice is copied.
func NewResolvedType(raw catalog.TypeName, args []catalog.TypeName) ResolvedType {
	return ResolvedType{raw: raw, args: append([]catalog.TypeName(nil), args...)}
}

// RawType returns the raw type.
func (t ResolvedType) RawType() catalog.TypeName { return t.raw }

// TypeArguments returns a copy of the concrete argument list.
func (t ResolvedType) TypeArguments() []catalog.TypeName {
	return append([]catalog.TypeName(nil), t.args...)
}

// NumArguments returns the number of bound arguments.
func (t ResolvedType) NumArguments() int { return len(t.args) }

// Argument returns the argument at position i.
func (t ResolvedType) Argument(i int) catalog.TypeName { return t.args[i] }

// Equal reports structural equality: same raw type and element-wise equal
// arguments in the same order.
func (t ResolvedType) Equal(other ResolvedType) bool {
	if t.raw != other.raw || len(t.args) != len(other.args) {
		return false
	}
	for i := range t.args {
		if t.args[i] != other.args[i] {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal: equal values hash identically.
func (t ResolvedType) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(t.raw))
	for _, arg := range t.args {
		h.Write([]byte{0})
		h.Write([]byte(arg))
	}
	return h.Sum64()
}

func (t ResolvedType) String() string {
	if len(t.args) == 0 {
		return string(t.raw)
	}
	var sb strings.Builder
	sb.WriteString(string(t.raw))
	sb.WriteString("<")
	for i, arg := range t.args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(string(arg))
	}
	sb.WriteString(">")
	return sb.String()
}
