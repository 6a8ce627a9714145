package catalog

import "strings"

// TypeName identifies a declared type with its parameter list erased
// (a raw type), and doubles as the identity of a concrete type argument.
type TypeName string

// TypeParam identifies one type parameter of one declaration. Identity is
// scoped to the owning raw type: two parameters named T on different
// declarations compare unequal, so value equality carries the same meaning
// that reference identity does for reflected type variables.
type TypeParam struct {
	Owner TypeName
	Index int
	Name  string
}

func (p TypeParam) String() string {
	return string(p.Owner) + "#" + p.Name
}

// TypeArg is one argument expression inside a declared ancestor reference.
// It has exactly two variants: ParamArg and ConcreteArg.
type TypeArg interface {
	typeArg()
	String() string
}

// ParamArg references a type parameter, normally one declared by the type
// whose ancestor reference contains it.
type ParamArg struct {
	Param TypeParam
}

func (ParamArg) typeArg() {}

func (a ParamArg) String() string { return a.Param.String() }

// ConcreteArg names a concrete type directly.
type ConcreteArg struct {
	Type TypeName
}

func (ConcreteArg) typeArg() {}

func (a ConcreteArg) String() string { return string(a.Type) }

// TypeRef is a declared reference to another type, as it appears in an
// extends/implements position or as an initial type expression. It has
// exactly two variants: RawRef and ParameterizedRef.
type TypeRef interface {
	typeRef()
	// RawType returns the referenced raw type.
	RawType() TypeName
	String() string
}

// RawRef references a type without an argument list.
type RawRef struct {
	Name TypeName
}

func (RawRef) typeRef() {}

// RawType implements TypeRef.
func (r RawRef) RawType() TypeName { return r.Name }

func (r RawRef) String() string { return string(r.Name) }

// ParameterizedRef references a type together with an ordered argument
// expression list.
type ParameterizedRef struct {
	Name TypeName
	Args []TypeArg
}

func (ParameterizedRef) typeRef() {}

// RawType implements TypeRef.
func (r ParameterizedRef) RawType() TypeName { return r.Name }

func (r ParameterizedRef) String() string {
	var sb strings.Builder
	sb.WriteString(string(r.Name))
	sb.WriteString("<")
	for i, arg := range r.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteString(">")
	return sb.String()
}
