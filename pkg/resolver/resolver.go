// Package resolver computes concrete instantiations of a generic type's
// ancestors. Given a resolved instantiation such as Container<Integer, String>
// it substitutes the bound arguments through declared superclass and interface
// references, one inheritance level at a time, and can walk the hierarchy to
// the instantiation of a requested raw type. Declaration metadata comes from
// an injected Catalog; the package itself holds no state.
package resolver

import (
	"errors"
	"fmt"

	"gentype/resolver-go/pkg/catalog"
)

// Failure modes. All signal an unsupported input shape or a modeling error in
// the catalog, reported to the immediate caller; none is transient.
var (
	// ErrUnsupportedTypeExpression marks an initial type expression that is
	// not a raw type or a raw type with all-concrete arguments.
	ErrUnsupportedTypeExpression = errors.New("resolver: unsupported type expression")
	// ErrUnresolvableArgument marks a declared reference argument that is
	// neither a concrete type nor a parameter of the type being resolved.
	ErrUnresolvableArgument = errors.New("resolver: unresolvable type argument")
	// ErrNoSuperclass marks superclass resolution on an interface or on a
	// declaration without a superclass.
	ErrNoSuperclass = errors.New("resolver: type has no superclass")
	// ErrNoPathToTarget marks a hierarchy walk that cannot reach the target.
	ErrNoPathToTarget = errors.New("resolver: no path to target type")
)

// Catalog is the declaration metadata the resolver consumes. The catalog
// package provides the standard implementation; tests may supply their own.
// The resolver treats the catalog as a stable snapshot for the duration of
// one call.
type Catalog interface {
	TypeParameters(name catalog.TypeName) []catalog.TypeParam
	DeclaredSuperclass(name catalog.TypeName) (catalog.TypeRef, bool)
	DeclaredInterfaces(name catalog.TypeName) []catalog.TypeRef
	IsInterface(name catalog.TypeName) bool
	IsAssignable(candidate, target catalog.TypeName) bool
}

// Resolver resolves ancestor instantiations against one catalog.
type Resolver struct {
	catalog Catalog
}

// New returns a resolver backed by the given catalog.
func New(c Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve turns an initial type expression into a ResolvedType. A raw
// reference resolves with no arguments; a parameterized reference must carry
// only concrete arguments. Anything else — including an argument that is a
// type parameter — fails with ErrUnsupportedTypeExpression.
func (r *Resolver) Resolve(ref catalog.TypeRef) (ResolvedType, error) {
	switch val := ref.(type) {
	case catalog.RawRef:
		return ResolvedType{raw: val.Name}, nil
	case catalog.ParameterizedRef:
		args := make([]catalog.TypeName, len(val.Args))
		for i, arg := range val.Args {
			concrete, ok := arg.(catalog.ConcreteArg)
			if !ok {
				return ResolvedType{}, fmt.Errorf("%w: %s argument %d is not a concrete type", ErrUnsupportedTypeExpression, val.Name, i)
			}
			args[i] = concrete.Type
		}
		return ResolvedType{raw: val.Name, args: args}, nil
	}
	return ResolvedType{}, fmt.Errorf("%w: %v", ErrUnsupportedTypeExpression, ref)
}

// ResolveSuperclass resolves the declared superclass of src with src's
// arguments substituted in. Fails with ErrNoSuperclass for interfaces and for
// declarations without a superclass.
func (r *Resolver) ResolveSuperclass(src ResolvedType) (ResolvedType, error) {
	if r.catalog.IsInterface(src.RawType()) {
		return ResolvedType{}, fmt.Errorf("%w: %s is an interface", ErrNoSuperclass, src.RawType())
	}
	super, ok := r.catalog.DeclaredSuperclass(src.RawType())
	if !ok {
		return ResolvedType{}, fmt.Errorf("%w: %s", ErrNoSuperclass, src.RawType())
	}
	return r.substitute(src, super)
}

// ResolveInterfaces resolves every declared interface of src, in declaration
// order, with src's arguments substituted in. No declared interfaces is not
// an error; the only failure mode is an unresolvable argument expression.
func (r *Resolver) ResolveInterfaces(src ResolvedType) ([]ResolvedType, error) {
	refs := r.catalog.DeclaredInterfaces(src.RawType())
	if len(refs) == 0 {
		return nil, nil
	}
	out := make([]ResolvedType, len(refs))
	for i, ref := range refs {
		resolved, err := r.substitute(src, ref)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

// ResolveTo walks the declared hierarchy from src until it reaches a type
// whose raw type is target. The walk is a greedy first-match descent: the
// superclass step is taken when its raw type is assignable to target,
// otherwise the first assignable declared interface is taken. Once a branch
// is chosen there is no backtracking — a failure deeper in that branch is
// reported even if a sibling branch would have reached the target.
func (r *Resolver) ResolveTo(src ResolvedType, target catalog.TypeName) (ResolvedType, error) {
	if src.RawType() == target {
		return src, nil
	}
	if !r.catalog.IsInterface(src.RawType()) {
		super, err := r.ResolveSuperclass(src)
		switch {
		case errors.Is(err, ErrNoSuperclass):
			// Root type; only the interface steps remain.
		case err != nil:
			return ResolvedType{}, err
		case r.catalog.IsAssignable(super.RawType(), target):
			return r.ResolveTo(super, target)
		}
	}
	ifaces, err := r.ResolveInterfaces(src)
	if err != nil {
		return ResolvedType{}, err
	}
	for _, iface := range ifaces {
		if r.catalog.IsAssignable(iface.RawType(), target) {
			return r.ResolveTo(iface, target)
		}
	}
	return ResolvedType{}, fmt.Errorf("%w: %s from %s", ErrNoPathToTarget, target, src)
}

// substitute performs one level of substitution: arguments bound in src
// replace the matching parameter expressions of the declared reference ref.
// Concrete argument expressions pass through unchanged. The reference is
// expected to come from src's own declaration, so every parameter expression
// must match a parameter of src's raw type with a bound argument; anything
// else fails with ErrUnresolvableArgument.
func (r *Resolver) substitute(src ResolvedType, ref catalog.TypeRef) (ResolvedType, error) {
	switch val := ref.(type) {
	case catalog.RawRef:
		return ResolvedType{raw: val.Name}, nil
	case catalog.ParameterizedRef:
		params := r.catalog.TypeParameters(src.RawType())
		args := make([]catalog.TypeName, len(val.Args))
		for i, arg := range val.Args {
			switch expr := arg.(type) {
			case catalog.ConcreteArg:
				args[i] = expr.Type
			case catalog.ParamArg:
				bound, ok := bindParam(src, params, expr.Param)
				if !ok {
					return ResolvedType{}, fmt.Errorf("%w: %s in %s is not a parameter of %s", ErrUnresolvableArgument, expr.Param, val, src.RawType())
				}
				args[i] = bound
			default:
				return ResolvedType{}, fmt.Errorf("%w: %s argument %d", ErrUnresolvableArgument, val.Name, i)
			}
		}
		return ResolvedType{raw: val.Name, args: args}, nil
	}
	return ResolvedType{}, fmt.Errorf("%w: %v", ErrUnresolvableArgument, ref)
}

func bindParam(src ResolvedType, params []catalog.TypeParam, param catalog.TypeParam) (catalog.TypeName, bool) {
	for j, candidate := range params {
		if candidate == param {
			if j >= src.NumArguments() {
				return "", false
			}
			return src.Argument(j), true
		}
	}
	return "", false
}
