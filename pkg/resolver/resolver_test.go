package resolver

import (
	"errors"
	"testing"

	"gentype/resolver-go/pkg/catalog"
)

func declare(t *testing.T, c *catalog.Catalog, d catalog.Declaration) {
	t.Helper()
	if err := c.Declare(d); err != nil {
		t.Fatalf("declare %s: %v", d.Name, err)
	}
}

func param(owner catalog.TypeName, index int, name string) catalog.TypeArg {
	return catalog.ParamArg{Param: catalog.TypeParam{Owner: owner, Index: index, Name: name}}
}

func concrete(name catalog.TypeName) catalog.TypeArg {
	return catalog.ConcreteArg{Type: name}
}

// collectionsCatalog declares a compact collections hierarchy:
//
//	HashSetOfX<T, X> extends HashSet<X> implements InterfaceT<T>, InterfaceX<X>
//	HashSet<E>       extends AbstractSet<E> implements Set<E>
//	AbstractSet<E>   extends Object implements Set<E>
//	Set<E>           extends Collection<E>     (interface)
//	List<E>          extends Collection<E>     (interface)
//	Collection<E>    extends Iterable<E>       (interface)
func collectionsCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	declare(t, c, catalog.Declaration{Name: "Object"})
	declare(t, c, catalog.Declaration{Name: "Integer", Superclass: catalog.RawRef{Name: "Object"}})
	declare(t, c, catalog.Declaration{Name: "String", Superclass: catalog.RawRef{Name: "Object"}})
	declare(t, c, catalog.Declaration{Name: "Runnable", Interface: true})
	declare(t, c, catalog.Declaration{Name: "Iterable", Params: []string{"E"}, Interface: true})
	declare(t, c, catalog.Declaration{
		Name: "Collection", Params: []string{"E"}, Interface: true,
		Interfaces: []catalog.TypeRef{catalog.ParameterizedRef{Name: "Iterable", Args: []catalog.TypeArg{param("Collection", 0, "E")}}},
	})
	declare(t, c, catalog.Declaration{
		Name: "Set", Params: []string{"E"}, Interface: true,
		Interfaces: []catalog.TypeRef{catalog.ParameterizedRef{Name: "Collection", Args: []catalog.TypeArg{param("Set", 0, "E")}}},
	})
	declare(t, c, catalog.Declaration{
		Name: "List", Params: []string{"E"}, Interface: true,
		Interfaces: []catalog.TypeRef{catalog.ParameterizedRef{Name: "Collection", Args: []catalog.TypeArg{param("List", 0, "E")}}},
	})
	declare(t, c, catalog.Declaration{
		Name: "AbstractSet", Params: []string{"E"},
		Superclass: catalog.RawRef{Name: "Object"},
		Interfaces: []catalog.TypeRef{catalog.ParameterizedRef{Name: "Set", Args: []catalog.TypeArg{param("AbstractSet", 0, "E")}}},
	})
	declare(t, c, catalog.Declaration{
		Name: "HashSet", Params: []string{"E"},
		Superclass: catalog.ParameterizedRef{Name: "AbstractSet", Args: []catalog.TypeArg{param("HashSet", 0, "E")}},
		Interfaces: []catalog.TypeRef{catalog.ParameterizedRef{Name: "Set", Args: []catalog.TypeArg{param("HashSet", 0, "E")}}},
	})
	declare(t, c, catalog.Declaration{
		Name: "InterfaceT", Params: []string{"T"}, Interface: true,
	})
	declare(t, c, catalog.Declaration{
		Name: "InterfaceX", Params: []string{"X"}, Interface: true,
	})
	declare(t, c, catalog.Declaration{
		Name: "HashSetOfX", Params: []string{"T", "X"},
		Superclass: catalog.ParameterizedRef{Name: "HashSet", Args: []catalog.TypeArg{param("HashSetOfX", 1, "X")}},
		Interfaces: []catalog.TypeRef{
			catalog.ParameterizedRef{Name: "InterfaceT", Args: []catalog.TypeArg{param("HashSetOfX", 0, "T")}},
			catalog.ParameterizedRef{Name: "InterfaceX", Args: []catalog.TypeArg{param("HashSetOfX", 1, "X")}},
		},
	})
	return c
}

func hashSetOfX(t *testing.T, r *Resolver) ResolvedType {
	t.Helper()
	resolved, err := r.Resolve(catalog.ParameterizedRef{
		Name: "HashSetOfX",
		Args: []catalog.TypeArg{concrete("Integer"), concrete("String")},
	})
	if err != nil {
		t.Fatalf("Resolve(HashSetOfX<Integer, String>): %v", err)
	}
	return resolved
}

func TestResolveInitialExpression(t *testing.T) {
	r := New(collectionsCatalog(t))

	resolved := hashSetOfX(t, r)
	if resolved.RawType() != "HashSetOfX" {
		t.Fatalf("RawType = %s, want HashSetOfX", resolved.RawType())
	}
	if resolved.NumArguments() != 2 || resolved.Argument(0) != "Integer" || resolved.Argument(1) != "String" {
		t.Fatalf("arguments = %v, want [Integer String]", resolved.TypeArguments())
	}

	plain, err := r.Resolve(catalog.RawRef{Name: "Object"})
	if err != nil {
		t.Fatalf("Resolve(Object): %v", err)
	}
	if plain.RawType() != "Object" || plain.NumArguments() != 0 {
		t.Fatalf("raw reference must resolve without arguments, got %s", plain)
	}
}

func TestResolveRejectsUnsupportedExpressions(t *testing.T) {
	r := New(collectionsCatalog(t))

	_, err := r.Resolve(catalog.ParameterizedRef{
		Name: "HashSet",
		Args: []catalog.TypeArg{param("HashSetOfX", 1, "X")},
	})
	if !errors.Is(err, ErrUnsupportedTypeExpression) {
		t.Fatalf("parameter argument expression: err = %v, want ErrUnsupportedTypeExpression", err)
	}

	if _, err := r.Resolve(nil); !errors.Is(err, ErrUnsupportedTypeExpression) {
		t.Fatalf("nil expression: err = %v, want ErrUnsupportedTypeExpression", err)
	}
}

func TestResolveSuperclass(t *testing.T) {
	r := New(collectionsCatalog(t))

	super, err := r.ResolveSuperclass(hashSetOfX(t, r))
	if err != nil {
		t.Fatalf("ResolveSuperclass: %v", err)
	}
	want := NewResolvedType("HashSet", []catalog.TypeName{"String"})
	if !super.Equal(want) {
		t.Fatalf("superclass = %s, want %s", super, want)
	}
}

func TestResolveSuperclassRawReference(t *testing.T) {
	r := New(collectionsCatalog(t))

	integer, err := r.Resolve(catalog.RawRef{Name: "Integer"})
	if err != nil {
		t.Fatalf("Resolve(Integer): %v", err)
	}
	super, err := r.ResolveSuperclass(integer)
	if err != nil {
		t.Fatalf("ResolveSuperclass(Integer): %v", err)
	}
	if super.RawType() != "Object" || super.NumArguments() != 0 {
		t.Fatalf("superclass = %s, want Object", super)
	}
}

func TestResolveSuperclassFailures(t *testing.T) {
	r := New(collectionsCatalog(t))

	list := NewResolvedType("List", []catalog.TypeName{"String"})
	if _, err := r.ResolveSuperclass(list); !errors.Is(err, ErrNoSuperclass) {
		t.Fatalf("interface superclass: err = %v, want ErrNoSuperclass", err)
	}

	object := NewResolvedType("Object", nil)
	if _, err := r.ResolveSuperclass(object); !errors.Is(err, ErrNoSuperclass) {
		t.Fatalf("root superclass: err = %v, want ErrNoSuperclass", err)
	}
}

func TestResolveInterfacesOrder(t *testing.T) {
	r := New(collectionsCatalog(t))

	ifaces, err := r.ResolveInterfaces(hashSetOfX(t, r))
	if err != nil {
		t.Fatalf("ResolveInterfaces: %v", err)
	}
	if len(ifaces) != 2 {
		t.Fatalf("interface count = %d, want 2", len(ifaces))
	}
	wantFirst := NewResolvedType("InterfaceT", []catalog.TypeName{"Integer"})
	wantSecond := NewResolvedType("InterfaceX", []catalog.TypeName{"String"})
	if !ifaces[0].Equal(wantFirst) {
		t.Fatalf("interfaces[0] = %s, want %s", ifaces[0], wantFirst)
	}
	if !ifaces[1].Equal(wantSecond) {
		t.Fatalf("interfaces[1] = %s, want %s", ifaces[1], wantSecond)
	}
}

func TestResolveInterfacesEmpty(t *testing.T) {
	r := New(collectionsCatalog(t))

	ifaces, err := r.ResolveInterfaces(NewResolvedType("Integer", nil))
	if err != nil {
		t.Fatalf("ResolveInterfaces(Integer): %v", err)
	}
	if len(ifaces) != 0 {
		t.Fatalf("interfaces = %v, want none", ifaces)
	}
}

func TestResolveToCollection(t *testing.T) {
	r := New(collectionsCatalog(t))

	collection, err := r.ResolveTo(hashSetOfX(t, r), "Collection")
	if err != nil {
		t.Fatalf("ResolveTo(Collection): %v", err)
	}
	want := NewResolvedType("Collection", []catalog.TypeName{"String"})
	if !collection.Equal(want) {
		t.Fatalf("ResolveTo(Collection) = %s, want %s", collection, want)
	}
}

func TestResolveToReflexive(t *testing.T) {
	r := New(collectionsCatalog(t))

	src := hashSetOfX(t, r)
	same, err := r.ResolveTo(src, "HashSetOfX")
	if err != nil {
		t.Fatalf("ResolveTo(HashSetOfX): %v", err)
	}
	if !same.Equal(src) {
		t.Fatalf("reflexive resolve changed the value: %s vs %s", same, src)
	}
}

func TestResolveToFromInterface(t *testing.T) {
	r := New(collectionsCatalog(t))

	list := NewResolvedType("List", []catalog.TypeName{"String"})
	collection, err := r.ResolveTo(list, "Collection")
	if err != nil {
		t.Fatalf("ResolveTo(Collection) from List<String>: %v", err)
	}
	want := NewResolvedType("Collection", []catalog.TypeName{"String"})
	if !collection.Equal(want) {
		t.Fatalf("ResolveTo(Collection) = %s, want %s", collection, want)
	}
}

func TestResolveToNoPath(t *testing.T) {
	r := New(collectionsCatalog(t))

	if _, err := r.ResolveTo(hashSetOfX(t, r), "Runnable"); !errors.Is(err, ErrNoPathToTarget) {
		t.Fatalf("unrelated target: err = %v, want ErrNoPathToTarget", err)
	}
}

func TestUnresolvableForeignParameter(t *testing.T) {
	c := catalog.New()
	declare(t, c, catalog.Declaration{Name: "Marker", Params: []string{"W"}, Interface: true})
	declare(t, c, catalog.Declaration{Name: "Holder", Params: []string{"T"}})
	// Weird references Holder's parameter inside its own interface list,
	// which the single-step substitution cannot bind.
	declare(t, c, catalog.Declaration{
		Name: "Weird",
		Interfaces: []catalog.TypeRef{
			catalog.ParameterizedRef{Name: "Marker", Args: []catalog.TypeArg{param("Holder", 0, "T")}},
		},
	})

	r := New(c)
	_, err := r.ResolveInterfaces(NewResolvedType("Weird", nil))
	if !errors.Is(err, ErrUnresolvableArgument) {
		t.Fatalf("foreign parameter: err = %v, want ErrUnresolvableArgument", err)
	}
}

// TestResolveToCommitsToFirstAssignableBranch pins the greedy walk: the
// superclass branch is taken because its raw type is assignable to the
// target, and the failure deeper in that branch is reported even though a
// directly declared interface would have reached the target.
func TestResolveToCommitsToFirstAssignableBranch(t *testing.T) {
	c := catalog.New()
	declare(t, c, catalog.Declaration{Name: "Marker", Params: []string{"W"}, Interface: true})
	declare(t, c, catalog.Declaration{Name: "Holder", Params: []string{"T"}})
	declare(t, c, catalog.Declaration{
		Name: "Broken",
		Interfaces: []catalog.TypeRef{
			catalog.ParameterizedRef{Name: "Marker", Args: []catalog.TypeArg{param("Holder", 0, "T")}},
		},
	})
	declare(t, c, catalog.Declaration{
		Name:       "Leaf",
		Superclass: catalog.RawRef{Name: "Broken"},
		Interfaces: []catalog.TypeRef{
			catalog.ParameterizedRef{Name: "Marker", Args: []catalog.TypeArg{concrete("String")}},
		},
	})

	r := New(c)
	_, err := r.ResolveTo(NewResolvedType("Leaf", nil), "Marker")
	if !errors.Is(err, ErrUnresolvableArgument) {
		t.Fatalf("greedy walk must commit to the superclass branch: err = %v, want ErrUnresolvableArgument", err)
	}
}
