// Package catalog models type declarations: raw-type identities, declared
// type parameters, and generic superclass/interface references. A Catalog is
// the read-only metadata source the resolver queries; this package provides
// the in-memory implementation that documents and tests build against.
package catalog

import "fmt"

// Declaration describes one declared type. Superclass is nil for interfaces
// and for root types; Interfaces holds extended/implemented interfaces in
// declaration order.
type Declaration struct {
	Name       TypeName
	Params     []string
	Interface  bool
	Superclass TypeRef
	Interfaces []TypeRef
}

// Catalog is an in-memory registry of type declarations.
type Catalog struct {
	decls map[TypeName]*Declaration
	order []TypeName
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{decls: map[TypeName]*Declaration{}}
}

// Declare registers a declaration. References to types declared later are
// fine; Declare validates the declaration itself, not the graph. It does not
// detect inheritance cycles — a cycle-free catalog is the caller's
// responsibility.
func (c *Catalog) Declare(d Declaration) error {
	if d.Name == "" {
		return fmt.Errorf("catalog: declaration without a name")
	}
	if _, exists := c.decls[d.Name]; exists {
		return fmt.Errorf("catalog: duplicate declaration of %s", d.Name)
	}
	seen := map[string]struct{}{}
	for _, param := range d.Params {
		if param == "" {
			return fmt.Errorf("catalog: %s declares an unnamed type parameter", d.Name)
		}
		if _, dup := seen[param]; dup {
			return fmt.Errorf("catalog: %s declares type parameter %s twice", d.Name, param)
		}
		seen[param] = struct{}{}
	}
	if d.Interface && d.Superclass != nil {
		return fmt.Errorf("catalog: interface %s cannot declare a superclass", d.Name)
	}
	stored := d
	stored.Params = append([]string(nil), d.Params...)
	stored.Interfaces = append([]TypeRef(nil), d.Interfaces...)
	c.decls[d.Name] = &stored
	c.order = append(c.order, d.Name)
	return nil
}

// Param looks up a declared parameter of owner by name.
func (c *Catalog) Param(owner TypeName, name string) (TypeParam, bool) {
	decl, ok := c.decls[owner]
	if !ok {
		return TypeParam{}, false
	}
	for i, param := range decl.Params {
		if param == name {
			return TypeParam{Owner: owner, Index: i, Name: name}, true
		}
	}
	return TypeParam{}, false
}

// TypeParameters returns the parameters declared by name, in declaration
// order. Unknown or non-generic types yield an empty list.
func (c *Catalog) TypeParameters(name TypeName) []TypeParam {
	decl, ok := c.decls[name]
	if !ok {
		return nil
	}
	params := make([]TypeParam, len(decl.Params))
	for i, param := range decl.Params {
		params[i] = TypeParam{Owner: name, Index: i, Name: param}
	}
	return params
}

// DeclaredSuperclass returns the declared superclass reference of name, or
// false when the declaration has none (interfaces, root types, unknowns).
func (c *Catalog) DeclaredSuperclass(name TypeName) (TypeRef, bool) {
	decl, ok := c.decls[name]
	if !ok || decl.Superclass == nil {
		return nil, false
	}
	return decl.Superclass, true
}

// DeclaredInterfaces returns the declared interface references of name in
// declaration order.
func (c *Catalog) DeclaredInterfaces(name TypeName) []TypeRef {
	decl, ok := c.decls[name]
	if !ok {
		return nil
	}
	return append([]TypeRef(nil), decl.Interfaces...)
}

// IsInterface reports whether name is declared as an interface.
func (c *Catalog) IsInterface(name TypeName) bool {
	decl, ok := c.decls[name]
	return ok && decl.Interface
}

// IsAssignable reports whether candidate is target, or has target as a
// transitive ancestor through declared superclass and interface references.
// Types the catalog does not know are assignable only to themselves.
func (c *Catalog) IsAssignable(candidate, target TypeName) bool {
	if candidate == target {
		return true
	}
	decl, ok := c.decls[candidate]
	if !ok {
		return false
	}
	if decl.Superclass != nil && c.IsAssignable(decl.Superclass.RawType(), target) {
		return true
	}
	for _, iface := range decl.Interfaces {
		if c.IsAssignable(iface.RawType(), target) {
			return true
		}
	}
	return false
}

// Declarations returns all declarations in the order they were declared.
func (c *Catalog) Declarations() []Declaration {
	out := make([]Declaration, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, *c.decls[name])
	}
	return out
}
