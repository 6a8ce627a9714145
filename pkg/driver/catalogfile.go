// Package driver loads and writes catalog documents: declarative YAML files
// describing type declarations, plus fetching such documents from remote git
// repositories into a local cache.
package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gentype/resolver-go/pkg/catalog"
)

// catalogDisk mirrors the on-disk document shape.
type catalogDisk struct {
	Types []typeDisk `yaml:"types"`
}

type typeDisk struct {
	Name       string        `yaml:"name"`
	Params     []string      `yaml:"params,omitempty"`
	Interface  bool          `yaml:"interface,omitempty"`
	Extends    *typeRefDisk  `yaml:"extends,omitempty"`
	Implements []typeRefDisk `yaml:"implements,omitempty"`
}

type typeRefDisk struct {
	Name string        `yaml:"name"`
	Args []typeArgDisk `yaml:"args,omitempty"`
}

// typeArgDisk sets exactly one of Param or Type. Param must name a type
// parameter declared by the enclosing type.
type typeArgDisk struct {
	Param string `yaml:"param,omitempty"`
	Type  string `yaml:"type,omitempty"`
}

// LoadCatalog parses a catalog document from disk.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog document: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("catalog document: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw catalogDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("catalog document: parse %s: %w", abs, err)
	}
	return raw.toCatalog()
}

// WriteCatalog serialises a catalog to a document at path. Declarations keep
// their declaration order, so Load after Write yields the same catalog.
func WriteCatalog(c *catalog.Catalog, path string) error {
	if c == nil {
		return fmt.Errorf("catalog document: nil catalog")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("catalog document: resolve %s: %w", path, err)
	}

	data := toDisk(c)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("catalog document: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("catalog document: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("catalog document: write %s: %w", abs, err)
	}
	return nil
}

func (d catalogDisk) toCatalog() (*catalog.Catalog, error) {
	c := catalog.New()
	for _, entry := range d.Types {
		decl, err := entry.toDeclaration()
		if err != nil {
			return nil, err
		}
		if err := c.Declare(decl); err != nil {
			return nil, fmt.Errorf("catalog document: %w", err)
		}
	}
	return c, nil
}

func (d typeDisk) toDeclaration() (catalog.Declaration, error) {
	owner := catalog.TypeName(d.Name)
	decl := catalog.Declaration{
		Name:      owner,
		Params:    d.Params,
		Interface: d.Interface,
	}
	if d.Extends != nil {
		super, err := d.Extends.toRef(owner, d.Params)
		if err != nil {
			return catalog.Declaration{}, err
		}
		decl.Superclass = super
	}
	for _, iface := range d.Implements {
		ref, err := iface.toRef(owner, d.Params)
		if err != nil {
			return catalog.Declaration{}, err
		}
		decl.Interfaces = append(decl.Interfaces, ref)
	}
	return decl, nil
}

func (d typeRefDisk) toRef(owner catalog.TypeName, params []string) (catalog.TypeRef, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("catalog document: type %s: reference without a name", owner)
	}
	if d.Args == nil {
		return catalog.RawRef{Name: catalog.TypeName(d.Name)}, nil
	}
	args := make([]catalog.TypeArg, len(d.Args))
	for i, arg := range d.Args {
		switch {
		case arg.Param != "" && arg.Type != "":
			return nil, fmt.Errorf("catalog document: type %s: reference %s argument %d sets both param and type", owner, d.Name, i)
		case arg.Param != "":
			index := paramIndex(params, arg.Param)
			if index < 0 {
				return nil, fmt.Errorf("catalog document: type %s: unknown type parameter %q in reference %s", owner, arg.Param, d.Name)
			}
			args[i] = catalog.ParamArg{Param: catalog.TypeParam{Owner: owner, Index: index, Name: arg.Param}}
		case arg.Type != "":
			args[i] = catalog.ConcreteArg{Type: catalog.TypeName(arg.Type)}
		default:
			return nil, fmt.Errorf("catalog document: type %s: reference %s argument %d sets neither param nor type", owner, d.Name, i)
		}
	}
	return catalog.ParameterizedRef{Name: catalog.TypeName(d.Name), Args: args}, nil
}

func paramIndex(params []string, name string) int {
	for i, param := range params {
		if param == name {
			return i
		}
	}
	return -1
}

func toDisk(c *catalog.Catalog) catalogDisk {
	var out catalogDisk
	for _, decl := range c.Declarations() {
		entry := typeDisk{
			Name:      string(decl.Name),
			Params:    decl.Params,
			Interface: decl.Interface,
		}
		if decl.Superclass != nil {
			ref := refToDisk(decl.Superclass)
			entry.Extends = &ref
		}
		for _, iface := range decl.Interfaces {
			entry.Implements = append(entry.Implements, refToDisk(iface))
		}
		out.Types = append(out.Types, entry)
	}
	return out
}

func refToDisk(ref catalog.TypeRef) typeRefDisk {
	switch val := ref.(type) {
	case catalog.RawRef:
		return typeRefDisk{Name: string(val.Name)}
	case catalog.ParameterizedRef:
		args := make([]typeArgDisk, len(val.Args))
		for i, arg := range val.Args {
			switch expr := arg.(type) {
			case catalog.ParamArg:
				args[i] = typeArgDisk{Param: expr.Param.Name}
			case catalog.ConcreteArg:
				args[i] = typeArgDisk{Type: string(expr.Type)}
			}
		}
		return typeRefDisk{Name: string(val.Name), Args: args}
	}
	return typeRefDisk{}
}
