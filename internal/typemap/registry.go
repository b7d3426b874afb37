package typemap

import (
	"github.com/cmmoran/cstsgen/internal/model"
)

// Registry holds what discovery learned about declared names: which
// qualified names are enums and which simple names are nested inside which
// owners. A nil *Registry knows nothing.
type Registry struct {
	enums  map[string]struct{}            // "Namespace.Name"
	nested map[string]map[string]struct{} // owner simple name -> nested simple names
}

// NewRegistry indexes every enum and nested declaration of groups.
func NewRegistry(groups []*model.NamespaceGroup) *Registry {
	r := &Registry{
		enums:  map[string]struct{}{},
		nested: map[string]map[string]struct{}{},
	}
	for _, g := range groups {
		for _, e := range g.Enums {
			r.AddEnum(g.Path, e.Name)
		}
		for _, d := range g.Declarations {
			r.addDeclaration(g.Path, d)
		}
	}
	return r
}

func (r *Registry) addDeclaration(namespace string, d *model.Declaration) {
	owner := namespace + "." + d.Name
	for _, e := range d.NestedEnums {
		r.AddNested(d.Name, e.Name)
	}
	for _, n := range d.Nested {
		r.AddNested(d.Name, n.Name)
		r.addDeclaration(owner, n)
	}
}

// AddEnum records namespace.name as an enum.
func (r *Registry) AddEnum(namespace, name string) {
	r.enums[namespace+"."+name] = struct{}{}
}

// AddNested records name as declared inside owner.
func (r *Registry) AddNested(owner, name string) {
	set, ok := r.nested[owner]
	if !ok {
		set = map[string]struct{}{}
		r.nested[owner] = set
	}
	set[name] = struct{}{}
}

// IsEnum reports whether qualifier.name was declared as an enum.
func (r *Registry) IsEnum(qualifier, name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.enums[qualifier+"."+name]
	return ok
}

// IsNested reports whether name is declared inside a type named owner.
func (r *Registry) IsNested(owner, name string) bool {
	if r == nil || owner == "" {
		return false
	}
	_, ok := r.nested[owner][name]
	return ok
}
