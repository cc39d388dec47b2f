package emit

import (
	"fmt"

	"mirror-generator/internal/diagnostic"
	"mirror-generator/internal/schema"
)

// Registry holds the declarations of one generation run in emission order.
// Later declarations and the converter synthesizer resolve references
// through it.
type Registry struct {
	model   *schema.Model
	decls   map[string]Declaration
	order   []Declaration
	modules map[string]string // file stem -> declaration name
}

// NewRegistry returns an empty registry for m.
func NewRegistry(m *schema.Model) *Registry {
	return &Registry{
		model:   m,
		decls:   map[string]Declaration{},
		modules: map[string]string{},
	}
}

// Model returns the schema the registry was built for.
func (r *Registry) Model() *schema.Model {
	return r.model
}

// Register adds d. Every named type d references must already be registered.
func (r *Registry) Register(d Declaration) error {
	name := d.Name()
	if _, dup := r.decls[name]; dup {
		return &diagnostic.DuplicateTypeError{Type: name}
	}

	stem := FileStem(name)
	if other, clash := r.modules[stem]; clash {
		return &diagnostic.ReservedNameError{
			Type:   name,
			Name:   name,
			Reason: fmt.Sprintf("maps to module %q already used by %s", stem, other),
		}
	}

	for _, ref := range d.Source().References() {
		if _, ok := r.decls[ref]; !ok {
			return fmt.Errorf("%s references %s before its declaration was emitted", name, ref)
		}
	}

	r.decls[name] = d
	r.modules[stem] = name
	r.order = append(r.order, d)

	return nil
}

// Lookup returns the declaration mirroring the named type.
func (r *Registry) Lookup(name string) (Declaration, bool) {
	d, ok := r.decls[name]
	return d, ok
}

// Ordered returns the declarations in emission order.
func (r *Registry) Ordered() []Declaration {
	return r.order
}

// Len returns the number of registered declarations.
func (r *Registry) Len() int {
	return len(r.order)
}
