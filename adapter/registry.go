package adapter

// Registry owns the set of adapter descriptors available to the CLI.
// Names are unique across the whole registry, not just within a kind.
// Built once at process start; never mutated afterwards.
type Registry struct {
	order  []string
	byName map[string]Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Descriptor)}
}

// Register validates a descriptor and adds it to the registry. A
// duplicate name, an empty name, or a constructor not matching the
// declared kind is a RegistrationError.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return &RegistrationError{Name: d.Name, Message: "name must not be empty"}
	}
	if _, exists := r.byName[d.Name]; exists {
		return &RegistrationError{Name: d.Name, Message: "name already registered"}
	}
	switch d.Kind {
	case KindReader:
		if d.NewReader == nil || d.NewWriter != nil {
			return &RegistrationError{Name: d.Name, Message: "reader descriptor must set NewReader only"}
		}
	case KindWriter:
		if d.NewWriter == nil || d.NewReader != nil {
			return &RegistrationError{Name: d.Name, Message: "writer descriptor must set NewWriter only"}
		}
	default:
		return &RegistrationError{Name: d.Name, Message: "kind must be reader or writer"}
	}
	r.byName[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Descriptors lists every descriptor in registration order. The order is
// stable but carries no semantics.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// ByKind lists the descriptors of one kind in registration order.
func (r *Registry) ByKind(kind Kind) []Descriptor {
	var out []Descriptor
	for _, name := range r.order {
		if d := r.byName[name]; d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
