package image

import "strings"

// Registry maps provider names onto configured generators. Unknown names
// resolve to the default provider instead of erroring, matching the lenient
// provider selection the product has always shipped with.
type Registry struct {
	generators  map[string]Generator
	defaultName string
}

func NewRegistry(defaultName string) *Registry {
	return &Registry{
		generators:  make(map[string]Generator),
		defaultName: strings.ToLower(strings.TrimSpace(defaultName)),
	}
}

// Register adds a generator under the given name.
func (r *Registry) Register(name string, g Generator) {
	r.generators[strings.ToLower(strings.TrimSpace(name))] = g
}

// Resolve returns the generator for the requested name, falling back to the
// default provider when the name is unknown. The second return value is the
// name actually selected; nil means not even the default is configured.
func (r *Registry) Resolve(requested string) (Generator, string) {
	name := strings.ToLower(strings.TrimSpace(requested))
	if g, ok := r.generators[name]; ok {
		return g, name
	}
	if g, ok := r.generators[r.defaultName]; ok {
		return g, r.defaultName
	}
	return nil, requested
}

// DefaultName returns the configured default provider name.
func (r *Registry) DefaultName() string {
	return r.defaultName
}
