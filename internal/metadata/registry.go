package metadata

import "sync"

type Registry struct {
	mu    sync.RWMutex
	types map[string]*ContentType
}

func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*ContentType),
	}
}

// ContentType returns the content type with the given slug, or nil.
func (r *Registry) ContentType(slug string) *ContentType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[slug]
}

// AllContentTypes returns all registered content types.
func (r *Registry) AllContentTypes() []*ContentType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]*ContentType, 0, len(r.types))
	for _, ct := range r.types {
		types = append(types, ct)
	}
	return types
}

// Register adds or replaces a single content type.
func (r *Registry) Register(ct *ContentType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[ct.Slug] = ct
}

// Load replaces all content types in the registry.
// Called during startup and after definitions change.
func (r *Registry) Load(types []*ContentType) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.types = make(map[string]*ContentType, len(types))
	for _, ct := range types {
		r.types[ct.Slug] = ct
	}
}
