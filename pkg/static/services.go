package static

import "sync"

const (
	// ListerService is the Services name under which a Lister is registered.
	ListerService = "lister"

	// OptionsService holds the *Options of the tree built on these
	// Services. New registers it.
	OptionsService = "options"
)

// Services is the explicit set of collaborators available to processors
// and listings, plus a cache of resources built for paths.
//
// Safe for concurrent use.
type Services struct {
	mu       sync.RWMutex
	services map[string]any
	paths    map[string]Resource
}

// NewServices returns an empty service set.
func NewServices() *Services {
	return &Services{
		services: make(map[string]any),
		paths:    make(map[string]Resource),
	}
}

// Register stores svc under name, replacing any previous entry.
func (s *Services) Register(name string, svc any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[name] = svc
}

// Lookup returns the service registered under name.
func (s *Services) Lookup(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[name]
	return svc, ok
}

// CachePath remembers res as the resource built for path. Processors use
// it to build the substitute for a file once and share it across requests.
func (s *Services) CachePath(path string, res Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths[path] = res
}

// CachedPath returns the resource cached for path.
func (s *Services) CachedPath(path string) (Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.paths[path]
	return res, ok
}

// Lister returns the registered Lister, if any.
func (s *Services) Lister() (Lister, bool) {
	svc, ok := s.Lookup(ListerService)
	if !ok {
		return nil, false
	}
	l, ok := svc.(Lister)
	return l, ok
}

// Options returns the tree configuration registered by New, if any.
func (s *Services) Options() (*Options, bool) {
	svc, ok := s.Lookup(OptionsService)
	if !ok {
		return nil, false
	}
	o, ok := svc.(*Options)
	return o, ok
}
