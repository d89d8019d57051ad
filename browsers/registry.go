package browsers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownBrowser is returned when a browser name is not in the registry.
var ErrUnknownBrowser = errors.New("unknown browser")

// Constructor creates a browser variant for an environment.
type Constructor func(Environment) Browser

// Registry maps symbolic browser names to constructors. Names are case-insensitive.
type Registry struct {
	constructors map[string]Constructor
	lock         sync.RWMutex
}

// NewRegistry returns a Registry containing the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]Constructor)}
	r.Register("firefox", NewFirefox)
	r.Register("safari", NewSafari)
	r.Register("ie", NewIE)
	r.Register("konqueror", NewKonqueror)
	r.Register("chrome", NewChrome)
	return r
}

func (r *Registry) Register(name string, c Constructor) {
	r.lock.Lock()
	r.constructors[strings.ToLower(name)] = c
	r.lock.Unlock()
}

func (r *Registry) New(name string, env Environment) (Browser, error) {
	r.lock.RLock()
	c := r.constructors[strings.ToLower(name)]
	r.lock.RUnlock()
	if c == nil {
		return nil, fmt.Errorf("%w %q (known browsers: %s)", ErrUnknownBrowser, name, strings.Join(r.Names(), ", "))
	}
	return c(env), nil
}

func (r *Registry) Names() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for n := range r.constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Register adds a variant to the default registry.
func Register(name string, c Constructor) {
	defaultRegistry.Register(name, c)
}

// Named creates a browser from the default registry.
func Named(name string, env Environment) (Browser, error) {
	return defaultRegistry.New(name, env)
}
