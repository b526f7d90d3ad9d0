package llm

import (
	"fmt"
	"sort"
)

// ModelRoute binds a logical route name to a provider and physical model name.
type ModelRoute struct {
	Name        string
	Provider    string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Registry resolves logical route names to providers. Routes let different
// parts of the assistant (intent parsing, code generation, plain chat) use
// different models without the call sites knowing provider details.
type Registry struct {
	providers    map[string]Provider
	routes       map[string]ModelRoute
	defaultRoute string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		routes:    make(map[string]ModelRoute),
	}
}

// RegisterProvider adds a provider implementation.
func (r *Registry) RegisterProvider(name string, p Provider) {
	r.providers[name] = p
}

// RegisterRoute adds a model route.
func (r *Registry) RegisterRoute(name string, route ModelRoute, isDefault bool) {
	route.Name = name
	r.routes[name] = route
	if isDefault || r.defaultRoute == "" {
		r.defaultRoute = name
	}
}

// Resolve returns the provider and route for a given route name. An empty
// name or a name with no registered route falls back to the default route,
// so callers may ask for a specialized route ("intent", "coder") without
// requiring operators to configure one.
func (r *Registry) Resolve(routeName string) (Provider, ModelRoute, error) {
	if routeName == "" {
		routeName = r.defaultRoute
	}

	route, ok := r.routes[routeName]
	if !ok {
		route, ok = r.routes[r.defaultRoute]
		if !ok {
			return nil, ModelRoute{}, fmt.Errorf("route %q not registered and no default route configured", routeName)
		}
	}

	p, ok := r.providers[route.Provider]
	if !ok {
		return nil, ModelRoute{}, fmt.Errorf("provider %q not registered for route %q", route.Provider, route.Name)
	}

	return p, route, nil
}

// Routes returns the registered route names in sorted order.
func (r *Registry) Routes() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
