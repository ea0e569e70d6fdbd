package render

import (
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrRendererNotFound is returned when no renderer carries the requested name.
	ErrRendererNotFound = errors.New("render: renderer not found")
	// ErrDuplicateRenderer is returned when a name is registered twice.
	ErrDuplicateRenderer = errors.New("render: renderer already registered")
)

// Registry holds the renderers a view may answer with, by name.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
}

// NewRegistry creates a registry holding renderers.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{byName: make(map[string]Renderer, len(renderers))}
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds renderer under its Name().
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRenderer, name)
	}
	r.byName[name] = renderer
	return nil
}

// Get returns the renderer called name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

// Negotiate picks the renderer for a request. An explicit format wins and
// must exist. Otherwise the first Accept media type served by a registered
// renderer is used, and preferred is the fallback.
func (r *Registry) Negotiate(format, accept, preferred string) (Renderer, error) {
	if format = strings.TrimSpace(format); format != "" {
		return r.Get(format)
	}
	for _, part := range strings.Split(accept, ",") {
		media, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil || media == "*/*" {
			continue
		}
		if renderer, ok := r.byMediaType(media); ok {
			return renderer, nil
		}
	}
	return r.Get(preferred)
}

func (r *Registry) byMediaType(media string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.names() {
		renderer := r.byName[name]
		ct, _, err := mime.ParseMediaType(renderer.ContentType())
		if err == nil && ct == media {
			return renderer, true
		}
	}
	return nil, false
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
