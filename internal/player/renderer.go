package player

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Renderable is the opaque contract to an individual content renderer.
type Renderable interface {
	Show(config json.RawMessage) error
	Stop()
}

// RendererFactory builds a renderable for one content kind.
type RendererFactory func() Renderable

// RendererRegistry maps a content-kind tag to its renderer factory. Kinds
// are validated when registered, so dispatch never hits an unchecked string
// switch.
type RendererRegistry struct {
	mu        sync.RWMutex
	factories map[string]RendererFactory
}

func NewRendererRegistry() *RendererRegistry {
	return &RendererRegistry{factories: make(map[string]RendererFactory)}
}

// Register installs a factory for kind. Empty kinds and duplicates are
// registration errors.
func (r *RendererRegistry) Register(kind string, factory RendererFactory) error {
	if kind == "" {
		return fmt.Errorf("renderer kind must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("renderer factory for %q must not be nil", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("renderer for %q already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

// Render shows content of the given kind. An unknown kind is a logged no-op.
func (r *RendererRegistry) Render(kind string, config json.RawMessage) Renderable {
	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		log.Warn().Str("kind", kind).Msg("no renderer registered for content kind")
		return nil
	}
	renderable := factory()
	if err := renderable.Show(config); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("renderer failed")
		return nil
	}
	return renderable
}

// Kinds returns the registered content kinds.
func (r *RendererRegistry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	return out
}
