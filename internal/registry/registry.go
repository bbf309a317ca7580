// Package registry tracks which screens currently hold a live connection.
// It is the sole authority on reachability: a screen is online iff it is
// present here.
package registry

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
)

// Conn is a live transport handle to one screen. Implementations wrap a
// websocket connection or an MQTT topic pair.
type Conn interface {
	Send(env model.Envelope) error
	Close()
	Kind() string
}

// Registry is a mutex-guarded screenID -> Conn table. Exactly one live
// connection per screen id: a new registration replaces (and closes) the
// prior one.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func New() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Register installs conn as the live handle for screenID and returns the
// replaced connection, if any. The caller owns store-side effects.
func (r *Registry) Register(screenID string, conn Conn) (replaced Conn) {
	r.mu.Lock()
	prev := r.conns[screenID]
	r.conns[screenID] = conn
	r.mu.Unlock()

	if prev != nil {
		prev.Close()
		log.Info().Str("screen_id", screenID).Str("transport", conn.Kind()).Msg("replaced existing screen connection")
	} else {
		log.Info().Str("screen_id", screenID).Str("transport", conn.Kind()).Msg("screen connected")
	}
	return prev
}

// Unregister removes the entry only if conn is still the registered handle,
// so a replaced connection's late disconnect cannot evict its successor.
// Reports whether an entry was removed.
func (r *Registry) Unregister(screenID string, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.conns[screenID]; ok && cur == conn {
		delete(r.conns, screenID)
		log.Info().Str("screen_id", screenID).Msg("screen disconnected")
		return true
	}
	return false
}

// Get returns the live connection for screenID, if any.
func (r *Registry) Get(screenID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[screenID]
	return c, ok
}

// IsOnline reports whether the screen currently has a live connection.
func (r *Registry) IsOnline(screenID string) bool {
	_, ok := r.Get(screenID)
	return ok
}

// Snapshot returns the currently connected screen ids with their handles.
// Dispatch resolves against this snapshot; screens registering afterwards
// are not included in an in-flight broadcast.
func (r *Registry) Snapshot() map[string]Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Conn, len(r.conns))
	for id, c := range r.conns {
		out[id] = c
	}
	return out
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
