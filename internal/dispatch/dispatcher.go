// Package dispatch resolves a target specifier to live connections and fans
// out a content payload. Delivery is at-most-once, best-effort: no acks, no
// retries, nothing queued for offline screens.
package dispatch

import (
	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
	"github.com/lumen-signage/lumen/internal/registry"
)

// Store is the slice of the durable store the dispatcher needs to resolve
// group targets.
type Store interface {
	GetGroup(id string) (model.ScreenGroup, error)
	ListScreensInGroup(groupID string) ([]model.Screen, error)
}

type Dispatcher struct {
	reg   *registry.Registry
	store Store

	// exclude holds screen ids opted out of push("all"), e.g. dedicated
	// command-center displays.
	exclude map[string]bool
}

func New(reg *registry.Registry, store Store, broadcastExclude []string) *Dispatcher {
	ex := make(map[string]bool, len(broadcastExclude))
	for _, id := range broadcastExclude {
		ex[id] = true
	}
	return &Dispatcher{reg: reg, store: store, exclude: ex}
}

// Push resolves target and delivers payload to every live match, honoring
// the broadcast exclusion set for "all". Returns the delivered count.
func (d *Dispatcher) Push(target string, payload model.ContentPayload) int {
	return d.push(target, payload, false)
}

// PushOverride is the "all, no exclusions" variant used for alert and
// security payloads; for non-"all" targets it behaves exactly like Push.
func (d *Dispatcher) PushOverride(target string, payload model.ContentPayload) int {
	return d.push(target, payload, true)
}

func (d *Dispatcher) push(target string, payload model.ContentPayload, override bool) int {
	env := model.Envelope{Kind: "content", Payload: &payload}
	delivered := 0
	for id, conn := range d.resolve(target, override) {
		if err := conn.Send(env); err != nil {
			log.Error().Err(err).Str("screen_id", id).Str("type", payload.Type).Msg("push delivery failed")
			continue
		}
		delivered++
	}
	log.Debug().
		Str("target", target).
		Str("type", payload.Type).
		Int("delivered", delivered).
		Msg("push dispatched")
	return delivered
}

// resolve maps a target specifier to the set of live connections. An unknown
// target falls through to a literal screen-id lookup and resolves empty, so
// pushing to it is a silent no-op.
func (d *Dispatcher) resolve(target string, override bool) map[string]registry.Conn {
	if target == model.TargetAll {
		live := d.reg.Snapshot()
		if !override {
			for id := range live {
				if d.exclude[id] {
					delete(live, id)
				}
			}
		}
		return live
	}

	if _, err := d.store.GetGroup(target); err == nil {
		members, err := d.store.ListScreensInGroup(target)
		if err != nil {
			log.Error().Err(err).Str("group_id", target).Msg("failed to resolve group members")
			return nil
		}
		out := make(map[string]registry.Conn)
		for _, s := range members {
			if conn, ok := d.reg.Get(s.ID); ok {
				out[s.ID] = conn
			}
		}
		return out
	}

	if conn, ok := d.reg.Get(target); ok {
		return map[string]registry.Conn{target: conn}
	}
	return nil
}
