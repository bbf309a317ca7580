// Package scheduler runs the periodic schedule evaluator: it matches the
// current local wall-clock time against enabled schedules and pushes the
// bound playlist to each schedule's target.
package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
)

// fireWindowSeconds limits pushes to the first seconds of each minute so an
// active schedule is not re-pushed on every tick for its whole window.
const fireWindowSeconds = 10

// Store is the slice of the durable store the evaluator reads.
type Store interface {
	ListEnabledSchedules() ([]model.Schedule, error)
	GetPlaylist(id string) (model.Playlist, error)
}

// Pusher is the dispatch surface the evaluator drives.
type Pusher interface {
	Push(target string, payload model.ContentPayload) int
}

type Evaluator struct {
	store      Store
	dispatcher Pusher
	period     time.Duration
	now        func() time.Time
}

func New(store Store, dispatcher Pusher, period time.Duration) *Evaluator {
	if period <= 0 {
		period = time.Minute
	}
	return &Evaluator{
		store:      store,
		dispatcher: dispatcher,
		period:     period,
		now:        time.Now,
	}
}

// Run ticks until ctx is cancelled.
func (e *Evaluator) Run(ctx context.Context) {
	ticker := time.NewTicker(e.period)
	defer ticker.Stop()

	log.Info().Dur("period", e.period).Msg("schedule evaluator started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("schedule evaluator stopped")
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick evaluates all enabled schedules once. Only ticks landing within the
// first seconds of a minute fire; matching schedules are processed in
// descending priority order with no mutual exclusion, so when two matches
// share a target the last one processed is what the screen ends up showing.
func (e *Evaluator) Tick() {
	now := e.now()
	if now.Second() >= fireWindowSeconds {
		return
	}

	schedules, err := e.store.ListEnabledSchedules()
	if err != nil {
		log.Error().Err(err).Msg("evaluator: failed to load schedules")
		return
	}

	for _, sc := range schedules {
		if !sc.Matches(now) {
			continue
		}
		playlist, err := e.store.GetPlaylist(sc.PlaylistID)
		if err != nil {
			log.Error().Err(err).
				Str("schedule_id", sc.ID).
				Str("playlist_id", sc.PlaylistID).
				Msg("evaluator: failed to load playlist")
			continue
		}
		delivered := e.dispatcher.Push(sc.ScreenTarget, PlaylistPayload(playlist, "schedule:"+sc.ID))
		log.Info().
			Str("schedule_id", sc.ID).
			Str("target", sc.ScreenTarget).
			Int("priority", sc.Priority).
			Int("delivered", delivered).
			Msg("schedule fired")
	}
}

// PlaylistPayload builds the wire payload carrying a full playlist.
func PlaylistPayload(p model.Playlist, source string) model.ContentPayload {
	content, _ := json.Marshal(p)
	return model.ContentPayload{
		Type:      model.PayloadPlaylist,
		Content:   content,
		Timestamp: time.Now(),
		Source:    source,
	}
}
