package player

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
)

// transitionLead is how long before an item boundary the transition effect
// starts playing.
const transitionLead = 500 * time.Millisecond

// fallbackItemSeconds covers items pushed without a duration (raw pushes
// bypass store normalization); a zero-duration item would otherwise advance
// on every timer tick.
const fallbackItemSeconds = 10

// PlaybackEffects receives the rendering side effects of playlist playback.
type PlaybackEffects interface {
	// ShowItem renders the given playlist item.
	ShowItem(item model.PlaylistItem)
	// Transition plays the configured transition (fade/slide/none) into the
	// next item.
	Transition(kind string)
	// Completed fires once when a non-looping playlist finishes its last item.
	Completed(playlistID string)
}

// Engine advances through a playlist's items. Non-video items are driven by
// a monotonic-clock deadline with a single scheduled timer per active item;
// video items advance on the renderer's ended signal and their duration
// field is ignored. Shuffle permutes the order once at load, not per loop.
type Engine struct {
	mu sync.Mutex

	playlist model.Playlist
	order    []int
	pos      int
	playing  bool

	gen       int
	itemStart time.Time
	effects   PlaybackEffects
	now       func() time.Time

	// second is the wall-clock length of one item duration unit; shortened
	// in tests.
	second time.Duration
	lead   time.Duration
}

func NewEngine(effects PlaybackEffects) *Engine {
	return &Engine{effects: effects, now: time.Now, second: time.Second, lead: transitionLead}
}

// Load replaces the active playlist and starts playback from the first item.
// Any timer armed for the previous playlist becomes stale.
func (e *Engine) Load(p model.Playlist) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.gen++
	e.playlist = p
	e.order = make([]int, len(p.Items))
	for i := range e.order {
		e.order[i] = i
	}
	if p.Shuffle {
		rand.Shuffle(len(e.order), func(i, j int) { e.order[i], e.order[j] = e.order[j], e.order[i] })
	}
	e.pos = 0
	if len(p.Items) == 0 {
		e.playing = false
		log.Warn().Str("playlist_id", p.ID).Msg("loaded empty playlist")
		return
	}
	e.playing = true
	log.Info().Str("playlist_id", p.ID).Int("items", len(p.Items)).Bool("loop", p.Loop).Msg("playlist loaded")
	e.startItemLocked()
}

// Stop halts playback; armed timers become stale.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	e.playing = false
}

// CurrentIndex returns the playlist position of the item now showing, or -1
// when idle.
func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.playing {
		return -1
	}
	return e.order[e.pos]
}

// Playing reports whether a playlist is actively advancing.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Progress returns elapsed time on the current item.
func (e *Engine) Progress() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.playing {
		return 0
	}
	return e.now().Sub(e.itemStart)
}

// VideoEnded is the renderer's ended signal for the currently playing video
// item; it is what advances video items instead of a timer.
func (e *Engine) VideoEnded() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.playing || e.currentLocked().ContentType != model.ItemVideo {
		return
	}
	e.advanceLocked()
}

func (e *Engine) currentLocked() model.PlaylistItem {
	return e.playlist.Items[e.order[e.pos]]
}

// startItemLocked renders the current item and, for non-video items, arms
// the deadline timer. The timer fires at duration minus the transition lead,
// plays the transition, then flips the index when the lead elapses.
func (e *Engine) startItemLocked() {
	item := e.currentLocked()
	e.itemStart = e.now()
	e.effects.ShowItem(item)

	if item.ContentType == model.ItemVideo {
		// The video renderer owns advancement via VideoEnded.
		return
	}

	seconds := item.DurationSeconds
	if seconds <= 0 {
		seconds = fallbackItemSeconds
	}
	total := time.Duration(seconds) * e.second
	lead := e.lead
	if e.playlist.Transition == model.TransitionNone || total <= lead {
		lead = 0
	}

	gen := e.gen
	time.AfterFunc(total-lead, func() { e.deadline(gen, lead) })
}

func (e *Engine) deadline(gen int, lead time.Duration) {
	e.mu.Lock()
	if gen != e.gen || !e.playing {
		e.mu.Unlock()
		return
	}
	if lead == 0 {
		e.advanceLocked()
		e.mu.Unlock()
		return
	}
	transition := e.playlist.Transition
	e.mu.Unlock()

	e.effects.Transition(transition)

	time.AfterFunc(lead, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if gen != e.gen || !e.playing {
			return
		}
		e.advanceLocked()
	})
}

// advanceLocked moves to the next item, wrapping when the playlist loops and
// signaling completion otherwise.
func (e *Engine) advanceLocked() {
	if e.pos+1 < len(e.order) {
		e.pos++
		e.startItemLocked()
		return
	}
	if e.playlist.Loop {
		e.pos = 0
		e.startItemLocked()
		return
	}
	e.playing = false
	e.gen++
	log.Info().Str("playlist_id", e.playlist.ID).Msg("playlist complete")
	e.effects.Completed(e.playlist.ID)
}
