package player

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-signage/lumen/internal/model"
)

type playbackRecorder struct {
	mu          sync.Mutex
	shown       []string
	transitions []string
	completed   []string
}

func (p *playbackRecorder) ShowItem(item model.PlaylistItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, item.ID)
}
func (p *playbackRecorder) Transition(kind string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transitions = append(p.transitions, kind)
}
func (p *playbackRecorder) Completed(playlistID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, playlistID)
}

func (p *playbackRecorder) shownIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.shown...)
}

func (p *playbackRecorder) done() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.completed...)
}

// newTestEngine compresses one "second" of item duration to 10ms so item
// boundaries arrive quickly.
func newTestEngine() (*Engine, *playbackRecorder) {
	rec := &playbackRecorder{}
	e := NewEngine(rec)
	e.second = 10 * time.Millisecond
	e.lead = 0
	return e, rec
}

func item(id string, contentType string, duration int) model.PlaylistItem {
	return model.PlaylistItem{ID: id, ContentType: contentType, DurationSeconds: duration}
}

func TestNonLoopingPlaylistRunsOnceAndCompletes(t *testing.T) {
	e, rec := newTestEngine()
	e.Load(model.Playlist{
		ID:         "pl",
		Transition: model.TransitionNone,
		Items: []model.PlaylistItem{
			item("a", model.ItemWidget, 2),
			item("b", model.ItemURL, 3),
		},
	})

	assert.Equal(t, 0, e.CurrentIndex())
	assert.Eventually(t, func() bool {
		return len(rec.done()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"a", "b"}, rec.shownIDs(), "index advances exactly once per boundary")
	assert.Equal(t, []string{"pl"}, rec.done())
	assert.False(t, e.Playing())
	assert.Equal(t, -1, e.CurrentIndex())
}

func TestLoopingPlaylistWrapsToFirstItem(t *testing.T) {
	e, rec := newTestEngine()
	e.Load(model.Playlist{
		ID:         "pl",
		Loop:       true,
		Transition: model.TransitionNone,
		Items: []model.PlaylistItem{
			item("a", model.ItemWidget, 2),
			item("b", model.ItemURL, 2),
		},
	})

	// After a full cycle the first item starts its second run.
	assert.Eventually(t, func() bool {
		shown := rec.shownIDs()
		return len(shown) >= 3 && shown[2] == "a"
	}, time.Second, 5*time.Millisecond)
	assert.True(t, e.Playing())
	assert.Empty(t, rec.done(), "a looping playlist never completes")
}

func TestVideoItemAdvancesOnEndedSignalNotTimer(t *testing.T) {
	e, rec := newTestEngine()
	e.Load(model.Playlist{
		ID:         "pl",
		Transition: model.TransitionNone,
		Items: []model.PlaylistItem{
			item("v", model.ItemVideo, 1), // duration is informational for video
			item("b", model.ItemURL, 2),
		},
	})

	// Well past the nominal duration, the video item is still current.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, e.CurrentIndex())

	e.VideoEnded()
	assert.Equal(t, 1, e.CurrentIndex())
	assert.Equal(t, []string{"v", "b"}, rec.shownIDs())
}

func TestVideoEndedIgnoredForNonVideoItem(t *testing.T) {
	e, _ := newTestEngine()
	e.Load(model.Playlist{
		ID:         "pl",
		Transition: model.TransitionNone,
		Items: []model.PlaylistItem{
			item("a", model.ItemWidget, 100),
			item("b", model.ItemURL, 100),
		},
	})

	e.VideoEnded()
	assert.Equal(t, 0, e.CurrentIndex(), "stray ended events must not advance timer-driven items")
}

func TestLoadReplacesActivePlaylist(t *testing.T) {
	e, rec := newTestEngine()
	e.Load(model.Playlist{
		ID:         "old",
		Loop:       true,
		Transition: model.TransitionNone,
		Items:      []model.PlaylistItem{item("old-a", model.ItemWidget, 1)},
	})
	e.Load(model.Playlist{
		ID:         "new",
		Transition: model.TransitionNone,
		Items:      []model.PlaylistItem{item("new-a", model.ItemWidget, 50)},
	})

	// The old playlist's timer is stale; nothing from it may fire again.
	time.Sleep(40 * time.Millisecond)
	shown := rec.shownIDs()
	assert.Equal(t, "new-a", shown[len(shown)-1])
	assert.Equal(t, 0, e.CurrentIndex())
}

func TestShufflePermutesOnceAtLoad(t *testing.T) {
	e, _ := newTestEngine()
	e.Load(model.Playlist{
		ID:      "pl",
		Shuffle: true,
		Loop:    true,
		Items: []model.PlaylistItem{
			item("a", model.ItemWidget, 100),
			item("b", model.ItemWidget, 100),
			item("c", model.ItemWidget, 100),
		},
	})

	first := e.CurrentIndex()
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 3)
	// Order is fixed for the life of the load.
	assert.ElementsMatch(t, []int{0, 1, 2}, e.order)
}

func TestStopHaltsAdvancement(t *testing.T) {
	e, rec := newTestEngine()
	e.Load(model.Playlist{
		ID:         "pl",
		Transition: model.TransitionNone,
		Items:      []model.PlaylistItem{item("a", model.ItemWidget, 1), item("b", model.ItemWidget, 1)},
	})
	e.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, []string{"a"}, rec.shownIDs())
	assert.False(t, e.Playing())
}

func TestZeroDurationItemFallsBackToDefaultLength(t *testing.T) {
	e, rec := newTestEngine()
	e.Load(model.Playlist{
		ID:         "pl",
		Loop:       true,
		Transition: model.TransitionNone,
		Items:      []model.PlaylistItem{item("a", model.ItemURL, 0)},
	})

	// A zero duration must not degenerate into back-to-back advancement.
	time.Sleep(40 * time.Millisecond)
	assert.True(t, e.Playing())
	assert.Equal(t, []string{"a"}, rec.shownIDs())
}
