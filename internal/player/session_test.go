package player

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumen-signage/lumen/internal/model"
)

type recordingEffects struct {
	mu          sync.Mutex
	modes       []string
	interactive int
	signage     int
}

func (r *recordingEffects) ShowInteractive(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interactive++
}
func (r *recordingEffects) ShowSignage() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signage++
}
func (r *recordingEffects) ModeChanged(mode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes = append(r.modes, mode)
}

func (r *recordingEffects) modeLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.modes...)
}

func hybridConfig() model.ScreenConfig {
	return model.ScreenConfig{
		Mode:               model.ModeHybrid,
		TouchToInteract:    true,
		IdleTimeoutSeconds: 1,
	}
}

func newTestSession(cfg model.ScreenConfig) (*Session, *recordingEffects) {
	effects := &recordingEffects{}
	s := NewSession(cfg, effects)
	s.idle = 60 * time.Millisecond
	s.fade = 5 * time.Millisecond
	return s, effects
}

func TestTouchEntersInteractive(t *testing.T) {
	s, effects := newTestSession(hybridConfig())

	s.Touch()
	assert.Equal(t, model.SessionInteractive, s.State())
	assert.Equal(t, []string{model.SessionInteractive}, effects.modeLog())
}

func TestTouchIgnoredWhenSignageOnly(t *testing.T) {
	cfg := hybridConfig()
	cfg.Mode = model.ModeSignageOnly
	s, _ := newTestSession(cfg)

	s.Touch()
	assert.Equal(t, model.SessionSignage, s.State())
}

func TestTouchIgnoredWithoutTouchToInteract(t *testing.T) {
	cfg := hybridConfig()
	cfg.TouchToInteract = false
	s, _ := newTestSession(cfg)

	s.Touch()
	assert.Equal(t, model.SessionSignage, s.State())
}

func TestIdleTimeoutReturnsToSignage(t *testing.T) {
	s, effects := newTestSession(hybridConfig())
	s.Touch()

	assert.Eventually(t, func() bool {
		return s.State() == model.SessionSignage
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{model.SessionInteractive, model.SessionSignage}, effects.modeLog())
}

func TestActivityRestartsIdleCountdown(t *testing.T) {
	s, _ := newTestSession(hybridConfig())
	s.Touch()

	// Keep poking before the countdown expires; the session must stay
	// interactive well past the original deadline.
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		s.Activity()
		assert.Equal(t, model.SessionInteractive, s.State())
	}

	// Stop poking; it falls back on its own.
	assert.Eventually(t, func() bool {
		return s.State() == model.SessionSignage
	}, time.Second, 5*time.Millisecond)
}

func TestNonAlertContentEvictsInteractive(t *testing.T) {
	s, _ := newTestSession(hybridConfig())
	s.Touch()

	s.ContentArrived(model.PayloadURL)
	assert.Eventually(t, func() bool {
		return s.State() == model.SessionSignage
	}, 200*time.Millisecond, 2*time.Millisecond)
}

func TestAlertDoesNotEvictInteractive(t *testing.T) {
	s, _ := newTestSession(hybridConfig())
	s.Touch()

	s.ContentArrived(model.PayloadAlert)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, model.SessionInteractive, s.State())
}

func TestForceModeOverridesBothWays(t *testing.T) {
	s, _ := newTestSession(hybridConfig())

	s.ForceMode(model.SessionInteractive)
	assert.Equal(t, model.SessionInteractive, s.State())

	s.ForceMode(model.SessionSignage)
	assert.Eventually(t, func() bool {
		return s.State() == model.SessionSignage
	}, 200*time.Millisecond, 2*time.Millisecond)
}

func TestStaleIdleTimerIsIgnoredAfterReentry(t *testing.T) {
	s, _ := newTestSession(hybridConfig())
	s.Touch()

	// Force out and straight back in; the first countdown's timer fires
	// mid-life of the second session and must not end it early.
	s.ForceMode(model.SessionSignage)
	assert.Eventually(t, func() bool {
		return s.State() == model.SessionSignage
	}, 200*time.Millisecond, 2*time.Millisecond)

	s.idle = 500 * time.Millisecond
	s.Touch()
	time.Sleep(100 * time.Millisecond) // past the first (stale) deadline
	assert.Equal(t, model.SessionInteractive, s.State())
}
