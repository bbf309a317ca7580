// Package player implements the screen-side agent: the display session state
// machine, the playlist playback engine, the renderer registry, and the
// connectivity loop back to the controller.
package player

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
)

// DefaultFade is the fixed fade played before Interactive flips back to
// Signage.
const DefaultFade = 500 * time.Millisecond

// SessionEffects receives the rendering side effects of mode transitions.
type SessionEffects interface {
	// ShowInteractive brings up the embedded interactive surface.
	ShowInteractive(url string)
	// ShowSignage restores signage rendering after the exit fade.
	ShowSignage()
	// ModeChanged reports every committed transition (used to emit the
	// mode-change frame upstream).
	ModeChanged(mode string)
}

// Session is the per-screen display mode state machine. Screens configured
// as kiosk never construct one; they render a fixed surface unconditionally.
//
// The transition table:
//
//	(Signage,     Touch)        -> Interactive   when touchToInteract && mode != signage-only
//	(Signage,     ForceMode(i)) -> Interactive
//	(Interactive, Activity)     -> Interactive   restarts the idle countdown
//	(Interactive, IdleTimeout)  -> Signage       after the exit fade
//	(Interactive, ForceMode(s)) -> Signage       after the exit fade
//	(Interactive, Content)      -> Signage       for any non-alert payload
//
// Every armed timer carries the generation at which it was armed; a timer
// that fires after a later transition sees a stale generation and does
// nothing, so no transition depends on timer cancellation succeeding.
type Session struct {
	mu  sync.Mutex
	cfg model.ScreenConfig

	state   string
	gen     int
	fade    time.Duration
	idle    time.Duration
	effects SessionEffects
}

func NewSession(cfg model.ScreenConfig, effects SessionEffects) *Session {
	idle := time.Duration(cfg.IdleTimeoutSeconds) * time.Second
	if idle <= 0 {
		idle = 120 * time.Second
	}
	s := &Session{
		cfg:     cfg,
		state:   model.SessionSignage,
		fade:    DefaultFade,
		idle:    idle,
		effects: effects,
	}
	return s
}

// State returns the current mode.
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetConfig applies an updated screen config; the next transition uses it.
func (s *Session) SetConfig(cfg model.ScreenConfig) {
	s.mu.Lock()
	s.cfg = cfg
	if idle := time.Duration(cfg.IdleTimeoutSeconds) * time.Second; idle > 0 {
		s.idle = idle
	}
	s.mu.Unlock()
}

// Touch handles a touch/click on the signage surface.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != model.SessionSignage {
		// Touch inside Interactive counts as activity.
		s.rearmIdleLocked()
		return
	}
	if !s.cfg.TouchToInteract || s.cfg.Mode == model.ModeSignageOnly || s.cfg.Mode == model.ModeKiosk {
		return
	}
	s.enterInteractiveLocked()
}

// Activity restarts the idle countdown. Local input and the cross-boundary
// signal from the embedded surface both land here.
func (s *Session) Activity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == model.SessionInteractive {
		s.rearmIdleLocked()
	}
}

// ForceMode is the admin set-mode override.
func (s *Session) ForceMode(mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch mode {
	case model.SessionInteractive:
		if s.state == model.SessionSignage {
			s.enterInteractiveLocked()
		}
	case model.SessionSignage:
		if s.state == model.SessionInteractive {
			s.exitToSignageLocked()
		}
	default:
		log.Warn().Str("mode", mode).Msg("ignoring unknown forced mode")
	}
}

// ContentArrived is called for every inbound content payload. Any non-alert
// payload evicts Interactive mode; alerts overlay without a transition.
func (s *Session) ContentArrived(payloadType string) {
	if payloadType == model.PayloadAlert {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == model.SessionInteractive {
		s.exitToSignageLocked()
	}
}

func (s *Session) enterInteractiveLocked() {
	s.state = model.SessionInteractive
	s.rearmIdleLocked()
	s.effects.ShowInteractive(s.cfg.InteractiveURL)
	s.effects.ModeChanged(model.SessionInteractive)
	log.Info().Msg("display session entered interactive mode")
}

// rearmIdleLocked bumps the generation and schedules a fresh idle timeout;
// the previous timer becomes stale rather than being cancelled.
func (s *Session) rearmIdleLocked() {
	s.gen++
	gen := s.gen
	time.AfterFunc(s.idle, func() { s.idleTimeout(gen) })
}

func (s *Session) idleTimeout(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != model.SessionInteractive {
		return
	}
	s.exitToSignageLocked()
}

// exitToSignageLocked plays the fixed fade, then flips the state. The flip
// carries the generation armed here so a reload or re-entry during the fade
// invalidates it.
func (s *Session) exitToSignageLocked() {
	s.gen++
	gen := s.gen
	time.AfterFunc(s.fade, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen || s.state != model.SessionInteractive {
			return
		}
		s.state = model.SessionSignage
		s.effects.ShowSignage()
		s.effects.ModeChanged(model.SessionSignage)
		log.Info().Msg("display session returned to signage mode")
	})
}
