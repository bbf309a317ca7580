package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
	"github.com/lumen-signage/lumen/internal/player"
)

// stubRenderable stands in for a real surface; rendering is an external
// concern consumed through the (kind, config) contract.
type stubRenderable struct{ kind string }

func (s *stubRenderable) Show(config json.RawMessage) error {
	log.Info().Str("kind", s.kind).RawJSON("config", orEmpty(config)).Msg("render")
	return nil
}
func (s *stubRenderable) Stop() {}

func orEmpty(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("{}")
	}
	return raw
}

// logEffects logs session and playback effects; a real player swaps in its
// render pipeline here.
type logEffects struct {
	client *player.Client
}

func (e *logEffects) ShowInteractive(url string) {
	log.Info().Str("url", url).Msg("showing interactive surface")
}
func (e *logEffects) ShowSignage() { log.Info().Msg("showing signage surface") }
func (e *logEffects) ModeChanged(mode string) {
	log.Info().Str("mode", mode).Msg("mode changed")
	if e.client != nil {
		e.client.NoteModeChange(mode)
	}
}
func (e *logEffects) ShowItem(item model.PlaylistItem) {
	log.Info().Str("item", item.Name).Str("content_type", item.ContentType).Msg("playing item")
}
func (e *logEffects) Transition(kind string) { log.Debug().Str("transition", kind).Msg("transition") }
func (e *logEffects) Completed(playlistID string) {
	log.Info().Str("playlist_id", playlistID).Msg("playlist finished")
}

func main() {
	_ = godotenv.Load()

	serverURL := os.Getenv("SERVER_WS_URL")
	if serverURL == "" {
		serverURL = "ws://localhost:8080/api/screen/ws"
	}
	screenID := os.Getenv("SCREEN_ID")
	if screenID == "" {
		log.Fatal().Msg("SCREEN_ID is required")
	}
	name := os.Getenv("SCREEN_NAME")
	if name == "" {
		name = screenID
	}

	cfg := model.ScreenConfig{
		Mode:               getenvDefault("SCREEN_MODE", model.ModeHybrid),
		InteractiveURL:     os.Getenv("INTERACTIVE_URL"),
		IdleTimeoutSeconds: getenvInt("IDLE_TIMEOUT_SECONDS", 120),
		TouchToInteract:    os.Getenv("TOUCH_TO_INTERACT") == "true",
	}

	renderers := player.NewRendererRegistry()
	for _, kind := range []string{model.PayloadURL, model.PayloadWidget, model.PayloadMedia, model.ItemTemplate} {
		k := kind
		if err := renderers.Register(k, func() player.Renderable { return &stubRenderable{kind: k} }); err != nil {
			log.Fatal().Err(err).Str("kind", k).Msg("renderer registration failed")
		}
	}

	effects := &logEffects{}
	engine := player.NewEngine(effects)

	// Kiosk screens render a fixed embedded surface and never run the mode
	// state machine.
	var session *player.Session
	if cfg.Mode != model.ModeKiosk {
		session = player.NewSession(cfg, effects)
	} else {
		log.Info().Str("url", cfg.InteractiveURL).Msg("kiosk mode, showing fixed surface")
	}

	client := player.NewClient(serverURL, screenID, name, session, engine, renderers)
	effects.client = client

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	client.Run(ctx)
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
