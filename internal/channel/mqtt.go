package channel

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lumen-signage/lumen/internal/model"
)

// Topic layout: screens publish register/heartbeat/mode-change frames on
// screens/<id>/events with an "offline" last-will; the controller publishes
// envelopes on screens/<id>/commands.
const (
	eventsTopicFilter = "screens/+/events"
	commandTopicFmt   = "screens/%s/commands"
)

// MQTTBridge attaches screens on constrained firmware that cannot hold a
// websocket. Each registered screen gets an mqttConn in the same registry the
// websocket gateway uses, so the dispatcher stays transport-blind. Disconnect
// detection rides on the broker's last-will delivery.
type MQTTBridge struct {
	gateway *Gateway
	client  mqtt.Client

	// conns tracks the handle this bridge installed per screen, so a
	// last-will can only evict that exact handle and never a successor
	// connection registered since.
	mu    sync.Mutex
	conns map[string]*mqttConn
}

func NewMQTTBridge(gateway *Gateway) *MQTTBridge {
	return &MQTTBridge{gateway: gateway, conns: make(map[string]*mqttConn)}
}

// Start connects to the broker and subscribes to screen event topics.
func (b *MQTTBridge) Start(brokerURL string) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID("lumen-controller")
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
		if token := client.Subscribe(eventsTopicFilter, 1, b.onEvent); token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Msg("failed to subscribe to screen events")
		}
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Error().Err(err).Msg("MQTT connection lost")
	}

	b.client = mqtt.NewClient(opts)
	if token := b.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return nil
}

// Stop disconnects from the broker.
func (b *MQTTBridge) Stop() {
	if b.client != nil {
		b.client.Disconnect(250)
	}
}

func screenIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}

func (b *MQTTBridge) onEvent(client mqtt.Client, msg mqtt.Message) {
	screenID := screenIDFromTopic(msg.Topic())
	if screenID == "" {
		log.Warn().Str("topic", msg.Topic()).Msg("MQTT event on unexpected topic")
		return
	}

	var in InboundMessage
	if err := json.Unmarshal(msg.Payload(), &in); err != nil {
		log.Error().Err(err).Str("topic", msg.Topic()).Msg("malformed MQTT event")
		return
	}
	if in.ScreenID == "" {
		in.ScreenID = screenID
	}

	switch in.Type {
	case "register":
		conn := &mqttConn{client: client, topic: fmt.Sprintf(commandTopicFmt, screenID)}
		b.mu.Lock()
		b.conns[screenID] = conn
		b.mu.Unlock()
		b.gateway.handleRegister(in, conn)
	case "offline":
		// Last-will fired: the screen's session with the broker is gone.
		// Unregister only the handle this bridge installed; the registry's
		// same-handle check keeps a screen that has since re-registered
		// (over either transport) online.
		b.mu.Lock()
		conn, ok := b.conns[screenID]
		delete(b.conns, screenID)
		b.mu.Unlock()
		if !ok {
			return
		}
		if b.gateway.reg.Unregister(screenID, conn) {
			now := time.Now()
			_ = b.gateway.store.TouchScreen(screenID, now)
			b.gateway.admin.Broadcast(EventScreensUpdate, gin.H{"screen_id": screenID, "online": false})
		}
	default:
		b.gateway.handleInbound(screenID, in)
	}
}

// mqttConn adapts a per-screen command topic to registry.Conn.
type mqttConn struct {
	client mqtt.Client
	topic  string
}

func (m *mqttConn) Send(env model.Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	token := m.client.Publish(m.topic, 1, false, raw)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", m.topic, token.Error())
	}
	return nil
}

// Close is a no-op: the broker connection is shared, only the registry entry
// goes away.
func (m *mqttConn) Close() {}

func (m *mqttConn) Kind() string { return "mqtt" }
