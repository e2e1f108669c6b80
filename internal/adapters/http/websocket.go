package http

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/solarmap/internal/adapters/nats"
	"github.com/samirrijal/solarmap/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to session events.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Session string `json:"session"` // session ID, "" = all sessions
	Channel string `json:"channel"` // "overlay" | "location" (default: overlay)
}

// wsEvent wraps a relayed NATS payload.
type wsEvent struct {
	Channel string          `json:"channel"`
	Subject string          `json:"subject"`
	Data    json.RawMessage `json:"data"`
}

// eventSubject maps a channel and optional session to a NATS subject.
func eventSubject(channel, session string) (string, bool) {
	var prefix string
	switch channel {
	case "", "overlay":
		prefix = natsadapter.SubjectOverlayPrefix
	case "location":
		prefix = natsadapter.SubjectLocationPrefix
	default:
		return "", false
	}
	if session == "" {
		return prefix + ">", true
	}
	if strings.ContainsAny(session, ".*> ") {
		return "", false
	}
	return prefix + session, true
}

func channelOf(subject string) string {
	if strings.HasPrefix(subject, natsadapter.SubjectLocationPrefix) {
		return "location"
	}
	return "overlay"
}

// WebSocketHandler relays overlay and location events to connected clients.
// With ?session=<id> the connection starts subscribed to both channels of
// that session. Clients send JSON:
// {"action":"subscribe","session":"<id>","channel":"location"}
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		logger := slog.Default().With("remote_addr", c.RemoteAddr().String())
		logger.Info("ws client connected")

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		subscribe := func(subject string) error {
			s, err := nc.Subscribe(subject, func(msg *nats.Msg) {
				_ = writeJSON(wsEvent{Channel: channelOf(msg.Subject), Subject: msg.Subject, Data: msg.Data})
			})
			if err != nil {
				return err
			}
			subs[subject] = s
			return nil
		}

		if nc == nil {
			_ = writeJSON(map[string]string{"error": "event bus not available"})
			return
		}

		if session := c.Query("session"); session != "" {
			for _, channel := range []string{"overlay", "location"} {
				subject, ok := eventSubject(channel, session)
				if !ok {
					_ = writeJSON(map[string]string{"error": "invalid session: " + session})
					return
				}
				if err := subscribe(subject); err != nil {
					logger.Error("ws subscribe failed", "subject", subject, "error", err)
					return
				}
			}
		}

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			subject, ok := eventSubject(m.Channel, m.Session)
			if !ok {
				_ = writeJSON(map[string]string{"error": "unknown channel or invalid session"})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				if err := subscribe(subject); err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		logger.Info("ws client disconnected")
	}
}
