package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

// Subjects used for map events.
const (
	SubjectOverlayPrefix  = "solarmap.overlay."
	SubjectLocationPrefix = "solarmap.location."
	streamName            = "MAP_EVENTS"
)

// LocationEvent is published when a device reports its position.
type LocationEvent struct {
	SessionID string          `json:"session_id"`
	Location  domain.GeoPoint `json:"location"`
	At        time.Time       `json:"at"`
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := ensureStream(js); err != nil {
		return nil, err
	}

	return &Publisher{conn: conn, js: js}, nil
}

func ensureStream(js nats.JetStreamContext) error {
	cfg := &nats.StreamConfig{
		Name:      streamName,
		Subjects:  []string{SubjectOverlayPrefix + ">", SubjectLocationPrefix + ">"},
		Retention: nats.LimitsPolicy,
		MaxAge:    1 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

func (p *Publisher) PublishOverlayChange(ctx context.Context, change *domain.OverlayChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectOverlayPrefix+change.SessionID, data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishLocation(ctx context.Context, sessionID string, loc domain.GeoPoint) error {
	data, err := json.Marshal(LocationEvent{SessionID: sessionID, Location: loc, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectLocationPrefix+sessionID, data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for relays and health checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("solarmap"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
