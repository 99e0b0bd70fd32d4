// Package events publishes stage-transition notifications so downstream
// screens can refresh without polling. Publishing is fire-and-forget:
// submission success never depends on it.
package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Publisher delivers domain event messages to a subject
type Publisher interface {
	Publish(ctx context.Context, subject string, msg []byte) error
	Close()
}

// NATSPublisher publishes events over a core NATS connection
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the NATS server at url
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, msg []byte) error {
	return p.conn.Publish(subject, msg)
}

func (p *NATSPublisher) Close() {
	p.conn.Drain()
}

// NoopPublisher drops all events; used when NATS is not configured
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, subject string, msg []byte) error { return nil }
func (NoopPublisher) Close()                                                        {}
