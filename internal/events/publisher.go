// Package events publishes domain events to RabbitMQ. Publication is best
// effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// StatusChangedQueue is the durable queue status changes are routed to.
const StatusChangedQueue = "reservation.status_changed"

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher holds one connection and channel for the process lifetime.
type Publisher struct {
	conn *amqp.Connection
	log  *slog.Logger

	mu sync.Mutex
	ch channel
}

// Dial connects to the broker at url and declares the status queue.
func Dial(url string, log *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events.Dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events.Dial: channel: %w", err)
	}
	p, err := newPublisher(ch, log)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, log *slog.Logger) (*Publisher, error) {
	if _, err := ch.QueueDeclare(StatusChangedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("events: declare %s: %w", StatusChangedQueue, err)
	}
	return &Publisher{ch: ch, log: log}, nil
}

// PublishStatusChanged sends e as a persistent JSON message.
func (p *Publisher) PublishStatusChanged(ctx context.Context, e domain.StatusChangedEvent) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("events.Publisher.PublishStatusChanged: marshal: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         StatusChangedQueue,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, "", StatusChangedQueue, false, false, msg); err != nil {
		return fmt.Errorf("events.Publisher.PublishStatusChanged: %w", err)
	}
	p.log.DebugContext(ctx, "status change published",
		"reservation_id", e.ReservationID, "from", e.From, "to", e.To)
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
