// Package kafkaevents publishes order events to Kafka.
package kafkaevents

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/phenrril/storefront/internal/domain"
)

const EventOrderPlaced = "order.placed"

// Writer is the part of *kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OrderPlacedEvent struct {
	EventID    string            `json:"event_id"`
	Type       string            `json:"type"`
	OrderID    uint              `json:"order_id"`
	Invoice    string            `json:"invoice"`
	CustomerID uint              `json:"customer_id"`
	Status     string            `json:"status"`
	Lines      domain.OrderLines `json:"orders"`
	PlacedAt   time.Time         `json:"placed_at"`
}

type Publisher struct {
	w Writer
}

func New(w Writer) *Publisher { return &Publisher{w: w} }

// NewWriter returns a synchronous writer for the given brokers and topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error().Msgf("kafka writer: "+msg, args...)
		}),
	}
}

// OrderPlaced sends one message keyed by customer so a customer's orders
// stay on one partition.
func (p *Publisher) OrderPlaced(ctx context.Context, o *domain.Order) error {
	placed := o.CreatedAt
	if placed.IsZero() {
		placed = time.Now()
	}
	ev := OrderPlacedEvent{
		EventID:    uuid.NewString(),
		Type:       EventOrderPlaced,
		OrderID:    o.ID,
		Invoice:    o.Invoice,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		Lines:      o.Lines,
		PlacedAt:   placed.UTC(),
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(o.CustomerID), 10)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(EventOrderPlaced)},
		},
	})
}

func (p *Publisher) Close() error { return p.w.Close() }

var _ domain.OrderEvents = (*Publisher)(nil)
