package events

import (
	"context"
	"encoding/json"
	"time"

	"demo/grouporders/internal/model"

	"github.com/segmentio/kafka-go"
)

const (
	TypeOrderOpened = "order_opened"
	TypeOrderClosed = "order_closed"
)

// Event is one lifecycle notification on the outbound topic.
type Event struct {
	Type    string           `json:"type"`
	Order   model.GroupOrder `json:"order"`
	Reason  string           `json:"reason,omitempty"`
	Summary *model.Summary   `json:"summary,omitempty"`
	At      time.Time        `json:"at"`
}

// Publisher emits lifecycle events. Publishing is best-effort; the
// lifecycle never fails because an event did not go out.
type Publisher interface {
	OrderOpened(ctx context.Context, o model.GroupOrder) error
	OrderClosed(ctx context.Context, o model.GroupOrder, reason string, sum model.Summary) error
}

type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafka(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}}
}

func (p *KafkaPublisher) OrderOpened(ctx context.Context, o model.GroupOrder) error {
	return p.send(ctx, Event{Type: TypeOrderOpened, Order: o, At: time.Now().UTC()})
}

func (p *KafkaPublisher) OrderClosed(ctx context.Context, o model.GroupOrder, reason string, sum model.Summary) error {
	return p.send(ctx, Event{Type: TypeOrderClosed, Order: o, Reason: reason, Summary: &sum, At: time.Now().UTC()})
}

func (p *KafkaPublisher) send(ctx context.Context, e Event) error {
	val, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Order.ID),
		Value: val,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	})
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// Nop drops every event. Used when no event topic is configured.
type Nop struct{}

func (Nop) OrderOpened(context.Context, model.GroupOrder) error { return nil }
func (Nop) OrderClosed(context.Context, model.GroupOrder, string, model.Summary) error {
	return nil
}
