// README: Publishes trip.completed events to a RabbitMQ fanout exchange.
package trip

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"fairride/internal/types"
)

const (
	exchangeName = "fairride.events"
	queueName    = "trip_completed"
	eventType    = "trip.completed"
)

// CompletedEvent is emitted once a trip record has been saved.
type CompletedEvent struct {
	Type        string     `json:"type"`
	TripID      types.ID   `json:"tripId"`
	OwnerID     string     `json:"ownerId"`
	Record      TripRecord `json:"record"`
	PublishedAt int64      `json:"publishedAt"`
}

var _ EventPublisher = (*AMQPPublisher)(nil)

type AMQPPublisher struct {
	ch *amqp.Channel
}

func NewAMQPPublisher(conn *amqp.Connection) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	return &AMQPPublisher{ch: ch}, nil
}

func (p *AMQPPublisher) PublishCompleted(ctx context.Context, id types.ID, ownerID string, rec TripRecord) error {
	body, err := json.Marshal(CompletedEvent{
		Type:        eventType,
		TripID:      id,
		OwnerID:     ownerID,
		Record:      rec,
		PublishedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.ch.PublishWithContext(ctx, exchangeName, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         eventType,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}
