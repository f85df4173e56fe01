package amqp

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"gastos/internal/events"
)

const contentTypeJSON = "application/json"

// RoutingKey is the topic an event is published under, e.g. "expense.created".
func RoutingKey(e events.Event) string {
	return string(e.Type)
}

// newPublishing wraps an event into a persistent JSON message.
func newPublishing(e events.Event) (amqp091.Publishing, error) {
	body, err := e.ToJSON()
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp091.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp091.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    e.Timestamp,
		Type:         string(e.Type),
		AppId:        "gastos",
		Body:         body,
	}, nil
}
