package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublishEvent marshals payload and publishes it to the reports exchange
// under the given routing key. The trace id, when present, travels in the
// message headers so consumers can correlate their logs with the request.
func PublishEvent(ch *amqp.Channel, routingKey, traceID string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	headers := amqp.Table{}
	if traceID != "" {
		headers["x-trace-id"] = traceID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		ReportsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Headers:      headers,
			Body:         body,
			Timestamp:    time.Now(),
		})

	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// TraceIDFromDelivery reads the trace id the publisher attached, if any.
func TraceIDFromDelivery(d amqp.Delivery) string {
	if v, ok := d.Headers["x-trace-id"].(string); ok {
		return v
	}
	return ""
}
