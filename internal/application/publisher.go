package application

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mock_application

import (
	"context"

	"github.com/shareit-app/shareit-server/internal/platform/kafka"
)

const eventSource = "shareit-server"

// EventPublisher hands CloudEvents to the message broker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, evt kafka.CloudEvent) error
}

// NoopPublisher drops every event. It is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishEvent(context.Context, string, string, kafka.CloudEvent) error {
	return nil
}
