// Package pubsub publishes domain events (payment completions, recorded
// quiz attempts) to Google Pub/Sub for downstream analytics consumers.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tsinda/internal/config"

	"cloud.google.com/go/pubsub"
)

// Event types emitted by the API.
const (
	EventPaymentCompleted    = "payment.completed"
	EventQuizAttemptRecorded = "quiz.attempt.recorded"
)

// Event is the envelope for every published message.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	EntityID   string    `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher defines an interface for publishing messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// PubSubPublisher is an implementation of Publisher using Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client
}

// NewPublisher creates a new PubSubPublisher using the GCP project from config.
func NewPublisher(ctx context.Context, cfg *config.Config) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client}, nil
}

// Publish sends the payload to the given Pub/Sub topic and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	t := p.client.Topic(topic)
	result := t.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}

// PublishEvent marshals and publishes a domain event.
func PublishEvent(ctx context.Context, p Publisher, topic string, ev Event) (string, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("failed to marshal event %s: %w", ev.Type, err)
	}
	return p.Publish(ctx, topic, payload)
}
