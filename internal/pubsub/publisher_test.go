package pubsub

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"tsinda/internal/config"

	ps "cloud.google.com/go/pubsub"
)

type capturePublisher struct {
	topic   string
	payload []byte
}

func (c *capturePublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	c.topic = topic
	c.payload = payload
	return "msg-1", nil
}

func TestPublishEventEnvelope(t *testing.T) {
	sink := &capturePublisher{}
	ev := Event{
		Type:       EventQuizAttemptRecorded,
		UserID:     "user-1",
		EntityID:   "attempt-1",
		OccurredAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	id, err := PublishEvent(context.Background(), sink, "events", ev)
	if err != nil {
		t.Fatalf("PublishEvent returned error: %v", err)
	}
	if id != "msg-1" {
		t.Fatalf("expected message id msg-1, got %q", id)
	}
	if sink.topic != "events" {
		t.Fatalf("expected topic events, got %q", sink.topic)
	}
	var got Event
	if err := json.Unmarshal(sink.payload, &got); err != nil {
		t.Fatalf("payload is not a valid event: %v", err)
	}
	if got.Type != EventQuizAttemptRecorded || got.UserID != "user-1" || got.EntityID != "attempt-1" {
		t.Fatalf("unexpected event payload: %+v", got)
	}
}

func TestPublishWithEmulator(t *testing.T) {
	emulator := os.Getenv("PUBSUB_EMULATOR_HOST")
	if emulator == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator integration test")
	}

	ctx := context.Background()
	cfg := &config.Config{GCPProjectID: "test-project"}
	pub, err := NewPublisher(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create PubSubPublisher: %v", err)
	}

	topicName := "test-topic"
	topic, err := pub.client.CreateTopic(ctx, topicName)
	if err != nil {
		t.Fatalf("failed to create topic: %v", err)
	}
	subName := "test-sub"
	sub, err := pub.client.CreateSubscription(ctx, subName, ps.SubscriptionConfig{Topic: topic})
	if err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}

	msgID, err := pub.Publish(ctx, topicName, []byte("hello-emulator"))
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if msgID == "" {
		t.Fatal("expected non-empty message ID")
	}

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c := make(chan []byte, 1)
	go func() {
		sub.Receive(recvCtx, func(ctx context.Context, m *ps.Message) {
			c <- m.Data
			m.Ack()
			cancel()
		})
	}()

	select {
	case data := <-c:
		if string(data) != "hello-emulator" {
			t.Fatalf("expected message data 'hello-emulator', got '%s'", string(data))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message from emulator subscription")
	}
}
