package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type stubSource struct {
	docs   []*EventDocument
	sent   []string
	failed []string
}

func (s *stubSource) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	if len(s.docs) == 0 {
		return nil, nil
	}
	doc := s.docs[0]
	s.docs = s.docs[1:]
	return doc, nil
}

func (s *stubSource) MarkSent(ctx context.Context, id string) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *stubSource) MarkFailed(ctx context.Context, id string, nextAttempt time.Time, reason string) error {
	s.failed = append(s.failed, id)
	return nil
}

type capturedMessage struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type stubProducer struct {
	messages []capturedMessage
	err      error
}

func (p *stubProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, capturedMessage{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func requestedDoc() *EventDocument {
	return &EventDocument{
		ID:         "evt-1",
		Name:       "booking.requested",
		Payload:    []byte(`{"BookingID":"bkg-1"}`),
		Aggregate:  "bkg-1",
		OccurredAt: time.Now().UTC(),
	}
}

func TestProcessOncePublishesCloudEvent(t *testing.T) {
	source := &stubSource{docs: []*EventDocument{requestedDoc()}}
	producer := &stubProducer{}
	w := &Worker{Store: source, Producer: producer, ID: "worker-1"}

	if err := w.processOnce(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(producer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(producer.messages))
	}
	msg := producer.messages[0]
	if msg.topic != "booking.events.v1" {
		t.Fatalf("unexpected topic %s", msg.topic)
	}
	if msg.key != "bkg-1" {
		t.Fatalf("expected aggregate key, got %s", msg.key)
	}
	if msg.headers["content-type"] != "application/cloudevents+json" {
		t.Fatalf("unexpected content type %s", msg.headers["content-type"])
	}

	var evt map[string]any
	if err := json.Unmarshal(msg.payload, &evt); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if evt["specversion"] != "1.0" {
		t.Fatalf("unexpected specversion %v", evt["specversion"])
	}
	if evt["type"] != "booking.requested.v1" {
		t.Fatalf("unexpected type %v", evt["type"])
	}
	if evt["source"] != "app://staybnb" {
		t.Fatalf("unexpected source %v", evt["source"])
	}
	data, ok := evt["data"].(map[string]any)
	if !ok || data["BookingID"] != "bkg-1" {
		t.Fatalf("unexpected data %v", evt["data"])
	}

	if len(source.sent) != 1 || source.sent[0] != "evt-1" {
		t.Fatalf("expected evt-1 marked sent, got %v", source.sent)
	}
}

func TestProcessOnceMarksFailedOnPublishError(t *testing.T) {
	source := &stubSource{docs: []*EventDocument{requestedDoc()}}
	producer := &stubProducer{err: errors.New("broker down")}
	w := &Worker{Store: source, Producer: producer, ID: "worker-1"}

	if err := w.processOnce(context.Background()); err != nil {
		t.Fatalf("publish failure must not stop the loop: %v", err)
	}
	if len(source.failed) != 1 {
		t.Fatalf("expected 1 failed mark, got %d", len(source.failed))
	}
	if len(source.sent) != 0 {
		t.Fatalf("nothing should be marked sent, got %v", source.sent)
	}
}

func TestProcessOnceNoWork(t *testing.T) {
	w := &Worker{Store: &stubSource{}, Producer: &stubProducer{}, ID: "worker-1"}
	if err := w.processOnce(context.Background()); err != nil {
		t.Fatalf("idle pass: %v", err)
	}
}

func TestTopicPrefix(t *testing.T) {
	w := &Worker{TopicPrefix: "staging."}
	if got := w.topicFor("listing.approved"); got != "staging.listing.events.v1" {
		t.Fatalf("unexpected topic %s", got)
	}
}

func TestRunRequiresDependencies(t *testing.T) {
	w := &Worker{}
	if err := w.Run(context.Background()); !errors.Is(err, ErrWorkerNotConfigured) {
		t.Fatalf("expected ErrWorkerNotConfigured, got %v", err)
	}
}
