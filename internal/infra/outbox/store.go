package outbox

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "staybnb/internal/app/outbox"
)

const (
	statusPending = "pending"
	statusSent    = "sent"
)

// ClaimLease bounds how long a claimed event stays invisible to other
// workers. A worker that dies mid-relay loses its claim after the lease
// expires.
const ClaimLease = 30 * time.Second

// EventDocument is one relayable event as stored in the outbox.
type EventDocument struct {
	ID            string            `bson:"_id"`
	Name          string            `bson:"name"`
	Payload       []byte            `bson:"payload"`
	Aggregate     string            `bson:"aggregate"`
	Headers       map[string]string `bson:"headers"`
	OccurredAt    time.Time         `bson:"occurred_at"`
	Status        string            `bson:"status"`
	Attempts      int               `bson:"attempts"`
	NextAttemptAt time.Time         `bson:"next_attempt_at"`
	LockedBy      string            `bson:"locked_by,omitempty"`
	LockedAt      time.Time         `bson:"locked_at,omitempty"`
	LastError     string            `bson:"last_error,omitempty"`
}

// Store keeps pending events in a Mongo collection so the write and the
// event land in the same transaction.
type Store struct {
	col *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{col: db.Collection("outbox_events")}
}

func (s *Store) Add(ctx context.Context, record appoutbox.EventRecord) error {
	doc := EventDocument{
		ID:            record.ID,
		Name:          record.Name,
		Payload:       record.Payload,
		Aggregate:     record.Aggregate,
		Headers:       record.Headers,
		OccurredAt:    record.OccurredAt,
		Status:        statusPending,
		NextAttemptAt: time.Now().UTC(),
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

// Claim leases the oldest due pending event for the given worker.
func (s *Store) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"status":          statusPending,
		"next_attempt_at": bson.M{"$lte": now},
		"$or": bson.A{
			bson.M{"locked_by": bson.M{"$in": bson.A{"", nil}}},
			bson.M{"locked_by": workerID},
			bson.M{"locked_at": bson.M{"$lt": now.Add(-ClaimLease)}},
		},
	}
	update := bson.M{"$set": bson.M{"locked_by": workerID, "locked_at": now}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "occurred_at", Value: 1}}).
		SetReturnDocument(options.After)
	var doc EventDocument
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (s *Store) MarkSent(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"status": statusSent}}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (s *Store) MarkFailed(ctx context.Context, id string, nextAttempt time.Time, reason string) error {
	update := bson.M{
		"$set":   bson.M{"next_attempt_at": nextAttempt.UTC(), "last_error": reason},
		"$inc":   bson.M{"attempts": 1},
		"$unset": bson.M{"locked_by": "", "locked_at": ""},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

var _ appoutbox.Outbox = (*Store)(nil)
