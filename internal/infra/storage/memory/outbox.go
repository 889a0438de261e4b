package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "staybnb/internal/app/outbox"
	infraoutbox "staybnb/internal/infra/outbox"
)

// Outbox keeps pending events in memory. It serves the same claim protocol
// as the durable store so the relay worker runs unchanged in demo mode.
type Outbox struct {
	mu      sync.Mutex
	pending map[string]*infraoutbox.EventDocument
	order   []string
}

func NewOutbox() *Outbox {
	return &Outbox{pending: make(map[string]*infraoutbox.EventDocument)}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending[record.ID] = &infraoutbox.EventDocument{
		ID:            record.ID,
		Name:          record.Name,
		Payload:       record.Payload,
		Aggregate:     record.Aggregate,
		Headers:       record.Headers,
		OccurredAt:    record.OccurredAt,
		Status:        "pending",
		NextAttemptAt: time.Now().UTC(),
	}
	o.order = append(o.order, record.ID)
	return nil
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now().UTC()
	for _, id := range o.order {
		doc, ok := o.pending[id]
		if !ok || doc.NextAttemptAt.After(now) {
			continue
		}
		if doc.LockedBy != "" && doc.LockedBy != workerID && now.Sub(doc.LockedAt) < infraoutbox.ClaimLease {
			continue
		}
		doc.LockedBy = workerID
		doc.LockedAt = now
		clone := *doc
		return &clone, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.pending, id)
	for i, queued := range o.order {
		if queued == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, nextAttempt time.Time, reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if doc, ok := o.pending[id]; ok {
		doc.Attempts++
		doc.NextAttemptAt = nextAttempt.UTC()
		doc.LastError = reason
		doc.LockedBy = ""
		doc.LockedAt = time.Time{}
	}
	return nil
}

// Len reports the number of unrelayed events.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
var _ infraoutbox.EventSource = (*Outbox)(nil)
