package mykafka

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Skotchmaster/shop_erp/pkg/logging"
)

const (
	TopicUsers       = "user_events"
	TopicProducts    = "product_events"
	TopicCustomers   = "customer_events"
	TopicOrders      = "order_events"
	TopicInvoices    = "invoice_events"
	TopicMarketplace = "marketplace_events"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
	Close() error
}

// Event is the envelope of every message on the *_events topics.
type Event struct {
	Type     string    `json:"type"`
	UserID   uint      `json:"userID"`
	EntityID uint      `json:"entityID"`
	At       time.Time `json:"at"`
	Data     any       `json:"data,omitempty"`
}

func NewEvent(typ string, userID, entityID uint, data any) Event {
	return Event{Type: typ, UserID: userID, EntityID: entityID, At: time.Now().UTC(), Data: data}
}

// emitTimeout bounds how long a request waits on the broker after its write
// has been stored.
const emitTimeout = 2 * time.Second

// Emit publishes best-effort: a failure is logged and never reaches the caller.
func Emit(ctx context.Context, p Publisher, topic string, ev Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, emitTimeout)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, strconv.FormatUint(uint64(ev.EntityID), 10), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed",
			slog.String("topic", topic), slog.String("type", ev.Type), slog.Any("error", err))
	}
}

type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }
func (Nop) Close() error                                            { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Err    error
	events map[string][]Event
}

func (r *Recorder) PublishEvent(_ context.Context, topic, _ string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if r.events == nil {
		r.events = make(map[string][]Event)
	}
	if ev, ok := event.(Event); ok {
		r.events[topic] = append(r.events[topic], ev)
	}
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events(topic string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events[topic]...)
}
