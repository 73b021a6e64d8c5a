// Package realtime implements the table change feed: an in-process pub/sub
// hub over row-change events, with optional Redis-backed fan-out so that
// multiple instances of the service see each other's writes.
//
// The hub is the substrate equivalent of a hosted realtime channel: every
// mutation of a fed table (messages, bookings, user_presence) is published
// as an Event, and interested components (chat sessions, notification feeds,
// websocket clients) subscribe with an optional filter.
//
// Delivery semantics:
//   - Events published from one goroutine are delivered to each subscriber
//     in publish order. Per-booking message ordering therefore holds as long
//     as writes to one booking are published by the writer inline, which is
//     how the services use the hub.
//   - Subscriber channels are buffered; a full channel drops the event
//     rather than blocking the publisher. Slow consumers lose events instead
//     of stalling the write path.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Event actions, mirroring the row operations of the underlying tables.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
)

// Fed table names.
const (
	TableMessages = "messages"
	TableBookings = "bookings"
	TablePresence = "user_presence"
)

// Event is one row change. New and Old carry the JSON encodings of the row
// after and (for updates) before the change.
type Event struct {
	Table  string          `json:"table"`
	Action string          `json:"action"`
	New    json.RawMessage `json:"new,omitempty"`
	Old    json.RawMessage `json:"old,omitempty"`
}

// NewEvent builds an Event from row values. oldRow may be nil for inserts.
func NewEvent(table, action string, newRow, oldRow any) (Event, error) {
	e := Event{Table: table, Action: action}
	if newRow != nil {
		b, err := json.Marshal(newRow)
		if err != nil {
			return Event{}, err
		}
		e.New = b
	}
	if oldRow != nil {
		b, err := json.Marshal(oldRow)
		if err != nil {
			return Event{}, err
		}
		e.Old = b
	}
	return e, nil
}

// DecodeNew unmarshals the post-change row into v.
func (e Event) DecodeNew(v any) error { return json.Unmarshal(e.New, v) }

// DecodeOld unmarshals the pre-change row into v.
func (e Event) DecodeOld(v any) error { return json.Unmarshal(e.Old, v) }

// Filter decides whether a subscriber wants an event. A nil Filter accepts
// everything.
type Filter func(Event) bool

// TableFilter accepts events for exactly one table.
func TableFilter(table string) Filter {
	return func(e Event) bool { return e.Table == table }
}

// Subscription is one subscriber's view of the feed. Close is idempotent and
// must be called when the consumer goes away.
type Subscription struct {
	C    <-chan Event
	hub  *Hub
	ch   chan Event
	f    Filter
	once sync.Once
}

// Close detaches the subscription from the hub and closes its channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		s.hub.mu.Unlock()
		subscribersGauge.Dec()
		close(s.ch)
	})
}

var (
	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_events_published_total",
			Help: "Total number of change-feed events published, by table and action.",
		},
		[]string{"table", "action"},
	)

	eventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_events_dropped_total",
			Help: "Events dropped because a subscriber channel was full.",
		},
	)

	subscribersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_subscribers",
			Help: "Current number of change-feed subscribers.",
		},
	)
)

func init() {
	prometheus.MustRegister(eventsPublished, eventsDropped, subscribersGauge)
}

// redisEnvelope wraps an Event for cross-instance transport. Origin lets a
// hub skip events it published itself (those were already fanned out
// locally).
type redisEnvelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// redisChannelPrefix namespaces feed traffic on the Redis side. One channel
// per table keeps PSubscribe patterns cheap.
const redisChannelPrefix = "feed:"

// Hub fans row-change events out to subscribers. Safe for concurrent use.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}

	rdb      *redis.Client // nil when running single-instance
	origin   string
	cancelFn context.CancelFunc
}

// NewHub returns a process-local hub with no cross-instance transport.
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		origin: uuid.NewString(),
	}
}

// NewRedisHub returns a hub that additionally publishes every event to Redis
// and republishes events received from other instances. The subscriber
// goroutine runs until Close.
func NewRedisHub(rdb *redis.Client) *Hub {
	h := NewHub()
	h.rdb = rdb

	ctx, cancel := context.WithCancel(context.Background())
	h.cancelFn = cancel

	pubsub := rdb.PSubscribe(ctx, redisChannelPrefix+"*")
	go func() {
		for msg := range pubsub.Channel() {
			var env redisEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Warn().Err(err).Str("channel", msg.Channel).Msg("feed: bad redis payload")
				continue
			}
			if env.Origin == h.origin {
				continue
			}
			h.fanOut(env.Event)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = pubsub.Close()
	}()
	return h
}

// Publish delivers an event to all local subscribers and, when Redis is
// configured, to the other instances. Publish never blocks on a slow
// subscriber.
func (h *Hub) Publish(e Event) {
	eventsPublished.WithLabelValues(e.Table, e.Action).Inc()
	h.fanOut(e)

	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(redisEnvelope{Origin: h.origin, Event: e})
	if err != nil {
		log.Error().Err(err).Msg("feed: marshal redis envelope")
		return
	}
	if err := h.rdb.Publish(context.Background(), redisChannelPrefix+e.Table, payload).Err(); err != nil {
		log.Warn().Err(err).Str("table", e.Table).Msg("feed: redis publish failed")
	}
}

func (h *Hub) fanOut(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if s.f != nil && !s.f(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			eventsDropped.Inc()
		}
	}
}

// Subscribe registers a new subscriber. buffer must be >= 1; values below
// are coerced. The filter may be nil to receive every event.
func (h *Hub) Subscribe(buffer int, f Filter) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	s := &Subscription{C: ch, hub: h, ch: ch, f: f}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	subscribersGauge.Inc()
	return s
}

// Close tears down the Redis subscriber, if any. Local subscriptions keep
// their channels and must be closed by their owners.
func (h *Hub) Close() {
	if h.cancelFn != nil {
		h.cancelFn()
	}
}
