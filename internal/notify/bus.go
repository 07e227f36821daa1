// Package notify delivers named change events to subscribers, collapsing
// bursts and repeats of the same content.
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Event names published by the project host.
const (
	UnitTypesChanged      = "unitTypesChanged"
	UnitAllocationChanged = "unitAllocationChanged"
	UnitCategoriesChanged = "unitCategoriesChanged"
	FloorsChanged         = "floorsChanged"
	TemplatesChanged      = "templatesChanged"
)

// AllEvents lists every event name.
var AllEvents = []string{
	TemplatesChanged, FloorsChanged, UnitCategoriesChanged, UnitTypesChanged, UnitAllocationChanged,
}

var (
	published = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proforma_events_published_total",
		Help: "Change events handed to the bus.",
	}, []string{"event"})
	delivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proforma_events_delivered_total",
		Help: "Change events fanned out to subscribers.",
	}, []string{"event"})
	suppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proforma_events_suppressed_total",
		Help: "Change events dropped because their payload was unchanged.",
	}, []string{"event"})
)

// Event is a named change carrying the new collection.
type Event struct {
	Name    string
	Payload any
}

// Handler receives events. Handlers run on the publisher's goroutine when the
// bus has no debounce window, otherwise on a timer goroutine.
type Handler func(Event)

type subscriber struct {
	id int
	fn Handler
}

type pending struct {
	payload any
	hash    uint64
	dedupe  bool
	timer   *time.Timer
}

// Bus fans events out by name. Within the debounce window only the last
// payload for a name is delivered, and a payload identical to the last one
// delivered for that name is dropped.
type Bus struct {
	debounce time.Duration

	mu      sync.Mutex
	nextID  int
	subs    map[string][]subscriber
	pending map[string]*pending
	last    map[string]uint64
	closed  bool
}

// New returns a bus. A zero debounce delivers synchronously.
func New(debounce time.Duration) *Bus {
	return &Bus{
		debounce: debounce,
		subs:     make(map[string][]subscriber),
		pending:  make(map[string]*pending),
		last:     make(map[string]uint64),
	}
}

// Subscribe registers fn for the named event and returns a function that
// removes it.
func (b *Bus) Subscribe(name string, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[name]
		for i, s := range subs {
			if s.id == id {
				b.subs[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish queues an event.
func (b *Bus) Publish(name string, payload any) {
	h, err := hash(payload)
	if err != nil {
		zap.L().Warn("notify: payload not hashable, delivering anyway", zap.String("event", name), zap.Error(err))
	}
	published.WithLabelValues(name).Inc()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if b.debounce <= 0 {
		b.mu.Unlock()
		b.deliver(name, payload, h, err == nil)
		return
	}

	p, ok := b.pending[name]
	if !ok {
		p = &pending{}
		b.pending[name] = p
		p.timer = time.AfterFunc(b.debounce, func() { b.fire(name) })
	} else {
		p.timer.Reset(b.debounce)
	}
	p.payload = payload
	p.hash = h
	p.dedupe = err == nil
	b.mu.Unlock()
}

// Flush delivers every pending event immediately.
func (b *Bus) Flush() {
	b.mu.Lock()
	names := make([]string, 0, len(b.pending))
	for name, p := range b.pending {
		if p.timer.Stop() {
			names = append(names, name)
		}
	}
	b.mu.Unlock()

	for _, name := range names {
		b.fire(name)
	}
}

// Close flushes pending events and stops accepting new ones.
func (b *Bus) Close() {
	b.Flush()
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

func (b *Bus) fire(name string) {
	b.mu.Lock()
	p, ok := b.pending[name]
	if !ok {
		b.mu.Unlock()
		return
	}
	delete(b.pending, name)
	b.mu.Unlock()
	b.deliver(name, p.payload, p.hash, p.dedupe)
}

func (b *Bus) deliver(name string, payload any, h uint64, dedupe bool) {
	b.mu.Lock()
	if dedupe {
		if last, seen := b.last[name]; seen && last == h {
			b.mu.Unlock()
			suppressed.WithLabelValues(name).Inc()
			zap.L().Debug("notify: suppressed unchanged event", zap.String("event", name))
			return
		}
		b.last[name] = h
	} else {
		delete(b.last, name)
	}
	subs := append([]subscriber(nil), b.subs[name]...)
	b.mu.Unlock()

	delivered.WithLabelValues(name).Inc()
	ev := Event{Name: name, Payload: payload}
	for _, s := range subs {
		s.fn(ev)
	}
}

func hash(payload any) (uint64, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(raw), nil
}
