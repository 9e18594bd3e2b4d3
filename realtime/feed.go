package realtime

import (
	"sync"

	"github.com/google/uuid"
)

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event describes one committed row change. Scope carries the owner key the
// row belongs to, so subscribers only hear about their own rows.
type Event struct {
	Table  string    `json:"table"`
	Action Action    `json:"action"`
	Scope  uuid.UUID `json:"scope"`
	RowID  uuid.UUID `json:"row_id"`
}

type Handler func(Event)

type Subscription struct {
	feed    *Feed
	table   string
	scope   uuid.UUID
	handler Handler
}

// Unsubscribe detaches the subscription; safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.feed.remove(s)
}

// Feed is the in-process change feed behind every dashboard listing.
// Mutating handlers publish after commit; delivery is fire-and-forget.
type Feed struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[string]map[*Subscription]struct{})}
}

// Default is the feed the handlers and the websocket hub share.
var Default = NewFeed()

// Subscribe registers a handler for changes to table rows owned by scope.
// A uuid.Nil scope receives every change on the table (admin queues).
func (f *Feed) Subscribe(table string, scope uuid.UUID, fn Handler) *Subscription {
	sub := &Subscription{feed: f, table: table, scope: scope, handler: fn}

	f.mu.Lock()
	if f.subs[table] == nil {
		f.subs[table] = make(map[*Subscription]struct{})
	}
	f.subs[table][sub] = struct{}{}
	f.mu.Unlock()

	return sub
}

// Publish fans the event out to matching subscribers. Each handler runs in
// its own goroutine so a slow refetch never blocks the publishing request.
func (f *Feed) Publish(e Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for sub := range f.subs[e.Table] {
		if sub.scope != uuid.Nil && sub.scope != e.Scope {
			continue
		}
		go sub.handler(e)
	}
}

func (f *Feed) remove(s *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if set, ok := f.subs[s.table]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(f.subs, s.table)
		}
	}
}
