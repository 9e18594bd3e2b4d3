package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func collect() (Handler, chan Event) {
	ch := make(chan Event, 8)
	return func(e Event) { ch <- e }, ch
}

func TestSubscribeReceivesMatchingEvent(t *testing.T) {
	feed := NewFeed()
	owner := uuid.New()
	handler, ch := collect()

	sub := feed.Subscribe("payout_requests", owner, handler)
	defer sub.Unsubscribe()

	feed.Publish(Event{Table: "payout_requests", Action: ActionInsert, Scope: owner, RowID: uuid.New()})

	select {
	case e := <-ch:
		assert.Equal(t, ActionInsert, e.Action)
		assert.Equal(t, owner, e.Scope)
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}
}

func TestEventOutsideScopeIsNotDelivered(t *testing.T) {
	feed := NewFeed()
	handler, ch := collect()

	sub := feed.Subscribe("grooming_bookings", uuid.New(), handler)
	defer sub.Unsubscribe()

	// Insert for a different owner: the subscriber's view must not refetch.
	feed.Publish(Event{Table: "grooming_bookings", Action: ActionInsert, Scope: uuid.New(), RowID: uuid.New()})

	select {
	case e := <-ch:
		t.Fatalf("unexpected event delivered: %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEventOnOtherTableIsNotDelivered(t *testing.T) {
	feed := NewFeed()
	owner := uuid.New()
	handler, ch := collect()

	sub := feed.Subscribe("grooming_bookings", owner, handler)
	defer sub.Unsubscribe()

	feed.Publish(Event{Table: "payout_requests", Action: ActionUpdate, Scope: owner, RowID: uuid.New()})

	select {
	case e := <-ch:
		t.Fatalf("unexpected event delivered: %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNilScopeReceivesAllTableEvents(t *testing.T) {
	feed := NewFeed()
	handler, ch := collect()

	sub := feed.Subscribe("payout_requests", uuid.Nil, handler)
	defer sub.Unsubscribe()

	feed.Publish(Event{Table: "payout_requests", Action: ActionInsert, Scope: uuid.New()})
	feed.Publish(Event{Table: "payout_requests", Action: ActionUpdate, Scope: uuid.New()})

	for i := 0; i < 2; i++ {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("admin-scoped subscription missed an event")
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	feed := NewFeed()
	owner := uuid.New()
	handler, ch := collect()

	sub := feed.Subscribe("pet_events", owner, handler)
	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent

	feed.Publish(Event{Table: "pet_events", Action: ActionDelete, Scope: owner})

	select {
	case e := <-ch:
		t.Fatalf("unexpected event after unsubscribe: %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMultipleSubscribersSameScope(t *testing.T) {
	feed := NewFeed()
	owner := uuid.New()
	h1, ch1 := collect()
	h2, ch2 := collect()

	s1 := feed.Subscribe("pet_events", owner, h1)
	s2 := feed.Subscribe("pet_events", owner, h2)
	defer s1.Unsubscribe()
	defer s2.Unsubscribe()

	feed.Publish(Event{Table: "pet_events", Action: ActionUpdate, Scope: owner})

	for _, ch := range []chan Event{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the event")
		}
	}
}
