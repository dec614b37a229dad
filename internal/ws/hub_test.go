package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func TestSubscribe_ReceivesPublishedInserts(t *testing.T) {
	hub := newTestHub(t)

	received := make(chan InsertEvent, 1)
	unsubscribe := hub.Subscribe("event:1", func(e InsertEvent) {
		received <- e
	})
	defer unsubscribe()

	hub.Publish(InsertEvent{
		ThreadKey: "event:1",
		MessageID: 42,
		SenderID:  "bob",
		Body:      "hello",
		CreatedAt: time.Now(),
	})

	select {
	case e := <-received:
		assert.Equal(t, int64(42), e.MessageID)
		assert.Equal(t, "bob", e.SenderID)
	case <-time.After(time.Second):
		t.Fatal("insert was not delivered")
	}
}

func TestSubscribe_OtherThreadsNotDelivered(t *testing.T) {
	hub := newTestHub(t)

	received := make(chan InsertEvent, 1)
	unsubscribe := hub.Subscribe("event:1", func(e InsertEvent) {
		received <- e
	})
	defer unsubscribe()

	hub.Publish(InsertEvent{ThreadKey: "event:2", MessageID: 1})

	select {
	case <-received:
		t.Fatal("received an insert for a different thread")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	hub := newTestHub(t)

	received := make(chan InsertEvent, 4)
	unsubscribe := hub.Subscribe("dm:3", func(e InsertEvent) {
		received <- e
	})
	assert.Equal(t, 1, hub.SubscriberCount("dm:3"))

	unsubscribe()
	assert.Equal(t, 0, hub.SubscriberCount("dm:3"))

	hub.Publish(InsertEvent{ThreadKey: "dm:3", MessageID: 7})

	select {
	case <-received:
		t.Fatal("received an insert after unsubscribing")
	case <-time.After(50 * time.Millisecond):
	}

	// Unsubscribing twice is safe
	unsubscribe()
}

func TestSubscribe_MultipleSubscribersFanOut(t *testing.T) {
	hub := newTestHub(t)

	a := make(chan InsertEvent, 1)
	b := make(chan InsertEvent, 1)
	defer hub.Subscribe("event:1", func(e InsertEvent) { a <- e })()
	defer hub.Subscribe("event:1", func(e InsertEvent) { b <- e })()

	hub.Publish(InsertEvent{ThreadKey: "event:1", MessageID: 5})

	for _, ch := range []chan InsertEvent{a, b} {
		select {
		case e := <-ch:
			assert.Equal(t, int64(5), e.MessageID)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the insert")
		}
	}
}

func TestPublish_NilRedisIsLocalOnly(t *testing.T) {
	hub := newTestHub(t)

	received := make(chan InsertEvent, 1)
	defer hub.Subscribe("event:1", func(e InsertEvent) { received <- e })()

	// Must not panic without a Redis client
	hub.Publish(InsertEvent{ThreadKey: "event:1", MessageID: 9})

	select {
	case e := <-received:
		assert.Equal(t, int64(9), e.MessageID)
	case <-time.After(time.Second):
		t.Fatal("insert was not delivered")
	}
}
