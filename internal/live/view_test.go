package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jlobacci/goout-backend/internal/ws"
)

func insertAt(threadKey string, id int64, body string, at time.Time) ws.InsertEvent {
	return ws.InsertEvent{
		ThreadKey: threadKey,
		MessageID: id,
		SenderID:  "bob",
		Body:      body,
		CreatedAt: at,
	}
}

func TestApplyInsert_DedupesByMessageID(t *testing.T) {
	v := NewThreadView("event:1")
	now := time.Now()

	v.ApplyInsert(insertAt("event:1", 10, "hello", now))
	v.ApplyInsert(insertAt("event:1", 10, "hello", now))

	assert.Len(t, v.Entries(), 1)
}

func TestApplyInsert_IgnoresOtherThreads(t *testing.T) {
	v := NewThreadView("event:1")

	v.ApplyInsert(insertAt("event:2", 10, "hello", time.Now()))

	assert.Empty(t, v.Entries())
}

func TestApplyInsert_KeepsThreadOrder(t *testing.T) {
	v := NewThreadView("event:1")
	now := time.Now()

	// Arrival order does not match thread order
	v.ApplyInsert(insertAt("event:1", 12, "third", now.Add(2*time.Second)))
	v.ApplyInsert(insertAt("event:1", 10, "first", now))
	v.ApplyInsert(insertAt("event:1", 11, "second", now.Add(time.Second)))

	entries := v.Entries()
	assert.Equal(t, []int64{10, 11, 12}, []int64{entries[0].ServerID, entries[1].ServerID, entries[2].ServerID})
}

func TestStageSend_PendingThenConfirmed(t *testing.T) {
	v := NewThreadView("dm:4")

	localID := v.StageSend("alice", "hey")
	entries := v.Entries()
	assert.Len(t, entries, 1)
	assert.Equal(t, SendPending, entries[0].State)

	v.Confirm(localID, 42, time.Now())
	entries = v.Entries()
	assert.Len(t, entries, 1)
	assert.Equal(t, SendConfirmed, entries[0].State)
	assert.Equal(t, int64(42), entries[0].ServerID)
}

func TestStageSend_FailedEntryStaysVisible(t *testing.T) {
	v := NewThreadView("dm:4")

	localID := v.StageSend("alice", "hey")
	v.Fail(localID)

	entries := v.Entries()
	assert.Len(t, entries, 1)
	assert.Equal(t, SendFailed, entries[0].State)

	v.Drop(localID)
	assert.Empty(t, v.Entries())
}

func TestConfirm_AfterPushArrivedFirst(t *testing.T) {
	v := NewThreadView("dm:4")
	now := time.Now()

	localID := v.StageSend("alice", "hey")
	// The hub push for our own message lands before the HTTP response
	v.ApplyInsert(insertAt("dm:4", 42, "hey", now))
	v.Confirm(localID, 42, now)

	entries := v.Entries()
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(42), entries[0].ServerID)
}

func TestLoadSnapshot_ResetsConfirmedKeepsStaged(t *testing.T) {
	v := NewThreadView("event:1")
	now := time.Now()

	v.ApplyInsert(insertAt("event:1", 10, "stale", now))
	localID := v.StageSend("alice", "draft")

	v.LoadSnapshot([]Entry{
		{ServerID: 10, SenderID: "bob", Body: "stale", CreatedAt: now},
		{ServerID: 11, SenderID: "bob", Body: "fresh", CreatedAt: now.Add(time.Second)},
	})

	entries := v.Entries()
	assert.Len(t, entries, 3)
	assert.Equal(t, int64(10), entries[0].ServerID)
	assert.Equal(t, int64(11), entries[1].ServerID)
	assert.Equal(t, localID, entries[2].LocalID)
}

func TestLastServerID(t *testing.T) {
	v := NewThreadView("event:1")
	now := time.Now()

	assert.Equal(t, int64(0), v.LastServerID())

	v.ApplyInsert(insertAt("event:1", 10, "a", now))
	v.ApplyInsert(insertAt("event:1", 12, "b", now.Add(time.Second)))

	assert.Equal(t, int64(12), v.LastServerID())
}

func TestBindRelease_SubscribeLifecycle(t *testing.T) {
	hub := ws.NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	v := NewThreadView("event:1")
	v.Bind(hub)
	assert.Equal(t, 1, hub.SubscriberCount("event:1"))

	v.Release()
	assert.Equal(t, 0, hub.SubscriberCount("event:1"))

	// Releasing twice is safe
	v.Release()
}
