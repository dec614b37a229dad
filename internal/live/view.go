package live

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jlobacci/goout-backend/internal/ws"
)

// Send states for an optimistic entry
const (
	SendPending   = "pending"
	SendConfirmed = "confirmed"
	SendFailed    = "failed"
)

// Entry is one message in a thread view. Confirmed entries carry a server
// id; pending and failed ones are known only by their local id.
type Entry struct {
	LocalID   string    `json:"local_id,omitempty"`
	ServerID  int64     `json:"server_id,omitempty"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	State     string    `json:"state"`
}

// ThreadView is the in-memory projection of one thread that a connected
// client reads from. Inserts may arrive twice (push plus poll); the view
// dedupes by server id, so delivery only has to be at-least-once.
type ThreadView struct {
	mu        sync.Mutex
	threadKey string
	confirmed []Entry
	staged    []Entry
	seen      map[int64]bool
	unbind    func()
}

// NewThreadView creates a view for the given thread key
func NewThreadView(threadKey string) *ThreadView {
	return &ThreadView{
		threadKey: threadKey,
		seen:      make(map[int64]bool),
	}
}

// ThreadKey returns the thread this view projects
func (v *ThreadView) ThreadKey() string {
	return v.threadKey
}

// LoadSnapshot replaces the confirmed entries with a fetched message list.
// Staged sends survive the reload; any that the snapshot already contains
// are dropped as duplicates.
func (v *ThreadView) LoadSnapshot(entries []Entry) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.confirmed = v.confirmed[:0]
	v.seen = make(map[int64]bool)
	for _, e := range entries {
		if e.ServerID == 0 || v.seen[e.ServerID] {
			continue
		}
		e.State = SendConfirmed
		v.seen[e.ServerID] = true
		v.confirmed = append(v.confirmed, e)
	}
	v.sortConfirmedLocked()
}

// ApplyInsert folds a pushed insert into the view. Re-delivery of an
// already-seen id is a no-op.
func (v *ThreadView) ApplyInsert(event ws.InsertEvent) {
	if event.ThreadKey != v.threadKey {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.seen[event.MessageID] {
		return
	}
	v.seen[event.MessageID] = true
	v.confirmed = append(v.confirmed, Entry{
		ServerID:  event.MessageID,
		SenderID:  event.SenderID,
		Body:      event.Body,
		CreatedAt: event.CreatedAt,
		State:     SendConfirmed,
	})
	v.sortConfirmedLocked()
}

// StageSend adds a pending entry for an in-flight send and returns its
// local id.
func (v *ThreadView) StageSend(senderID, body string) string {
	localID := uuid.New().String()

	v.mu.Lock()
	defer v.mu.Unlock()

	v.staged = append(v.staged, Entry{
		LocalID:   localID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now(),
		State:     SendPending,
	})
	return localID
}

// Confirm resolves a pending send with its server identity. When the push
// for the same message already landed, the staged copy is simply dropped.
func (v *ThreadView) Confirm(localID string, serverID int64, createdAt time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := v.stagedIndexLocked(localID)
	if idx < 0 {
		return
	}
	entry := v.staged[idx]
	v.staged = append(v.staged[:idx], v.staged[idx+1:]...)

	if v.seen[serverID] {
		return
	}
	v.seen[serverID] = true
	entry.ServerID = serverID
	entry.CreatedAt = createdAt
	entry.State = SendConfirmed
	v.confirmed = append(v.confirmed, entry)
	v.sortConfirmedLocked()
}

// Fail marks a pending send as failed. The entry stays visible so the
// client can offer a retry.
func (v *ThreadView) Fail(localID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if idx := v.stagedIndexLocked(localID); idx >= 0 {
		v.staged[idx].State = SendFailed
	}
}

// Drop removes a staged entry, typically after the user discards a failed
// send.
func (v *ThreadView) Drop(localID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if idx := v.stagedIndexLocked(localID); idx >= 0 {
		v.staged = append(v.staged[:idx], v.staged[idx+1:]...)
	}
}

// Entries returns the current view: confirmed messages in thread order,
// then staged sends in the order they were made.
func (v *ThreadView) Entries() []Entry {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Entry, 0, len(v.confirmed)+len(v.staged))
	out = append(out, v.confirmed...)
	out = append(out, v.staged...)
	return out
}

// LastServerID returns the highest confirmed server id, for use as a
// since_id cursor when refreshing.
func (v *ThreadView) LastServerID() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	var max int64
	for _, e := range v.confirmed {
		if e.ServerID > max {
			max = e.ServerID
		}
	}
	return max
}

// Bind subscribes the view to live inserts from the hub. Rebinding first
// releases the previous subscription.
func (v *ThreadView) Bind(hub *ws.Hub) {
	v.Release()
	unbind := hub.Subscribe(v.threadKey, v.ApplyInsert)

	v.mu.Lock()
	v.unbind = unbind
	v.mu.Unlock()
}

// Release detaches the view from the hub. Safe to call when not bound.
func (v *ThreadView) Release() {
	v.mu.Lock()
	unbind := v.unbind
	v.unbind = nil
	v.mu.Unlock()

	if unbind != nil {
		unbind()
	}
}

func (v *ThreadView) stagedIndexLocked(localID string) int {
	for i, e := range v.staged {
		if e.LocalID == localID {
			return i
		}
	}
	return -1
}

func (v *ThreadView) sortConfirmedLocked() {
	sort.SliceStable(v.confirmed, func(i, j int) bool {
		if !v.confirmed[i].CreatedAt.Equal(v.confirmed[j].CreatedAt) {
			return v.confirmed[i].CreatedAt.Before(v.confirmed[j].CreatedAt)
		}
		return v.confirmed[i].ServerID < v.confirmed[j].ServerID
	})
}
