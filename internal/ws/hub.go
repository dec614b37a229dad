package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "thread_inserts"

// InsertEvent is a message-insert notification pushed to thread
// subscribers. Delivery is at-least-once with no ordering guarantee
// relative to a list() snapshot; consumers deduplicate by MessageID.
type InsertEvent struct {
	ThreadKey string    `json:"thread_key"`
	MessageID int64     `json:"message_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Hub fans message inserts out to WebSocket clients and in-process
// subscribers, keyed by thread key. Redis pub/sub carries inserts across
// instances.
type Hub struct {
	// Registered websocket clients grouped by thread key
	clients map[string]map[*Client]bool

	// In-process subscribers grouped by thread key
	subscribers map[string]map[int64]func(InsertEvent)
	nextSubID   int64

	register   chan *Client
	unregister chan *Client
	broadcast  chan InsertEvent

	mu          sync.RWMutex
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewHub creates a new Hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		subscribers: make(map[string]map[int64]func(InsertEvent)),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan InsertEvent, 256),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a websocket client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Subscribe registers an in-process callback for inserts on a thread key
// and returns the matching unsubscribe function. The callback may be
// invoked concurrently with the caller; it must not block.
func (h *Hub) Subscribe(threadKey string, onInsert func(InsertEvent)) func() {
	h.mu.Lock()
	if h.subscribers[threadKey] == nil {
		h.subscribers[threadKey] = make(map[int64]func(InsertEvent))
	}
	h.nextSubID++
	id := h.nextSubID
	h.subscribers[threadKey][id] = onInsert
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		if subs, ok := h.subscribers[threadKey]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(h.subscribers, threadKey)
			}
		}
		h.mu.Unlock()
	}
}

// Publish dispatches an insert event locally and to Redis for other
// instances.
func (h *Hub) Publish(event InsertEvent) {
	h.broadcast <- event

	if h.redisClient != nil {
		data, err := json.Marshal(event)
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, data) //nolint:errcheck
		}
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.threadKey] == nil {
				h.clients[client.threadKey] = make(map[*Client]bool)
			}
			h.clients[client.threadKey][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.threadKey]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.threadKey)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.dispatch(event)

		case <-h.ctx.Done():
			return
		}
	}
}

// dispatch delivers one event to local websocket clients and subscribers
func (h *Hub) dispatch(event InsertEvent) {
	h.mu.Lock()
	var fns []func(InsertEvent)
	if subs, ok := h.subscribers[event.ThreadKey]; ok {
		for _, fn := range subs {
			fns = append(fns, fn)
		}
	}
	if clients, ok := h.clients[event.ThreadKey]; ok {
		data, err := json.Marshal(event)
		if err == nil {
			for client := range clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer, drop the connection
					close(client.send)
					delete(clients, client)
				}
			}
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

// subscribeRedis listens for inserts published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event InsertEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err == nil {
				// Local dispatch only (don't re-publish to Redis)
				h.broadcast <- event
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// SubscriberCount reports how many local consumers watch a thread key
func (h *Hub) SubscriberCount(threadKey string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[threadKey]) + len(h.clients[threadKey])
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
