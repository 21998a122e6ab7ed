package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"chat-moderation-be/internal/dto"
	"chat-moderation-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// alertChannel is the redis pub/sub channel used to fan alerts out to other
// instances so every connected dashboard sees every alert.
const alertChannel = "moderation_alerts"

// Hub maintains the set of connected moderator dashboards and pushes every
// raised alert to all of them.
type Hub struct {
	// Identifies this instance on the redis channel so self-published
	// alerts are not delivered locally a second time.
	id string

	// Registered clients map: ModeratorID -> List of Clients (multi-device)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		id:         uuid.NewString(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ModeratorID] = append(h.clients[client.ModeratorID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"moderator_id": client.ModeratorID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.ModeratorID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.ModeratorID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.ModeratorID]) == 0 {
					delete(h.clients, client.ModeratorID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"moderator_id": client.ModeratorID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastAlert pushes an alert to every connected dashboard, then publishes
// it to Redis for dashboards connected to other instances.
func (h *Hub) BroadcastAlert(alert dto.AlertPush) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":   "alert",
		"origin": h.id,
		"data":   alert,
	})

	h.sendLocal(data)

	if h.rdb != nil {
		h.rdb.Publish(context.Background(), alertChannel, data)
	}
}

func (h *Hub) sendLocal(data []byte) {
	var stalled []*Client
	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"moderator_id": client.ModeratorID})
				stalled = append(stalled, client)
			}
		}
	}
	h.mu.RUnlock()

	// Hand stalled clients to Run after releasing the lock; Run owns the
	// single close of each Send channel.
	for _, client := range stalled {
		h.unregister <- client
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, alertChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.handleRedisPayload([]byte(msg.Payload))
	}
}

func (h *Hub) handleRedisPayload(payload []byte) {
	var envelope struct {
		Origin string `json:"origin"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		log.Printf("Redis msg parse error: %v on %s", err, alertChannel)
		return
	}
	// Skip alerts this instance published itself; they were already
	// delivered locally in BroadcastAlert.
	if envelope.Origin == h.id {
		return
	}
	h.sendLocal(payload)
}
