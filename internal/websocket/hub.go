package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"feature-intake-bot/internal/pkg/logger"
	"feature-intake-bot/pkg/chat"

	"github.com/redis/go-redis/v9"
)

// Hub delivers outbound prompts to connected chat-gateway clients. One user
// may hold several connections (multi-device); redis pub/sub bridges hubs on
// other instances so a prompt reaches the user wherever their gateway
// connection landed.
type Hub struct {
	// Registered clients map: chat user id -> list of connections
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance delivery
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

const redisChannel = "gateway_events"

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
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
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Gateway client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Gateway client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToUser implements chat.Messenger. Delivery is fire-and-forget: a user
// with no connection anywhere simply misses the prompt until their gateway
// reconnects and the flow is re-prompted by the next input.
func (h *Hub) SendToUser(ctx context.Context, userID string, msg chat.Message) error {
	data, err := json.Marshal(map[string]interface{}{
		"type": "chat_message",
		"data": msg,
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	clients, localFound := h.clients[userID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				// Kick the slow connection, but only queue the unregister:
				// Run is the sole closer of Send, closing here would
				// double-close once the unregister handler runs.
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": userID})
				h.unregister <- client
			}
		}
	}

	// Not connected here: publish to Redis so the instance holding the
	// user's connection can deliver.
	if !localFound {
		if h.rdb != nil {
			payload := map[string]interface{}{
				"target_user_id": userID,
				"message":        data,
			}
			jsonPayload, _ := json.Marshal(payload)
			h.rdb.Publish(ctx, redisChannel, jsonPayload)
		} else {
			h.logger.Warn("Hub", "No gateway connection for user, message dropped", map[string]interface{}{"user_id": userID})
		}
	}

	return nil
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared channel and delivers to the
	// users it holds locally; everyone else ignores the message.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[payload.TargetUserID]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- payload.Message:
				default:
					h.unregister <- client
				}
			}
		}
	}
}
