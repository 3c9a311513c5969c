package socket

import (
    "context"
    "sync"

    "github.com/google/uuid"

    "github.com/serviceconnect/serviceconnect-backend/internal/logger"
)

// AccountChannel is the private channel every authenticated client joins.
func AccountChannel(accountID uuid.UUID) string {
    return "account:" + accountID.String()
}

type Hub struct {
    log       *logger.Logger
    mu        sync.RWMutex
    channels  map[string]map[uuid.UUID]*Client

    redisPubSub *RedisPubSub
}

func NewHub(log *logger.Logger) *Hub {
    return &Hub{
        log:       log.With("component", "Hub"),
        channels:  make(map[string]map[uuid.UUID]*Client),
    }
}

// SetRedisPubSub enables cross-node fan-out. Call before serving traffic.
func (h *Hub) SetRedisPubSub(rp *RedisPubSub) {
    h.redisPubSub = rp
}

func (h *Hub) Subscribe(client *Client, channels []string) {
    h.mu.Lock()
    defer h.mu.Unlock()

    for _, ch := range channels {
        if h.channels[ch] == nil {
            h.channels[ch] = make(map[uuid.UUID]*Client)
        }
        h.channels[ch][client.ID] = client
    }
    h.log.Debug("Client subscribed", "client", client.ID, "channels", channels)
}

func (h *Hub) Unsubscribe(client *Client) {
    h.mu.Lock()
    defer h.mu.Unlock()

    for ch, clientsMap := range h.channels {
        if _, ok := clientsMap[client.ID]; ok {
            delete(clientsMap, client.ID)
            if len(clientsMap) == 0 {
                delete(h.channels, ch)
            }
        }
    }
    h.log.Debug("Client unsubscribed from all channels", "client", client.ID)
}

func (h *Hub) UnsubscribeFromChannel(client *Client, channel string) {
    h.mu.Lock()
    defer h.mu.Unlock()
    if clientsMap, ok := h.channels[channel]; ok {
        delete(clientsMap, client.ID)
        if len(clientsMap) == 0 {
            delete(h.channels, channel)
        }
    }
}

// SubscriberCount reports how many local clients listen on channel.
func (h *Hub) SubscriberCount(channel string) int {
    h.mu.RLock()
    defer h.mu.RUnlock()
    return len(h.channels[channel])
}

func (h *Hub) localBroadcast(msg Message) {
    h.mu.RLock()
    defer h.mu.RUnlock()

    clientsMap, ok := h.channels[msg.Channel]
    if !ok {
        return
    }
    for _, client := range clientsMap {
        client.enqueue(msg)
    }
}

// BroadcastGlobal delivers msg on every node. With Redis configured the
// message goes through pub/sub only, since this node's subscriber receives
// it too; without Redis, or when publishing fails, it is delivered locally.
func (h *Hub) BroadcastGlobal(ctx context.Context, msg Message) {
    if h.redisPubSub != nil {
        err := h.redisPubSub.Publish(ctx, msg)
        if err == nil {
            return
        }
        h.log.Warn("Failed to publish to Redis, delivering locally", "error", err)
    }
    h.localBroadcast(msg)
}

// Broadcast wraps payload in a Message for channel.
func (h *Hub) Broadcast(ctx context.Context, channel string, event string, payload interface{}) {
    h.BroadcastGlobal(ctx, Message{Channel: channel, Event: event, Payload: payload})
}
