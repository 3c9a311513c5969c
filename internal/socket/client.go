package socket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/serviceconnect/serviceconnect-backend/internal/logger"
)

type InboundMessage struct {
	Action  string `json:"action,omitempty"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel,omitempty"`
}

type Message struct {
	Channel string      `json:"channel"`
	Event   string      `json:"event,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	OutboundChanBuffer = 256

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Client struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Conn      *websocket.Conn
	Hub       *Hub
	Log       *logger.Logger
	Outbound  chan Message

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, hub *Hub, accountID uuid.UUID, log *logger.Logger) *Client {
	id := uuid.New()
	return &Client{
		ID:        id,
		AccountID: accountID,
		Conn:      conn,
		Hub:       hub,
		Log:       log.With("client", id, "account", accountID),
		Outbound:  make(chan Message, OutboundChanBuffer),
		done:      make(chan struct{}),
	}
}

// Run subscribes the client to its account channel and pumps messages until
// the connection drops or ctx ends. It blocks.
func (c *Client) Run(ctx context.Context) {
	c.Hub.Subscribe(c, []string{AccountChannel(c.AccountID)})
	go c.writeLoop(ctx)
	c.readLoop(ctx)
}

// CanJoin limits subscriptions to channels owned by the client's account.
func (c *Client) CanJoin(channel string) bool {
	return channel == AccountChannel(c.AccountID)
}

func (c *Client) enqueue(msg Message) {
	select {
	case <-c.done:
	case c.Outbound <- msg:
	default:
		c.Log.Warn("Dropping message to client; outbound buffer full", "channel", msg.Channel)
	}
}

func (c *Client) readLoop(ctx context.Context) {
	defer c.close()

	c.Conn.SetReadLimit(1 << 16)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			c.Log.Debug("websocket read error, closing client", "error", err)
			return
		}

		var inbound InboundMessage
		if err := json.Unmarshal(data, &inbound); err != nil {
			c.Log.Debug("failed to unmarshal inbound message", "error", err)
			continue
		}

		switch inbound.Action {
		case "subscribe":
			if !c.CanJoin(inbound.Channel) {
				c.Log.Warn("client tried to join a foreign channel", "channel", inbound.Channel)
				c.enqueue(Message{Channel: inbound.Channel, Event: "error", Payload: "forbidden channel"})
				continue
			}
			c.Hub.Subscribe(c, []string{inbound.Channel})
		case "unsubscribe":
			if inbound.Channel != "" {
				c.Hub.UnsubscribeFromChannel(c, inbound.Channel)
			}
		default:
			c.Log.Debug("inbound WS message unhandled", "action", inbound.Action)
		}
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.Outbound:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteJSON(msg); err != nil {
				c.Log.Warn("failed writing JSON", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Log.Debug("ping error, shutting down", "error", err)
				return
			}
		}
	}
}

// close is safe to call from both pumps. Outbound is never closed so a
// concurrent broadcast cannot panic.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.Log.Debug("closing client connection")
		close(c.done)
		c.Hub.Unsubscribe(c)
		_ = c.Conn.Close()
	})
}
