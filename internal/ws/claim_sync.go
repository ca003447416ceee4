package ws

import (
	"context"
	"encoding/json"
	"time"

	"rewards_webapp/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	syncInterval = 5 * time.Second
)

// StatusSource fetches the authoritative claim state for a user. The pushed
// snapshots exist so browser countdowns resynchronize from the server; the
// client-held timer is never trusted for eligibility.
type StatusSource func(ctx context.Context, userID int64) (any, error)

// Client streams claim status snapshots to one websocket connection.
type Client struct {
	UserID int64
	Conn   *websocket.Conn
	Source StatusSource
	Done   chan struct{}
}

func NewClient(userID int64, conn *websocket.Conn, source StatusSource) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Source: source,
		Done:   make(chan struct{}),
	}
}

// Run pushes an immediate snapshot, then one per sync interval, until the
// peer disconnects.
func (c *Client) Run() {
	go c.readPump()
	c.writePump()
}

type statusMessage struct {
	Type   string `json:"type"`
	Status any    `json:"status"`
}

func (c *Client) writePump() {
	sync := time.NewTicker(syncInterval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		sync.Stop()
		ping.Stop()
		c.Conn.Close()
	}()

	if !c.push() {
		return
	}

	for {
		select {
		case <-c.Done:
			return
		case <-sync.C:
			if !c.push() {
				return
			}
		case <-ping.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) push() bool {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()

	status, err := c.Source(ctx, c.UserID)
	if err != nil {
		logger.Warn("claim sync fetch failed", "user_id", c.UserID, "error", err)
		return true // keep the connection, retry next tick
	}

	payload, err := json.Marshal(statusMessage{Type: "claim_status", Status: status})
	if err != nil {
		return true
	}

	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(websocket.TextMessage, payload) == nil
}

// readPump drains the connection so pongs and close frames are processed.
func (c *Client) readPump() {
	defer close(c.Done)

	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
