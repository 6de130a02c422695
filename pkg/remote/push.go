package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// PushURL derives the websocket address from the base URL.
func (c *Client) PushURL() string {
	u := *c.base
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String()
}

// Listen opens the push channel. The returned channel carries refresh
// notifications and is closed when the connection drops or ctx ends.
// Reconnecting is the caller's job.
func (c *Client) Listen(ctx context.Context) (<-chan Notification, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.PushURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("remote: dial push channel: %w", err)
	}

	out := make(chan Notification, 8)
	done := make(chan struct{})
	var writeMu sync.Mutex
	write := func(msg string) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteMessage(websocket.TextMessage, []byte(msg))
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()

	go func() {
		t := time.NewTicker(c.keepalive)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := write("ping"); err != nil {
					_ = conn.Close()
					return
				}
			}
		}
	}()

	go func() {
		defer close(out)
		defer close(done)
		for {
			_ = conn.SetReadDeadline(time.Now().Add(c.deadTime))
			kind, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if kind != websocket.TextMessage {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(string(data))) {
			case "pong":
				continue
			case "ping":
				_ = write("pong")
				continue
			}
			var n Notification
			if err := json.Unmarshal(data, &n); err != nil || n.Type == "" {
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
