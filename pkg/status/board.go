// Package status exposes the display's health to the local network.
package status

import (
	"sync"
	"time"

	"tableflip.dev/kiosk/pkg/session"
)

// RenderInfo describes the last render pass.
type RenderInfo struct {
	Mode       string    `json:"mode"`
	Theme      string    `json:"theme"`
	Items      int       `json:"items"`
	Ticker     bool      `json:"ticker"`
	Renders    int       `json:"renders"`
	RenderedAt time.Time `json:"rendered_at,omitempty"`
	Error      string    `json:"error,omitempty"`

	// ColumnHTML is the info column as markup, served on /column.
	ColumnHTML string `json:"-"`
}

// Snapshot is the /status payload.
type Snapshot struct {
	Uptime string         `json:"uptime"`
	Render RenderInfo     `json:"render"`
	Sync   session.Status `json:"sync"`
}

// Board collects status written by the display and read by the server.
type Board struct {
	mu      sync.RWMutex
	render  RenderInfo
	started time.Time
	sync    func() session.Status
	now     func() time.Time
}

// NewBoard returns a board that reads sync state from syncStatus, which may
// be nil.
func NewBoard(syncStatus func() session.Status) *Board {
	return &Board{started: time.Now(), sync: syncStatus, now: time.Now}
}

// SetRender records the last render pass.
func (b *Board) SetRender(r RenderInfo) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.render = r
	b.mu.Unlock()
}

// Snapshot returns the current status.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := Snapshot{
		Uptime: b.now().Sub(b.started).Round(time.Second).String(),
		Render: b.render,
	}
	if b.sync != nil {
		s.Sync = b.sync()
	}
	return s
}
