// Package session keeps the display's copy of the store state current. It
// fetches the initial snapshot, follows the push channel and falls back to
// polling, and reports every replacement on a single channel.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"tableflip.dev/kiosk/pkg/logging"
	"tableflip.dev/kiosk/pkg/model"
	"tableflip.dev/kiosk/pkg/remote"
)

// Reason says why a snapshot was replaced.
type Reason string

const (
	ReasonInitial Reason = "initial"
	ReasonPush    Reason = "push"
	ReasonPoll    Reason = "poll"
	ReasonManual  Reason = "manual"
)

// DefaultReconnectDelay is the fixed wait between push channel attempts.
const DefaultReconnectDelay = 2 * time.Second

// ErrNotStarted is returned by Refresh before Start succeeded.
var ErrNotStarted = errors.New("session: not started")

// Source is where snapshots come from.
type Source interface {
	Fetch(ctx context.Context) (model.State, error)
	Listen(ctx context.Context) (<-chan remote.Notification, error)
}

// Change is one snapshot replacement.
type Change struct {
	ID     string
	State  model.State
	Reason Reason
	Detail string
}

// Status is a point-in-time view of the sync loops.
type Status struct {
	Started       bool      `json:"started"`
	PushConnected bool      `json:"push_connected"`
	LastPush      time.Time `json:"last_push,omitempty"`
	LastPoll      time.Time `json:"last_poll,omitempty"`
	LastChange    time.Time `json:"last_change,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
	Changes       int       `json:"changes"`
	Reconnects    int       `json:"reconnects"`
}

// Manager owns the current snapshot.
type Manager struct {
	source  Source
	log     *slog.Logger
	pushLog *slog.Logger
	now     func() time.Time

	reconnect    time.Duration
	pollOverride time.Duration

	current atomic.Pointer[model.State]
	// serializes fetch-compare-replace so a slow poll cannot overwrite a
	// newer push result
	replaceMu sync.Mutex
	changes   chan Change

	statusMu sync.Mutex
	status   Status
	started  atomic.Bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the parent logger; the manager logs on the sync and push
// channels.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.log = logging.Channel(l, logging.Sync)
		m.pushLog = logging.Channel(l, logging.Push)
	}
}

// WithReconnectDelay overrides the push reconnect delay.
func WithReconnectDelay(d time.Duration) Option {
	return func(m *Manager) { m.reconnect = d }
}

// New returns a manager reading from source.
func New(source Source, opts ...Option) *Manager {
	m := &Manager{
		source:    source,
		now:       time.Now,
		reconnect: DefaultReconnectDelay,
		changes:   make(chan Change, 16),
	}
	WithLogger(logging.Discard())(m)
	for _, o := range opts {
		o(m)
	}
	return m
}

// Start fetches the first snapshot and, on success, starts the push and
// poll loops. Both stop when ctx is cancelled. A failed first fetch is
// returned as is and nothing is started.
func (m *Manager) Start(ctx context.Context) (model.State, error) {
	st, err := m.source.Fetch(ctx)
	if err != nil {
		m.setError(err)
		m.log.Error("initial fetch failed", "error", err)
		return model.State{}, fmt.Errorf("session: initial fetch: %w", err)
	}
	m.current.Store(&st)
	m.started.Store(true)
	m.statusMu.Lock()
	m.status.Started = true
	m.status.LastChange = m.now()
	m.statusMu.Unlock()
	m.log.Info("initial snapshot", "folders", len(st.Folders), "images", st.ImageCount())

	go m.pushLoop(ctx)
	go m.pollLoop(ctx)
	return st, nil
}

// Changes delivers snapshot replacements in order.
func (m *Manager) Changes() <-chan Change {
	return m.changes
}

// Current returns the latest snapshot, or nil before Start.
func (m *Manager) Current() *model.State {
	return m.current.Load()
}

// Refresh re-fetches and signals unconditionally.
func (m *Manager) Refresh(ctx context.Context) error {
	if !m.started.Load() {
		return ErrNotStarted
	}
	return m.replace(ctx, ReasonManual, "operator", false)
}

// Status reports the loop state.
func (m *Manager) Status() Status {
	m.statusMu.Lock()
	defer m.statusMu.Unlock()
	return m.status
}

// replace fetches a snapshot and swaps it in. With onlyIfChanged the swap
// and signal happen only when config or images differ.
func (m *Manager) replace(ctx context.Context, reason Reason, detail string, onlyIfChanged bool) error {
	m.replaceMu.Lock()
	defer m.replaceMu.Unlock()

	st, err := m.source.Fetch(ctx)
	if err != nil {
		m.setError(err)
		return fmt.Errorf("session: %s fetch: %w", reason, err)
	}
	if onlyIfChanged {
		if cur := m.current.Load(); cur != nil && !cur.Changed(st) {
			return nil
		}
	}
	m.current.Store(&st)

	ch := Change{
		ID:     ulid.Make().String(),
		State:  st,
		Reason: reason,
		Detail: detail,
	}
	m.statusMu.Lock()
	m.status.Changes++
	m.status.LastChange = m.now()
	m.statusMu.Unlock()
	m.log.Info("snapshot replaced", "change", ch.ID, "reason", string(reason), "detail", detail)

	select {
	case m.changes <- ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) pushLoop(ctx context.Context) {
	for {
		notes, err := m.source.Listen(ctx)
		if err != nil {
			m.pushLog.Debug("push channel unavailable", "error", err)
		} else {
			m.setConnected(true)
			m.pushLog.Info("push channel connected")
			for n := range notes {
				if n.Type != "refresh" {
					continue
				}
				m.statusMu.Lock()
				m.status.LastPush = m.now()
				m.statusMu.Unlock()
				if err := m.replace(ctx, ReasonPush, n.Reason, false); err != nil {
					m.pushLog.Warn("refresh after push failed", "error", err)
				}
			}
			m.setConnected(false)
			m.pushLog.Info("push channel closed")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.reconnect):
		}
		m.statusMu.Lock()
		m.status.Reconnects++
		m.statusMu.Unlock()
	}
}

func (m *Manager) pollInterval() time.Duration {
	if m.pollOverride > 0 {
		return m.pollOverride
	}
	cur := m.current.Load()
	if cur == nil {
		return time.Duration(model.DefaultPollSec) * time.Second
	}
	return cur.Config.PollInterval()
}

func (m *Manager) pollLoop(ctx context.Context) {
	for {
		t := time.NewTimer(m.pollInterval())
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
		m.statusMu.Lock()
		m.status.LastPoll = m.now()
		m.statusMu.Unlock()
		if err := m.replace(ctx, ReasonPoll, "", true); err != nil {
			m.log.Debug("poll failed", "error", err)
		}
	}
}

func (m *Manager) setConnected(v bool) {
	m.statusMu.Lock()
	m.status.PushConnected = v
	m.statusMu.Unlock()
}

func (m *Manager) setError(err error) {
	m.statusMu.Lock()
	m.status.LastError = err.Error()
	m.statusMu.Unlock()
}
