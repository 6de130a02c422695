package events

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/kiosk/pkg/session"
)

// ComponentID uniquely identifies a component emitting events.
type ComponentID string

const (
	Sync     ComponentID = "sync"
	Carousel ComponentID = "carousel"
	Ticker   ComponentID = "ticker"
	Media    ComponentID = "media"
	Clock    ComponentID = "clock"
	Keys     ComponentID = "keys"
)

// Describer is implemented by messages worth showing in the event log.
type Describer interface {
	Describe() string
}

// SnapshotChangedMsg carries a replaced snapshot to the display.
type SnapshotChangedMsg struct {
	Change session.Change
}

// Describe implements Describer.
func (m SnapshotChangedMsg) Describe() string {
	return fmt.Sprintf(`reason:%q detail:%q id:%s`, m.Change.Reason, m.Change.Detail, m.Change.ID)
}

// StartFailedMsg reports a failed initial fetch. The display stays on the
// error panel.
type StartFailedMsg struct {
	Err error
}

// Describe implements Describer.
func (m StartFailedMsg) Describe() string {
	return fmt.Sprintf(`error:%q`, m.Err)
}

// RefreshDoneMsg reports the result of a manual refresh.
type RefreshDoneMsg struct {
	Err error
}

// Describe implements Describer.
func (m RefreshDoneMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`error:%q`, m.Err)
	}
	return "ok"
}

// MediaLoadedMsg delivers rendered art for an item URL at a panel size.
type MediaLoadedMsg struct {
	URL    string
	Width  int
	Height int
	Art    string
	Err    error
}

// Describe implements Describer.
func (m MediaLoadedMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`url:%q error:%q`, m.URL, m.Err)
	}
	return fmt.Sprintf(`url:%q size:%dx%d`, m.URL, m.Width, m.Height)
}

// ClockMsg refreshes the header clock.
type ClockMsg time.Time

// StartCmd runs the initial fetch.
func StartCmd(ctx context.Context, m *session.Manager) tea.Cmd {
	return func() tea.Msg {
		st, err := m.Start(ctx)
		if err != nil {
			return StartFailedMsg{Err: err}
		}
		return SnapshotChangedMsg{Change: session.Change{State: st, Reason: session.ReasonInitial}}
	}
}

// WaitForChange blocks for the next snapshot replacement. Re-issue it after
// every SnapshotChangedMsg.
func WaitForChange(ctx context.Context, ch <-chan session.Change) tea.Cmd {
	return func() tea.Msg {
		select {
		case c := <-ch:
			return SnapshotChangedMsg{Change: c}
		case <-ctx.Done():
			return nil
		}
	}
}

// RefreshCmd asks the manager for a manual refresh.
func RefreshCmd(ctx context.Context, m *session.Manager) tea.Cmd {
	return func() tea.Msg {
		return RefreshDoneMsg{Err: m.Refresh(ctx)}
	}
}

// ClockCmd schedules the next clock refresh.
func ClockCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return ClockMsg(t)
	})
}
