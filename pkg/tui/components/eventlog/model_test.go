package eventlog

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/kiosk/pkg/carousel"
	"tableflip.dev/kiosk/pkg/session"
	"tableflip.dev/kiosk/pkg/ticker"
	"tableflip.dev/kiosk/pkg/tui/events"
)

var at = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func TestClassify(t *testing.T) {
	tests := map[string]struct {
		msg       tea.Msg
		component events.ComponentID
		level     Level
		text      string
	}{
		"snapshot": {
			msg:       events.SnapshotChangedMsg{Change: session.Change{ID: "01J", Reason: session.ReasonPush, Detail: "config"}},
			component: events.Sync,
			text:      `snapshot reason:"push" detail:"config" id:01J`,
		},
		"start failed": {
			msg:       events.StartFailedMsg{Err: errors.New("refused")},
			component: events.Sync,
			level:     LevelError,
			text:      "refused",
		},
		"refresh failed": {
			msg:       events.RefreshDoneMsg{Err: errors.New("timeout")},
			component: events.Sync,
			level:     LevelWarn,
			text:      "timeout",
		},
		"tick": {
			msg:       carousel.TickMsg{ID: 7},
			component: events.Carousel,
			text:      "advance id=7",
		},
		"media failed": {
			msg:       events.MediaLoadedMsg{URL: "/media/a/b.webp", Err: errors.New("404")},
			component: events.Media,
			level:     LevelWarn,
			text:      "/media/a/b.webp",
		},
		"key": {
			msg:       tea.KeyPressMsg{Text: "r", Code: 'r'},
			component: events.Keys,
			text:      `key "r"`,
		},
	}
	for n, tc := range tests {
		t.Run(n, func(t *testing.T) {
			e, ok := Classify(tc.msg)
			if !ok {
				t.Fatalf("expected %T to be logged", tc.msg)
			}
			if e.Component != tc.component || e.Level != tc.level || !strings.Contains(e.Text, tc.text) {
				t.Fatalf("unexpected entry %#v", e)
			}
		})
	}
}

func TestFramesAndClockAreNotLogged(t *testing.T) {
	for _, msg := range []tea.Msg{ticker.FrameMsg{ID: 1}, events.ClockMsg(at), tea.WindowSizeMsg{Width: 1, Height: 1}} {
		if _, ok := Classify(msg); ok {
			t.Fatalf("%T should not be logged", msg)
		}
	}
}

func TestRecordNewestFirstAndCapped(t *testing.T) {
	m := New(2)
	m.SetSize(90, 8)
	m.Record(at, carousel.TickMsg{ID: 1})
	m.Record(at.Add(time.Second), events.SnapshotChangedMsg{Change: session.Change{ID: "01J", Reason: session.ReasonPoll}})
	m.Record(at.Add(2*time.Second), events.MediaLoadedMsg{URL: "/media/x.webp", Err: errors.New("gone")})
	m.Record(at.Add(3*time.Second), ticker.FrameMsg{ID: 1})

	got := m.Entries()
	if len(got) != 2 || got[0].Component != events.Media || got[1].Component != events.Sync {
		t.Fatalf("unexpected entries %#v", got)
	}
	if !got[0].At.Equal(at.Add(2 * time.Second)) {
		t.Fatalf("entry time not kept: %v", got[0].At)
	}
	if c := m.LastChange(); c == nil || c.ID != "01J" || c.Reason != session.ReasonPoll {
		t.Fatalf("unexpected last change %#v", c)
	}

	view := m.View()
	for _, want := range []string{"Events (2)", "1 warn", "last change poll 01J", "[media]", "[sync]"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestEmptyLog(t *testing.T) {
	m := New(0)
	if m.View() != "" {
		t.Fatalf("unsized log should render nothing")
	}
	m.SetSize(40, 5)
	if !strings.Contains(m.View(), "No events yet") {
		t.Fatalf("empty log should show placeholder")
	}
	m.Add(Entry{Component: events.Keys, Text: "event log enabled"})
	if e := m.Entries()[0]; e.At.IsZero() {
		t.Fatalf("Add should stamp a time: %#v", e)
	}
}
