// Package eventlog is the debug overlay. It lists the messages that move the
// display, newest first and coloured by the component that produced them,
// and keeps the id of the last snapshot change in its header.
package eventlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/kiosk/pkg/carousel"
	"tableflip.dev/kiosk/pkg/session"
	"tableflip.dev/kiosk/pkg/tui/events"
)

// Level is the severity of an entry.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Entry is one logged message.
type Entry struct {
	At        time.Time
	Component events.ComponentID
	Level     Level
	Text      string
}

// Model is the scrolling overlay.
type Model struct {
	viewport viewport.Model
	entries  []Entry
	max      int

	width  int
	height int

	last *session.Change
}

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("248"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))

	componentStyles = map[events.ComponentID]lipgloss.Style{
		events.Sync:     lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")),
		events.Carousel: lipgloss.NewStyle().Foreground(lipgloss.Color("#AF87FF")),
		events.Ticker:   lipgloss.NewStyle().Foreground(lipgloss.Color("#87D787")),
		events.Media:    lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AF5F")),
		events.Clock:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		events.Keys:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
)

// New returns a log keeping at most maxEntries.
func New(maxEntries int) *Model {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return &Model{
		viewport: viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		max:      maxEntries,
	}
}

// Classify turns a display message into an entry. Frame and clock ticks and
// anything the display does not act on are not logged.
func Classify(msg tea.Msg) (Entry, bool) {
	switch v := msg.(type) {
	case events.SnapshotChangedMsg:
		return Entry{Component: events.Sync, Text: "snapshot " + v.Describe()}, true
	case events.StartFailedMsg:
		return Entry{Component: events.Sync, Level: LevelError, Text: "start " + v.Describe()}, true
	case events.RefreshDoneMsg:
		e := Entry{Component: events.Sync, Text: "refresh " + v.Describe()}
		if v.Err != nil {
			e.Level = LevelWarn
		}
		return e, true
	case carousel.TickMsg:
		return Entry{Component: events.Carousel, Text: fmt.Sprintf("advance id=%d", v.ID)}, true
	case events.MediaLoadedMsg:
		e := Entry{Component: events.Media, Text: "art " + v.Describe()}
		if v.Err != nil {
			e.Level = LevelWarn
		}
		return e, true
	case tea.KeyPressMsg:
		return Entry{Component: events.Keys, Text: fmt.Sprintf("key %q", v.String())}, true
	}
	return Entry{}, false
}

// Record classifies msg and logs it at the given time. Snapshot changes also
// become the header's last change.
func (m *Model) Record(at time.Time, msg tea.Msg) {
	e, ok := Classify(msg)
	if !ok {
		return
	}
	if v, ok := msg.(events.SnapshotChangedMsg); ok {
		c := v.Change
		m.last = &c
	}
	e.At = at
	m.Add(e)
}

// Add inserts an entry at the top, dropping the oldest past the cap.
func (m *Model) Add(e Entry) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	m.entries = append([]Entry{e}, m.entries...)
	if len(m.entries) > m.max {
		m.entries = m.entries[:m.max]
	}
	m.refresh()
	m.viewport.SetYOffset(0)
}

// Entries returns the kept entries, newest first.
func (m *Model) Entries() []Entry {
	return m.entries
}

// LastChange returns the last snapshot change recorded, or nil.
func (m *Model) LastChange() *session.Change {
	return m.last
}

// SetSize fits the overlay into width by height cells, border included.
func (m *Model) SetSize(width, height int) {
	width, height = max(width, 4), max(height, 3)
	if m.width == width && m.height == height {
		return
	}
	m.width, m.height = width, height
	m.viewport.SetWidth(max(1, width-2))
	m.viewport.SetHeight(max(1, height-3))
	m.refresh()
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	body := lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render(m.header()), m.viewport.View())
	return frameStyle.Width(m.width).Height(m.height).Render(body)
}

func (m *Model) header() string {
	var warns, errs int
	for _, e := range m.entries {
		switch e.Level {
		case LevelWarn:
			warns++
		case LevelError:
			errs++
		}
	}
	h := fmt.Sprintf("Events (%d)", len(m.entries))
	if warns+errs > 0 {
		h += fmt.Sprintf("  %d warn  %d error", warns, errs)
	}
	if m.last != nil {
		h += fmt.Sprintf("  last change %s %s", m.last.Reason, m.last.ID)
	}
	return h
}

func (m *Model) refresh() {
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		lines = append(lines, renderEntry(e))
	}
	if len(lines) == 0 {
		lines = append(lines, timeStyle.Render("No events yet"))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func renderEntry(e Entry) string {
	comp := fmt.Sprintf("[%s]", e.Component)
	if st, ok := componentStyles[e.Component]; ok {
		comp = st.Render(comp)
	}
	text := e.Text
	switch e.Level {
	case LevelWarn:
		text = warnStyle.Render(text)
	case LevelError:
		text = errorStyle.Render(text)
	}
	return timeStyle.Render(e.At.Format("15:04:05.000")) + " " + comp + " " + text
}
