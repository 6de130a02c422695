// Package display is the kiosk's Bubble Tea program. It turns each snapshot
// into a screen and owns every timer that animates it.
package display

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/kiosk/pkg/carousel"
	"tableflip.dev/kiosk/pkg/infocolumn"
	"tableflip.dev/kiosk/pkg/logging"
	"tableflip.dev/kiosk/pkg/model"
	"tableflip.dev/kiosk/pkg/session"
	"tableflip.dev/kiosk/pkg/status"
	"tableflip.dev/kiosk/pkg/ticker"
	"tableflip.dev/kiosk/pkg/tui/components/eventlog"
	"tableflip.dev/kiosk/pkg/tui/events"
	"tableflip.dev/kiosk/pkg/tui/theme"
	"tableflip.dev/kiosk/pkg/tui/ui"
)

// ErrNoSender is returned by a render pass before SetSender was called.
var ErrNoSender = errors.New("display: no message sender")

const clockEvery = 5 * time.Second

// Ticker frame rate limits.
const (
	DefaultFPS = 30
	MinFPS     = 5
	MaxFPS     = 60
)

// ArtLoader renders a media path as terminal art.
type ArtLoader interface {
	Art(ctx context.Context, path string, cols, rows int) (string, error)
}

// Options wires the display to its collaborators. Session is required to
// run; Media, Board and Logger are optional. Ctx bounds the session loops
// and media loads started by the model; nil means context.Background.
type Options struct {
	Ctx     context.Context
	Session *session.Manager
	Media   ArtLoader
	Board   *status.Board
	Logger  *slog.Logger
	FPS     int
	Now     func() time.Time
	Rand    *rand.Rand
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	session *session.Manager
	media   ArtLoader
	board   *status.Board
	log     *slog.Logger
	send    func(tea.Msg)
	now     func() time.Time
	rng     *rand.Rand
	fps     int

	width  int
	height int

	theme     theme.Theme
	state     *model.State
	startErr  error
	renderErr error
	renders   int
	clock     time.Time

	column infocolumn.Column
	slides *carousel.Scheduler
	track  *ticker.Track

	art     map[string]string
	pending map[string]bool
	// media URLs of the rendered snapshot's items
	live map[string]bool

	debugEnabled bool
	eventLog     *eventlog.Model
}

// New constructs the root model.
func New(opts Options) *Model {
	parent := opts.Ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	fps := opts.FPS
	if fps == 0 {
		fps = DefaultFPS
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(now().UnixNano()))
	}
	return &Model{
		ctx:     ctx,
		cancel:  cancel,
		session: opts.Session,
		media:   opts.Media,
		board:   opts.Board,
		log:     logging.Channel(opts.Logger, logging.Render),
		now:     now,
		rng:     rng,
		fps:     model.Clamp(fps, MinFPS, MaxFPS),
		theme:   theme.Default(),
		clock:   now(),
		track:   ticker.NewTrack(0),
		art:     make(map[string]string),
		pending: make(map[string]bool),
	}
}

// SetSender gives the model the function timers use to post messages,
// usually the program's Send.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.send = send
}

// Run launches the Bubble Tea program in the alternate screen.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.SetSender(p.Send)
	_, err := p.Run()
	m.shutdown()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{events.ClockCmd(clockEvery)}
	if m.session != nil {
		cmds = append(cmds, events.StartCmd(m.ctx, m.session))
	}
	return tea.Batch(cmds...)
}

// Update is the single dispatcher for every state transition.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.eventLog != nil {
		m.eventLog.Record(m.now(), msg)
	}

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.layout()
		return m, m.requestArt()

	case tea.KeyPressMsg:
		switch v.String() {
		case "ctrl+c", "q":
			m.shutdown()
			return m, tea.Quit
		case "r":
			if m.session != nil && m.state != nil {
				return m, events.RefreshCmd(m.ctx, m.session)
			}
		case "d":
			m.toggleDebug()
		}

	case events.StartFailedMsg:
		m.startErr = v.Err
		m.log.Error("initial fetch failed", "error", v.Err)
		m.publish()

	case events.SnapshotChangedMsg:
		if m.startErr != nil {
			return m, nil
		}
		if err := m.render(v.Change.State); err != nil {
			m.log.Error("render failed", "change", v.Change.ID, "error", err)
		}
		cmds := []tea.Cmd{m.requestArt()}
		if m.session != nil {
			cmds = append(cmds, events.WaitForChange(m.ctx, m.session.Changes()))
		}
		return m, tea.Batch(cmds...)

	case events.RefreshDoneMsg:
		if v.Err != nil {
			m.log.Warn("manual refresh failed", "error", v.Err)
		}

	case carousel.TickMsg:
		if m.slides == nil || m.slides.Stopped() || v.ID != m.slides.ID() {
			m.log.Debug("dropping stale carousel tick", "id", v.ID)
			return m, nil
		}
		if _, ok := m.slides.Advance(); ok {
			return m, m.requestArt()
		}

	case ticker.FrameMsg:
		if a := m.track.Animation(); a != nil && a.ID() == v.ID {
			a.Step(v.At)
		}

	case events.MediaLoadedMsg:
		key := artKey(v.URL, v.Width, v.Height)
		delete(m.pending, key)
		if v.Err != nil {
			m.log.Warn("media load failed", "url", v.URL, "error", v.Err)
			break
		}
		if !m.live[v.URL] {
			break
		}
		m.art[key] = v.Art

	case events.ClockMsg:
		m.clock = time.Time(v)
		return m, events.ClockCmd(clockEvery)
	}

	return m, nil
}

// render is one pass: stop the old effects, then derive everything from st
// and start the new ones. A failed pass stops whatever it started.
func (m *Model) render(st model.State) (err error) {
	m.stopEffects()
	m.state = &st
	m.renderErr = nil

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("display: render: %v", r)
		}
		if err != nil {
			m.stopEffects()
			m.renderErr = err
		}
		m.renders++
		m.publish()
	}()

	if m.send == nil {
		return ErrNoSender
	}

	cfg := st.Config
	m.theme = theme.ForID(cfg.Theme)
	m.column = infocolumn.Compose(cfg, st.Weather, m.now())

	var items []carousel.Item
	if cfg.Mode() == model.ModeCarousel {
		items = carousel.Items(cfg, st.Folders, st.Images)
		if cfg.Carousel.Shuffle {
			carousel.Shuffle(items, m.rng)
		}
	}
	m.pruneArt(items)
	if cfg.Mode() == model.ModeCarousel {
		m.slides = carousel.Start(items, cfg.CarouselInterval(), m.send)
	}

	if cfg.TickerEnabled() {
		m.track.SetWidth(m.width)
		m.track.Start(cfg.Ticker.Items, cfg.TickerSpeed(), m.fps, m.send)
	}

	m.layout()
	m.log.Info("rendered",
		"mode", string(cfg.Mode()),
		"theme", m.theme.ID,
		"items", m.slideCount(),
		"ticker", cfg.TickerEnabled(),
	)
	return nil
}

func (m *Model) stopEffects() {
	m.slides.Stop()
	m.slides = nil
	m.track.Stop()
}

func (m *Model) shutdown() {
	m.stopEffects()
	m.cancel()
}

// Effects lists the running effect handles.
func (m *Model) Effects() []ui.Effect {
	var out []ui.Effect
	if m.slides != nil && !m.slides.Stopped() {
		out = append(out, m.slides)
	}
	if a := m.track.Animation(); a != nil {
		out = append(out, a)
	}
	return out
}

// Carousel returns the running scheduler, or nil.
func (m *Model) Carousel() *carousel.Scheduler { return m.slides }

// Ticker returns the running strip animation, or nil.
func (m *Model) Ticker() *ticker.Animation { return m.track.Animation() }

// Err reports the start or render error currently shown.
func (m *Model) Err() error {
	if m.startErr != nil {
		return m.startErr
	}
	return m.renderErr
}

func (m *Model) slideCount() int {
	if m.slides == nil {
		return 0
	}
	return m.slides.Len()
}

func (m *Model) publish() {
	if m.board == nil {
		return
	}
	info := status.RenderInfo{
		Renders:    m.renders,
		RenderedAt: m.now(),
		Theme:      m.theme.ID,
		Items:      m.slideCount(),
		ColumnHTML: m.column.HTML(),
	}
	if m.state != nil {
		info.Mode = string(m.state.Config.Mode())
		info.Ticker = m.state.Config.TickerEnabled()
	}
	if err := m.Err(); err != nil {
		info.Error = err.Error()
	}
	m.board.SetRender(info)
}

func artKey(url string, w, h int) string {
	return fmt.Sprintf("%s@%dx%d", url, w, h)
}

func artURL(key string) string {
	if i := strings.LastIndex(key, "@"); i >= 0 {
		return key[:i]
	}
	return key
}

// pruneArt forgets cached and in-flight art for URLs the new items no
// longer show.
func (m *Model) pruneArt(items []carousel.Item) {
	m.live = make(map[string]bool, len(items))
	for _, it := range items {
		m.live[it.URL] = true
	}
	for key := range m.art {
		if !m.live[artURL(key)] {
			delete(m.art, key)
		}
	}
	for key := range m.pending {
		if !m.live[artURL(key)] {
			delete(m.pending, key)
		}
	}
}

// requestArt loads the visible slide's art for the current panel size.
func (m *Model) requestArt() tea.Cmd {
	if m.media == nil || m.slides == nil || m.slides.Stopped() {
		return nil
	}
	w, h := m.artSize()
	if w <= 0 || h <= 0 {
		return nil
	}
	url := m.slides.Current().URL
	key := artKey(url, w, h)
	if _, ok := m.art[key]; ok || m.pending[key] {
		return nil
	}
	m.pending[key] = true
	ctx, media := m.ctx, m.media
	return func() tea.Msg {
		art, err := media.Art(ctx, url, w, h)
		return events.MediaLoadedMsg{URL: url, Width: w, Height: h, Art: art, Err: err}
	}
}

func (m *Model) toggleDebug() {
	if m.debugEnabled {
		m.debugEnabled = false
		m.eventLog = nil
		m.layout()
		return
	}
	m.debugEnabled = true
	m.eventLog = eventlog.New(400)
	m.eventLog.Add(eventlog.Entry{At: m.now(), Component: events.Keys, Text: "event log enabled"})
	m.layout()
}
