package display

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/kiosk/pkg/carousel"
	"tableflip.dev/kiosk/pkg/model"
	"tableflip.dev/kiosk/pkg/session"
	"tableflip.dev/kiosk/pkg/status"
	"tableflip.dev/kiosk/pkg/ticker"
	"tableflip.dev/kiosk/pkg/tui/events"
)

var fixedNow = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	opts.Now = func() time.Time { return fixedNow }
	opts.Rand = rand.New(rand.NewSource(1))
	m := New(opts)
	m.SetSender(func(tea.Msg) {})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	t.Cleanup(m.shutdown)
	return m
}

func carouselState(mode string, ticker bool) model.State {
	return model.State{
		Config: model.Config{
			Theme:    "mint",
			Layout:   model.Layout{Mode: mode, ShowInfoColumn: true, ShowTicker: true},
			Carousel: model.Carousel{IntervalSec: model.NumberOf(60), Folders: model.AllFolders()},
			TextPanel: model.TextPanel{
				Title:    "Willkommen",
				Markdown: "# Heute\n- Turnen\n- Basteln",
			},
			Ticker: model.Ticker{Enabled: ticker, Items: []string{"Elternabend am Freitag"}},
		},
		Folders: []model.Folder{{ID: "f1", Name: "Ausflug", Slug: "ausflug"}},
		Images: model.ImageIndex{"f1": {
			{ID: "a", Filename: "a.webp"},
			{ID: "b", Filename: "b.webp"},
		}},
	}
}

func snapshot(st model.State) events.SnapshotChangedMsg {
	return events.SnapshotChangedMsg{Change: session.Change{ID: "x", State: st, Reason: session.ReasonPush}}
}

func view(m *Model) string {
	v, _ := m.View()
	return v
}

func TestModeSwitchCancelsExactlyOneScheduler(t *testing.T) {
	m := newTestModel(t, Options{})

	var created []*carousel.Scheduler
	modes := []string{"carousel", "carousel", "text", "carousel", "text"}
	for _, mode := range modes {
		m.Update(snapshot(carouselState(mode, false)))
		if s := m.Carousel(); s != nil {
			created = append(created, s)
		}

		running := 0
		for _, s := range created {
			if !s.Stopped() {
				running++
			}
		}
		want := 0
		if mode == "carousel" {
			want = 1
		}
		if running != want {
			t.Fatalf("mode %s: %d schedulers running, want %d", mode, running, want)
		}
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 schedulers over the run, got %d", len(created))
	}
}

func TestTickerRestartsOnEveryRender(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(snapshot(carouselState("carousel", true)))
	first := m.Ticker()
	if first == nil {
		t.Fatalf("ticker should run")
	}
	m.Update(snapshot(carouselState("carousel", true)))
	second := m.Ticker()
	if !first.Stopped() || second == nil || second == first {
		t.Fatalf("render must replace the animation")
	}
	if len(m.Effects()) != 2 {
		t.Fatalf("expected carousel and ticker effects, got %d", len(m.Effects()))
	}

	m.Update(snapshot(carouselState("text", false)))
	if !second.Stopped() || m.Ticker() != nil || len(m.Effects()) != 0 {
		t.Fatalf("disabled ticker must stop the animation")
	}
}

func TestStaleTicksAreDropped(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(snapshot(carouselState("carousel", false)))
	old := m.Carousel()
	m.Update(snapshot(carouselState("carousel", false)))
	cur := m.Carousel()

	m.Update(carousel.TickMsg{ID: old.ID()})
	if cur.Index() != 0 {
		t.Fatalf("tick for a stopped scheduler must not advance the new one")
	}
	m.Update(carousel.TickMsg{ID: cur.ID()})
	if cur.Index() != 1 || cur.ActiveSlot() != 1 {
		t.Fatalf("matching tick should advance, index %d slot %d", cur.Index(), cur.ActiveSlot())
	}
}

func TestFramesStepOnlyTheRunningAnimation(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(snapshot(carouselState("carousel", true)))
	a := m.Ticker()
	start := a.Offset()
	m.Update(ticker.FrameMsg{ID: a.ID(), At: fixedNow})
	m.Update(ticker.FrameMsg{ID: a.ID(), At: fixedNow.Add(100 * time.Millisecond)})
	if a.Offset() >= start {
		t.Fatalf("frame should move the strip")
	}
	moved := a.Offset()
	m.Update(ticker.FrameMsg{ID: a.ID() + 1000, At: fixedNow.Add(200 * time.Millisecond)})
	if a.Offset() != moved {
		t.Fatalf("foreign frame must be ignored")
	}
}

func TestEmptyCarouselShowsPlaceholder(t *testing.T) {
	m := newTestModel(t, Options{})
	st := carouselState("carousel", false)
	st.Images = nil
	m.Update(snapshot(st))
	if m.Carousel() != nil {
		t.Fatalf("no scheduler for an empty selection")
	}
	if !strings.Contains(view(m), NoImagesText) {
		t.Fatalf("expected %q in view", NoImagesText)
	}
}

func TestTextModeAndColumn(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(snapshot(carouselState("text", false)))
	v := view(m)
	for _, want := range []string{"Willkommen", "Heute", "Turnen", "Betreuungsampel", "09:30", "Sonntag, 10. März 2024"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q:\n%s", want, v)
		}
	}

	st := carouselState("text", false)
	st.Config.Layout.ShowInfoColumn = false
	m.Update(snapshot(st))
	if strings.Contains(view(m), "Betreuungsampel") {
		t.Fatalf("hidden info column must not render")
	}
}

func TestStartFailureIsFinal(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(events.StartFailedMsg{Err: errors.New("connection refused")})
	if !strings.Contains(view(m), ErrorTitle) || !strings.Contains(view(m), "connection refused") {
		t.Fatalf("expected error panel:\n%s", view(m))
	}
	m.Update(snapshot(carouselState("carousel", true)))
	if len(m.Effects()) != 0 {
		t.Fatalf("no effects may start after a failed start")
	}
}

func TestRenderWithoutSenderStartsNothing(t *testing.T) {
	board := status.NewBoard(nil)
	m := New(Options{Board: board})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(snapshot(carouselState("carousel", true)))
	if !errors.Is(m.Err(), ErrNoSender) {
		t.Fatalf("expected ErrNoSender, got %v", m.Err())
	}
	if len(m.Effects()) != 0 {
		t.Fatalf("failed render left effects running")
	}
	if board.Snapshot().Render.Error == "" {
		t.Fatalf("board should carry the render error")
	}
	if !strings.Contains(view(m), ErrorTitle) {
		t.Fatalf("expected error panel")
	}
}

func TestPublishesRenderInfo(t *testing.T) {
	board := status.NewBoard(nil)
	m := newTestModel(t, Options{Board: board})
	m.Update(snapshot(carouselState("carousel", true)))
	info := board.Snapshot().Render
	if info.Mode != "carousel" || info.Items != 2 || !info.Ticker || info.Renders != 1 {
		t.Fatalf("unexpected render info %#v", info)
	}
	if !strings.Contains(info.ColumnHTML, "Betreuungsampel") {
		t.Fatalf("column html missing")
	}
}

type fakeArt struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeArt) Art(_ context.Context, path string, cols, rows int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	return "ART:" + path, nil
}

func TestMediaLoadedForVisibleSlide(t *testing.T) {
	art := &fakeArt{}
	m := newTestModel(t, Options{Media: art})
	_, cmd := m.Update(snapshot(carouselState("carousel", false)))
	if cmd == nil {
		t.Fatalf("expected commands after a snapshot")
	}

	w, h := m.artSize()
	url := m.Carousel().Current().URL
	m.Update(events.MediaLoadedMsg{URL: url, Width: w, Height: h, Art: "PIXELS"})
	if !strings.Contains(view(m), "PIXELS") || !strings.Contains(view(m), "Ausflug") {
		t.Fatalf("expected art and caption in view:\n%s", view(m))
	}
	if again := m.requestArt(); again != nil {
		t.Fatalf("cached art should not be requested again")
	}
}

func TestKeys(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(snapshot(carouselState("carousel", true)))

	m.Update(tea.KeyPressMsg{Text: "d", Code: 'd'})
	if !m.debugEnabled || m.eventLog == nil {
		t.Fatalf("d should open the event log")
	}
	m.Update(carousel.TickMsg{ID: m.Carousel().ID()})
	if len(m.eventLog.Entries()) < 2 {
		t.Fatalf("event log should record messages")
	}

	_, cmd := m.Update(tea.KeyPressMsg{Text: "q", Code: 'q'})
	if cmd == nil {
		t.Fatalf("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q should return tea.Quit")
	}
	if len(m.Effects()) != 0 {
		t.Fatalf("quit must stop all effects")
	}
}

func TestLongDate(t *testing.T) {
	if got := LongDate(time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)); got != "Freitag, 16. Oktober 2026" {
		t.Fatalf("got %q", got)
	}
}

func TestArtForRemovedItemsIsDropped(t *testing.T) {
	m := newTestModel(t, Options{Media: &fakeArt{}})
	m.Update(snapshot(carouselState("carousel", false)))

	w, h := m.artSize()
	kept := carousel.MediaPath("ausflug", "a.webp")
	gone := carousel.MediaPath("ausflug", "b.webp")
	m.Update(events.MediaLoadedMsg{URL: kept, Width: w, Height: h, Art: "A"})
	m.Update(events.MediaLoadedMsg{URL: gone, Width: w, Height: h, Art: "B"})
	m.pending[artKey(gone, w+1, h)] = true
	if len(m.art) != 2 {
		t.Fatalf("expected both images cached, got %d", len(m.art))
	}

	next := carouselState("carousel", false)
	next.Images["f1"] = next.Images["f1"][:1]
	m.Update(snapshot(next))
	if _, ok := m.art[artKey(kept, w, h)]; !ok || len(m.art) != 1 {
		t.Fatalf("expected only %s cached, got %v", kept, m.art)
	}
	if m.pending[artKey(gone, w+1, h)] {
		t.Fatalf("pending load for a removed image survived")
	}

	// a load finishing after its item went away is not cached
	m.Update(events.MediaLoadedMsg{URL: gone, Width: w, Height: h, Art: "B"})
	if len(m.art) != 1 {
		t.Fatalf("late load for a removed image was cached")
	}

	m.Update(snapshot(carouselState("text", false)))
	if len(m.art) != 0 {
		t.Fatalf("text mode should drop all cached art, got %d", len(m.art))
	}
}

func TestModelContextFollowsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := newTestModel(t, Options{Ctx: parent})
	if m.ctx.Err() != nil {
		t.Fatalf("model context done before cancel")
	}
	cancel()
	select {
	case <-m.ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("cancelling the parent did not cancel the model context")
	}

	m = newTestModel(t, Options{})
	if m.ctx == nil || m.ctx.Err() != nil {
		t.Fatalf("expected a live background context")
	}
}
