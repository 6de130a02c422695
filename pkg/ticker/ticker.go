// Package ticker scrolls the announcement strip at a constant speed.
package ticker

import (
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
)

// CellWidth is the number of pixels a terminal cell stands for. Speeds are
// configured in pixels per second.
const CellWidth = 8

// Separator follows every item in the strip.
const Separator = "•"

// Placeholder is shown when there is nothing to announce.
const Placeholder = "—"

// maxStep bounds the time credited to a single frame.
const maxStep = 250 * time.Millisecond

// FrameMsg asks the owner of animation ID to step it.
type FrameMsg struct {
	ID uint64
	At time.Time
}

// Content joins items into the strip text.
func Content(items []string) string {
	var parts []string
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		parts = append(parts, it+"   "+Separator+"   ")
	}
	if len(parts) == 0 {
		return Placeholder
	}
	return strings.Join(parts, "")
}

var nextID atomic.Uint64

// Animation is one running scroll of fixed content.
type Animation struct {
	id           uint64
	content      string
	cells        []rune
	contentWidth float64
	trackWidth   float64
	speed        float64
	x            float64
	last         time.Time

	ticker  *time.Ticker
	done    chan struct{}
	once    sync.Once
	stopped atomic.Bool
}

func newAnimation(content string, trackCells, speed int) *Animation {
	a := &Animation{
		id:      nextID.Add(1),
		content: content,
		cells:   layout(content),
		speed:   float64(speed),
		done:    make(chan struct{}),
	}
	a.contentWidth = float64(ansi.PrintableRuneWidth(content) * CellWidth)
	a.trackWidth = float64(trackCells * CellWidth)
	a.x = a.trackWidth
	return a
}

// layout expands wide runes so every entry is one cell.
func layout(s string) []rune {
	var out []rune
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		out = append(out, r)
		for i := 1; i < w; i++ {
			out = append(out, 0)
		}
	}
	return out
}

func (a *Animation) run(fps int, send func(tea.Msg)) {
	if fps <= 0 {
		fps = 30
	}
	a.ticker = time.NewTicker(time.Second / time.Duration(fps))
	go func(t *time.Ticker, done <-chan struct{}) {
		for {
			select {
			case <-done:
				return
			case at := <-t.C:
				if a.stopped.Load() {
					return
				}
				send(FrameMsg{ID: a.id, At: at})
			}
		}
	}(a.ticker, a.done)
}

// ID identifies the frames this animation emits.
func (a *Animation) ID() uint64 { return a.id }

// Content is the text being scrolled.
func (a *Animation) Content() string { return a.content }

// Offset is the strip's left edge in pixels relative to the track.
func (a *Animation) Offset() float64 { return a.x }

// ContentWidth is the measured strip width in pixels.
func (a *Animation) ContentWidth() float64 { return a.contentWidth }

// Step moves the strip left by speed times the elapsed time and wraps it to
// the right edge once it has fully left the track.
func (a *Animation) Step(at time.Time) {
	if a.Stopped() {
		return
	}
	var dt time.Duration
	if !a.last.IsZero() {
		dt = at.Sub(a.last)
	}
	if dt < 0 {
		dt = 0
	}
	if dt > maxStep {
		dt = maxStep
	}
	a.last = at
	a.x -= a.speed * dt.Seconds()
	if a.x < -a.contentWidth {
		a.x = a.trackWidth
	}
}

// View renders the visible window of the strip width cells wide.
func (a *Animation) View(width int) string {
	if width <= 0 {
		return ""
	}
	col := int(math.Floor(a.x / CellWidth))
	var b strings.Builder
	for c := 0; c < width; c++ {
		i := c - col
		if i < 0 || i >= len(a.cells) {
			b.WriteByte(' ')
			continue
		}
		if r := a.cells[i]; r != 0 {
			b.WriteRune(r)
		} else if c == 0 {
			// second half of a wide rune cut at the left edge
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// Stop cancels the frame timer. It is safe to call more than once.
func (a *Animation) Stop() {
	if a == nil {
		return
	}
	a.once.Do(func() {
		a.stopped.Store(true)
		if a.ticker != nil {
			a.ticker.Stop()
		}
		close(a.done)
	})
}

// Stopped reports whether Stop has been called.
func (a *Animation) Stopped() bool {
	return a == nil || a.stopped.Load()
}

// Track is the strip's viewport. It owns at most one running animation.
type Track struct {
	width int
	anim  *Animation
}

// NewTrack returns a track width cells wide.
func NewTrack(width int) *Track {
	return &Track{width: width}
}

// Width is the track width in cells.
func (t *Track) Width() int { return t.width }

// SetWidth resizes the track. A running animation wraps against the new
// width from its next frame on.
func (t *Track) SetWidth(cells int) {
	t.width = cells
	if t.anim != nil {
		t.anim.trackWidth = float64(cells * CellWidth)
	}
}

// Start stops any running animation and scrolls items at speed pixels per
// second, emitting fps frames per second through send.
func (t *Track) Start(items []string, speed, fps int, send func(tea.Msg)) *Animation {
	t.Stop()
	a := newAnimation(Content(items), t.width, speed)
	a.run(fps, send)
	t.anim = a
	return a
}

// Animation returns the running animation, or nil.
func (t *Track) Animation() *Animation {
	if t.anim.Stopped() {
		return nil
	}
	return t.anim
}

// Stop cancels the running animation, if any.
func (t *Track) Stop() {
	t.anim.Stop()
	t.anim = nil
}

// View renders the track.
func (t *Track) View() string {
	if t.anim == nil {
		return strings.Repeat(" ", max(t.width, 0))
	}
	return t.anim.View(t.width)
}
