package carousel

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// TickMsg asks the owner of scheduler ID to advance it.
type TickMsg struct {
	ID uint64
	At time.Time
}

// Slot is one of the two crossfade layers.
type Slot struct {
	Item   Item
	Filled bool
	Active bool
}

var nextID atomic.Uint64

// Scheduler owns the rotation state and its interval timer. Advance is
// called from the display's update loop; Stop may be called from anywhere.
type Scheduler struct {
	id       uint64
	items    []Item
	idx      int
	active   int
	slots    [2]Slot
	interval time.Duration

	ticker  *time.Ticker
	done    chan struct{}
	once    sync.Once
	stopped atomic.Bool
}

// New paints the first item into slot 0 without starting a timer. It
// returns nil for an empty item list.
func New(items []Item) *Scheduler {
	if len(items) == 0 {
		return nil
	}
	s := &Scheduler{
		id:    nextID.Add(1),
		items: items,
		done:  make(chan struct{}),
	}
	s.slots[0] = Slot{Item: items[0], Filled: true, Active: true}
	return s
}

// Start builds a scheduler and begins emitting a TickMsg every interval
// through send. It returns nil, and starts nothing, when items is empty.
func Start(items []Item, interval time.Duration, send func(tea.Msg)) *Scheduler {
	s := New(items)
	if s == nil {
		return nil
	}
	s.run(interval, send)
	return s
}

func (s *Scheduler) run(interval time.Duration, send func(tea.Msg)) {
	s.interval = interval
	s.ticker = time.NewTicker(interval)
	go func(t *time.Ticker, done <-chan struct{}) {
		for {
			select {
			case <-done:
				return
			case at := <-t.C:
				if s.stopped.Load() {
					return
				}
				send(TickMsg{ID: s.id, At: at})
			}
		}
	}(s.ticker, s.done)
}

// ID identifies the ticks this scheduler emits.
func (s *Scheduler) ID() uint64 { return s.id }

// Interval is the rotation period, zero when no timer runs.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Len is the number of items in rotation.
func (s *Scheduler) Len() int { return len(s.items) }

// Index is the position of the visible item.
func (s *Scheduler) Index() int { return s.idx }

// Current returns the visible item.
func (s *Scheduler) Current() Item { return s.items[s.idx] }

// ActiveSlot reports which slot is visible.
func (s *Scheduler) ActiveSlot() int { return s.active }

// Slots returns a copy of both slots.
func (s *Scheduler) Slots() [2]Slot { return s.slots }

// Advance paints the next item into the hidden slot and makes it the
// visible one. It reports false once the scheduler is stopped.
func (s *Scheduler) Advance() (Item, bool) {
	if s.Stopped() {
		return Item{}, false
	}
	s.idx = (s.idx + 1) % len(s.items)
	next := 1 - s.active
	s.slots[next] = Slot{Item: s.items[s.idx], Filled: true, Active: true}
	s.slots[s.active].Active = false
	s.active = next
	return s.items[s.idx], true
}

// Stop cancels the timer. It is safe to call more than once.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.stopped.Store(true)
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.done)
	})
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	return s == nil || s.stopped.Load()
}
