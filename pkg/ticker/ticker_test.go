package ticker

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
)

func TestContent(t *testing.T) {
	if got := Content(nil); got != Placeholder {
		t.Fatalf("empty content: got %q", got)
	}
	if got := Content([]string{" ", ""}); got != Placeholder {
		t.Fatalf("blank items: got %q", got)
	}
	got := Content([]string{"A", "B"})
	if strings.Count(got, Separator) != 2 || !strings.HasPrefix(got, "A") {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestStepMovesAtSpeed(t *testing.T) {
	a := newAnimation("abcd", 10, 80)
	if a.Offset() != 80 {
		t.Fatalf("strip should start at the right edge, got %v", a.Offset())
	}
	start := time.Unix(100, 0)
	a.Step(start)
	if a.Offset() != 80 {
		t.Fatalf("first frame only sets the baseline, got %v", a.Offset())
	}
	a.Step(start.Add(100 * time.Millisecond))
	if a.Offset() != 72 {
		t.Fatalf("expected 72 after 100ms at 80px/s, got %v", a.Offset())
	}
}

func TestStepWrapsAfterLeavingTrack(t *testing.T) {
	a := newAnimation("ab", 4, 200)
	// content is 16px wide, track 32px
	at := time.Unix(0, 0)
	a.Step(at)
	wrapped := false
	prev := a.Offset()
	for i := 0; i < 40; i++ {
		at = at.Add(50 * time.Millisecond)
		a.Step(at)
		if a.Offset() > prev {
			wrapped = true
			if a.Offset() != 32 {
				t.Fatalf("wrap should reset to track width, got %v", a.Offset())
			}
			if prev-10 >= -16 {
				t.Fatalf("wrapped before leaving the track: prev %v", prev)
			}
			break
		}
		prev = a.Offset()
	}
	if !wrapped {
		t.Fatalf("strip never wrapped")
	}
}

func TestStepClampsLongPauses(t *testing.T) {
	a := newAnimation("abcdefghij", 100, 100)
	at := time.Unix(0, 0)
	a.Step(at)
	a.Step(at.Add(10 * time.Second))
	if got := a.Offset(); got != 800-25 {
		t.Fatalf("expected one clamped step, got %v", got)
	}
}

func TestView(t *testing.T) {
	a := newAnimation("hi", 5, 10)
	if got := a.View(5); got != "     " {
		t.Fatalf("strip off the right edge should be blank, got %q", got)
	}
	a.x = 16
	if got := a.View(5); got != "  hi " {
		t.Fatalf("got %q", got)
	}
	a.x = -8
	if got := a.View(5); got != "i    " {
		t.Fatalf("got %q", got)
	}
}

func TestStartStopsPreviousAnimation(t *testing.T) {
	tr := NewTrack(20)
	send := func(tea.Msg) {}
	first := tr.Start([]string{"one"}, 70, 30, send)
	second := tr.Start([]string{"two"}, 70, 30, send)
	defer tr.Stop()

	if !first.Stopped() {
		t.Fatalf("restart must stop the running animation")
	}
	if second.Stopped() || tr.Animation() != second {
		t.Fatalf("track should own the new animation")
	}
	if first.ID() == second.ID() {
		t.Fatalf("animations must have distinct ids")
	}

	pos := first.Offset()
	first.Step(time.Now())
	first.Step(time.Now().Add(time.Second))
	if first.Offset() != pos {
		t.Fatalf("stopped animation must not move")
	}
}

func TestStopIdempotent(t *testing.T) {
	tr := NewTrack(10)
	tr.Stop()
	a := tr.Start(nil, 70, 30, func(tea.Msg) {})
	a.Stop()
	a.Stop()
	tr.Stop()
	if tr.Animation() != nil {
		t.Fatalf("expected no animation after stop")
	}
	if got := tr.View(); got != strings.Repeat(" ", 10) {
		t.Fatalf("idle track should be blank, got %q", got)
	}
}
