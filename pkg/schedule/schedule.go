// Package schedule picks upcoming dated lines out of free text.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Event is one parsed "D.M.YYYY label" line.
type Event struct {
	Date  time.Time
	Label string
}

// Prefix formats the date as "DD.MM.".
func (e Event) Prefix() string {
	return fmt.Sprintf("%02d.%02d.", e.Date.Day(), int(e.Date.Month()))
}

var linePattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})(.*)$`)

// Parse reads a single line. It reports false for lines that do not match
// the pattern or name a date that does not exist. Impossible dates such as
// 31.02.2024 are dropped, not rolled over into the following month.
func Parse(line string) (Event, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Event{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month {
		return Event{}, false
	}
	return Event{Date: date, Label: strings.TrimSpace(m[4])}, true
}

// Upcoming returns the events dated today or later, in input order.
// Malformed lines are dropped.
func Upcoming(today time.Time, lines []string) []Event {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	var out []Event
	for _, line := range lines {
		ev, ok := Parse(line)
		if !ok {
			continue
		}
		if ev.Date.Before(start) {
			continue
		}
		out = append(out, ev)
	}
	return out
}
