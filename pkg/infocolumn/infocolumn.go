// Package infocolumn composes the secondary column from the configuration
// and the latest weather reading.
package infocolumn

import (
	"fmt"
	"math"
	"strings"
	"time"

	"tableflip.dev/kiosk/pkg/markdown"
	"tableflip.dev/kiosk/pkg/model"
	"tableflip.dev/kiosk/pkg/schedule"
	"tableflip.dev/kiosk/pkg/weather"
)

// Kind identifies a box.
type Kind int

const (
	KindWeather Kind = iota
	KindEvents
	KindStatus
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindWeather:
		return "weather"
	case KindEvents:
		return "events"
	case KindStatus:
		return "status"
	default:
		return "custom"
	}
}

// Fixed box texts.
const (
	WeatherLoadingText = "Lade Wetter…"
	WeatherErrorText   = "Wetterdaten nicht verfügbar."
	StatusTitle        = "Betreuungsampel"
	EventsTitle        = "Termine"
	NoEventsText       = "Aktuell keine Termine."
	CustomTitle        = "Info"
)

// Box is one card of the column. Only the field matching Kind is set.
type Box struct {
	Kind    Kind
	Title   string
	Weather *WeatherBox
	Events  *EventsBox
	Status  *StatusBox
	Body    string
}

// WeatherBox is the display form of the weather tri-state.
type WeatherBox struct {
	State   model.WeatherState
	Icon    string
	Temp    string
	Summary string
	Today   string
	Message string
}

// EventsBox lists upcoming events or the empty text.
type EventsBox struct {
	Events []schedule.Event
	Empty  string
}

// StatusBox is the three-light indicator.
type StatusBox struct {
	Light   model.Light
	Label   string
	Details string
}

// Column is the ordered list of boxes.
type Column struct {
	Boxes []Box
}

// Compose builds the column: weather, events, status and the enabled custom
// boxes, in that order. It has no side effects.
func Compose(cfg model.Config, w *model.Weather, today time.Time) Column {
	var col Column
	if cfg.InfoBoxes.WeatherEnabled {
		col.Boxes = append(col.Boxes, weatherBox(cfg.InfoBoxes.Weather.City, w))
	}
	if ev := cfg.EventSettings(); ev.Enabled {
		col.Boxes = append(col.Boxes, eventsBox(ev, today))
	}
	col.Boxes = append(col.Boxes, statusBox(cfg.InfoBoxes.Ampel))
	for _, c := range cfg.InfoBoxes.Custom {
		if !c.Enabled {
			continue
		}
		title := c.Title
		if title == "" {
			title = CustomTitle
		}
		col.Boxes = append(col.Boxes, Box{Kind: KindCustom, Title: title, Body: c.Markdown})
	}
	return col
}

func weatherBox(city string, w *model.Weather) Box {
	b := &WeatherBox{State: w.State()}
	switch b.State {
	case model.WeatherError:
		b.Message = WeatherErrorText
	case model.WeatherLoading:
		b.Message = WeatherLoadingText
	case model.WeatherCurrent:
		cur := w.Current
		b.Icon = weather.Icon(cur.Code, cur.IsDay == nil || *cur.IsDay != 0)
		b.Temp = round(cur.Temp) + "°"
		b.Summary = fmt.Sprintf("%s · Wind %s km/h", weather.Label(cur.Code), round(cur.Wind))
		if d, ok := w.Today(); ok {
			b.Today = fmt.Sprintf("Heute: %s – %s°", round(d.TMin), round(d.TMax))
		}
	}
	return Box{
		Kind:    KindWeather,
		Title:   strings.TrimSpace("Wetter – " + city),
		Weather: b,
	}
}

// round rounds half up, so -2.5 becomes -2.
func round(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return "—"
	}
	return fmt.Sprintf("%d", int(math.Floor(*v+0.5)))
}

func eventsBox(ev model.Events, today time.Time) Box {
	title := ev.Title
	if title == "" {
		title = EventsTitle
	}
	b := &EventsBox{Events: schedule.Upcoming(today, ev.Items)}
	if len(b.Events) == 0 {
		b.Empty = NoEventsText
	}
	return Box{Kind: KindEvents, Title: title, Events: b}
}

func statusBox(a model.Ampel) Box {
	label := a.Label
	if label == "" {
		label = "—"
	}
	return Box{
		Kind:   KindStatus,
		Title:  StatusTitle,
		Status: &StatusBox{Light: a.Light(), Label: label, Details: a.Details},
	}
}

// HTML renders the column as markup for the status server.
func (c Column) HTML() string {
	var b strings.Builder
	for _, box := range c.Boxes {
		fmt.Fprintf(&b, `<div class="box %s"><h3>%s</h3>`, box.Kind, markdown.Escape(box.Title))
		switch box.Kind {
		case KindWeather:
			wb := box.Weather
			if wb.State != model.WeatherCurrent {
				fmt.Fprintf(&b, `<div class="small">%s</div>`, markdown.Escape(wb.Message))
				break
			}
			fmt.Fprintf(&b, `<div class="big">%s</div><div class="small">%s</div>`,
				markdown.Escape(wb.Temp), markdown.Escape(wb.Summary))
			if wb.Today != "" {
				fmt.Fprintf(&b, `<div class="small">%s</div>`, markdown.Escape(wb.Today))
			}
		case KindEvents:
			if len(box.Events.Events) == 0 {
				fmt.Fprintf(&b, `<div class="small">%s</div>`, markdown.Escape(box.Events.Empty))
				break
			}
			b.WriteString(`<div class="eventList">`)
			for _, ev := range box.Events.Events {
				fmt.Fprintf(&b, `<div class="eventItem"><div class="eventDate">%s</div><div class="eventText">%s</div></div>`,
					ev.Prefix(), markdown.Escape(ev.Label))
			}
			b.WriteString(`</div>`)
		case KindStatus:
			st := box.Status
			b.WriteString(`<div class="ampel"><div class="lights">`)
			for _, l := range []model.Light{model.LightGreen, model.LightYellow, model.LightRed} {
				if l == st.Light {
					fmt.Fprintf(&b, `<div class="light on %s"></div>`, l)
				} else {
					b.WriteString(`<div class="light"></div>`)
				}
			}
			fmt.Fprintf(&b, `</div><div><div class="ampelLabel">%s</div><div class="ampelDetail">%s</div></div></div>`,
				markdown.Escape(st.Label), markdown.ToHTML(st.Details))
		case KindCustom:
			fmt.Fprintf(&b, `<div class="small">%s</div>`, markdown.ToHTML(box.Body))
		}
		b.WriteString(`</div>`)
	}
	return b.String()
}
