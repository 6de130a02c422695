package infocolumn

import (
	"strings"
	"testing"
	"time"

	"tableflip.dev/kiosk/pkg/model"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

var today = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

func kinds(c Column) []Kind {
	var out []Kind
	for _, b := range c.Boxes {
		out = append(out, b.Kind)
	}
	return out
}

func TestComposeOrder(t *testing.T) {
	cfg := model.Config{InfoBoxes: model.InfoBoxes{
		WeatherEnabled: true,
		Custom: []model.CustomBox{
			{Title: "Hidden", Enabled: false},
			{Markdown: "**hi**", Enabled: true},
		},
		Events: &model.Events{Enabled: true},
	}}
	col := Compose(cfg, nil, today)
	want := []Kind{KindWeather, KindEvents, KindStatus, KindCustom}
	got := kinds(col)
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for n := range want {
		if got[n] != want[n] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if col.Boxes[3].Title != CustomTitle {
		t.Fatalf("untitled custom box should default to %q", CustomTitle)
	}
}

func TestStatusBoxAlwaysPresent(t *testing.T) {
	col := Compose(model.Config{}, nil, today)
	if len(col.Boxes) != 1 || col.Boxes[0].Kind != KindStatus {
		t.Fatalf("expected only the status box, got %v", kinds(col))
	}
	st := col.Boxes[0].Status
	if st.Light != model.LightGreen || st.Label != "—" {
		t.Fatalf("unexpected defaults %#v", st)
	}
}

func TestWeatherTriState(t *testing.T) {
	cfg := model.Config{InfoBoxes: model.InfoBoxes{WeatherEnabled: true, Weather: model.WeatherSite{City: "Berlin"}}}

	loading := Compose(cfg, nil, today).Boxes[0]
	if loading.Weather.Message != WeatherLoadingText || loading.Title != "Wetter – Berlin" {
		t.Fatalf("unexpected loading box %#v", loading)
	}

	failed := Compose(cfg, &model.Weather{Error: "timeout"}, today).Boxes[0]
	if failed.Weather.State != model.WeatherError || failed.Weather.Message != WeatherErrorText {
		t.Fatalf("unexpected error box %#v", failed.Weather)
	}

	w := &model.Weather{
		Current: &model.Reading{Temp: f(12.5), Wind: f(7.4), Code: i(63)},
		Daily:   []model.Day{{TMin: f(-2.5), TMax: f(14.2)}},
	}
	cur := Compose(cfg, w, today).Boxes[0].Weather
	if cur.Temp != "13°" {
		t.Fatalf("temp: got %q", cur.Temp)
	}
	if cur.Summary != "Regen · Wind 7 km/h" {
		t.Fatalf("summary: got %q", cur.Summary)
	}
	if cur.Today != "Heute: -2 – 14°" {
		t.Fatalf("today: got %q", cur.Today)
	}
}

func TestWeatherTitleWithoutCity(t *testing.T) {
	cfg := model.Config{InfoBoxes: model.InfoBoxes{WeatherEnabled: true}}
	if got := Compose(cfg, nil, today).Boxes[0].Title; got != "Wetter –" {
		t.Fatalf("got %q", got)
	}
}

func TestEventsBox(t *testing.T) {
	cfg := model.Config{Events: &model.Events{
		Enabled: true,
		Items:   []string{"09.03.2024 Old", "10.03.2024 Today", "15.3.2024 Future"},
	}}
	box := Compose(cfg, nil, today).Boxes[0]
	if box.Title != EventsTitle || len(box.Events.Events) != 2 {
		t.Fatalf("unexpected events box %#v", box)
	}

	cfg.Events.Items = []string{"01.01.2020 Past"}
	box = Compose(cfg, nil, today).Boxes[0]
	if box.Events.Empty != NoEventsText {
		t.Fatalf("expected empty text, got %#v", box.Events)
	}
}

func TestHTML(t *testing.T) {
	cfg := model.Config{InfoBoxes: model.InfoBoxes{
		Ampel:  model.Ampel{Status: "red", Label: "Notbetreuung", Details: "nur **heute**"},
		Custom: []model.CustomBox{{Title: "<b>x</b>", Markdown: "- a", Enabled: true}},
	}}
	html := Compose(cfg, nil, today).HTML()
	for _, want := range []string{
		`<div class="light on red"></div>`,
		`<strong>heute</strong>`,
		`<h3>&lt;b&gt;x&lt;/b&gt;</h3>`,
		`<ul><li>a</li></ul>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %q in %s", want, html)
		}
	}
}
