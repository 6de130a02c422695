package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/kiosk/pkg/infocolumn"
	"tableflip.dev/kiosk/pkg/markdown"
	"tableflip.dev/kiosk/pkg/model"
)

// Fixed panel texts.
const (
	NoImagesText  = "Keine Bilder"
	ErrorTitle    = "Fehler"
	LoadingText   = "Lade…"
	LoadingArt    = "Lade Bild…"
	infoWidth     = 36
	minMainWidth  = 20
	headerRows    = 1
	frameOverhead = 2
)

var (
	weekdays = [...]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}
	months   = [...]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"}
)

// LongDate formats t as "Sonntag, 10. März 2024".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%s, %d. %s %d", weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year())
}

type geometry struct {
	mainW  int
	colW   int
	bodyH  int
	debugH int
	ticker bool
}

func (m *Model) geometry() geometry {
	var g geometry
	if m.debugEnabled {
		g.debugH = min(12, max(3, m.height/3))
	}
	showColumn := false
	if m.state != nil && m.startErr == nil {
		showColumn = m.state.Config.Layout.ShowInfoColumn
		g.ticker = m.state.Config.TickerEnabled()
	}
	g.bodyH = m.height - headerRows - g.debugH
	if g.ticker {
		g.bodyH--
	}
	g.bodyH = max(g.bodyH, 3)
	g.mainW = m.width
	if showColumn && m.width-infoWidth >= minMainWidth {
		g.colW = infoWidth
		g.mainW = m.width - infoWidth
	}
	return g
}

func (m *Model) layout() {
	g := m.geometry()
	m.track.SetWidth(m.width)
	if m.eventLog != nil && g.debugH > 0 {
		m.eventLog.SetSize(m.width, g.debugH)
	}
}

// artSize is the cell area left for a slide inside the framed panel, less
// one row for the caption.
func (m *Model) artSize() (int, int) {
	g := m.geometry()
	return g.mainW - 2*frameOverhead, g.bodyH - frameOverhead - 1
}

// View renders the screen.
func (m *Model) View() (string, *tea.Cursor) {
	if m.width <= 0 || m.height <= 0 {
		return "", nil
	}
	g := m.geometry()
	rows := []string{m.viewHeader()}

	switch {
	case m.startErr != nil:
		rows = append(rows, m.viewError(m.startErr, m.width, g.bodyH))
	case m.state == nil:
		rows = append(rows, m.panel(m.width, g.bodyH, m.theme.Panel.Empty.Render(LoadingText), lipgloss.Center))
	default:
		body := m.viewMain(g)
		if g.colW > 0 {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.viewColumn(g))
		}
		rows = append(rows, body)
	}

	if g.ticker {
		rows = append(rows, m.theme.Ticker.Bar.Render(m.track.View()))
	}
	if g.debugH > 0 && m.eventLog != nil {
		rows = append(rows, m.eventLog.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...), nil
}

func (m *Model) viewHeader() string {
	left := m.theme.Header.Clock.Render(m.clock.Format("15:04"))
	right := m.theme.Header.Date.Render(LongDate(m.clock))
	gap := max(1, m.width-2-lipgloss.Width(left)-lipgloss.Width(right))
	return m.theme.Header.Bar.Render(left + strings.Repeat(" ", gap) + right)
}

// panel frames content into exactly w by h cells.
func (m *Model) panel(w, h int, content string, pos lipgloss.Position) string {
	innerW := max(1, w-2*frameOverhead)
	innerH := max(1, h-frameOverhead)
	return m.theme.Panel.Frame.Render(fit(content, innerW, innerH, pos))
}

// fit clips content to w by h cells and pads the rest.
func fit(content string, w, h int, pos lipgloss.Position) string {
	lines := strings.Split(content, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for i, l := range lines {
		if lipgloss.Width(l) > w {
			lines[i] = truncate.String(l, uint(w))
		}
	}
	return lipgloss.Place(w, h, pos, lipgloss.Center, strings.Join(lines, "\n"))
}

func (m *Model) viewError(err error, w, h int) string {
	msg := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.Error.Render(ErrorTitle),
		"",
		m.theme.Panel.Body.Render(wordwrap.String(err.Error(), max(10, w-8))),
	)
	return m.panel(w, h, msg, lipgloss.Center)
}

func (m *Model) viewMain(g geometry) string {
	if m.renderErr != nil {
		return m.viewError(m.renderErr, g.mainW, g.bodyH)
	}
	if m.state.Config.Mode() == model.ModeText {
		return m.viewText(g)
	}
	return m.viewCarousel(g)
}

func (m *Model) viewText(g geometry) string {
	innerW := max(1, g.mainW-2*frameOverhead)
	innerH := max(1, g.bodyH-frameOverhead)
	tp := m.state.Config.TextPanel

	content := markdown.Render(tp.Markdown, innerW, m.theme.Markdown)
	if tp.Title != "" {
		content = m.theme.Panel.Title.Render(tp.Title) + "\n\n" + content
	}
	vp := viewport.New(viewport.WithWidth(innerW), viewport.WithHeight(innerH))
	vp.SetContent(content)
	return m.theme.Panel.Frame.Render(fit(vp.View(), innerW, innerH, lipgloss.Left))
}

func (m *Model) viewCarousel(g geometry) string {
	if m.slides == nil {
		return m.panel(g.mainW, g.bodyH, m.theme.Panel.Empty.Render(NoImagesText), lipgloss.Center)
	}
	w, h := m.artSize()
	slot := m.slides.Slots()[m.slides.ActiveSlot()]
	art, ok := m.art[artKey(slot.Item.URL, w, h)]
	if !ok {
		art = m.theme.Panel.Empty.Render(LoadingArt)
		if m.media == nil {
			art = m.theme.Panel.Empty.Render(slot.Item.Image.Filename)
		}
	}
	body := lipgloss.Place(max(1, w), max(1, h), lipgloss.Center, lipgloss.Center, art)
	caption := m.theme.Panel.Caption.Render(slot.Item.FolderName)
	content := lipgloss.JoinVertical(lipgloss.Center, body, caption)
	return m.panel(g.mainW, g.bodyH, content, lipgloss.Center)
}

func (m *Model) viewColumn(g geometry) string {
	innerW := max(1, g.colW-2*frameOverhead)
	var boxes []string
	for _, box := range m.column.Boxes {
		content := m.viewBox(box, innerW)
		rows := strings.Count(content, "\n") + 1
		boxes = append(boxes, m.theme.Box.Frame.Render(fit(content, innerW, rows, lipgloss.Left)))
	}
	return fit(lipgloss.JoinVertical(lipgloss.Left, boxes...), g.colW, g.bodyH, lipgloss.Left)
}

func (m *Model) viewBox(box infocolumn.Box, w int) string {
	t := m.theme
	lines := []string{t.Box.Title.Render(truncate.String(box.Title, uint(w)))}
	switch box.Kind {
	case infocolumn.KindWeather:
		wb := box.Weather
		if wb.State != model.WeatherCurrent {
			lines = append(lines, t.Box.Small.Render(wb.Message))
			break
		}
		lines = append(lines, wb.Icon+" "+t.Box.Big.Render(wb.Temp))
		lines = append(lines, t.Box.Small.Render(wordwrap.String(wb.Summary, w)))
		if wb.Today != "" {
			lines = append(lines, t.Box.Small.Render(wb.Today))
		}
	case infocolumn.KindEvents:
		if len(box.Events.Events) == 0 {
			lines = append(lines, t.Box.Small.Render(box.Events.Empty))
			break
		}
		for _, ev := range box.Events.Events {
			prefix := ev.Prefix()
			label := wordwrap.String(ev.Label, max(1, w-len(prefix)-1))
			label = strings.ReplaceAll(label, "\n", "\n"+strings.Repeat(" ", len(prefix)+1))
			lines = append(lines, t.Box.Date.Render(prefix)+" "+label)
		}
	case infocolumn.KindStatus:
		st := box.Status
		var lights []string
		for _, l := range []model.Light{model.LightGreen, model.LightYellow, model.LightRed} {
			if l == st.Light {
				lights = append(lights, t.Lights.On(l).Render("●"))
			} else {
				lights = append(lights, t.Lights.Off.Render("○"))
			}
		}
		lines = append(lines, strings.Join(lights, " ")+"  "+t.Lights.Label.Render(st.Label))
		if st.Details != "" {
			lines = append(lines, markdown.Render(st.Details, w, t.Markdown))
		}
	case infocolumn.KindCustom:
		lines = append(lines, markdown.Render(box.Body, w, t.Markdown))
	}
	return strings.Join(lines, "\n")
}
