package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/kiosk/pkg/markdown"
	"tableflip.dev/kiosk/pkg/model"
)

// DefaultID is used for empty or unknown theme ids.
const DefaultID = "mint"

// Palette is the handful of colours a theme is derived from.
type Palette struct {
	Accent     string
	Background string
	Text       string
}

var palettes = map[string]Palette{
	"mint":  {Accent: "#2bb673", Background: "#f3fbf7", Text: "#16302a"},
	"sky":   {Accent: "#2f80ed", Background: "#f2f7fd", Text: "#152238"},
	"sun":   {Accent: "#f2a71b", Background: "#fffaf0", Text: "#3a2a0c"},
	"rose":  {Accent: "#e0567a", Background: "#fdf3f6", Text: "#3a1621"},
	"night": {Accent: "#7bd3a8", Background: "#10161a", Text: "#e6f0ec"},
}

// IDs lists the known theme ids.
func IDs() []string {
	ids := make([]string, 0, len(palettes))
	for id := range palettes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Theme centralizes Lip Gloss styles for the display.
type Theme struct {
	ID string

	Header HeaderTheme
	Panel  PanelTheme
	Box    BoxTheme
	Lights LightTheme
	Ticker TickerTheme
	Error  lipgloss.Style

	Markdown markdown.Styles
}

// HeaderTheme styles the clock bar.
type HeaderTheme struct {
	Bar   lipgloss.Style
	Clock lipgloss.Style
	Date  lipgloss.Style
}

// PanelTheme styles the main panel.
type PanelTheme struct {
	Frame   lipgloss.Style
	Title   lipgloss.Style
	Body    lipgloss.Style
	Caption lipgloss.Style
	Empty   lipgloss.Style
}

// BoxTheme styles the info column cards.
type BoxTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Big   lipgloss.Style
	Small lipgloss.Style
	Date  lipgloss.Style
}

// LightTheme styles the status indicator.
type LightTheme struct {
	Off    lipgloss.Style
	Green  lipgloss.Style
	Yellow lipgloss.Style
	Red    lipgloss.Style
	Label  lipgloss.Style
}

// On returns the style of a lit light.
func (l LightTheme) On(light model.Light) lipgloss.Style {
	switch light {
	case model.LightYellow:
		return l.Yellow
	case model.LightRed:
		return l.Red
	default:
		return l.Green
	}
}

// TickerTheme styles the announcement strip.
type TickerTheme struct {
	Bar lipgloss.Style
}

// ForID returns the theme for id, falling back to the default.
func ForID(id string) Theme {
	p, ok := palettes[id]
	if !ok {
		id = DefaultID
		p = palettes[DefaultID]
	}
	return build(id, p)
}

// Default returns the mint theme.
func Default() Theme {
	return ForID(DefaultID)
}

func hex(c colorful.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
}

func parse(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return c
}

func build(id string, p Palette) Theme {
	accent := parse(p.Accent)
	bg := parse(p.Background)
	text := parse(p.Text)
	muted := text.BlendLab(bg, 0.45).Clamped()
	border := accent.BlendLab(bg, 0.5).Clamped()
	dim := text.BlendLab(bg, 0.8).Clamped()

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border.Hex())).
		Padding(0, 1)

	light := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
	}

	md := markdown.DefaultStyles()
	md.H1 = md.H1.Foreground(lipgloss.Color(accent.Hex()))
	md.H2 = md.H2.Foreground(lipgloss.Color(accent.Hex()))
	md.Bullet = hex(accent)

	return Theme{
		ID: id,
		Header: HeaderTheme{
			Bar:   lipgloss.NewStyle().Padding(0, 1),
			Clock: hex(accent).Bold(true),
			Date:  hex(muted),
		},
		Panel: PanelTheme{
			Frame:   frame,
			Title:   hex(accent).Bold(true),
			Body:    hex(text),
			Caption: hex(muted).Italic(true),
			Empty:   hex(muted),
		},
		Box: BoxTheme{
			Frame: frame,
			Title: hex(accent).Bold(true),
			Big:   hex(text).Bold(true),
			Small: hex(muted),
			Date:  hex(accent),
		},
		Lights: LightTheme{
			Off:    hex(dim),
			Green:  light("#2ecc71"),
			Yellow: light("#f1c40f"),
			Red:    light("#e74c3c"),
			Label:  hex(text).Bold(true),
		},
		Ticker: TickerTheme{
			Bar: lipgloss.NewStyle().
				Foreground(lipgloss.Color(bg.Hex())).
				Background(lipgloss.Color(accent.Hex())).
				Bold(true),
		},
		Error:    light("#e74c3c"),
		Markdown: md,
	}
}
