package markdown

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"
)

// Styles controls terminal rendering of compiled blocks.
type Styles struct {
	H1        lipgloss.Style
	H2        lipgloss.Style
	H3        lipgloss.Style
	Paragraph lipgloss.Style
	Bullet    lipgloss.Style
	Bold      lipgloss.Style
	Italic    lipgloss.Style
}

// DefaultStyles returns plain emphasis without colours.
func DefaultStyles() Styles {
	return Styles{
		H1:        lipgloss.NewStyle().Bold(true).Underline(true),
		H2:        lipgloss.NewStyle().Bold(true),
		H3:        lipgloss.NewStyle().Bold(true),
		Paragraph: lipgloss.NewStyle(),
		Bullet:    lipgloss.NewStyle(),
		Bold:      lipgloss.NewStyle().Bold(true),
		Italic:    lipgloss.NewStyle().Italic(true),
	}
}

// Render compiles src for the terminal, wrapping text at width cells.
func Render(src string, width int, st Styles) string {
	if width < 4 {
		width = 4
	}
	var lines []string
	for i, block := range Parse(src) {
		switch block.Kind {
		case Heading:
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, wrap(st.heading(block.Level).Render(inline(block.Text, st)), width))
		case List:
			bullet := st.Bullet.Render("• ")
			for _, item := range block.Items {
				body := wrap(inline(item, st), width-2)
				lines = append(lines, bullet+strings.ReplaceAll(body, "\n", "\n  "))
			}
		default:
			lines = append(lines, wrap(st.Paragraph.Render(inline(block.Text, st)), width))
		}
	}
	return strings.Join(lines, "\n")
}

func (st Styles) heading(level int) lipgloss.Style {
	switch level {
	case 1:
		return st.H1
	case 2:
		return st.H2
	default:
		return st.H3
	}
}

func inline(s string, st Styles) string {
	var b strings.Builder
	for _, span := range Spans(s) {
		switch {
		case span.Bold && span.Italic:
			b.WriteString(st.Bold.Italic(true).Render(span.Text))
		case span.Bold:
			b.WriteString(st.Bold.Render(span.Text))
		case span.Italic:
			b.WriteString(st.Italic.Render(span.Text))
		default:
			b.WriteString(span.Text)
		}
	}
	return b.String()
}

func wrap(s string, width int) string {
	if width < 1 {
		return s
	}
	return wordwrap.String(s, width)
}
