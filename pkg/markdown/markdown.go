// Package markdown compiles the small markdown subset used by the admin tool:
// headings (#, ##, ###), flat "- " lists, **bold**, *italic* and paragraphs.
// Nested lists, links and code spans are not supported.
package markdown

import (
	"regexp"
	"strings"
)

// Kind identifies a block.
type Kind int

const (
	// Heading is a #, ## or ### line.
	Heading Kind = iota
	// List is a run of consecutive "- " lines.
	List
	// Paragraph is any other non-blank line.
	Paragraph
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case List:
		return "list"
	default:
		return "paragraph"
	}
}

// Block is one structural element. Text and Items hold raw inline text.
type Block struct {
	Kind  Kind
	Level int
	Text  string
	Items []string
}

var headingPrefixes = []struct {
	prefix string
	level  int
}{
	{"### ", 3},
	{"## ", 2},
	{"# ", 1},
}

// Parse splits src into blocks in a single pass over its lines. A blank line
// or any non-list line closes an open list.
func Parse(src string) []Block {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	var (
		blocks []Block
		list   *Block
	)
	closeList := func() {
		if list != nil {
			blocks = append(blocks, *list)
			list = nil
		}
	}

	for _, raw := range strings.Split(src, "\n") {
		line := strings.TrimRight(raw, " \t\r")
		if strings.TrimSpace(line) == "" {
			closeList()
			continue
		}
		if level, text, ok := heading(line); ok {
			closeList()
			blocks = append(blocks, Block{Kind: Heading, Level: level, Text: text})
			continue
		}
		if strings.HasPrefix(line, "- ") {
			if list == nil {
				list = &Block{Kind: List}
			}
			list.Items = append(list.Items, line[2:])
			continue
		}
		closeList()
		blocks = append(blocks, Block{Kind: Paragraph, Text: line})
	}
	closeList()
	return blocks
}

func heading(line string) (int, string, bool) {
	for _, h := range headingPrefixes {
		if strings.HasPrefix(line, h.prefix) {
			return h.level, line[len(h.prefix):], true
		}
	}
	return 0, "", false
}

var (
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.+?)\*`)

	escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// Escape replaces &, < and > with entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// InlineHTML escapes s and then substitutes bold and italic spans, so user
// text never yields markup of its own.
func InlineHTML(s string) string {
	return emphasize(Escape(s), "<strong>", "</strong>", "<em>", "</em>")
}

// emphasize wraps bold matches first and then italic matches over the whole
// result, so italics may enclose bold runs.
func emphasize(s, boldOpen, boldClose, emOpen, emClose string) string {
	s = boldPattern.ReplaceAllString(s, boldOpen+"${1}"+boldClose)
	return italicPattern.ReplaceAllString(s, emOpen+"${1}"+emClose)
}

// ToHTML compiles src to HTML.
func ToHTML(src string) string {
	var b strings.Builder
	for _, block := range Parse(src) {
		switch block.Kind {
		case Heading:
			tag := headingTag(block.Level)
			b.WriteString("<" + tag + ">" + InlineHTML(block.Text) + "</" + tag + ">")
		case List:
			b.WriteString("<ul>")
			for _, item := range block.Items {
				b.WriteString("<li>" + InlineHTML(item) + "</li>")
			}
			b.WriteString("</ul>")
		default:
			b.WriteString("<p>" + InlineHTML(block.Text) + "</p>")
		}
	}
	return b.String()
}

func headingTag(level int) string {
	switch level {
	case 1:
		return "h1"
	case 2:
		return "h2"
	default:
		return "h3"
	}
}

// Span is a run of inline text with uniform emphasis.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
}

// Private use runes mark emphasis while Spans walks the substituted text.
const (
	markBoldOpen   = "\uE000"
	markBoldClose  = "\uE001"
	markItalicOpen = "\uE002"
	markItalicEnd  = "\uE003"
)

var markStripper = strings.NewReplacer(
	markBoldOpen, "", markBoldClose, "", markItalicOpen, "", markItalicEnd, "",
)

// Spans splits inline text into emphasis runs using the same substitutions
// as InlineHTML, without escaping.
func Spans(s string) []Span {
	marked := emphasize(markStripper.Replace(s), markBoldOpen, markBoldClose, markItalicOpen, markItalicEnd)

	var (
		out          []Span
		text         strings.Builder
		bold, italic bool
	)
	flush := func() {
		if text.Len() > 0 {
			out = append(out, Span{Text: text.String(), Bold: bold, Italic: italic})
			text.Reset()
		}
	}
	for _, r := range marked {
		switch string(r) {
		case markBoldOpen, markBoldClose:
			flush()
			bold = string(r) == markBoldOpen
		case markItalicOpen, markItalicEnd:
			flush()
			italic = string(r) == markItalicOpen
		default:
			text.WriteRune(r)
		}
	}
	flush()
	return out
}
