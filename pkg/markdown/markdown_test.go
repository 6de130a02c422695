package markdown

import (
	"strings"
	"testing"
)

func TestParseHeadingListParagraph(t *testing.T) {
	blocks := Parse("# Hi\n- a\n- b\n\ntext")
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %#v", len(blocks), blocks)
	}
	if blocks[0].Kind != Heading || blocks[0].Level != 1 || blocks[0].Text != "Hi" {
		t.Fatalf("unexpected heading: %#v", blocks[0])
	}
	if blocks[1].Kind != List || len(blocks[1].Items) != 2 {
		t.Fatalf("expected list with 2 items, got %#v", blocks[1])
	}
	if blocks[2].Kind != Paragraph || blocks[2].Text != "text" {
		t.Fatalf("unexpected paragraph: %#v", blocks[2])
	}

	got := ToHTML("# Hi\n- a\n- b\n\ntext")
	want := "<h1>Hi</h1><ul><li>a</li><li>b</li></ul><p>text</p>"
	if got != want {
		t.Fatalf("html mismatch\n got: %s\nwant: %s", got, want)
	}
}

func TestEscapesMarkup(t *testing.T) {
	got := ToHTML("<script>alert('x') & **y**</script>")
	if strings.Contains(strings.ReplaceAll(strings.ReplaceAll(got, "<p>", ""), "</p>", ""), "<script") {
		t.Fatalf("raw script tag leaked: %s", got)
	}
	want := "<p>&lt;script&gt;alert('x') &amp; <strong>y</strong>&lt;/script&gt;</p>"
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestNonListLineClosesList(t *testing.T) {
	got := ToHTML("- a\nplain\n- b")
	want := "<ul><li>a</li></ul><p>plain</p><ul><li>b</li></ul>"
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestHeadingLevelsAndCRLF(t *testing.T) {
	got := ToHTML("## Two\r\n### Three  \r\n#NoSpace")
	want := "<h2>Two</h2><h3>Three</h3><p>#NoSpace</p>"
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestInlineSpans(t *testing.T) {
	if got := InlineHTML("**a** and *b*"); got != "<strong>a</strong> and <em>b</em>" {
		t.Fatalf("unexpected inline html %q", got)
	}
	spans := Spans("x **bold** *it*")
	if len(spans) != 4 {
		t.Fatalf("expected 4 spans, got %#v", spans)
	}
	if !spans[1].Bold || spans[1].Text != "bold" {
		t.Fatalf("expected bold span, got %#v", spans[1])
	}
	if !spans[3].Italic || spans[3].Text != "it" {
		t.Fatalf("expected italic span, got %#v", spans[3])
	}
}

func TestRenderKeepsStructure(t *testing.T) {
	out := Render("### Kita\n\n- Infos\n- Wetter\n\nBitte **09:00**", 40, DefaultStyles())
	for _, want := range []string{"Kita", "•", "Infos", "Wetter", "09:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Kita") > strings.Index(out, "Infos") {
		t.Fatalf("heading must precede list:\n%s", out)
	}
}

func TestEmptyInput(t *testing.T) {
	if got := ToHTML(""); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if blocks := Parse("\n\n  \n"); len(blocks) != 0 {
		t.Fatalf("expected no blocks, got %#v", blocks)
	}
}

func TestItalicAroundBoldAgrees(t *testing.T) {
	const src = "*a **b** c*"
	if got := InlineHTML(src); got != "<em>a <strong>b</strong> c</em>" {
		t.Fatalf("unexpected inline html %q", got)
	}
	want := []Span{
		{Text: "a ", Italic: true},
		{Text: "b", Bold: true, Italic: true},
		{Text: " c", Italic: true},
	}
	got := Spans(src)
	if len(got) != len(want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("span %d: got %#v want %#v", i, got[i], want[i])
		}
	}
}

func TestSpansIgnoreMarkerRunes(t *testing.T) {
	spans := Spans("a\uE000b\uE001")
	if len(spans) != 1 || spans[0].Text != "ab" || spans[0].Bold {
		t.Fatalf("unexpected spans %#v", spans)
	}
}
