package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/kiosk/pkg/infocolumn"
	"tableflip.dev/kiosk/pkg/model"
)

var nowFunc = time.Now

type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d %s", count, noun)
	if count != 1 {
		_, _ = c.Fprint(pp.out(), "s")
	}
	_, _ = c.Fprintln(pp.out())
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// State prints a summary of a snapshot: layout, info column and content.
func (pp *PrettyPrint) State(st model.State) {
	cfg := st.Config
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	pp.Title("Display")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("mode"), string(cfg.Mode()))
	tbl.AddRow(bold.Sprint("theme"), cfg.Theme)
	if cfg.Mode() == model.ModeCarousel {
		tbl.AddRow(bold.Sprint("interval"), cfg.CarouselInterval())
		tbl.AddRow(bold.Sprint("shuffle"), cfg.Carousel.Shuffle)
		tbl.AddRow(bold.Sprint("folders"), selection(cfg.Carousel.Folders, st))
	} else {
		tbl.AddRow(bold.Sprint("text"), cfg.TextPanel.Title)
	}
	tbl.AddRow(bold.Sprint("ticker"), tickerSummary(cfg))
	tbl.AddRow(bold.Sprint("poll"), cfg.PollInterval())
	if st.ServerTime != "" {
		tbl.AddRow(bold.Sprint("server time"), faint.Sprint(st.ServerTime))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	if cfg.Layout.ShowInfoColumn {
		col := infocolumn.Compose(cfg, st.Weather, nowFunc())
		pp.TitleWithCount("Info column", len(col.Boxes), "box")
		pp.Column(col)
	}

	pp.TitleWithCount("Folders", len(st.Folders), "folder")
	pp.Folders(st.Folders, st.Images)
}

// Column prints each composed box on one line.
func (pp *PrettyPrint) Column(col infocolumn.Column) {
	y := color.New(color.FgHiYellow, color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	for _, box := range col.Boxes {
		tbl.AddRow(y.Sprint(box.Kind.String()), box.Title, boxSummary(box))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Folders prints folders with their image counts.
func (pp *PrettyPrint) Folders(folders []model.Folder, images model.ImageIndex) {
	if len(folders) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, f := range folders {
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(f.ID))
		}
		row = append(row, f.Name, color.New(color.Faint).Sprint(f.Slug), fmt.Sprintf("%d", len(images[f.ID])))
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Images prints the images of one folder.
func (pp *PrettyPrint) Images(images []model.Image) {
	if len(images) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, img := range images {
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(img.ID))
		}
		size := ""
		if img.Width > 0 && img.Height > 0 {
			size = fmt.Sprintf("%dx%d", img.Width, img.Height)
		}
		row = append(row, img.Filename, img.OriginalName, size)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

func selection(sel model.FolderSelection, st model.State) string {
	if sel.All {
		return "all"
	}
	names := make([]string, 0, len(sel.IDs))
	for _, id := range sel.IDs {
		if f, ok := st.Folder(id); ok {
			names = append(names, f.Name)
		} else {
			names = append(names, id+"?")
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func tickerSummary(cfg model.Config) string {
	if !cfg.TickerEnabled() {
		return "off"
	}
	return fmt.Sprintf("%d items @ %d px/s", len(cfg.Ticker.Items), cfg.TickerSpeed())
}

func boxSummary(box infocolumn.Box) string {
	switch box.Kind {
	case infocolumn.KindWeather:
		if box.Weather.Message != "" {
			return box.Weather.Message
		}
		return strings.TrimSpace(box.Weather.Icon + " " + box.Weather.Temp + " " + box.Weather.Summary)
	case infocolumn.KindEvents:
		if len(box.Events.Events) == 0 {
			return box.Events.Empty
		}
		labels := make([]string, 0, len(box.Events.Events))
		for _, ev := range box.Events.Events {
			labels = append(labels, ev.Prefix()+" "+ev.Label)
		}
		return strings.Join(labels, "; ")
	case infocolumn.KindStatus:
		return string(box.Status.Light) + " " + box.Status.Label
	default:
		return strings.Join(strings.Fields(box.Body), " ")
	}
}
