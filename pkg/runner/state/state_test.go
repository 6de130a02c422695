package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/kiosk/pkg/model"
)

type fixed struct {
	st  model.State
	err error
}

func (f fixed) Fetch(context.Context) (model.State, error) { return f.st, f.err }

func TestPrintsSummaryAndJSON(t *testing.T) {
	color.NoColor = true
	st := model.State{
		Config:  model.Config{Theme: "sky", Layout: model.Layout{Mode: "text"}, TextPanel: model.TextPanel{Title: "Willkommen"}},
		Folders: []model.Folder{{ID: "f1", Name: "Ausflug", Slug: "ausflug"}},
	}

	var buf bytes.Buffer
	s := State{Source: fixed{st: st}, Out: &buf}
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !strings.Contains(buf.String(), "Willkommen") || !strings.Contains(buf.String(), "Ausflug") {
		t.Fatalf("unexpected summary:\n%s", buf.String())
	}

	buf.Reset()
	s.JSON = true
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	got, err := model.DecodeState(buf.Bytes())
	if err != nil {
		t.Fatalf("json output: %v", err)
	}
	if got.Config.Theme != "sky" || len(got.Folders) != 1 {
		t.Fatalf("round trip lost data: %#v", got)
	}
	if !json.Valid(buf.Bytes()) {
		t.Fatalf("invalid json")
	}
}

func TestFetchError(t *testing.T) {
	boom := errors.New("boom")
	s := State{Source: fixed{err: boom}}
	if err := s.Do(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}
