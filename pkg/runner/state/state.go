package state

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/kiosk/pkg/model"
	"tableflip.dev/kiosk/pkg/printers"
)

// Fetcher reads one snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) (model.State, error)
}

// State prints the store's current snapshot.
type State struct {
	Source Fetcher
	JSON   bool
	ShowID bool
	Out    io.Writer
}

func (s *State) Do(ctx context.Context) error {
	if s.Source == nil {
		return fmt.Errorf("no source configured")
	}
	st, err := s.Source.Fetch(ctx)
	if err != nil {
		return err
	}
	out := s.Out
	if out == nil {
		out = color.Output
	}
	if s.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	pp := printers.PrettyPrint{ShowID: s.ShowID, Out: out}
	pp.State(st)
	return nil
}
