package display

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"tableflip.dev/kiosk/pkg/config"
	"tableflip.dev/kiosk/pkg/logging"
	"tableflip.dev/kiosk/pkg/media"
	"tableflip.dev/kiosk/pkg/remote"
	"tableflip.dev/kiosk/pkg/session"
	"tableflip.dev/kiosk/pkg/status"
	tuidisplay "tableflip.dev/kiosk/pkg/tui/display"
)

// ErrNotTerminal is returned when stdout is not a terminal.
var ErrNotTerminal = errors.New("display needs a terminal")

// Source is everything the display reads from the store.
type Source interface {
	session.Source
	media.Fetcher
}

// NewSource picks the store client for target: a file:// path or an
// http(s) base URL.
func NewSource(target, password string) (Source, error) {
	if remote.IsFileTarget(target) {
		return remote.NewFileSource(target)
	}
	return remote.New(target, remote.WithPassword(password))
}

type Display struct {
	Config config.Config
	// Source overrides the store client built from Config.
	Source Source
	Stdout *os.File
}

func (d *Display) Do(ctx context.Context) error {
	out := d.Stdout
	if out == nil {
		out = os.Stdout
	}
	if !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd()) {
		return ErrNotTerminal
	}

	log, closer, err := logging.New(d.Config.LogFile(), d.Config.LogLevel())
	if err != nil {
		return err
	}
	defer closer.Close()

	src := d.Source
	if src == nil {
		if src, err = NewSource(d.Config.Server(), d.Config.Password()); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mgr := session.New(src, session.WithLogger(log))
	board := status.NewBoard(mgr.Status)
	if addr := d.Config.StatusAddr(); addr != "" {
		go serveStatus(ctx, status.NewServer(board, log), addr, log)
	}

	log.Info("starting display",
		"server", d.Config.Server(),
		"cache", d.Config.CacheDir(),
		"config", d.Config.File(),
	)
	err = tuidisplay.Run(tuidisplay.Options{
		Ctx:     ctx,
		Session: mgr,
		Media:   media.NewCache(d.Config.CacheDir(), src, log),
		Board:   board,
		Logger:  log,
		FPS:     d.Config.FPS(),
	})
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

func serveStatus(ctx context.Context, srv *status.Server, addr string, log *slog.Logger) {
	if err := srv.Run(ctx, addr); err != nil {
		logging.Channel(log, logging.Status).Error("status server stopped", "addr", addr, "error", err)
	}
}
