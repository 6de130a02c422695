package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tableflip.dev/kiosk/pkg/logging"
)

// Server serves /healthz, /status and /column.
type Server struct {
	board  *Board
	log    *slog.Logger
	engine *gin.Engine
}

// NewServer builds the router.
func NewServer(board *Board, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{board: board, log: logging.Channel(log, logging.Status)}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Accept", "Cache-Control"},
		MaxAge:          12 * time.Hour,
	}))
	r.GET("/healthz", s.healthz)
	r.GET("/status", s.status)
	r.GET("/column", s.column)
	s.engine = r
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.board.Snapshot())
}

func (s *Server) column(c *gin.Context) {
	html := s.board.Snapshot().Render.ColumnHTML
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("status server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("status: listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("status server stopping")
		return srv.Shutdown(shutdown)
	}
}
