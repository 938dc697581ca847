// Package httpapi serves the board as a small JSON API on localhost.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/sandeepkv93/tcheck/internal/board"
	"github.com/sandeepkv93/tcheck/internal/model"
)

// ErrPremiumRequired is returned for priority changes before the upgrade.
var ErrPremiumRequired = errors.New("httpapi: priority levels require Pro")

type Server struct {
	board  *board.Board
	logger *log.Logger
	engine *gin.Engine
}

func New(b *board.Board, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{board: b, logger: logger, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/tabs", s.listTabs)
	r.POST("/tabs", s.createTab)
	r.PATCH("/tabs/:id", s.renameTab)
	r.DELETE("/tabs/:id", s.closeTab)
	r.POST("/tabs/:id/select", s.selectTab)

	r.GET("/tasks", s.listTasks)
	r.POST("/tasks", s.createTask)
	r.PATCH("/tasks/:id", s.updateTask)
	r.DELETE("/tasks/:id", s.deleteTask)
	r.POST("/tasks/:id/toggle", s.toggleTask)
	r.PUT("/tasks/:id/priority", s.setPriority)

	r.GET("/stats", s.stats)
	r.GET("/settings", s.settings)
	r.GET("/settings/theme", s.getTheme)
	r.PUT("/settings/theme", s.setTheme)
	r.POST("/premium/upgrade", s.upgrade)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

// statusFor maps board and model sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, board.ErrTaskNotFound), errors.Is(err, board.ErrTabNotFound):
		return http.StatusNotFound
	case errors.Is(err, board.ErrLastTab):
		return http.StatusConflict
	case errors.Is(err, ErrPremiumRequired):
		return http.StatusForbidden
	case errors.Is(err, model.ErrEmptyText),
		errors.Is(err, model.ErrEmptyTitle),
		errors.Is(err, model.ErrInvalidPriority),
		errors.Is(err, board.ErrUnknownTheme):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
