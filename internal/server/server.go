// Package server exposes a board over HTTP. Every board operation maps to
// one route returning the board-state text; flips on controlled cards and
// watch requests long-poll until the board resolves them, and /ws streams a
// fresh view on every change over a websocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dyluth/warren/internal/transform"
	"github.com/dyluth/warren/pkg/board"
)

// maxScriptSize bounds the accepted /map request body.
const maxScriptSize = 64 * 1024

// Server wires a board into a gin engine.
type Server struct {
	board      *board.Board
	engine     *gin.Engine
	httpServer *http.Server
}

// New creates a server for the given board.
func New(b *board.Board) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{board: b}

	r := gin.New()
	r.Use(gin.Recovery(), requestTagger())

	r.GET("/healthz", s.handleHealth)
	r.GET("/look/:player", s.handleLook)
	r.GET("/flip/:player/:row/:col", s.handleFlip)
	r.GET("/watch/:player", s.handleWatch)
	r.POST("/map/:player", s.handleMap)
	r.POST("/reset/:player", s.handleReset)
	r.GET("/ws/:player", s.handleStream)

	s.engine = r
	return s
}

// Handler returns the underlying HTTP handler (used by tests).
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Printf("[Server] Serving %dx%d board on %s", s.board.Rows(), s.board.Cols(), addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		log.Printf("[Server] Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// requestTagger assigns each request a short ID (exposed as X-Request-ID)
// and logs method, path, status and duration.
func requestTagger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()[:8]
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		log.Printf("[Server] %s %s %s -> %d (%s)",
			id, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// respond maps board errors onto status codes: validation failures are 400
// (nothing changed), everything else is 409 (the move was rejected by game
// rules or a lifecycle event; clients should re-look at the board).
func respond(c *gin.Context, view string, err error) {
	switch {
	case err == nil:
		c.String(http.StatusOK, view)
	case board.IsValidationFailure(err):
		c.String(http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// The client went away mid-long-poll; nobody is reading this.
		c.Status(http.StatusRequestTimeout)
	default:
		c.String(http.StatusConflict, err.Error())
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"board":  fmt.Sprintf("%dx%d", s.board.Rows(), s.board.Cols()),
	})
}

func (s *Server) handleLook(c *gin.Context) {
	view, err := s.board.Look(c.Request.Context(), c.Param("player"))
	respond(c, view, err)
}

func (s *Server) handleFlip(c *gin.Context) {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		c.String(http.StatusBadRequest, "row %q is not an integer", c.Param("row"))
		return
	}
	col, err := strconv.Atoi(c.Param("col"))
	if err != nil {
		c.String(http.StatusBadRequest, "column %q is not an integer", c.Param("col"))
		return
	}

	view, err := s.board.Flip(c.Request.Context(), c.Param("player"), row, col)
	respond(c, view, err)
}

func (s *Server) handleWatch(c *gin.Context) {
	view, err := s.board.Watch(c.Request.Context(), c.Param("player"))
	respond(c, view, err)
}

func (s *Server) handleMap(c *gin.Context) {
	script, err := io.ReadAll(io.LimitReader(c.Request.Body, maxScriptSize))
	if err != nil {
		c.String(http.StatusBadRequest, "failed to read transform script: %v", err)
		return
	}

	tr, err := transform.NewLua(string(script))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.board.Map(c.Request.Context(), c.Param("player"), tr.Apply)
	respond(c, view, err)
}

func (s *Server) handleReset(c *gin.Context) {
	view, err := s.board.Reset(c.Request.Context(), c.Param("player"))
	respond(c, view, err)
}
