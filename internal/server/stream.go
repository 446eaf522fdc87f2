package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dyluth/warren/pkg/board"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleStream upgrades to a websocket and pushes the player's view of the
// board on every change. The first message is the current view; each
// subsequent message is driven by a fresh watch registration, so the stream
// sees every coalesced change until the client disconnects.
func (s *Server) handleStream(c *gin.Context) {
	player := c.Param("player")
	if !board.IsValidPlayerID(player) {
		c.String(http.StatusBadRequest, "invalid player ID: %q", player)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[Server] Websocket upgrade failed for %s: %v", player, err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Drain incoming frames so a client close unblocks the watch below.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	view, err := s.board.Look(ctx, player)
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(view)); err != nil {
		return
	}

	for {
		view, err := s.board.Watch(ctx, player)
		if err != nil {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(view)); err != nil {
			return
		}
	}
}
