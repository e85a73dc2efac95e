// Package statusui serves a small read-only HTTP view of a running import,
// the replacement for the desktop status window of the previous generation
// of this tool. It only observes the status feed; it never reaches into the
// pipeline.
package statusui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storeops/smsimport/internal/logger"
	"github.com/storeops/smsimport/internal/status"
)

// Server exposes the status feed over local HTTP.
type Server struct {
	feed *status.Feed
	srv  *http.Server
}

// NewServer creates a status server over the given feed.
// Parameters:
//   - feed: event feed fed by the orchestrator.
//   - addr: listen address, typically loopback.
//
// Returns:
//   - *Server: configured but not yet started server.
func NewServer(feed *status.Feed, addr string) *Server {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		feed: feed,
		srv: &http.Server{
			Addr:    addr,
			Handler: r,
		},
	}

	r.GET("/health", s.health)
	r.GET("/status", s.status)

	return s
}

// Start runs the server in the background. Listen errors other than a
// clean shutdown are logged, not fatal; the import does not depend on the
// status page.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetDefault().WithError(err).Warn("Status server stopped")
		}
	}()
}

// Shutdown stops the server, waiting briefly for in-flight requests.
func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// status returns the full event log and the most recent event.
func (s *Server) status(c *gin.Context) {
	events := s.feed.Snapshot()

	var last *status.Event
	if len(events) > 0 {
		last = &events[len(events)-1]
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"last":   last,
		"events": events,
	})
}
