// Package server exposes the dashboard HTTP API: document upload and
// confirmation, project reads, and user-owned field edits. All merge
// semantics live in internal/reconcile; handlers orchestrate the
// read-merge-write cycle around it under the store's per-project locks.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/statusdeck/statusdeck/internal/events"
	"github.com/statusdeck/statusdeck/internal/store"
)

// Options configures the daemon.
type Options struct {
	Addr      string
	UploadDir string
}

// Server holds the handler dependencies.
type Server struct {
	store     *store.Store
	audit     *events.Writer
	log       zerolog.Logger
	uploadDir string
}

// New creates a server around the given store and audit writer. audit may be
// nil; audit logging is best-effort and never fails a request.
func New(st *store.Store, audit *events.Writer, log zerolog.Logger, uploadDir string) *Server {
	return &Server{store: st, audit: audit, log: log, uploadDir: uploadDir}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(cors.Default())

	api := r.Group("/api")
	{
		api.POST("/upload", s.handleUpload)
		api.POST("/upload/confirm", s.handleConfirm)
		api.GET("/projects", s.handleListProjects)
		api.GET("/projects/:code", s.handleGetProject)
		api.PUT("/projects/:code/milestones/:name/notes", s.handleUpdateNotes)
		api.POST("/projects/:code/changes/:id", s.handleUpdateChange)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// Run serves until the listener fails.
func (s *Server) Run(opts Options) error {
	addr := opts.Addr
	if addr == "" {
		addr = "127.0.0.1:8630"
	}
	s.log.Info().Str("addr", addr).Msg("statusdeckd listening")
	if err := s.Router().Run(addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := s.log.Info()
		if c.Writer.Status() >= 400 {
			event = s.log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// auditLog runs an audit write and logs failures instead of surfacing them.
func (s *Server) auditLog(fn func() error) {
	if s.audit == nil {
		return
	}
	if err := fn(); err != nil {
		s.log.Warn().Err(err).Msg("audit write failed")
	}
}
