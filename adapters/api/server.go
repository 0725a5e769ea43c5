// Package api exposes a stateless JSON analysis API. Every request carries
// its own corpus and dictionary, so the endpoints compose into pipelines
// without server-side session state.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"symtrace/internal"
	"symtrace/internal/analysis"
	"symtrace/internal/config"
)

// Server represents the JSON analysis API server
type Server struct {
	router  *gin.Engine
	service *analysis.Service
	lexicon *analysis.Service
	logger  *internal.Logger
	cfg     *config.Config
}

// NewServer creates the API server. lexiconService may be nil when the
// elision lexicon is not installed.
func NewServer(cfg *config.Config, service, lexiconService *analysis.Service, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:  gin.Default(),
		service: service,
		lexicon: lexiconService,
		logger:  logger,
		cfg:     cfg,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/v1")
	{
		v1.POST("/segments", s.handleSegments)
		v1.POST("/indicators", s.handleIndicators)
		v1.POST("/tests/ks", s.handleKS)
		v1.POST("/tests/omnibus", s.handleOmnibus)
		v1.POST("/tests/friedman", s.handleFriedman)
	}
}

// Start starts the API server
func (s *Server) Start() error {
	addr := ":" + s.cfg.Server.APIPort
	s.logger.Info("starting analysis API on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the gin engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
