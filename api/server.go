// Package api exposes the project, generation and translator workflows over
// HTTP.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shortsmaker/config"
	"shortsmaker/generator"
	"shortsmaker/jobs"
	"shortsmaker/projects"
	"shortsmaker/repository"
	"shortsmaker/topics"
	"shortsmaker/translator"
	"shortsmaker/types"
)

// Server bundles the services the handlers dispatch to.
type Server struct {
	Store       *repository.Store
	Projects    *projects.Service
	Generator   *generator.Generator
	Translator  *translator.Service
	Topics      *topics.Service
	Runner      *jobs.Runner
	DownloadDir string
}

// NewRouter constructs a gin engine with all routes registered.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	if s.DownloadDir == "" {
		s.DownloadDir = config.DownloadDir
	}
	if s.Topics == nil {
		s.Topics = topics.NewService()
	}

	s.registerProjectRoutes(r)
	s.registerGenerateRoutes(r)
	s.registerTranslatorRoutes(r)
	s.registerDashboardRoutes(r)
	RegisterHealthRoutes(r)
	return r
}

// RegisterHealthRoutes registers the health check endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", handleHealth)
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps the service error taxonomy onto HTTP statuses: missing
// targets 404, state and argument rejections 400, everything else 500.
func respondError(c *gin.Context, err error) {
	var invalid types.InvalidStateError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": msg})
}
