package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/example/jobdesk/backend/internal/catalog"
	"github.com/example/jobdesk/backend/internal/metrics"
	"github.com/example/jobdesk/backend/internal/service"
)

// ActorHeader names the caller for timeline entries.
const ActorHeader = "X-Actor"

// Server wraps the gin engine and collaborators needed to handle API requests.
type Server struct {
	Engine   *gin.Engine
	requests *service.RequestService
	catalog  *catalog.Catalog
	log      logrus.FieldLogger
	health   func(context.Context) error
}

// NewServer constructs a new API server and registers routes.
func NewServer(requests *service.RequestService, cat *catalog.Catalog, log logrus.FieldLogger) *Server {
	router := gin.New()
	router.Use(requestID(), requestLogger(log), gin.Recovery())
	srv := &Server{Engine: router, requests: requests, catalog: cat, log: log}
	srv.registerRoutes()
	return srv
}

func (s *Server) registerRoutes() {
	s.Engine.GET("/healthz", s.healthz)
	s.Engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.Engine.Group("/api")
	api.POST("/requests", s.createRequest)
	api.GET("/requests", s.listRequests)
	api.GET("/requests/board", s.board)
	api.GET("/requests/stats", s.stats)
	api.GET("/requests/export", s.exportRequests)
	api.GET("/requests/:ref", s.getRequest)
	api.POST("/requests/:ref/decision", s.decision)
	api.POST("/requests/:ref/assign", s.assign)
	api.POST("/requests/:ref/status", s.changeStatus)
	api.PUT("/requests/:ref/notes", s.setNotes)

	api.GET("/catalog", s.getCatalog)
	api.GET("/catalog/subtypes", s.suggestSubtypes)

	api.POST("/demo/seed", s.seedDemo)
}

// SetHealthCheck makes /healthz report check failures as 503.
func (s *Server) SetHealthCheck(check func(context.Context) error) {
	s.health = check
}

func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health(c.Request.Context()); err != nil {
			s.log.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps service errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrDemoLoaded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
