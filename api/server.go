// Package api wires the settlement engine's HTTP surface.
package api

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/finclear/settlement-engine/api/handlers"
	"github.com/finclear/settlement-engine/internal/audit"
	"github.com/finclear/settlement-engine/internal/calendar"
	"github.com/finclear/settlement-engine/internal/settlement"
)

// Server is the HTTP front end over the settlement services.
type Server struct {
	router  *gin.Engine
	handler *handlers.Handler
	logger  *zap.Logger
}

// NewServer creates the server with logging, recovery, and tracing
// middleware installed.
func NewServer(logger *zap.Logger, calculator *settlement.Calculator, registry *calendar.Registry, trail *audit.Trail) *Server {
	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(otelgin.Middleware("settlement-engine"))

	s := &Server{
		router:  router,
		handler: handlers.New(calculator, registry, trail, logger),
		logger:  logger.Named("api-server"),
	}
	s.registerRoutes()
	return s
}

// Router exposes the gin engine for embedding and tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/settlements", s.handler.CalculateSettlement)
		v1.GET("/settlements/:trade_id/summary", s.handler.TradeSummary)

		v1.PUT("/calendars", s.handler.RegisterCalendar)
		v1.GET("/calendars", s.handler.GetCalendar)
		v1.GET("/calendars/keys", s.handler.ListCalendars)

		v1.GET("/audit/:trade_id", s.handler.GetAuditTrail)
		v1.GET("/convert", s.handler.ConvertTime)
	}
}
