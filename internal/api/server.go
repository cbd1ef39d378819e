// Package api exposes the order dashboard and the config file editor over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-dashboard/internal/observability"
	"order-dashboard/internal/storage"
	"order-dashboard/internal/storage/configfile"
)

// ConfigFiles is the config file store used by the handlers.
type ConfigFiles interface {
	List(ctx context.Context) ([]configfile.FileInfo, error)
	Read(ctx context.Context, name string) (any, error)
	Write(ctx context.Context, name string, content json.RawMessage) error
}

// Server wires the stores into gin handlers.
type Server struct {
	orders  storage.OrderStore
	files   ConfigFiles
	logger  *zap.Logger
	version string
}

// NewServer creates a server. A nil logger is replaced by a no-op logger.
func NewServer(orders storage.OrderStore, files ConfigFiles, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		orders:  orders,
		files:   files,
		logger:  logger,
		version: version,
	}
}

// endpoints is served by the index route.
var endpoints = []string{
	"GET /health",
	"GET /metrics",
	"GET /api/brokers",
	"GET /api/accounts",
	"GET /api/dates?account=",
	"GET /api/symbols?account=&date=",
	"GET /api/statuses?account=",
	"GET /api/orders?account=&date=&symbol=&status=",
	"GET /api/stats?account=&date=&symbol=&status=",
	"GET /api/config-files",
	"GET /api/config-files/:filename",
	"POST /api/config-files/:filename",
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	// Route on the escaped path so an encoded slash stays inside :filename
	// and is rejected by filename validation.
	router.UseRawPath = true
	router.Use(s.recovery(), s.requestLogger(), metricsMiddleware())

	router.GET("/", s.index)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(observability.Handler()))

	api := router.Group("/api")
	{
		api.GET("/brokers", s.listBrokers)
		api.GET("/accounts", s.listAccounts)
		api.GET("/dates", s.listDates)
		api.GET("/symbols", s.listSymbols)
		api.GET("/statuses", s.listStatuses)
		api.GET("/orders", s.listOrders)
		api.GET("/stats", s.stats)

		api.GET("/config-files", s.listConfigFiles)
		api.GET("/config-files/:filename", s.readConfigFile)
		api.POST("/config-files/:filename", s.writeConfigFile)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody("route not found"))
	})

	return router
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "order-dashboard",
		"version":   s.version,
		"endpoints": endpoints,
	})
}
