package api

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/youruser/tagstamp/internal/logging"
)

// NewRouter returns a gin engine serving s under /api.
func NewRouter(s *Server, logger *log.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	RegisterRoutes(r, s)
	return r
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/variants", variants)
		api.POST("/watermark", s.watermarkHandler)
		api.GET("/qr", s.qrHandler)
		api.GET("/agents", s.agentsHandler)
	}
}

// requestLogger tags each request with an id, puts a logger carrying it in
// the request context and logs the outcome.
func requestLogger(base *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)

		logger := base.With("request_id", id)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), logger))

		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start).Round(time.Millisecond))
	}
}
