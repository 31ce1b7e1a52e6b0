package api

import (
	"context"
	"net/http"
	"time"

	"food-delivery/internal/common/logger"
	"food-delivery/internal/common/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Module is a group of routes that can be mounted on any router.
type Module interface {
	Register(r gin.IRouter)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	CORSOrigins []string
	DB          Pinger
	Logger      *logger.Logger
}

// NewRouter mounts every module at the root and again under /api.
func NewRouter(cfg RouterConfig, modules ...Module) *gin.Engine {
	response.SetLogger(cfg.Logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(cfg.Logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/healthz", health(cfg.DB, cfg.Logger))
	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "Resource not found")
	})

	apiGroup := r.Group("/api")
	for _, m := range modules {
		m.Register(r)
		m.Register(apiGroup)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader},
		ExposeHeaders: []string{logger.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func health(db Pinger, lg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			response.OK(c, gin.H{"database": "unknown"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.FromGin(c, lg).Warn("health_check_failed", err, nil)
			response.Fail(c, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		response.OK(c, gin.H{"database": "up"})
	}
}
