package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskflow-api/internal/container"
	"github.com/oksasatya/taskflow-api/internal/interface/middleware"
	"github.com/oksasatya/taskflow-api/pkg/validation"
)

// NewEngine returns the Gin engine with global middleware and every module
// registered.
func NewEngine(c *container.Container) (*gin.Engine, error) {
	cfg := c.Config
	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(cfg.TrustProxyHeaders))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins())))
	if cfg.DebugMetricsEnabled {
		r.Use(middleware.Metrics())
	}
	if cfg.HTTPLogEnabled {
		r.Use(middleware.HTTPLogger(c.Logger))
	}

	reg := NewRegistry(r)
	if err := InitModules(reg, c); err != nil {
		return nil, err
	}
	reg.RegisterAll()
	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// "*" or nothing configured: any origin, no credentials
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowOrigins = nil
		cc.AllowAllOrigins = true
		cc.AllowCredentials = false
	}
	return cc
}
