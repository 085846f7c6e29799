// Package server exposes the skill tree over HTTP. It is thin plumbing:
// handlers decode requests, call the service, and map its typed errors to
// status codes. All tree logic lives in internal/skill.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skilltree/internal/skill"
)

// Config carries everything the router needs.
type Config struct {
	Service *skill.Service
	Log     *zap.SugaredLogger

	// Commit is reported by /version; "dev" when not set at build time.
	Commit string
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Log != nil {
		r.Use(requestLogger(cfg.Log))
	}
	r.Use(corsMiddleware())

	meta := &MetaHandler{Commit: cfg.Commit}
	r.GET("/", meta.Health)
	r.HEAD("/", meta.Health)
	r.GET("/version", meta.Version)
	r.GET("/favicon.ico", meta.Favicon)

	skills := &SkillHandler{svc: cfg.Service, log: cfg.Log}
	counters := &CounterHandler{svc: cfg.Service, log: cfg.Log}
	admin := &AdminHandler{svc: cfg.Service, log: cfg.Log}

	api := r.Group("/api")
	{
		sg := api.Group("/skills")
		{
			sg.POST("/", skills.CreateRoot)
			sg.GET("/", skills.List)
			sg.GET("/tree", skills.Tree)
			sg.GET("/export", skills.Export)
			sg.POST("/import", skills.ImportAdd)
			sg.PUT("/import", skills.ImportReplace)
			sg.GET("/roots/summary", skills.SummarizeRoots)
			sg.GET("/:id", skills.Get)
			sg.PATCH("/:id", skills.Update)
			sg.DELETE("/:id", skills.Delete)
			sg.POST("/:id/children", skills.CreateChild)
			sg.GET("/:id/summary", skills.Summarize)
		}

		cg := api.Group("/counters")
		{
			cg.POST("/", counters.Create)
			cg.GET("/", counters.List)
			cg.GET("/:id", counters.Get)
			cg.PATCH("/:id", counters.Update)
			cg.DELETE("/:id", counters.Delete)
			cg.POST("/:id/increment", counters.Increment)
		}

		api.DELETE("/admin/data", admin.Clear)
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	})
}

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
