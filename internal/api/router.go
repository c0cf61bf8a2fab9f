package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jengzang/location-history-go/internal/config"
	"github.com/jengzang/location-history-go/internal/handler"
	"github.com/jengzang/location-history-go/internal/middleware"
)

// Handlers groups the HTTP handlers served by the router
type Handlers struct {
	Location *handler.LocationHandler
	History  *handler.HistoryHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Location history API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由组
	api := r.Group("/api/v1")
	{
		location := api.Group("/location")
		{
			location.GET("", h.Location.GetLatest)
			location.POST("",
				middleware.RateLimit(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow),
				middleware.TokenAuth(cfg.Security.JWTSecret),
				middleware.RequireUserAgent(cfg.Update.UserAgentPrefix),
				h.Location.UpdateLocation,
			)
		}

		history := api.Group("/history")
		{
			history.GET("", h.History.ListViews)
			history.GET("/:view", h.History.GetView)
		}

		api.GET("/stats", h.History.GetStatistics)
	}

	return r
}
