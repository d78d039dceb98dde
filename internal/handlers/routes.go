package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"posts-api/internal/config"
	"posts-api/internal/middleware"
)

// SetupRoutes registers the post routes, health check and Swagger UI on the engine
func SetupRoutes(engine *gin.Engine, router *Router) {
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.GET("/health", GinHandler("/health", router.Health()))

	for _, route := range router.Routes() {
		engine.Handle(route.Method, ginPath(route.Resource), GinHandler(route.Resource, route.Handler))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	})
}

// SetupMiddleware configures global middleware
func SetupMiddleware(engine *gin.Engine, cfg *config.ServerConfig, logger *logrus.Logger) {
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.StructuredLogger(logger))
	engine.Use(middleware.CORS(cfg.AllowedOrigins))
	engine.Use(middleware.SecurityHeaders())

	// Request size limit (1MB)
	engine.Use(middleware.RequestSizeLimit(1 << 20))
	engine.Use(middleware.ContentTypeValidation("application/json"))

	if cfg.RateLimit > 0 {
		engine.Use(middleware.RateLimiter(cfg.RateLimit, cfg.RateBurst, logger))
	}
}
