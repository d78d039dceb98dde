package server

import (
	"github.com/gin-gonic/gin"

	"posts-api/internal/handlers"
)

// NewEngine builds the gin engine used by the local development server
func (c *Container) NewEngine() *gin.Engine {
	if c.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	handlers.SetupMiddleware(engine, &c.Config.Server, c.Logger)
	handlers.SetupRoutes(engine, c.Router)
	return engine
}
