// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/controle-financeiro/backend/internal/integration/entrypoint/controller"
	"github.com/controle-financeiro/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine             *gin.Engine
	healthController   *controller.HealthController
	telegramController *controller.TelegramController
	codeRateLimiter    *middleware.RateLimiter
	authMiddleware     *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	telegramController *controller.TelegramController,
	codeRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:   healthController,
		telegramController: telegramController,
		codeRateLimiter:    codeRateLimiter,
		authMiddleware:     authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Default middleware: logger and recovery
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		// Telegram integration routes (require authentication)
		if r.telegramController != nil && r.authMiddleware != nil {
			telegram := v1.Group("/telegram")
			telegram.Use(r.authMiddleware.Authenticate())
			{
				telegram.GET("/status", r.telegramController.Status)
				if r.codeRateLimiter != nil {
					telegram.POST("/code", r.codeRateLimiter.Middleware(), r.telegramController.GenerateCode)
				} else {
					telegram.POST("/code", r.telegramController.GenerateCode)
				}
				telegram.DELETE("/unlink", r.telegramController.Unlink)
			}
		}
	}
}
