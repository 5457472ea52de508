// Package routes defines HTTP routes for the vacation API.
package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vacationManagement/internal/auth"
	"vacationManagement/internal/config"
	"vacationManagement/internal/handlers"
	"vacationManagement/internal/metrics"
	"vacationManagement/internal/middleware"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Vacation *handlers.VacationHandler
	User     *handlers.UserHandler
	Health   *handlers.HealthHandler
}

// Setup configures middleware and all HTTP routes.
func Setup(router *gin.Engine, h Handlers, resolver auth.Resolver, cfg *config.Config, m *metrics.Metrics) {
	router.Use(m.Middleware())

	if len(cfg.HTTP.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.HTTP.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
		router.Use(middleware.CSRF(middleware.CSRFConfig{AllowedOrigins: cfg.HTTP.AllowedOrigins}))
	}

	router.GET("/health", h.Health.Check)
	router.GET("/metrics", m.Handler())

	api := router.Group("/api")
	api.Use(middleware.Session(resolver, cfg.Auth.Cookie.Name))
	{
		api.POST("/login", h.Auth.Login)
		api.GET("/me", h.Auth.Me)
		api.POST("/logout", h.Auth.Logout)

		api.GET("/vacations", h.Vacation.ListOwn)
		api.GET("/vacations/pending", h.Vacation.ListAll)
		api.POST("/vacations", h.Vacation.Create)
		api.PUT("/vacations/:id/approve", h.Vacation.Approve)
		api.PUT("/vacations/:id/decline", h.Vacation.Decline)

		api.GET("/users", h.User.List)
		api.GET("/users/:id", h.User.Get)
		api.POST("/users", h.User.Create)
		api.PUT("/users/:id", h.User.Update)
		api.DELETE("/users/:id", h.User.Delete)
	}
}
