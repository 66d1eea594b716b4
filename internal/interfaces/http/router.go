package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taxpayer-registry/internal/application/auth"
	"github.com/jhoicas/taxpayer-registry/internal/application/taxpayer"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
)

// RouterDeps router dependencies.
type RouterDeps struct {
	Identity     *auth.IdentityService
	Taxpayers    *taxpayer.Service
	LoginLimiter *IPRateLimiter // nil disables login throttling
}

// Router registers the /api/v1 routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")
	requireAuth := AuthMiddleware(deps.Identity)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.Identity)
	if deps.LoginLimiter != nil {
		authGroup.Post("/login", deps.LoginLimiter.Middleware(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/register-with-organization", authHandler.RegisterWithOrganization)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	authGroup.Put("/me", requireAuth, authHandler.UpdateMe)
	authGroup.Post("/change-password", requireAuth, authHandler.ChangePassword)

	// Taxpayers (every route requires a token)
	writers := RequireRole(entity.RoleAdmin, entity.RoleAccountant, entity.RoleEmployer)
	reviewers := RequireRole(entity.RoleAdmin, entity.RoleAccountant)

	taxpayers := api.Group("/taxpayers", requireAuth)
	h := NewTaxpayerHandler(deps.Taxpayers)
	taxpayers.Post("/", writers, h.Create)
	taxpayers.Get("/", h.List)
	taxpayers.Get("/stats/summary", h.Stats)
	taxpayers.Get("/search/tin/:tin", h.SearchByTIN)
	taxpayers.Post("/bulk", reviewers, h.BulkCreate)
	taxpayers.Get("/:id", h.Get)
	taxpayers.Put("/:id", writers, h.Update)
	taxpayers.Delete("/:id", reviewers, h.Delete)
	taxpayers.Post("/:id/verify", reviewers, h.Verify)
}

// Operational registers /health and, when metrics is set, /metrics.
func Operational(app *fiber.App, service string, metrics *Metrics) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	})
	if metrics != nil {
		app.Get("/metrics", metrics.Handler())
	}
}
