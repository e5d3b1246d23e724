package routes

import (
	"kamulog-stk/internal/adapters/http/handlers"
	"kamulog-stk/internal/adapters/http/middleware"
	"kamulog-stk/internal/adapters/persistence/repositories"
	"kamulog-stk/internal/config"
	"kamulog-stk/internal/core/services"
	"kamulog-stk/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, m *metrics.Metrics) {
	store := repositories.NewStore(db)

	// Initialize services
	decisionService := services.NewDecisionService(store, m)
	membershipService := services.NewMembershipService(store, m)
	assemblyService := services.NewAssemblyService(store, m)
	rosterService := services.NewRosterService(store, m, cfg.Assembly.MaxProxiesPerReceiver)
	auditService := services.NewAuditService(store)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, store.Ping)
	decisionHandler := handlers.NewDecisionHandler(decisionService)
	memberHandler := handlers.NewMemberHandler(membershipService, decisionService)
	assemblyHandler := handlers.NewAssemblyHandler(assemblyService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	protected := apiV1.Group("", middleware.AuthMiddleware(cfg))
	officer := middleware.OfficerOrAdmin()

	decisions := protected.Group("/decisions")
	decisions.Get("/", decisionHandler.List)
	decisions.Post("/", officer, decisionHandler.Create)
	decisions.Get("/:id", decisionHandler.Get)
	decisions.Put("/:id", officer, decisionHandler.Update)
	decisions.Delete("/:id", officer, decisionHandler.Delete)
	decisions.Post("/:id/finalize", officer, decisionHandler.Finalize)
	decisions.Get("/:id/links", decisionHandler.ListLinks)
	decisions.Post("/:id/links", officer, decisionHandler.Link)
	decisions.Delete("/:id/links/:link_id", officer, decisionHandler.Unlink)

	members := protected.Group("/members")
	members.Get("/", memberHandler.List)
	members.Post("/", officer, memberHandler.Register)
	members.Get("/:id", memberHandler.Get)
	members.Get("/:id/links", memberHandler.ListLinks)
	members.Post("/:id/resignation", officer, memberHandler.RequestResignation)
	members.Delete("/:id/resignation", officer, memberHandler.WithdrawResignation)
	members.Post("/:id/resignation/confirm", officer, memberHandler.ConfirmResignation)
	members.Post("/:id/admission/confirm", officer, memberHandler.ConfirmAdmission)
	members.Post("/:id/expulsion/confirm", officer, memberHandler.ConfirmExpulsion)

	resignations := protected.Group("/resignations")
	resignations.Get("/", memberHandler.ListResignations)
	resignations.Get("/:member_id", memberHandler.ResignationDetail)

	assemblies := protected.Group("/assemblies")
	assemblies.Get("/", assemblyHandler.List)
	assemblies.Post("/", officer, assemblyHandler.Create)
	assemblies.Get("/:id", assemblyHandler.Get)
	assemblies.Put("/:id", officer, assemblyHandler.Update)
	assemblies.Delete("/:id", officer, assemblyHandler.Delete)
	assemblies.Put("/:id/status", officer, assemblyHandler.UpdateStatus)
	assemblies.Get("/:id/quorum", assemblyHandler.Quorum)

	assemblies.Get("/:id/attendees", rosterHandler.ListAttendees)
	assemblies.Post("/:id/attendees", officer, rosterHandler.CheckIn)
	assemblies.Put("/:id/attendees/:attendee_id/signature", officer, rosterHandler.SetSignature)
	assemblies.Delete("/:id/attendees/:attendee_id", officer, rosterHandler.RemoveAttendee)

	assemblies.Get("/:id/proxies", rosterHandler.ListProxies)
	assemblies.Post("/:id/proxies", officer, rosterHandler.GrantProxy)
	assemblies.Put("/:id/proxies/:proxy_id/approval", officer, rosterHandler.SetApproval)
	assemblies.Delete("/:id/proxies/:proxy_id", officer, rosterHandler.RemoveProxy)

	protected.Get("/audit", middleware.AdminOnly(), auditHandler.List)
}
