package routes

import (
	"github.com/gofiber/fiber/v2"

	"procurement/handlers"
	"procurement/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	api.Get("/version", handlers.HandleVersion)
	api.Get("/health", handlers.HandleHealth)

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/login", h.HandleLogin)

	// Everything below needs a token bound to a session.
	secured := api.Group("", middleware.JWTMiddleware, middleware.LoadSession(h.Sessions))

	// Selections
	secured.Get("/branches", h.HandleListBranches)
	secured.Get("/weeks", h.HandleListWeeks)

	// Session state
	secured.Get("/session", h.HandleGetSession)
	secured.Put("/session/view", h.HandleSetViewMode)
	secured.Post("/cache/clear", h.HandleClearCache)

	// --- Report Routes ---
	reports := secured.Group("/reports")
	reports.Get("/sales", h.HandleGetSalesReport)
	reports.Get("/schedule", h.HandleGetPurchaseSchedule)
	reports.Get("/schedule/pdf", h.HandleDownloadSchedulePDF)
	reports.Get("/current", h.HandleGetCurrentView)
	reports.Get("/export.xlsx", h.HandleExportXLSX)

	// --- Chat Routes ---
	chat := secured.Group("/chat")
	chat.Post("/", h.HandleChat)
	chat.Get("/history", h.HandleGetChatHistory)
	chat.Delete("/history", h.HandleClearChatHistory)
}
