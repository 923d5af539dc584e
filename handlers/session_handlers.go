package handlers

import (
	"github.com/gofiber/fiber/v2"

	"procurement/middleware"
	"procurement/models"
)

// HandleGetSession reports the session's view mode and the data refresh state.
// GET /api/v1/session
func (h *Handler) HandleGetSession(c *fiber.Ctx) error {
	sess := middleware.Session(c)
	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"sessionId":   sess.ID,
			"viewMode":    sess.ViewMode(),
			"lastRefresh": h.Cache.LastRefresh(),
			"cache":       h.Cache.Stats(),
		},
	})
}

// HandleSetViewMode switches the session's view. An empty body or mode toggles it.
// PUT /api/v1/session/view
func (h *Handler) HandleSetViewMode(c *fiber.Ctx) error {
	var req models.ViewModeRequest
	if len(c.Body()) > 0 {
		if resp := bindBody(c, &req); resp != nil {
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}
	}
	mode := middleware.Session(c).SetViewMode(req.Mode)
	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"viewMode": mode}})
}

// HandleClearCache drops every cached query and model answer.
// POST /api/v1/cache/clear
func (h *Handler) HandleClearCache(c *fiber.Ctx) error {
	refreshed := h.Cache.Clear()
	h.log.WithField("session", middleware.Session(c).ID).Info("[CACHE] data refresh requested")
	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"lastRefresh": refreshed}})
}
