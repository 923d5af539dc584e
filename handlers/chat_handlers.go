package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"procurement/chat"
	"procurement/middleware"
	"procurement/models"
	"procurement/procurement"
	"procurement/utils"
)

// HandleChat answers a question about the table the session is viewing.
// POST /api/v1/chat
func (h *Handler) HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if resp := bindBody(c, &req); resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	sess := middleware.Session(c)

	table, err := h.Service.View(c.UserContext(), sess.ViewMode(), req.Branch, req.Week)
	if errors.Is(err, procurement.ErrInsufficientHistory) || errors.Is(err, procurement.ErrNoWeeks) {
		return c.JSON(fiber.Map{"status": "warning", "state": "no_data", "message": chat.NoDataText})
	}
	if err != nil {
		return h.reportError(c, "HandleChat", err)
	}
	if len(table.Rows) == 0 {
		return c.JSON(fiber.Map{"status": "warning", "state": "no_data", "message": chat.NoDataText})
	}

	turns, err := h.Chat.Ask(c.UserContext(), sess, procurement.Summarize(table), req.Message)
	if errors.Is(err, chat.ErrNoData) {
		return c.JSON(fiber.Map{"status": "warning", "state": "no_data", "message": chat.NoDataText})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to answer"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": turns})
}

// HandleGetChatHistory pages through the visible conversation, oldest first.
// GET /api/v1/chat/history?page=&pageSize=
func (h *Handler) HandleGetChatHistory(c *fiber.Ctx) error {
	var q models.HistoryQuery
	if resp := bindQuery(c, &q); resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	turns := h.Chat.Render(middleware.Session(c))

	pagination := utils.CreatePagination(len(turns), q.Page, q.PageSize)
	start, end := pagination.Bounds()
	return c.JSON(fiber.Map{
		"status":     "success",
		"data":       turns[start:end],
		"pagination": pagination,
	})
}

// HandleClearChatHistory forgets the session's conversation.
// DELETE /api/v1/chat/history
func (h *Handler) HandleClearChatHistory(c *fiber.Ctx) error {
	middleware.Session(c).ClearHistory()
	return c.JSON(fiber.Map{"status": "success", "message": "Conversation cleared"})
}
