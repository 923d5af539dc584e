package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"procurement/cache"
	"procurement/chat"
	"procurement/config"
	"procurement/procurement"
	"procurement/session"
	"procurement/utils"
)

// Handler holds what the HTTP surface needs to serve one operator session.
type Handler struct {
	Config   config.Config
	Service  *procurement.Service
	Chat     *chat.Orchestrator
	Sessions *session.Store
	Cache    *cache.QueryCache

	log *logrus.Logger
}

func New(cfg config.Config, svc *procurement.Service, orch *chat.Orchestrator, sessions *session.Store) *Handler {
	return &Handler{
		Config:   cfg,
		Service:  svc,
		Chat:     orch,
		Sessions: sessions,
		Cache:    svc.Cache,
		log:      config.GetLogger(),
	}
}

const insufficientHistoryMessage = "Not enough historical data to calculate running average."

// reportError turns a failure to build a view into the inline state the panel
// shows. Only that panel is affected; the session stays usable.
func (h *Handler) reportError(c *fiber.Ctx, funcName string, err error) error {
	switch {
	case errors.Is(err, procurement.ErrInsufficientHistory):
		return c.JSON(fiber.Map{"status": "warning", "state": "insufficient_data", "message": insufficientHistoryMessage})
	case errors.Is(err, procurement.ErrNoWeeks):
		return c.JSON(fiber.Map{"status": "warning", "state": "no_data", "message": "No sales data available."})
	case errors.Is(err, procurement.ErrUnknownWeek):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Unknown sales week"})
	}
	config.LogError("handlers", funcName, "warehouse query failed", logrus.Fields{"path": c.Path()}, err)
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "Failed to load data from the warehouse"})
}

// bindQuery reads query parameters into out and validates them. A non-nil
// result is the 400 response body.
func bindQuery(c *fiber.Ctx, out any) fiber.Map {
	if err := c.QueryParser(out); err != nil {
		return fiber.Map{"status": "error", "message": "Invalid query parameters"}
	}
	return validationFailure(out)
}

// bindBody reads a JSON body into out and validates it. A non-nil result is the
// 400 response body.
func bindBody(c *fiber.Ctx, out any) fiber.Map {
	if err := c.BodyParser(out); err != nil {
		return fiber.Map{"status": "error", "message": "Cannot parse JSON"}
	}
	return validationFailure(out)
}

func validationFailure(out any) fiber.Map {
	if err := utils.ValidateStruct(out); err != nil {
		return fiber.Map{"status": "error", "message": "Validation failed", "errors": utils.ProcessValidationErrors(err)}
	}
	return nil
}
