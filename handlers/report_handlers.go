package handlers

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"procurement/config"
	"procurement/export"
	"procurement/middleware"
	"procurement/models"
)

// HandleListBranches lists the branches to choose from.
// GET /api/v1/branches
func (h *Handler) HandleListBranches(c *fiber.Ctx) error {
	branches, err := h.Service.Branches(c.UserContext())
	if err != nil {
		return h.reportError(c, "HandleListBranches", err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": branches})
}

// HandleListWeeks lists the sales weeks, most recent first.
// GET /api/v1/weeks
func (h *Handler) HandleListWeeks(c *fiber.Ctx) error {
	weeks, err := h.Service.Weeks(c.UserContext())
	if err != nil {
		return h.reportError(c, "HandleListWeeks", err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": weeks})
}

func tableResponse(t *models.DisplayTable) fiber.Map {
	return fiber.Map{
		"status":  "success",
		"columns": t.Columns(),
		"data":    t,
	}
}

// HandleGetSalesReport returns the all-branch weekly sales table.
// GET /api/v1/reports/sales?week=&branch=
func (h *Handler) HandleGetSalesReport(c *fiber.Ctx) error {
	var q models.ReportQuery
	if resp := bindQuery(c, &q); resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	table, err := h.Service.SalesReport(c.UserContext(), q.Branch, q.Week)
	if err != nil {
		return h.reportError(c, "HandleGetSalesReport", err)
	}
	return c.JSON(tableResponse(table))
}

// HandleGetPurchaseSchedule returns the recommended orders for a branch.
// GET /api/v1/reports/schedule?branch=&week=&lookback=
func (h *Handler) HandleGetPurchaseSchedule(c *fiber.Ctx) error {
	var q models.ScheduleQuery
	if resp := bindQuery(c, &q); resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	table, err := h.Service.PurchaseSchedule(c.UserContext(), q.Branch, q.Week, q.Lookback)
	if err != nil {
		return h.reportError(c, "HandleGetPurchaseSchedule", err)
	}
	return c.JSON(tableResponse(table))
}

// HandleGetCurrentView returns the table for the session's view mode.
// GET /api/v1/reports/current?branch=&week=
func (h *Handler) HandleGetCurrentView(c *fiber.Ctx) error {
	var q models.ReportQuery
	if resp := bindQuery(c, &q); resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	mode := middleware.Session(c).ViewMode()
	if mode == models.ViewPurchaseSchedule && q.Branch == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "branch is required for the purchase schedule"})
	}
	table, err := h.Service.View(c.UserContext(), mode, q.Branch, q.Week)
	if err != nil {
		return h.reportError(c, "HandleGetCurrentView", err)
	}
	return c.JSON(tableResponse(table))
}

// HandleDownloadSchedulePDF renders the purchase schedule, one page per supplier.
// GET /api/v1/reports/schedule/pdf?branch=&week=
func (h *Handler) HandleDownloadSchedulePDF(c *fiber.Ctx) error {
	var q models.ScheduleQuery
	if resp := bindQuery(c, &q); resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	table, err := h.Service.PurchaseSchedule(c.UserContext(), q.Branch, q.Week, q.Lookback)
	if err != nil {
		return h.reportError(c, "HandleDownloadSchedulePDF", err)
	}

	var buf bytes.Buffer
	if err := export.PurchasePDF(&buf, table); err != nil {
		if errors.Is(err, export.ErrEmptyTable) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "No recommended orders to export"})
		}
		config.LogError("handlers", "HandleDownloadSchedulePDF", "pdf render failed", logrus.Fields{"branch": table.Branch, "week": table.Week}, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to generate PDF"})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.PDFFilename(table.Branch, table.Week)))
	return c.Send(buf.Bytes())
}

// HandleExportXLSX downloads the session's current view as a spreadsheet.
// GET /api/v1/reports/export.xlsx?branch=&week=
func (h *Handler) HandleExportXLSX(c *fiber.Ctx) error {
	var q models.ReportQuery
	if resp := bindQuery(c, &q); resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	mode := middleware.Session(c).ViewMode()
	if mode == models.ViewPurchaseSchedule && q.Branch == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "branch is required for the purchase schedule"})
	}
	table, err := h.Service.View(c.UserContext(), mode, q.Branch, q.Week)
	if err != nil {
		return h.reportError(c, "HandleExportXLSX", err)
	}

	var buf bytes.Buffer
	if err := export.TableXLSX(&buf, table); err != nil {
		config.LogError("handlers", "HandleExportXLSX", "xlsx render failed", logrus.Fields{"mode": table.Mode}, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to generate spreadsheet"})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.XLSXFilename(table)))
	return c.Send(buf.Bytes())
}
