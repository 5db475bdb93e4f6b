package handler

import (
	"go-warung-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := queryInt(c, "days", 7)
	if days <= 0 || days > 366 {
		days = 7
	}

	data, err := h.service.GetStockMovement(c.UserContext(), days)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetTopProducts returns best sellers by quantity
// Query params: limit (default 10)
func (h *DashboardHandler) GetTopProducts(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 10)
	if limit <= 0 {
		limit = 10
	}

	data, err := h.service.GetTopProducts(c.UserContext(), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": data})
}
