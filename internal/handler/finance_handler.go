package handler

import (
	"go-warung-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FinanceHandler struct {
	service service.FinanceService
}

func NewFinanceHandler(s service.FinanceService) *FinanceHandler {
	return &FinanceHandler{service: s}
}

type ReconcileRequest struct {
	RealCash *int64 `json:"real_cash"`
}

// GET /api/v1/finance/ledger
func (h *FinanceHandler) GetLedger(c *fiber.Ctx) error {
	book, err := h.service.GetLedger(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(book)
}

// GET /api/v1/finance/stats
func (h *FinanceHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// GET /api/v1/finance/balance-sheet
func (h *FinanceHandler) GetBalanceSheet(c *fiber.Ctx) error {
	sheet, err := h.service.GetBalanceSheet(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sheet)
}

// GetParties returns known customer and supplier names for autocomplete.
func (h *FinanceHandler) GetParties(c *fiber.Ctx) error {
	parties, err := h.service.GetParties(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(parties)
}

// CreateEntry records a manual income or expense
// POST /api/v1/finance/entries
func (h *FinanceHandler) CreateEntry(c *fiber.Ctx) error {
	var req service.ManualEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	t, err := h.service.RecordManualEntry(c.UserContext(), req, actorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Entry recorded", "data": t})
}

// Reconcile compares a physical cash count with the ledger
// POST /api/v1/finance/reconcile
func (h *FinanceHandler) Reconcile(c *fiber.Ctx) error {
	var req ReconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	if req.RealCash == nil {
		return c.Status(400).JSON(fiber.Map{"error": "wajib diisi", "field": "real_cash"})
	}

	result, err := h.service.ReconcileCash(c.UserContext(), *req.RealCash, actorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	status := fiber.StatusCreated
	if result.Status == service.ReconcileNoop {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(result)
}
