package handler

import (
	"strings"

	"go-warung-pos/internal/model"
	"go-warung-pos/internal/repository"
	"go-warung-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DebtHandler struct {
	service service.DebtService
}

func NewDebtHandler(s service.DebtService) *DebtHandler {
	return &DebtHandler{service: s}
}

// Query params: type (PAYABLE|RECEIVABLE), status (ALL|PAID|UNPAID), party
func debtFilter(c *fiber.Ctx) (repository.DebtFilter, error) {
	filter := repository.DebtFilter{
		Type:      model.DebtType(strings.ToUpper(c.Query("type"))),
		Status:    repository.DebtStatus(strings.ToUpper(c.Query("status", string(repository.DebtStatusAll)))),
		PartyName: strings.TrimSpace(c.Query("party")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return filter, &service.ValidationError{Field: "type", Message: "tipe hutang tidak dikenal"}
	}
	switch filter.Status {
	case repository.DebtStatusAll, repository.DebtStatusPaid, repository.DebtStatusUnpaid:
	default:
		return filter, &service.ValidationError{Field: "status", Message: "status harus ALL, PAID atau UNPAID"}
	}
	return filter, nil
}

func (h *DebtHandler) CreateDebt(c *fiber.Ctx) error {
	var req service.CreateDebtRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	debt, err := h.service.CreateDebt(c.UserContext(), req, actorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Debt recorded", "data": debt})
}

func (h *DebtHandler) GetDebts(c *fiber.Ctx) error {
	filter, err := debtFilter(c)
	if err != nil {
		return fail(c, err)
	}

	debts, err := h.service.ListDebts(c.UserContext(), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(debts)
}

// GetGroups totals debts per party
// GET /api/v1/debts/groups
func (h *DebtHandler) GetGroups(c *fiber.Ctx) error {
	filter, err := debtFilter(c)
	if err != nil {
		return fail(c, err)
	}

	groups, err := h.service.GroupByParty(c.UserContext(), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(groups)
}

func (h *DebtHandler) GetDebt(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid debt ID"})
	}

	debt, err := h.service.GetDebt(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(debt)
}

// RecordPayment applies a (partial) payment
// POST /api/v1/debts/:id/payments
func (h *DebtHandler) RecordPayment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid debt ID"})
	}
	var req service.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	result, err := h.service.RecordPartialPayment(c.UserContext(), id, req, actorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(result)
}

func (h *DebtHandler) DeleteDebt(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid debt ID"})
	}

	if err := h.service.DeleteDebt(c.UserContext(), id, actorFrom(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Debt deleted"})
}
