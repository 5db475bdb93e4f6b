package handler

import (
	"strings"
	"time"

	"go-warung-pos/internal/model"
	"go-warung-pos/internal/repository"
	"go-warung-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
	loc     *time.Location
}

func NewInventoryHandler(s service.InventoryService, loc *time.Location) *InventoryHandler {
	return &InventoryHandler{service: s, loc: loc}
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return badJSON(c)
	}

	if err := h.service.CreateProduct(c.UserContext(), &product, actorFrom(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// CreateTransaction records a checkout (OUT) or restock (IN)
// POST /api/v1/transactions
func (h *InventoryHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.RecordTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	result, err := h.service.RecordTransaction(c.UserContext(), req, actorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "data": result})
}

// GetTransactions lists the log oldest first.
// Query params: from, to (YYYY-MM-DD, inclusive), type (comma separated)
func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	var filter repository.TransactionFilter
	if from := c.Query("from"); from != "" {
		day, err := time.ParseInLocation("2006-01-02", from, h.loc)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "format tanggal harus YYYY-MM-DD", "field": "from"})
		}
		filter.From = day
	}
	if to := c.Query("to"); to != "" {
		day, err := time.ParseInLocation("2006-01-02", to, h.loc)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "format tanggal harus YYYY-MM-DD", "field": "to"})
		}
		filter.To = day.AddDate(0, 0, 1)
	}
	if types := c.Query("type"); types != "" {
		for _, t := range strings.Split(types, ",") {
			tt := model.TransactionType(strings.ToUpper(strings.TrimSpace(t)))
			if !tt.Valid() {
				return c.Status(400).JSON(fiber.Map{"error": "tipe transaksi tidak dikenal: " + t, "field": "type"})
			}
			filter.Types = append(filter.Types, tt)
		}
	}

	transactions, err := h.service.GetTransactions(c.UserContext(), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(transactions)
}

// GetTransactionHistory pages the log newest first.
// Query params: page (1), limit (20), date (YYYY-MM-DD)
func (h *InventoryHandler) GetTransactionHistory(c *fiber.Ctx) error {
	page, err := h.service.GetTransactionHistory(c.UserContext(), queryInt(c, "page", 1), queryInt(c, "limit", 20), c.Query("date"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	txID, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.service.GetTransactionByID(c.UserContext(), txID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tx)
}
