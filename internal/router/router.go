// Package router assembles the Fiber application: middleware, REST routes
// and the WebSocket endpoint.
package router

import (
	"errors"

	"go-warung-pos/internal/config"
	"go-warung-pos/internal/handler"
	"go-warung-pos/internal/middleware"
	"go-warung-pos/internal/model"
	"go-warung-pos/internal/repository"
	"go-warung-pos/internal/service"
	"go-warung-pos/internal/ws"
	"go-warung-pos/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

type Deps struct {
	Config *config.Config
	Log    zerolog.Logger
	Hub    *ws.Hub
	Tokens *jwt.Manager

	UserRepo      repository.UserRepository
	RoleRepo      repository.RoleRepository
	PrivilegeRepo repository.PrivilegeRepository

	Auth      service.AuthService
	Inventory service.InventoryService
	Finance   service.FinanceService
	Debts     service.DebtService
	Dashboard service.DashboardService
}

func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Warung POS v1.0",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(d.Log))

	authHandler := handler.NewAuthHandler(d.Auth)
	invHandler := handler.NewInventoryHandler(d.Inventory, d.Config.Location)
	finHandler := handler.NewFinanceHandler(d.Finance)
	debtHandler := handler.NewDebtHandler(d.Debts)
	dashHandler := handler.NewDashboardHandler(d.Dashboard)
	roleHandler := handler.NewRoleHandler(d.RoleRepo, d.PrivilegeRepo)

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(d.UserRepo, d.Tokens))
	priv := middleware.RequirePrivilege

	// Products
	protected.Get("/products", priv(model.PrivProductView), invHandler.GetProducts)
	protected.Post("/products", priv(model.PrivProductCreate), invHandler.CreateProduct)

	// Transactions
	protected.Get("/transactions", priv(model.PrivTransactionView), invHandler.GetTransactions)
	protected.Get("/transactions/history", priv(model.PrivTransactionView), invHandler.GetTransactionHistory)
	protected.Get("/transactions/:id", priv(model.PrivTransactionView), invHandler.GetTransaction)
	protected.Post("/transactions", priv(model.PrivTransactionCreate), invHandler.CreateTransaction)

	// Finance
	finance := protected.Group("/finance")
	finance.Get("/ledger", priv(model.PrivFinanceView), finHandler.GetLedger)
	finance.Get("/stats", middleware.RequireAnyPrivilege(model.PrivFinanceView, model.PrivDashboardView), finHandler.GetStats)
	finance.Get("/balance-sheet", priv(model.PrivFinanceView), finHandler.GetBalanceSheet)
	finance.Get("/parties", middleware.RequireAnyPrivilege(model.PrivTransactionCreate, model.PrivDebtView), finHandler.GetParties)
	finance.Post("/entries", priv(model.PrivFinanceManage), finHandler.CreateEntry)
	finance.Post("/reconcile", priv(model.PrivFinanceManage), finHandler.Reconcile)

	// Debts
	debts := protected.Group("/debts")
	debts.Get("/", priv(model.PrivDebtView), debtHandler.GetDebts)
	debts.Get("/groups", priv(model.PrivDebtView), debtHandler.GetGroups)
	debts.Get("/:id", priv(model.PrivDebtView), debtHandler.GetDebt)
	debts.Post("/", priv(model.PrivDebtManage), debtHandler.CreateDebt)
	debts.Post("/:id/payments", priv(model.PrivDebtManage), debtHandler.RecordPayment)
	debts.Delete("/:id", priv(model.PrivDebtManage), debtHandler.DeleteDebt)

	// Dashboard
	protected.Get("/dashboard/stock-movement", priv(model.PrivDashboardView), dashHandler.GetStockMovement)
	protected.Get("/dashboard/top-products", priv(model.PrivDashboardView), dashHandler.GetTopProducts)

	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		d.Hub.Register <- c
		defer func() { d.Hub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
