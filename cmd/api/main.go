package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-warung-pos/internal/config"
	"go-warung-pos/internal/logger"
	"go-warung-pos/internal/model"
	"go-warung-pos/internal/repository"
	"go-warung-pos/internal/router"
	"go-warung-pos/internal/service"
	"go-warung-pos/internal/ws"
	"go-warung-pos/pkg/database"
	"go-warung-pos/pkg/jwt"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Warn().Msg(".env file not found, using system env")
	}

	// 2. Setup Database
	db, err := database.Connect(database.Options{
		Driver: cfg.DBDriver,
		DSN:    cfg.DSN(),
		LogSQL: cfg.DBLogSQL,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatal().Err(err).Msg("auto migrate failed")
	}

	// 3. Seed default privileges, roles, and owner account
	if err := repository.Seed(db, cfg.OwnerEmail, cfg.OwnerPassword, log); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	debtRepo := repository.NewDebtRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	app := router.New(router.Deps{
		Config:        cfg,
		Log:           log,
		Hub:           wsHub,
		Tokens:        tokens,
		UserRepo:      userRepo,
		RoleRepo:      repository.NewRoleRepo(db),
		PrivilegeRepo: repository.NewPrivilegeRepo(db),
		Auth:          service.NewAuthService(userRepo, tokens, log),
		Inventory:     service.NewInventoryService(db, productRepo, txRepo, debtRepo, wsHub, cfg, log),
		Finance:       service.NewFinanceService(db, productRepo, txRepo, debtRepo, wsHub, cfg, log),
		Debts:         service.NewDebtService(db, debtRepo, wsHub, cfg, log),
		Dashboard:     service.NewDashboardService(db, productRepo, txRepo, cfg),
	})

	// 6. Graceful Shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Str("timezone", cfg.Location.String()).Msg("server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic().Err(err).Msg("listen failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
