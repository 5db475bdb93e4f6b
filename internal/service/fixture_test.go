package service

import (
	"bytes"
	"testing"
	"time"

	"go-warung-pos/internal/config"
	"go-warung-pos/internal/logger"
	"go-warung-pos/internal/model"
	"go-warung-pos/internal/repository"
	"go-warung-pos/internal/testutil"

	"gorm.io/gorm"
)

var wib = time.FixedZone("WIB", 7*3600)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) tick() { c.t = c.t.Add(time.Minute) }

type fixture struct {
	db      *gorm.DB
	cfg     *config.Config
	clock   *clock
	logs    *bytes.Buffer
	inv     *inventoryService
	fin     *financeService
	debts   *debtService
	dash    *dashboardService
	cashier Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := &config.Config{Location: wib, LowStockThreshold: 5, DebtDueDays: 7}
	clk := &clock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, wib)}
	var logs bytes.Buffer
	log := logger.NewWithWriter(&logs)

	pRepo := repository.NewProductRepo(db)
	tRepo := repository.NewTransactionRepo(db)
	dRepo := repository.NewDebtRepo(db)

	inv := NewInventoryService(db, pRepo, tRepo, dRepo, nil, cfg, log).(*inventoryService)
	fin := NewFinanceService(db, pRepo, tRepo, dRepo, nil, cfg, log).(*financeService)
	debts := NewDebtService(db, dRepo, nil, cfg, log).(*debtService)
	dash := NewDashboardService(db, pRepo, tRepo, cfg).(*dashboardService)
	inv.now, fin.now, debts.now, dash.now = clk.now, clk.now, clk.now, clk.now

	testutil.SeedProducts(t, db,
		model.Product{Barcode: "beras", Name: "Beras 1kg", Category: "Sembako", BuyPrice: 8000, SellPrice: 10000, Stock: 10},
		model.Product{Barcode: "telur", Name: "Telur", Category: "Sembako", BuyPrice: 2000, SellPrice: 2500, Stock: 30},
		model.Product{Barcode: "mie", Name: "Mie Instan", Category: "Makanan", BuyPrice: 2500, SellPrice: 3500, Stock: 20},
		model.Product{Barcode: "gula", Name: "Gula 1kg", Category: "Sembako", BuyPrice: 14000, SellPrice: 16000, Stock: 2},
	)

	return &fixture{
		db: db, cfg: cfg, clock: clk, logs: &logs,
		inv: inv, fin: fin, debts: debts, dash: dash,
		cashier: Actor{ID: "8f3c7f8e-1111-4a4a-9c9c-000000000001", Name: "Kasir Sari", Email: "sari@warung.local"},
	}
}

func (f *fixture) stock(t *testing.T, barcode string) int {
	t.Helper()
	var p model.Product
	if err := f.db.First(&p, "barcode = ?", barcode).Error; err != nil {
		t.Fatalf("load %s: %v", barcode, err)
	}
	return p.Stock
}

func (f *fixture) count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
