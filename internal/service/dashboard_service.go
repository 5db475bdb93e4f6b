package service

import (
	"context"
	"time"

	"go-warung-pos/internal/config"
	"go-warung-pos/internal/ledger"
	"go-warung-pos/internal/model"
	"go-warung-pos/internal/repository"

	"gorm.io/gorm"
)

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]StockMovementData, error)
	GetTopProducts(ctx context.Context, limit int) ([]ledger.TopProduct, error)
}

type dashboardService struct {
	db              *gorm.DB
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	cfg             *config.Config
	now             func() time.Time
}

func NewDashboardService(db *gorm.DB, pRepo repository.ProductRepository, tRepo repository.TransactionRepository, cfg *config.Config) DashboardService {
	return &dashboardService{db: db, productRepo: pRepo, transactionRepo: tRepo, cfg: cfg, now: time.Now}
}

// GetStockMovement returns one row per shop-local day for the last days
// days, today included. Days without movement are reported as zero.
func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]StockMovementData, error) {
	if days < 1 {
		days = 7
	}
	loc := s.cfg.Location
	today := ledger.StartOfDay(s.now(), loc)
	start := today.AddDate(0, 0, -(days - 1))

	txs, err := s.transactionRepo.List(ctx, repository.TransactionFilter{
		From:  start,
		To:    today.AddDate(0, 0, 1),
		Types: []model.TransactionType{model.TxIn, model.TxOut},
	})
	if err != nil {
		return nil, storeErr("list transactions", err)
	}

	results := make([]StockMovementData, days)
	index := make(map[string]int, days)
	for i := range results {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		results[i].Date = d
		index[d] = i
	}
	for _, t := range txs {
		i, ok := index[t.Time(loc).Format("2006-01-02")]
		if !ok {
			continue
		}
		for _, it := range t.Items {
			if t.Type == model.TxIn {
				results[i].Inbound += it.Quantity
			} else {
				results[i].Outbound += it.Quantity
			}
		}
	}
	return results, nil
}

func (s *dashboardService) GetTopProducts(ctx context.Context, limit int) ([]ledger.TopProduct, error) {
	var (
		sales    []model.Transaction
		products []model.Product
	)
	err := readTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		sales, err = s.transactionRepo.WithTx(tx).List(ctx, repository.TransactionFilter{Types: []model.TransactionType{model.TxOut}})
		if err != nil {
			return err
		}
		products, err = s.productRepo.WithTx(tx).FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, storeErr("top products", err)
	}
	return ledger.TopProducts(sales, products, limit), nil
}
