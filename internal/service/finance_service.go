package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-warung-pos/internal/config"
	"go-warung-pos/internal/ledger"
	"go-warung-pos/internal/model"
	"go-warung-pos/internal/repository"
	"go-warung-pos/internal/ws"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ManualEntryRequest records cash that did not come from a sale or restock.
type ManualEntryRequest struct {
	Kind        model.TransactionType `json:"kind" validate:"required,oneof=INCOME EXPENSE"`
	Description string                `json:"description" validate:"notblank"`
	Amount      int64                 `json:"amount" validate:"gt=0"`
	Date        string                `json:"date" validate:"required,datetime=2006-01-02"`
}

type ReconcileStatus string

const (
	Reconciled ReconcileStatus = "RECONCILED"
	// ReconcileNoop means the counted cash already matched; nothing was written.
	ReconcileNoop ReconcileStatus = "NOOP"
)

type ReconcileResult struct {
	Status          ReconcileStatus           `json:"status"`
	PreviousBalance int64                     `json:"previous_balance"`
	RealCash        int64                     `json:"real_cash"`
	Difference      int64                     `json:"difference"`
	Direction       model.AdjustmentDirection `json:"direction,omitempty"`
	Adjustment      *model.Transaction        `json:"adjustment,omitempty"`
	Message         string                    `json:"message"`
}

type FinanceService interface {
	GetLedger(ctx context.Context) (*ledger.Book, error)
	GetStats(ctx context.Context) (*ledger.Stats, error)
	GetBalanceSheet(ctx context.Context) (*ledger.BalanceSheet, error)
	GetParties(ctx context.Context) ([]string, error)
	RecordManualEntry(ctx context.Context, req ManualEntryRequest, actor Actor) (*model.Transaction, error)
	ReconcileCash(ctx context.Context, realCash int64, actor Actor) (*ReconcileResult, error)
}

type financeService struct {
	db              *gorm.DB
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	debtRepo        repository.DebtRepository
	recorder        *recorder
	wsHub           *ws.Hub
	cfg             *config.Config
	log             zerolog.Logger
	now             func() time.Time
}

func NewFinanceService(db *gorm.DB, pRepo repository.ProductRepository, tRepo repository.TransactionRepository, dRepo repository.DebtRepository, hub *ws.Hub, cfg *config.Config, log zerolog.Logger) FinanceService {
	return &financeService{
		db:              db,
		productRepo:     pRepo,
		transactionRepo: tRepo,
		debtRepo:        dRepo,
		recorder:        &recorder{productRepo: pRepo, transactionRepo: tRepo},
		wsHub:           hub,
		cfg:             cfg,
		log:             log.With().Str("service", "finance").Logger(),
		now:             time.Now,
	}
}

func (s *financeService) GetLedger(ctx context.Context) (*ledger.Book, error) {
	txs, err := s.transactionRepo.List(ctx, repository.TransactionFilter{})
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	book := ledger.Derive(txs)
	s.reportUnclassified(book.Unclassified)
	return &book, nil
}

func (s *financeService) reportUnclassified(rows []ledger.Rejected) {
	for _, r := range rows {
		s.log.Warn().
			Str("transaction_id", r.ID.String()).
			Str("type", string(r.Type)).
			Str("payment_method", string(r.PaymentMethod)).
			Str("reason", r.Reason).
			Msg("transaction excluded from ledger")
	}
}

func (s *financeService) GetStats(ctx context.Context) (*ledger.Stats, error) {
	snap, err := readSnapshot(ctx, s.db, s.productRepo, s.transactionRepo, s.debtRepo)
	if err != nil {
		return nil, err
	}
	stats := ledger.ComputeStats(snap, ledger.StartOfDay(s.now(), s.cfg.Location), s.cfg.LowStockThreshold)
	return &stats, nil
}

func (s *financeService) GetBalanceSheet(ctx context.Context) (*ledger.BalanceSheet, error) {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	sheet := ledger.NewBalanceSheet(*stats)
	return &sheet, nil
}

func (s *financeService) GetParties(ctx context.Context) ([]string, error) {
	var (
		debts []model.DebtRecord
		txs   []model.Transaction
	)
	err := readTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		if debts, err = s.debtRepo.WithTx(tx).List(ctx, repository.DebtFilter{}); err != nil {
			return err
		}
		txs, err = s.transactionRepo.WithTx(tx).List(ctx, repository.TransactionFilter{})
		return err
	})
	if err != nil {
		return nil, storeErr("list parties", err)
	}
	return ledger.Parties(debts, txs), nil
}

// RecordManualEntry appends an INCOME or EXPENSE on the given shop-local date,
// stamped with the current time of day.
func (s *financeService) RecordManualEntry(ctx context.Context, req ManualEntryRequest, actor Actor) (*model.Transaction, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation("2006-01-02", req.Date, s.cfg.Location)
	if err != nil {
		return nil, invalid("date", "format tanggal harus YYYY-MM-DD")
	}
	now := s.now().In(s.cfg.Location)
	at := time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), s.cfg.Location)

	t := &model.Transaction{
		Type:          req.Kind,
		Timestamp:     at.UnixMilli(),
		Subtotal:      req.Amount,
		TotalAmount:   req.Amount,
		AmountPaid:    req.Amount,
		PaymentMethod: model.PayCash,
		Note:          strings.TrimSpace(req.Description),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.recorder.append(ctx, tx, t, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("transaction_id", t.ID.String()).Str("kind", string(t.Type)).Int64("amount", t.TotalAmount).Msg("manual ledger entry recorded")
	s.wsHub.Publish(ws.Event{
		Type:    "ledger_update",
		Action:  "manual_entry_created",
		Data:    t,
		User:    actor.wsUser(),
		Message: fmt.Sprintf("%s mencatat %s Rp %s", actor.Name, t.Note, ledger.FormatAmount(t.TotalAmount)),
	})
	return t, nil
}

// ReconcileCash compares a physical cash count with the ledger balance and,
// when they differ, appends an ADJUSTMENT for the difference. The balance is
// read inside the write transaction so a concurrent append cannot slip
// between the read and the correction.
func (s *financeService) ReconcileCash(ctx context.Context, realCash int64, actor Actor) (*ReconcileResult, error) {
	if realCash < 0 {
		return nil, invalid("real_cash", "jumlah uang fisik tidak boleh negatif")
	}

	result := &ReconcileResult{RealCash: realCash}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txs, err := s.transactionRepo.WithTx(tx).List(ctx, repository.TransactionFilter{})
		if err != nil {
			return storeErr("list transactions", err)
		}
		book := ledger.Derive(txs)
		s.reportUnclassified(book.Unclassified)

		result.PreviousBalance = book.Balance
		result.Difference = realCash - book.Balance
		if result.Difference == 0 {
			result.Status = ReconcileNoop
			result.Message = "Jumlah sama, tidak perlu revisi"
			return nil
		}

		amount := result.Difference
		result.Direction = model.AdjustSurplus
		if amount < 0 {
			amount = -amount
			result.Direction = model.AdjustDeficit
		}

		adj := &model.Transaction{
			Type:                model.TxAdjustment,
			Timestamp:           s.now().UnixMilli(),
			Subtotal:            amount,
			TotalAmount:         amount,
			PaymentMethod:       model.PayCash,
			AdjustmentDirection: result.Direction,
			Note:                ledger.RevisionNote(realCash),
		}
		if _, err := s.recorder.append(ctx, tx, adj, actor); err != nil {
			return err
		}
		result.Status = Reconciled
		result.Adjustment = adj
		result.Message = fmt.Sprintf("Saldo direvisi %s Rp %s", strings.ToLower(string(result.Direction)), ledger.FormatAmount(amount))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Status == ReconcileNoop {
		s.log.Info().Int64("balance", result.PreviousBalance).Msg("cash count matches ledger, nothing to reconcile")
		return result, nil
	}

	s.log.Info().
		Int64("previous_balance", result.PreviousBalance).
		Int64("real_cash", realCash).
		Str("direction", string(result.Direction)).
		Msg("cash reconciled")
	s.wsHub.Publish(ws.Event{
		Type:    "ledger_update",
		Action:  "cash_reconciled",
		Data:    result,
		User:    actor.wsUser(),
		Message: fmt.Sprintf("%s merevisi saldo kas menjadi Rp %s", actor.Name, ledger.FormatAmount(realCash)),
	})
	return result, nil
}
