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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type CreateDebtRequest struct {
	Type        model.DebtType `json:"type" validate:"required,oneof=PAYABLE RECEIVABLE"`
	PartyName   string         `json:"party_name" validate:"notblank"`
	Amount      int64          `json:"amount" validate:"gt=0"`
	Description string         `json:"description"`
	DueDate     string         `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type PaymentRequest struct {
	Amount int64  `json:"amount" validate:"gt=0"`
	Note   string `json:"note"`
}

// PaymentResult reports how a payment was applied. Applied never exceeds
// what was outstanding; the rest of the money handed over is Excess and is
// owed back to the payer.
type PaymentResult struct {
	Debt    *model.DebtRecord  `json:"debt"`
	Payment *model.DebtPayment `json:"payment"`
	Applied int64              `json:"applied"`
	Excess  int64              `json:"excess"`
}

type DebtService interface {
	CreateDebt(ctx context.Context, req CreateDebtRequest, actor Actor) (*model.DebtRecord, error)
	ListDebts(ctx context.Context, filter repository.DebtFilter) ([]model.DebtRecord, error)
	GetDebt(ctx context.Context, id uuid.UUID) (*model.DebtRecord, error)
	GroupByParty(ctx context.Context, filter repository.DebtFilter) ([]ledger.PartySummary, error)
	RecordPartialPayment(ctx context.Context, id uuid.UUID, req PaymentRequest, actor Actor) (*PaymentResult, error)
	DeleteDebt(ctx context.Context, id uuid.UUID, actor Actor) error
}

type debtService struct {
	db       *gorm.DB
	debtRepo repository.DebtRepository
	wsHub    *ws.Hub
	cfg      *config.Config
	log      zerolog.Logger
	now      func() time.Time
}

func NewDebtService(db *gorm.DB, dRepo repository.DebtRepository, hub *ws.Hub, cfg *config.Config, log zerolog.Logger) DebtService {
	return &debtService{
		db:       db,
		debtRepo: dRepo,
		wsHub:    hub,
		cfg:      cfg,
		log:      log.With().Str("service", "debt").Logger(),
		now:      time.Now,
	}
}

func (s *debtService) CreateDebt(ctx context.Context, req CreateDebtRequest, actor Actor) (*model.DebtRecord, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	debt := &model.DebtRecord{
		Type:        req.Type,
		PartyName:   strings.TrimSpace(req.PartyName),
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
	}
	if req.DueDate != "" {
		due, err := time.ParseInLocation("2006-01-02", req.DueDate, s.cfg.Location)
		if err != nil {
			return nil, invalid("due_date", "format tanggal harus YYYY-MM-DD")
		}
		debt.DueDate = &due
	}
	debt.CreatedBy = actor.ID
	debt.UpdatedBy = actor.ID

	if err := s.debtRepo.Create(ctx, debt); err != nil {
		return nil, storeErr("create debt", err)
	}

	s.publish("debt_created", debt, actor, fmt.Sprintf("%s mencatat %s %s Rp %s", actor.Name, debtLabel(debt.Type), debt.PartyName, ledger.FormatAmount(debt.Amount)))
	return debt, nil
}

func (s *debtService) ListDebts(ctx context.Context, filter repository.DebtFilter) ([]model.DebtRecord, error) {
	debts, err := s.debtRepo.List(ctx, filter)
	return debts, storeErr("list debts", err)
}

func (s *debtService) GetDebt(ctx context.Context, id uuid.UUID) (*model.DebtRecord, error) {
	debt, err := s.debtRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find debt", err)
	}
	return debt, nil
}

func (s *debtService) GroupByParty(ctx context.Context, filter repository.DebtFilter) ([]ledger.PartySummary, error) {
	debts, err := s.debtRepo.List(ctx, filter)
	if err != nil {
		return nil, storeErr("list debts", err)
	}
	return ledger.GroupDebtsByParty(debts), nil
}

// RecordPartialPayment applies a payment to a debt. PaidAmount is capped at
// Amount, so the record always satisfies 0 <= paid <= amount.
func (s *debtService) RecordPartialPayment(ctx context.Context, id uuid.UUID, req PaymentRequest, actor Actor) (*PaymentResult, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	var result PaymentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.debtRepo.WithTx(tx)
		debt, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return storeErr("find debt", err)
		}
		if debt.IsPaid {
			return invalid("amount", "hutang %s sudah lunas", debt.PartyName)
		}

		remaining := debt.Amount - debt.PaidAmount
		applied := req.Amount
		if applied > remaining {
			applied = remaining
		}
		debt.PaidAmount += applied
		debt.IsPaid = debt.PaidAmount >= debt.Amount
		debt.UpdatedBy = actor.ID
		if err := repo.Save(ctx, debt); err != nil {
			return storeErr("save debt", err)
		}

		payment := &model.DebtPayment{
			DebtID: debt.ID,
			Amount: applied,
			PaidAt: s.now(),
			Note:   strings.TrimSpace(req.Note),
		}
		payment.CreatedBy = actor.ID
		if err := repo.AddPayment(ctx, payment); err != nil {
			return storeErr("record payment", err)
		}

		result = PaymentResult{Debt: debt, Payment: payment, Applied: applied, Excess: req.Amount - applied}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Excess > 0 {
		s.log.Info().Str("debt_id", id.String()).Int64("excess", result.Excess).Msg("payment exceeded outstanding amount, excess returned")
	}
	msg := fmt.Sprintf("%s mencatat pembayaran %s Rp %s", actor.Name, result.Debt.PartyName, ledger.FormatAmount(result.Applied))
	if result.Debt.IsPaid {
		msg += " (lunas)"
	}
	s.publish("debt_payment", result, actor, msg)
	return &result, nil
}

func (s *debtService) DeleteDebt(ctx context.Context, id uuid.UUID, actor Actor) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.debtRepo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return storeErr("delete debt", err)
	}
	s.log.Info().Str("debt_id", id.String()).Str("by", actor.ID).Msg("debt deleted")
	s.publish("debt_deleted", map[string]interface{}{"id": id}, actor, fmt.Sprintf("%s menghapus catatan hutang", actor.Name))
	return nil
}

func (s *debtService) publish(action string, data any, actor Actor, message string) {
	s.wsHub.Publish(ws.Event{
		Type:    "debt_update",
		Action:  action,
		Data:    data,
		User:    actor.wsUser(),
		Message: message,
	})
}

func debtLabel(t model.DebtType) string {
	if t == model.DebtPayable {
		return "hutang ke"
	}
	return "piutang dari"
}
