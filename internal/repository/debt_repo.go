package repository

import (
	"context"

	"go-warung-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DebtStatus string

const (
	DebtStatusAll    DebtStatus = "ALL"
	DebtStatusPaid   DebtStatus = "PAID"
	DebtStatusUnpaid DebtStatus = "UNPAID"
)

type DebtFilter struct {
	Type      model.DebtType
	Status    DebtStatus
	PartyName string
}

type DebtRepository interface {
	WithTx(tx *gorm.DB) DebtRepository
	Create(ctx context.Context, debt *model.DebtRecord) error
	Save(ctx context.Context, debt *model.DebtRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DebtRecord, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.DebtRecord, error)
	List(ctx context.Context, filter DebtFilter) ([]model.DebtRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddPayment(ctx context.Context, payment *model.DebtPayment) error
}

type debtRepo struct {
	db *gorm.DB
}

func NewDebtRepo(db *gorm.DB) DebtRepository {
	return &debtRepo{db}
}

func (r *debtRepo) WithTx(tx *gorm.DB) DebtRepository {
	return &debtRepo{tx}
}

func (r *debtRepo) Create(ctx context.Context, debt *model.DebtRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(debt).Error
}

// Save replaces the whole record.
func (r *debtRepo) Save(ctx context.Context, debt *model.DebtRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(debt).Error
}

func (r *debtRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DebtRecord, error) {
	var debt model.DebtRecord
	err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at ASC")
		}).
		First(&debt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *debtRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.DebtRecord, error) {
	var debt model.DebtRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&debt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

func (r *debtRepo) List(ctx context.Context, filter DebtFilter) ([]model.DebtRecord, error) {
	q := r.db.WithContext(ctx).Model(&model.DebtRecord{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	switch filter.Status {
	case DebtStatusPaid:
		q = q.Where("is_paid = ?", true)
	case DebtStatusUnpaid:
		q = q.Where("is_paid = ?", false)
	}
	if filter.PartyName != "" {
		q = q.Where("party_name = ?", filter.PartyName)
	}

	var debts []model.DebtRecord
	err := q.Order("created_at DESC").Find(&debts).Error
	return debts, err
}

// Delete removes the record and its payments permanently.
func (r *debtRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Unscoped().Where("debt_id = ?", id).Delete(&model.DebtPayment{}).Error; err != nil {
		return err
	}
	res := db.Unscoped().Delete(&model.DebtRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *debtRepo) AddPayment(ctx context.Context, payment *model.DebtPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}
