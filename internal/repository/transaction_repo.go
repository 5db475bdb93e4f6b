package repository

import (
	"context"
	"time"

	"go-warung-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter narrows List. Zero values mean no bound.
type TransactionFilter struct {
	From  time.Time
	To    time.Time // exclusive
	Types []model.TransactionType
}

// sequenceLockKey identifies the advisory lock guarding Sequence allocation.
const sequenceLockKey int64 = 0x77617275

type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository
	Append(ctx context.Context, t *model.Transaction) error
	List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	Page(ctx context.Context, filter TransactionFilter, offset, limit int) ([]model.Transaction, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepo{tx}
}

// Append inserts the header and its line items and assigns the next
// Sequence. Call it inside a transaction: the MAX+1 read and the insert must
// not interleave with another append.
func (r *transactionRepo) Append(ctx context.Context, t *model.Transaction) error {
	db := r.db.WithContext(ctx)

	// Postgres runs appends concurrently under READ COMMITTED, so two
	// writers could read the same MAX. The advisory lock is held until the
	// surrounding transaction ends. SQLite already allows one writer.
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("SELECT pg_advisory_xact_lock(?)", sequenceLockKey).Error; err != nil {
			return err
		}
	}

	var last int64
	if err := db.Unscoped().Model(&model.Transaction{}).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&last).Error; err != nil {
		return err
	}
	t.Sequence = last + 1

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	for i := range t.Items {
		t.Items[i].TransactionID = t.ID
		t.Items[i].Position = i
		if t.Items[i].ID == uuid.Nil {
			t.Items[i].ID = uuid.New()
		}
	}
	return db.Create(t).Error
}

func (r *transactionRepo) scoped(ctx context.Context, filter TransactionFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
	if !filter.From.IsZero() {
		q = q.Where("occurred_at >= ?", filter.From.UnixMilli())
	}
	if !filter.To.IsZero() {
		q = q.Where("occurred_at < ?", filter.To.UnixMilli())
	}
	if len(filter.Types) > 0 {
		q = q.Where("type IN ?", filter.Types)
	}
	return q
}

// List returns matching transactions oldest first, items nested.
func (r *transactionRepo) List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.scoped(ctx, filter).
		Order("occurred_at ASC").Order("sequence ASC").
		Find(&transactions).Error
	return transactions, err
}

// Page returns matching transactions newest first.
func (r *transactionRepo) Page(ctx context.Context, filter TransactionFilter, offset, limit int) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.scoped(ctx, filter).
		Order("occurred_at DESC").Order("sequence DESC").
		Offset(offset).Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}
