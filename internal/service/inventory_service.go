package service

import (
	"context"
	"errors"
	"fmt"
	"math"
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

type ItemRequest struct {
	Barcode  string `json:"barcode" validate:"notblank"`
	Quantity int    `json:"quantity" validate:"gt=0,max=1000000"`
}

// RecordTransactionRequest is a POS checkout (OUT) or a restock (IN).
type RecordTransactionRequest struct {
	Type          model.TransactionType `json:"type" validate:"required,oneof=IN OUT"`
	Items         []ItemRequest         `json:"items" validate:"required,min=1,dive"`
	PaymentMethod model.PaymentMethod   `json:"payment_method" validate:"required,oneof=CASH DEBT QRIS"`
	AmountPaid    int64                 `json:"amount_paid" validate:"gte=0"`
	Discount      int64                 `json:"discount" validate:"gte=0"`
	PartyName     string                `json:"party_name"`
	Note          string                `json:"note"`
}

type RecordResult struct {
	Transaction *model.Transaction `json:"transaction"`
	Debt        *model.DebtRecord  `json:"debt,omitempty"`
	StockLevels []StockLevel       `json:"stock_levels"`
}

type HistoryPage struct {
	Data    []model.Transaction `json:"data"`
	Page    int                 `json:"page"`
	Limit   int                 `json:"limit"`
	HasMore bool                `json:"has_more"`
}

type InventoryService interface {
	CreateProduct(ctx context.Context, req *model.Product, actor Actor) error
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	RecordTransaction(ctx context.Context, req RecordTransactionRequest, actor Actor) (*RecordResult, error)
	GetTransactions(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, error)
	GetTransactionHistory(ctx context.Context, page, limit int, date string) (*HistoryPage, error)
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
}

type inventoryService struct {
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

func NewInventoryService(db *gorm.DB, pRepo repository.ProductRepository, tRepo repository.TransactionRepository, dRepo repository.DebtRepository, hub *ws.Hub, cfg *config.Config, log zerolog.Logger) InventoryService {
	return &inventoryService{
		db:              db,
		productRepo:     pRepo,
		transactionRepo: tRepo,
		debtRepo:        dRepo,
		recorder:        &recorder{productRepo: pRepo, transactionRepo: tRepo},
		wsHub:           hub,
		cfg:             cfg,
		log:             log.With().Str("service", "inventory").Logger(),
		now:             time.Now,
	}
}

// CreateProduct adds a catalog entry. Opening stock must be recorded as an
// IN transaction, so any stock in the request is ignored.
func (s *inventoryService) CreateProduct(ctx context.Context, req *model.Product, actor Actor) error {
	if err := validate(req); err != nil {
		return err
	}

	existing, err := s.productRepo.FindByBarcode(ctx, req.Barcode)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return storeErr("find product", err)
	}
	if existing != nil {
		return invalid("barcode", "barcode %s sudah terdaftar", req.Barcode)
	}

	req.Stock = 0
	if req.PcsPerCarton <= 0 {
		req.PcsPerCarton = 1
	}
	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID

	if err := s.productRepo.Create(ctx, req); err != nil {
		return storeErr("create product", err)
	}

	s.wsHub.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_created",
		Data:    req,
		User:    actor.wsUser(),
		Message: fmt.Sprintf("%s menambah produk '%s'", actor.Name, req.Name),
	})
	return nil
}

func (s *inventoryService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	return products, storeErr("list products", err)
}

// RecordTransaction prices the basket from the catalog, settles payment and
// appends the transaction, its stock deltas and any debt remainder in one
// database transaction.
func (s *inventoryService) RecordTransaction(ctx context.Context, req RecordTransactionRequest, actor Actor) (*RecordResult, error) {
	// 1. Validasi Input
	if err := validate(&req); err != nil {
		return nil, err
	}
	req.PartyName = strings.TrimSpace(req.PartyName)
	if req.PaymentMethod == model.PayDebt && req.PartyName == "" {
		return nil, errPartyRequired
	}

	var result RecordResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 2. Snapshot harga dari katalog
		barcodes := make([]string, len(req.Items))
		for i, it := range req.Items {
			barcodes[i] = it.Barcode
		}
		catalog, err := s.productRepo.WithTx(tx).FindByBarcodes(ctx, barcodes)
		if err != nil {
			return storeErr("load products", err)
		}

		t := &model.Transaction{
			Type:      req.Type,
			Timestamp: s.now().UnixMilli(),
			Discount:  req.Discount,
			PartyName: req.PartyName,
			Note:      req.Note,
			Items:     make([]model.TransactionItem, len(req.Items)),
		}
		for i, it := range req.Items {
			p, ok := catalog[it.Barcode]
			if !ok {
				return invalid(fmt.Sprintf("items[%d].barcode", i), "produk %s tidak ditemukan", it.Barcode)
			}
			t.Items[i] = model.TransactionItem{
				Barcode:   p.Barcode,
				Name:      p.Name,
				Category:  p.Category,
				BuyPrice:  p.BuyPrice,
				SellPrice: p.SellPrice,
				Quantity:  it.Quantity,
			}
			if t.Subtotal, ok = addLine(t.Subtotal, t.Items[i], req.Type); !ok {
				return invalid(fmt.Sprintf("items[%d].quantity", i), "total transaksi terlalu besar")
			}
		}

		// 3. Hitung pembayaran
		debtAmount, err := settle(t, req)
		if err != nil {
			return err
		}

		// 4. Simpan header, item, dan mutasi stok
		levels, err := s.recorder.append(ctx, tx, t, actor)
		if err != nil {
			return err
		}
		result.Transaction = t
		result.StockLevels = levels

		// 5. Catat sisa hutang/piutang
		if debtAmount > 0 {
			debt := s.companionDebt(t, debtAmount, actor)
			if err := s.debtRepo.WithTx(tx).Create(ctx, debt); err != nil {
				return storeErr("create debt", err)
			}
			result.Debt = debt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("transaction_id", result.Transaction.ID.String()).
		Str("type", string(result.Transaction.Type)).
		Int64("total", result.Transaction.TotalAmount).
		Str("payment_method", string(result.Transaction.PaymentMethod)).
		Msg("transaction recorded")

	verb := "menjual"
	if req.Type == model.TxIn {
		verb = "restock"
	}
	s.wsHub.Publish(ws.Event{
		Type:   "stock_update",
		Action: "transaction_created",
		Data: map[string]interface{}{
			"transaction_id": result.Transaction.ID,
			"type":           result.Transaction.Type,
			"total_amount":   result.Transaction.TotalAmount,
			"stock_levels":   result.StockLevels,
			"debt_created":   result.Debt != nil,
		},
		User:    actor.wsUser(),
		Message: fmt.Sprintf("%s %s %d item (Rp %s)", actor.Name, verb, len(result.Transaction.Items), ledger.FormatAmount(result.Transaction.TotalAmount)),
	})
	return &result, nil
}

// addLine adds the item's line total to subtotal, reporting false when the
// result would not fit in an int64.
func addLine(subtotal int64, it model.TransactionItem, typ model.TransactionType) (int64, bool) {
	price := it.SellPrice
	if typ == model.TxIn {
		price = it.BuyPrice
	}
	qty := int64(it.Quantity)
	if price < 0 || qty < 0 || (price > 0 && qty > math.MaxInt64/price) {
		return subtotal, false
	}
	line := price * qty
	if subtotal > math.MaxInt64-line {
		return subtotal, false
	}
	return subtotal + line, true
}

var errPartyRequired = invalid("party_name", "nama pelanggan/supplier wajib diisi untuk transaksi hutang")

// settle fills the payment fields of t from req and returns the unpaid
// remainder that must become a debt record.
//
// A restock paid by cash or QRIS is always paid in full. A cash sale paid
// short becomes a DEBT sale with the cash received as down payment.
func settle(t *model.Transaction, req RecordTransactionRequest) (int64, error) {
	if req.Discount > t.Subtotal {
		return 0, invalid("discount", "diskon melebihi subtotal (%s)", ledger.FormatAmount(t.Subtotal))
	}
	t.TotalAmount = t.Subtotal - req.Discount

	paid := req.AmountPaid
	method := req.PaymentMethod
	if method == model.PayQRIS || (req.Type == model.TxIn && method == model.PayCash) {
		paid = t.TotalAmount
	}

	partial := req.Type == model.TxOut && method == model.PayCash && paid < t.TotalAmount
	debtInvolved := method == model.PayDebt || partial

	if method == model.PayDebt && paid > t.TotalAmount {
		return 0, invalid("amount_paid", "uang muka melebihi total (%s)", ledger.FormatAmount(t.TotalAmount))
	}
	if debtInvolved && t.PartyName == "" {
		return 0, errPartyRequired
	}

	t.AmountPaid = paid
	t.PaymentMethod = method
	if debtInvolved {
		t.PaymentMethod = model.PayDebt
	}
	if method == model.PayCash && paid >= t.TotalAmount {
		t.Change = paid - t.TotalAmount
	}

	if !debtInvolved {
		return 0, nil
	}
	return t.TotalAmount - paid, nil
}

func (s *inventoryService) companionDebt(t *model.Transaction, amount int64, actor Actor) *model.DebtRecord {
	debtType := model.DebtReceivable
	if t.Type == model.TxIn {
		debtType = model.DebtPayable
	}
	description := ledger.FullDebtNote
	if t.AmountPaid > 0 {
		description = ledger.DebtRemainderNote(t.TotalAmount, t.AmountPaid)
	}
	due := t.Time(s.cfg.Location).AddDate(0, 0, s.cfg.DebtDueDays)
	txID := t.ID

	debt := &model.DebtRecord{
		Type:          debtType,
		PartyName:     t.PartyName,
		Amount:        amount,
		Description:   description,
		DueDate:       &due,
		TransactionID: &txID,
	}
	debt.CreatedBy = actor.ID
	debt.UpdatedBy = actor.ID
	return debt
}

func (s *inventoryService) GetTransactions(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, error) {
	txs, err := s.transactionRepo.List(ctx, filter)
	return txs, storeErr("list transactions", err)
}

// GetTransactionHistory pages the log newest first. date (YYYY-MM-DD, shop
// time) limits the page to one calendar day.
func (s *inventoryService) GetTransactionHistory(ctx context.Context, page, limit int, date string) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var filter repository.TransactionFilter
	if date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, s.cfg.Location)
		if err != nil {
			return nil, invalid("date", "format tanggal harus YYYY-MM-DD")
		}
		filter.From, filter.To = ledger.DayRange(day, s.cfg.Location)
	}

	rows, err := s.transactionRepo.Page(ctx, filter, (page-1)*limit, limit+1)
	if err != nil {
		return nil, storeErr("page transactions", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	return &HistoryPage{Data: rows, Page: page, Limit: limit, HasMore: hasMore}, nil
}

func (s *inventoryService) GetTransactionByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	t, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find transaction", err)
	}
	return t, nil
}
