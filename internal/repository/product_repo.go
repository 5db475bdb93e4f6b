package repository

import (
	"context"
	"errors"

	"go-warung-pos/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	FindByBarcodes(ctx context.Context, barcodes []string) (map[string]model.Product, error)
	AdjustStock(ctx context.Context, barcode string, delta int, updatedBy string) (int, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// WithTx returns a copy bound to tx so calls join the caller's transaction.
func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "barcode = ?", barcode).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByBarcodes(ctx context.Context, barcodes []string) (map[string]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Where("barcode IN ?", barcodes).Find(&products).Error; err != nil {
		return nil, err
	}
	byBarcode := make(map[string]model.Product, len(products))
	for _, p := range products {
		byBarcode[p.Barcode] = p
	}
	return byBarcode, nil
}

// AdjustStock applies delta server side (stock = stock + delta) and returns
// the new level. The row is only touched when the result stays >= 0, so
// concurrent writers can never lose an update or drive stock negative.
func (r *productRepo) AdjustStock(ctx context.Context, barcode string, delta int, updatedBy string) (int, error) {
	db := r.db.WithContext(ctx)

	res := db.Model(&model.Product{}).
		Where("barcode = ? AND stock + ? >= 0", barcode, delta).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return 0, res.Error
	}

	var product model.Product
	if err := db.Select("stock").First(&product, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	if res.RowsAffected == 0 {
		return product.Stock, ErrInsufficientStock
	}
	return product.Stock, nil
}
