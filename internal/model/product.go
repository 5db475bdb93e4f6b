package model

// Product is a barcode keyed catalog entry. Stock only moves through
// recorded IN/OUT transactions.
type Product struct {
	BaseModel
	Barcode      string `gorm:"type:varchar(64);uniqueIndex;not null" json:"barcode" validate:"required,max=64"`
	Name         string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category     string `gorm:"type:varchar(100)" json:"category"`
	BuyPrice     int64  `gorm:"not null;default:0" json:"buy_price" validate:"gte=0"`
	SellPrice    int64  `gorm:"not null;default:0" json:"sell_price" validate:"gte=0"`
	Stock        int    `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	PcsPerCarton int    `gorm:"not null;default:1" json:"pcs_per_carton" validate:"gte=0"`
}

// StockValue is the product's worth at cost price.
func (p Product) StockValue() int64 {
	return p.BuyPrice * int64(p.Stock)
}
