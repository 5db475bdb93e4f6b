package model

// Privilege is a permission code checked by the route middleware.
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "finance:manage"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivProductView       = "product:view"
	PrivProductCreate     = "product:create"
	PrivTransactionView   = "transaction:view"
	PrivTransactionCreate = "transaction:create"
	PrivFinanceView       = "finance:view"
	PrivFinanceManage     = "finance:manage"
	PrivDebtView          = "debt:view"
	PrivDebtManage        = "debt:manage"
	PrivDashboardView     = "dashboard:view"
)

var DefaultPrivileges = []Privilege{
	{Code: PrivProductView, Name: "Lihat Produk"},
	{Code: PrivProductCreate, Name: "Tambah Produk"},
	{Code: PrivTransactionView, Name: "Lihat Transaksi"},
	{Code: PrivTransactionCreate, Name: "Catat Transaksi (Kasir/Restock)"},
	{Code: PrivFinanceView, Name: "Lihat Buku Kas"},
	{Code: PrivFinanceManage, Name: "Catat Kas Manual & Revisi Saldo"},
	{Code: PrivDebtView, Name: "Lihat Hutang Piutang"},
	{Code: PrivDebtManage, Name: "Kelola Hutang Piutang"},
	{Code: PrivDashboardView, Name: "Lihat Dashboard"},
}
