package model

// Role groups privileges. Users copy their role's privileges at creation.
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleOwner   = "OWNER"
	RoleCashier = "CASHIER"
)

var DefaultRoles = []Role{
	{
		Code:        RoleOwner,
		Name:        "Pemilik Warung",
		Description: "Akses penuh termasuk buku kas dan revisi saldo",
	},
	{
		Code:        RoleCashier,
		Name:        "Kasir",
		Description: "Mencatat penjualan dan restock",
	},
}

// CashierPrivileges is the subset granted to RoleCashier.
var CashierPrivileges = []string{
	PrivProductView,
	PrivTransactionView,
	PrivTransactionCreate,
	PrivDebtView,
	PrivDashboardView,
}
