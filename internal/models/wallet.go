package models

// Wallet represents a money pocket owned by a single user. Amount and the
// income/expense totals are denominated in cents and maintained by the
// transaction service inside the same database transaction that records
// the movement.
type Wallet struct {
	Base
	UserID        string `gorm:"type:uuid;not null;index" json:"uid"`
	Name          string `gorm:"not null" json:"name"`
	Image         string `json:"image,omitempty"`
	Amount        int64  `gorm:"not null;default:0" json:"amount"`
	TotalIncome   int64  `gorm:"not null;default:0" json:"total_income"`
	TotalExpenses int64  `gorm:"not null;default:0" json:"total_expenses"`

	Transactions []Transaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"`
}
