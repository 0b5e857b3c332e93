package models

import "time"

// TransactionType is the direction of a transaction. Amounts are always
// non-negative; the direction alone carries the sign.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a financial transaction in the system
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"uid"`
	WalletID    string          `gorm:"type:uuid;not null;index" json:"wallet_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Image       string          `json:"image,omitempty"`

	Wallet Wallet `gorm:"foreignKey:WalletID" json:"-"`
}
