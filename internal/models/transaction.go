package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a financial transaction. Amount is signed:
// expense rows are stored negative, income rows positive. The sign is
// derived from the category type at write time. CurrencyID is copied
// from the account when the transaction is submitted.
type Transaction struct {
	Base
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	AccountID  uint            `gorm:"not null;index" json:"account_id"`
	CategoryID uint            `gorm:"not null;index" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	CurrencyID uint            `gorm:"not null" json:"currency_id"`
	Comment    string          `gorm:"size:255" json:"comment"`
	IsActive   bool            `gorm:"default:true" json:"is_active"`

	Account  Account  `gorm:"foreignKey:AccountID" json:"account"`
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
	Currency Currency `gorm:"foreignKey:CurrencyID" json:"currency"`
}
