package models

import "github.com/shopspring/decimal"

// Account represents a financial account in the system.
type Account struct {
	Base
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	Name       string          `gorm:"size:100;not null" json:"name"`
	CurrencyID uint            `gorm:"not null" json:"currency_id"`
	Balance    decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"balance"`
	Tag        string          `gorm:"size:10" json:"tag"`
	IsActive   bool            `gorm:"default:true" json:"is_active"`

	Currency     Currency      `gorm:"foreignKey:CurrencyID" json:"currency"`
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
