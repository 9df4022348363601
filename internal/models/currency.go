package models

// Currency is a supported currency. The table is seeded by migration and
// read-only at runtime.
type Currency struct {
	Base
	Code   string `gorm:"uniqueIndex;size:3;not null" json:"code"`
	Symbol string `gorm:"not null" json:"symbol"`
	Name   string `gorm:"not null" json:"name"`
}
