package models

// CategoryType represents the type of category.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// RootParentID marks a root (main) category. Only root categories are
// valid parent choices for other categories.
const RootParentID uint = 0

// Category represents a transaction category. Categories form a
// two-level tree: roots have ParentID == RootParentID, children
// reference a root.
type Category struct {
	Base
	UserID   uint         `gorm:"not null;index" json:"user_id"`
	Name     string       `gorm:"size:100;not null" json:"name"`
	Type     CategoryType `gorm:"not null" json:"type"`
	ParentID uint         `gorm:"not null;default:0;index" json:"parent_id"`
	Tag      string       `gorm:"size:10" json:"tag"`
	IsActive bool         `gorm:"default:true" json:"is_active"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}

// IsRoot reports whether the category is a root (main) category.
func (c *Category) IsRoot() bool { return c.ParentID == RootParentID }
