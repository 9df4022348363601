package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finbook/internal/models"
	"finbook/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CurrencyServicer defines the contract for currency lookups.
type CurrencyServicer interface {
	GetCurrencies() ([]models.Currency, error)
	GetCurrencyByID(id uint) (*models.Currency, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID uint, name string, currencyID uint, tag string) (*models.Account, error)
	GetUserAccounts(userID uint) ([]models.Account, error)
	GetAccountByID(userID, accountID uint) (*models.Account, error)
	UpdateAccount(userID, accountID uint, name, tag string, isActive *bool) (*models.Account, error)
	DeleteAccount(userID, accountID uint) error
	AdjustBalance(tx *gorm.DB, accountID uint, delta decimal.Decimal) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, categoryType models.CategoryType, parentID uint, tag string) (*models.Category, error)
	GetUserCategories(userID uint) ([]models.Category, error)
	GetUserCategoriesByType(userID uint, categoryType models.CategoryType) ([]models.Category, error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name string, parentID *uint, tag *string, isActive *bool) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) (int64, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	AccountID       *uint
	CategoryID      *uint
	DateFrom        *time.Time
	DateTo          *time.Time
	Search          string
	IncludeInactive bool
}

// TransactionCommand is the write shape shared by create and update.
// Amount is the user-entered magnitude; the stored sign is derived from
// the category type.
type TransactionCommand struct {
	Date       time.Time
	AccountID  uint
	CategoryID uint
	Amount     decimal.Decimal
	Comment    string
}

// TransactionRow is the denormalized read model returned by the list API.
type TransactionRow struct {
	models.Transaction
	AccountName  string              `json:"account_name"`
	CategoryName string              `json:"category_name"`
	CategoryType models.CategoryType `json:"category_type"`
	CurrencyCode string              `json:"currency_code"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, cmd TransactionCommand) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, sort pagination.SortOption, filter TransactionFilter) (*pagination.PageResponse[TransactionRow], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, cmd TransactionCommand) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// AuditServicer defines the contract for best-effort audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, changes map[string]any)
}
