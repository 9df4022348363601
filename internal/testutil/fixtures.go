package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"finbook/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCurrency creates a currency with a unique code.
func CreateTestCurrency(t *testing.T, db *gorm.DB) *models.Currency {
	t.Helper()

	n := nextID()
	currency := &models.Currency{
		Code:   fmt.Sprintf("X%02d", n%100),
		Symbol: "¤",
		Name:   fmt.Sprintf("Test Currency %d", n),
	}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test currency: %v", err)
	}
	return currency
}

// CreateTestAccount creates an active account with a zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID uint) *models.Account {
	t.Helper()

	currency := CreateTestCurrency(t, db)
	account := &models.Account{
		UserID:     userID,
		Name:       fmt.Sprintf("Account %d", nextID()),
		CurrencyID: currency.ID,
		Balance:    decimal.Zero,
		IsActive:   true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	account.Currency = *currency
	return account
}

// CreateTestCategory creates a root category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType) *models.Category {
	t.Helper()
	return CreateTestCategoryWithParent(t, db, userID, categoryType, models.RootParentID)
}

// CreateTestCategoryWithParent creates a category below the given parent.
func CreateTestCategoryWithParent(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType, parentID uint) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:   userID,
		Name:     fmt.Sprintf("Category %d", nextID()),
		Type:     categoryType,
		ParentID: parentID,
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates an active transaction with the given signed amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, account *models.Account, category *models.Category, amount decimal.Decimal) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:     userID,
		Date:       time.Now().UTC(),
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     amount,
		CurrencyID: account.CurrencyID,
		IsActive:   true,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}
