package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finbook/internal/errors"
	"finbook/internal/models"
	"finbook/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// signedAmount applies the category-type sign convention: expenses are
// stored negative, income positive.
func signedAmount(amount decimal.Decimal, categoryType models.CategoryType) decimal.Decimal {
	if categoryType == models.CategoryTypeExpense {
		return amount.Neg()
	}
	return amount
}

// CreateTransaction creates a transaction and adjusts the account balance
// in the same database transaction. The currency is copied from the
// account at submission time.
func (s *transactionService) CreateTransaction(userID uint, cmd TransactionCommand) (*models.Transaction, error) {
	if !cmd.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	account, err := s.accountService.GetAccountByID(userID, cmd.AccountID)
	if err != nil {
		return nil, err
	}

	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", cmd.CategoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	amount := signedAmount(cmd.Amount, category.Type)
	transaction := &models.Transaction{
		UserID:     userID,
		Date:       cmd.Date,
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     amount,
		CurrencyID: account.CurrencyID,
		Comment:    cmd.Comment,
		IsActive:   true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.accountService.AdjustBalance(tx, account.ID, amount)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, sorted, filtered page of
// denormalized transaction rows. Every page turn is a fresh query; the
// server never hands out more than one page at a time.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, sort pagination.SortOption, filter TransactionFilter) (*pagination.PageResponse[TransactionRow], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order(sort.OrderClause()).
		Preload("Account").
		Preload("Category").
		Preload("Currency").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rows := make([]TransactionRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, TransactionRow{
			Transaction:  t,
			AccountName:  t.Account.Name,
			CategoryName: t.Category.Name,
			CategoryType: t.Category.Type,
			CurrencyCode: t.Currency.Code,
		})
	}

	result := pagination.NewPageResponse(rows, page.Page, page.Limit, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if !f.IncludeInactive {
		// Hidden rows are both soft-disabled transactions and every
		// transaction belonging to a deactivated account.
		q = q.Where("is_active = ?", true)
		q = q.Where("account_id IN (SELECT id FROM accounts WHERE is_active = ?)", true)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.DateFrom != nil {
		q = q.Where("date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("date <= ?", *f.DateTo)
	}
	if f.Search != "" {
		q = q.Where("LOWER(comment) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction rewrites a transaction from the command, reversing the
// old balance effect and applying the new one, possibly across two accounts.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, cmd TransactionCommand) (*models.Transaction, error) {
	if !cmd.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	account, err := s.accountService.GetAccountByID(userID, cmd.AccountID)
	if err != nil {
		return nil, err
	}

	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", cmd.CategoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	oldAccountID := transaction.AccountID
	oldAmount := transaction.Amount
	newAmount := signedAmount(cmd.Amount, category.Type)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountService.AdjustBalance(tx, oldAccountID, oldAmount.Neg()); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"date":        cmd.Date,
			"account_id":  account.ID,
			"category_id": category.ID,
			"amount":      newAmount,
			"currency_id": account.CurrencyID,
			"comment":     cmd.Comment,
		}
		if err := tx.Model(transaction).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.accountService.AdjustBalance(tx, account.ID, newAmount)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// DeleteTransaction deletes a transaction and reverses its balance effect.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.accountService.AdjustBalance(tx, transaction.AccountID, transaction.Amount.Neg())
	})
}
