package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finbook/internal/errors"
	"finbook/internal/models"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account for a user. The balance starts at
// zero; it only moves through transactions.
func (s *accountService) CreateAccount(userID uint, name string, currencyID uint, tag string) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	var currency models.Currency
	if err := s.db.First(&currency, currencyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account := &models.Account{
		UserID:     userID,
		Name:       name,
		CurrencyID: currencyID,
		Balance:    decimal.Zero,
		Tag:        tag,
		IsActive:   true,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account.Currency = currency
	return account, nil
}

// GetUserAccounts retrieves all accounts for a user with their currencies.
func (s *accountService) GetUserAccounts(userID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Preload("Currency").
		Where("user_id = ?", userID).
		Order("id").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetAccountByID retrieves an account by ID for a specific user.
func (s *accountService) GetAccountByID(userID, accountID uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.Preload("Currency").
		Where("id = ? AND user_id = ?", accountID, userID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates an existing account's name, tag, or active flag.
// The currency is fixed at creation: transactions already carry it.
func (s *accountService) UpdateAccount(userID, accountID uint, name, tag string, isActive *bool) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if tag != "" {
		updates["tag"] = tag
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeleteAccount deletes an account and its transactions. Inactive accounts
// cannot be deleted; reactivate first.
func (s *accountService) DeleteAccount(userID, accountID uint) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	if !account.IsActive {
		return apperrors.ErrAccountInactive
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", accountID).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// AdjustBalance applies a signed delta to an account balance within the
// given database transaction.
func (s *accountService) AdjustBalance(tx *gorm.DB, accountID uint, delta decimal.Decimal) error {
	var account models.Account
	if err := tx.First(&account, accountID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account.Balance = account.Balance.Add(delta)
	if err := tx.Model(&account).Update("balance", account.Balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
