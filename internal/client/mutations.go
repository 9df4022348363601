package client

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"

	"finbook/internal/models"
)

// CategoryPayload is the write shape for category create and update.
// Create omits the id by routing to POST; update routes to PATCH /:id.
type CategoryPayload struct {
	Name     string              `json:"name"`
	Type     models.CategoryType `json:"type"`
	ParentID uint                `json:"parent_id"`
	Tag      string              `json:"tag,omitempty"`
}

// TransactionPayload is the write shape for transaction create and
// update. Date is an ISO-8601 instant; Amount is the positive magnitude.
// CurrencyID always matches the selected account's currency; the server
// treats the account as authoritative and does not read it.
type TransactionPayload struct {
	Date       string          `json:"date"`
	AccountID  uint            `json:"account_id"`
	CategoryID uint            `json:"category_id"`
	CurrencyID uint            `json:"currency_id"`
	Amount     decimal.Decimal `json:"amount"`
	Comment    string          `json:"comment,omitempty"`
}

// mutationState tracks which operation of a mutation facade is in
// flight, so the UI can disable only the relevant control.
type mutationState struct {
	mu       sync.Mutex
	creating bool
	updating bool
	deleting bool
	err      error
}

func (s *mutationState) set(flag *bool, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*flag = v
}

func (s *mutationState) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// IsCreating reports whether a create is in flight.
func (s *mutationState) IsCreating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creating
}

// IsUpdating reports whether an update is in flight.
func (s *mutationState) IsUpdating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updating
}

// IsDeleting reports whether a delete is in flight.
func (s *mutationState) IsDeleting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleting
}

// Busy reports whether any operation is in flight.
func (s *mutationState) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creating || s.updating || s.deleting
}

// Err returns the error of the most recent mutation, nil on success.
func (s *mutationState) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// CategoryMutations is the mutation facade for categories.
type CategoryMutations struct {
	mutationState
	client *Client
}

func NewCategoryMutations(c *Client) *CategoryMutations {
	return &CategoryMutations{client: c}
}

// Create posts a new category.
func (m *CategoryMutations) Create(payload CategoryPayload) (*models.Category, error) {
	m.set(&m.creating, true)
	defer m.set(&m.creating, false)

	var out struct {
		Category *models.Category `json:"category"`
	}
	err := m.client.do(http.MethodPost, "/api/categories", payload, &out)
	m.setErr(err)
	if err != nil {
		return nil, err
	}
	return out.Category, nil
}

// Update patches an existing category.
func (m *CategoryMutations) Update(id uint, payload CategoryPayload) (*models.Category, error) {
	m.set(&m.updating, true)
	defer m.set(&m.updating, false)

	var out struct {
		Category *models.Category `json:"category"`
	}
	err := m.client.do(http.MethodPatch, fmt.Sprintf("/api/categories/%d", id), payload, &out)
	m.setErr(err)
	if err != nil {
		return nil, err
	}
	return out.Category, nil
}

// Delete removes a category and its children, returning how many
// children were cascaded.
func (m *CategoryMutations) Delete(id uint) (int64, error) {
	m.set(&m.deleting, true)
	defer m.set(&m.deleting, false)

	var out struct {
		DeletedChildren int64 `json:"deleted_children"`
	}
	err := m.client.do(http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), nil, &out)
	m.setErr(err)
	if err != nil {
		return 0, err
	}
	return out.DeletedChildren, nil
}

// TransactionMutations is the mutation facade for transactions.
// OnSuccess, when set, fires once after every successful mutation; the
// transactions page uses it to fan out the refresh of both the
// transaction list and the account balances.
type TransactionMutations struct {
	mutationState
	client    *Client
	OnSuccess func()
}

func NewTransactionMutations(c *Client) *TransactionMutations {
	return &TransactionMutations{client: c}
}

func (m *TransactionMutations) completed(err error) {
	m.setErr(err)
	if err == nil && m.OnSuccess != nil {
		m.OnSuccess()
	}
}

// Create posts a new transaction.
func (m *TransactionMutations) Create(payload TransactionPayload) (*models.Transaction, error) {
	m.set(&m.creating, true)
	defer m.set(&m.creating, false)

	var out struct {
		Transaction *models.Transaction `json:"transaction"`
	}
	err := m.client.do(http.MethodPost, "/api/transactions", payload, &out)
	m.completed(err)
	if err != nil {
		return nil, err
	}
	return out.Transaction, nil
}

// Update patches an existing transaction.
func (m *TransactionMutations) Update(id uint, payload TransactionPayload) (*models.Transaction, error) {
	m.set(&m.updating, true)
	defer m.set(&m.updating, false)

	var out struct {
		Transaction *models.Transaction `json:"transaction"`
	}
	err := m.client.do(http.MethodPatch, fmt.Sprintf("/api/transactions/%d", id), payload, &out)
	m.completed(err)
	if err != nil {
		return nil, err
	}
	return out.Transaction, nil
}

// Delete removes a transaction.
func (m *TransactionMutations) Delete(id uint) error {
	m.set(&m.deleting, true)
	defer m.set(&m.deleting, false)

	err := m.client.do(http.MethodDelete, fmt.Sprintf("/api/transactions/%d", id), nil, nil)
	m.completed(err)
	return err
}

// AccountMutations is the mutation facade for accounts.
type AccountMutations struct {
	mutationState
	client *Client
}

func NewAccountMutations(c *Client) *AccountMutations {
	return &AccountMutations{client: c}
}

// AccountPayload is the write shape for account create and update.
type AccountPayload struct {
	Name       string `json:"name"`
	CurrencyID uint   `json:"currency_id,omitempty"`
	Tag        string `json:"tag,omitempty"`
	IsActive   *bool  `json:"is_active,omitempty"`
}

// Create posts a new account.
func (m *AccountMutations) Create(payload AccountPayload) (*models.Account, error) {
	m.set(&m.creating, true)
	defer m.set(&m.creating, false)

	var out struct {
		Account *models.Account `json:"account"`
	}
	err := m.client.do(http.MethodPost, "/api/accounts", payload, &out)
	m.setErr(err)
	if err != nil {
		return nil, err
	}
	return out.Account, nil
}

// Update patches an existing account.
func (m *AccountMutations) Update(id uint, payload AccountPayload) (*models.Account, error) {
	m.set(&m.updating, true)
	defer m.set(&m.updating, false)

	var out struct {
		Account *models.Account `json:"account"`
	}
	err := m.client.do(http.MethodPatch, fmt.Sprintf("/api/accounts/%d", id), payload, &out)
	m.setErr(err)
	if err != nil {
		return nil, err
	}
	return out.Account, nil
}

// Delete removes an account.
func (m *AccountMutations) Delete(id uint) error {
	m.set(&m.deleting, true)
	defer m.set(&m.deleting, false)

	err := m.client.do(http.MethodDelete, fmt.Sprintf("/api/accounts/%d", id), nil, nil)
	m.setErr(err)
	return err
}
