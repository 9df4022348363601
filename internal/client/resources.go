package client

import (
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"finbook/internal/models"
	"finbook/internal/pagination"
	"finbook/internal/services"
)

// resourceState is the shared fetch bookkeeping for a remote resource.
// Every Refresh stamps a generation; a response arriving after a newer
// Refresh has started is discarded so stale data never overwrites
// fresher state.
type resourceState struct {
	mu       sync.Mutex
	inflight int
	gen      uint64
	err      error
}

func (s *resourceState) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	s.gen++
	return s.gen
}

// finish records the outcome of the refresh stamped with gen. It runs
// commit only when the refresh is still current and succeeded, and
// reports whether the result was applied.
func (s *resourceState) finish(gen uint64, err error, commit func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if gen != s.gen {
		return false
	}
	s.err = err
	if err == nil && commit != nil {
		commit()
	}
	return true
}

// Loading reports whether any refresh is in flight.
func (s *resourceState) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Err returns the error of the most recent completed refresh, nil on success.
func (s *resourceState) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// CategoriesResource fetches the user's categories, optionally scoped
// to a single type.
type CategoriesResource struct {
	resourceState
	client       *Client
	categoryType models.CategoryType
	data         []models.Category
}

// NewCategoriesResource creates a resource scoped to the given type.
// An empty type fetches all categories.
func NewCategoriesResource(c *Client, categoryType models.CategoryType) *CategoriesResource {
	return &CategoriesResource{client: c, categoryType: categoryType}
}

// SetType rescopes the resource. The caller is expected to Refresh.
func (r *CategoriesResource) SetType(categoryType models.CategoryType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categoryType = categoryType
}

// Data returns the last successfully fetched categories.
func (r *CategoriesResource) Data() []models.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

// Refresh refetches the category list. Data is replaced only on success.
func (r *CategoriesResource) Refresh() error {
	r.mu.Lock()
	path := "/api/categories"
	if r.categoryType != "" {
		path += "?type=" + string(r.categoryType)
	}
	r.mu.Unlock()

	gen := r.begin()
	var out struct {
		Categories []models.Category `json:"categories"`
	}
	err := r.client.get(path, &out)
	if !r.finish(gen, err, func() { r.data = out.Categories }) {
		return nil
	}
	return err
}

// AccountsResource fetches the user's accounts.
type AccountsResource struct {
	resourceState
	client *Client
	data   []models.Account
}

func NewAccountsResource(c *Client) *AccountsResource {
	return &AccountsResource{client: c}
}

// Data returns the last successfully fetched accounts.
func (r *AccountsResource) Data() []models.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

// Refresh refetches the account list. Data is replaced only on success.
func (r *AccountsResource) Refresh() error {
	gen := r.begin()
	var out struct {
		Accounts []models.Account `json:"accounts"`
	}
	err := r.client.get("/api/accounts", &out)
	if !r.finish(gen, err, func() { r.data = out.Accounts }) {
		return nil
	}
	return err
}

// CurrenciesResource fetches the supported currencies.
type CurrenciesResource struct {
	resourceState
	client *Client
	data   []models.Currency
}

func NewCurrenciesResource(c *Client) *CurrenciesResource {
	return &CurrenciesResource{client: c}
}

func (r *CurrenciesResource) Data() []models.Currency {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

func (r *CurrenciesResource) Refresh() error {
	gen := r.begin()
	var out struct {
		Currencies []models.Currency `json:"currencies"`
	}
	err := r.client.get("/api/currencies", &out)
	if !r.finish(gen, err, func() { r.data = out.Currencies }) {
		return nil
	}
	return err
}

// TransactionQuery is the single source of truth for the transaction
// list: page, limit, sort, and filters. Changing it and refreshing is
// the only way the visible page of rows changes.
type TransactionQuery struct {
	Page            int
	Limit           int
	Sort            pagination.SortOption
	AccountID       *uint
	CategoryID      *uint
	DateFrom        string
	DateTo          string
	Search          string
	IncludeInactive bool
}

// DefaultTransactionQuery returns page 1 with the default sort.
func DefaultTransactionQuery() TransactionQuery {
	return TransactionQuery{Page: 1, Limit: 20, Sort: pagination.DefaultSort}
}

func (q TransactionQuery) encode() string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("sort", q.Sort.String())
	if q.AccountID != nil {
		v.Set("account_id", fmt.Sprint(*q.AccountID))
	}
	if q.CategoryID != nil {
		v.Set("category_id", fmt.Sprint(*q.CategoryID))
	}
	if q.DateFrom != "" {
		v.Set("date_from", q.DateFrom)
	}
	if q.DateTo != "" {
		v.Set("date_to", q.DateTo)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.IncludeInactive {
		v.Set("include_inactive", "true")
	}
	return v.Encode()
}

// TransactionsResource fetches one page of transactions according to
// its query.
type TransactionsResource struct {
	resourceState
	client     *Client
	query      TransactionQuery
	data       []services.TransactionRow
	totalItems int64
	totalPages int
}

func NewTransactionsResource(c *Client) *TransactionsResource {
	return &TransactionsResource{client: c, query: DefaultTransactionQuery()}
}

// Query returns a copy of the current query.
func (r *TransactionsResource) Query() TransactionQuery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.query
}

// SetQuery replaces the query. The caller is expected to Refresh.
func (r *TransactionsResource) SetQuery(q TransactionQuery) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.query = q
}

// Data returns the last successfully fetched page of rows.
func (r *TransactionsResource) Data() []services.TransactionRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

// TotalItems returns the server-reported total row count.
func (r *TransactionsResource) TotalItems() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalItems
}

// TotalPages returns the server-reported page count.
func (r *TransactionsResource) TotalPages() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalPages
}

// Refresh refetches the current page. Data is replaced only on success.
func (r *TransactionsResource) Refresh() error {
	r.mu.Lock()
	path := "/api/transactions?" + r.query.encode()
	r.mu.Unlock()

	gen := r.begin()
	var out pagination.PageResponse[services.TransactionRow]
	err := r.client.get(path, &out)
	if !r.finish(gen, err, func() {
		r.data = out.Data
		r.totalItems = out.TotalItems
		r.totalPages = out.TotalPages
	}) {
		return nil
	}
	return err
}
