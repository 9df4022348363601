package pages

import (
	"errors"
	"fmt"

	"finbook/internal/client"
	"finbook/internal/forms"
	"finbook/internal/models"
	"finbook/internal/services"
	"finbook/internal/viewmodel"
)

// FilterDraft is the filter modal's staging area. Edits live here and
// reach the live query only on Apply; Reset clears and applies in one
// step.
type FilterDraft struct {
	AccountID       *uint
	CategoryID      *uint
	DateFrom        string
	DateTo          string
	Search          string
	IncludeInactive bool
}

// TransactionsPage owns the transaction query and coordinates three
// remote resources plus the mutation facade. The query is the single
// source of truth for the visible page of rows; there is no
// client-side slicing.
type TransactionsPage struct {
	transactions *client.TransactionsResource
	accounts     *client.AccountsResource
	categories   *client.CategoriesResource
	mutations    *client.TransactionMutations

	Form  *forms.TransactionForm
	state PageState

	deleteTarget *services.TransactionRow
	filterDraft  FilterDraft
	filterOpen   bool
}

// NewTransactionsPage creates the page with the default query. Every
// successful mutation fans out one completion event that refreshes
// both the transaction list and the accounts, keeping derived balances
// correct.
func NewTransactionsPage(c *client.Client) *TransactionsPage {
	p := &TransactionsPage{
		transactions: client.NewTransactionsResource(c),
		accounts:     client.NewAccountsResource(c),
		categories:   client.NewCategoriesResource(c, ""),
		mutations:    client.NewTransactionMutations(c),
		Form:         forms.NewTransactionForm(),
	}
	p.mutations.OnSuccess = p.mutationCompleted
	return p
}

func (p *TransactionsPage) mutationCompleted() {
	p.transactions.Refresh()
	p.accounts.Refresh()
}

// Load performs the initial fetch of all three resources.
func (p *TransactionsPage) Load() error {
	if err := p.transactions.Refresh(); err != nil {
		return err
	}
	if err := p.accounts.Refresh(); err != nil {
		return err
	}
	return p.categories.Refresh()
}

// State returns the page's interaction state.
func (p *TransactionsPage) State() PageState { return p.state }

// Loading reports whether any of the four sources is busy.
func (p *TransactionsPage) Loading() bool {
	return p.transactions.Loading() || p.accounts.Loading() ||
		p.categories.Loading() || p.mutations.Busy()
}

// Err returns the first non-nil error among the four sources. Each
// source stays independently inspectable through its own accessor.
func (p *TransactionsPage) Err() error {
	for _, err := range []error{
		p.transactions.Err(), p.accounts.Err(), p.categories.Err(), p.mutations.Err(),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// TransactionsErr returns the list fetch error.
func (p *TransactionsPage) TransactionsErr() error { return p.transactions.Err() }

// AccountsErr returns the accounts fetch error.
func (p *TransactionsPage) AccountsErr() error { return p.accounts.Err() }

// CategoriesErr returns the categories fetch error.
func (p *TransactionsPage) CategoriesErr() error { return p.categories.Err() }

// MutationsErr returns the most recent mutation error.
func (p *TransactionsPage) MutationsErr() error { return p.mutations.Err() }

// Query returns the current live query.
func (p *TransactionsPage) Query() client.TransactionQuery { return p.transactions.Query() }

// TotalPages returns the server-reported page count.
func (p *TransactionsPage) TotalPages() int { return p.transactions.TotalPages() }

// SetPage moves to the given page and refetches.
func (p *TransactionsPage) SetPage(page int) error {
	q := p.transactions.Query()
	q.Page = page
	p.transactions.SetQuery(q)
	return p.transactions.Refresh()
}

// ClickSortHeader applies the header-click semantics: the active
// column flips direction, any other column takes over with the
// descending default. The page resets to 1 and the list refetches.
func (p *TransactionsPage) ClickSortHeader(field string) error {
	q := p.transactions.Query()
	q.Sort = q.Sort.Toggle(field)
	q.Page = 1
	p.transactions.SetQuery(q)
	return p.transactions.Refresh()
}

// Accounts returns the fetched accounts for the form's selector.
func (p *TransactionsPage) Accounts() []models.Account { return p.accounts.Data() }

// CategoryOptions returns the form's category choices, income first.
func (p *TransactionsPage) CategoryOptions() []models.Category {
	return viewmodel.TransactionCategoryOptions(p.categories.Data())
}

// TransactionRowView is a rendered row with its stable test identifiers.
type TransactionRowView struct {
	Row          services.TransactionRow
	TestID       string
	EditTestID   string
	DeleteTestID string
}

// Rows returns the current page of table rows.
func (p *TransactionsPage) Rows() []TransactionRowView {
	data := p.transactions.Data()
	rows := make([]TransactionRowView, len(data))
	for i, r := range data {
		rows[i] = TransactionRowView{
			Row:          r,
			TestID:       transactionRowTestID(r.ID),
			EditTestID:   transactionEditTestID(r.ID),
			DeleteTestID: transactionDeleteTestID(r.ID),
		}
	}
	return rows
}

// StartEdit loads the given row into the form.
func (p *TransactionsPage) StartEdit(id uint) error {
	for _, r := range p.transactions.Data() {
		if r.ID == id {
			p.Form.Load(r)
			p.state = StateEditing
			return nil
		}
	}
	return fmt.Errorf("transaction %d is not on the current page", id)
}

// CancelEdit reverts the form to create mode.
func (p *TransactionsPage) CancelEdit() {
	p.Form.Reset()
	p.state = StateIdle
}

// Submit validates and sends the form. Invalid forms never issue a
// request. Success resets the form; the refresh of transactions and
// accounts rides on the mutation completion event.
func (p *TransactionsPage) Submit() error {
	if !p.Form.Validate() {
		return nil
	}

	wasEdit := p.Form.IsEdit()
	prev := p.state
	p.state = StateSubmitting

	var err error
	if wasEdit {
		_, err = p.mutations.Update(p.Form.ID, p.Form.Payload())
	} else {
		_, err = p.mutations.Create(p.Form.Payload())
	}
	if err != nil {
		p.state = prev
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.HasFieldErrors() {
			p.Form.SetServerErrors(apiErr.FieldErrors)
			return nil
		}
		return err
	}

	p.Form.Reset()
	p.state = StateIdle
	return nil
}

// RequestDelete opens the confirmation modal for the given row.
func (p *TransactionsPage) RequestDelete(id uint) error {
	for _, r := range p.transactions.Data() {
		if r.ID == id {
			target := r
			p.deleteTarget = &target
			p.state = StateConfirmingDelete
			return nil
		}
	}
	return fmt.Errorf("transaction %d is not on the current page", id)
}

// DeleteTarget returns the row pending confirmation.
func (p *TransactionsPage) DeleteTarget() *services.TransactionRow { return p.deleteTarget }

// ConfirmDelete invokes the delete; success closes the modal and the
// completion event refreshes both lists.
func (p *TransactionsPage) ConfirmDelete() error {
	if p.state != StateConfirmingDelete || p.deleteTarget == nil {
		return nil
	}
	p.state = StateSubmitting

	if err := p.mutations.Delete(p.deleteTarget.ID); err != nil {
		p.state = StateConfirmingDelete
		return err
	}

	p.deleteTarget = nil
	p.state = StateIdle
	return nil
}

// CancelDelete closes the modal without any network call.
func (p *TransactionsPage) CancelDelete() {
	p.deleteTarget = nil
	p.state = StateIdle
}

// OpenFilters opens the filter modal seeded from the live query.
func (p *TransactionsPage) OpenFilters() {
	q := p.transactions.Query()
	p.filterDraft = FilterDraft{
		AccountID:       q.AccountID,
		CategoryID:      q.CategoryID,
		DateFrom:        q.DateFrom,
		DateTo:          q.DateTo,
		Search:          q.Search,
		IncludeInactive: q.IncludeInactive,
	}
	p.filterOpen = true
}

// FilterDraft returns the staged filter edits.
func (p *TransactionsPage) FilterDraft() *FilterDraft { return &p.filterDraft }

// FilterOpen reports whether the filter modal is showing.
func (p *TransactionsPage) FilterOpen() bool { return p.filterOpen }

// ApplyFilters commits the staged edits to the live query atomically,
// returns to page 1, and refetches.
func (p *TransactionsPage) ApplyFilters() error {
	q := p.transactions.Query()
	q.AccountID = p.filterDraft.AccountID
	q.CategoryID = p.filterDraft.CategoryID
	q.DateFrom = p.filterDraft.DateFrom
	q.DateTo = p.filterDraft.DateTo
	q.Search = p.filterDraft.Search
	q.IncludeInactive = p.filterDraft.IncludeInactive
	q.Page = 1
	p.transactions.SetQuery(q)
	p.filterOpen = false
	return p.transactions.Refresh()
}

// ResetFilters clears every filter field and applies immediately; no
// second Apply is required.
func (p *TransactionsPage) ResetFilters() error {
	p.filterDraft = FilterDraft{}
	return p.ApplyFilters()
}
