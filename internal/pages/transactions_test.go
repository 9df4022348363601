package pages

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finbook/internal/client"
	"finbook/internal/models"
	"finbook/internal/services"
)

// fakeFinanceAPI serves the three read endpoints and the transaction
// mutations the transactions page talks to.
type fakeFinanceAPI struct {
	rows       []services.TransactionRow
	accounts   []models.Account
	categories []models.Category

	transactionGets int
	accountGets     int
	categoryGets    int
	mutations       int

	lastTransactionQuery url.Values
	transactionsStatus   int
	accountsStatus       int
	mutationStatus       int
	mutationBody         string
}

func (f *fakeFinanceAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasPrefix(r.URL.Path, "/api/transactions"):
		if r.Method == http.MethodGet {
			f.transactionGets++
			f.lastTransactionQuery = r.URL.Query()
			if f.transactionsStatus != 0 {
				w.WriteHeader(f.transactionsStatus)
				w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"transactions down"}}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"data": f.rows, "page": 1, "limit": 20,
				"total_items": len(f.rows), "total_pages": 1,
			})
			return
		}
		f.mutations++
		if f.mutationStatus != 0 {
			w.WriteHeader(f.mutationStatus)
			w.Write([]byte(f.mutationBody))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"transaction": models.Transaction{}})
	case r.URL.Path == "/api/accounts":
		f.accountGets++
		if f.accountsStatus != 0 {
			w.WriteHeader(f.accountsStatus)
			w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"accounts down"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"accounts": f.accounts})
	case r.URL.Path == "/api/categories":
		f.categoryGets++
		json.NewEncoder(w).Encode(map[string]any{"categories": f.categories})
	default:
		http.NotFound(w, r)
	}
}

func sampleRows() []services.TransactionRow {
	return []services.TransactionRow{
		{Transaction: models.Transaction{
			Base:       models.Base{ID: 11},
			Date:       time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC),
			AccountID:  1,
			CategoryID: 2,
			Amount:     decimal.NewFromInt(-40),
			CurrencyID: 1,
			Comment:    "groceries",
		}, AccountName: "Checking", CategoryName: "Food", CategoryType: models.CategoryTypeExpense, CurrencyCode: "USD"},
	}
}

func newTransactionsPageForTest(t *testing.T, api *fakeFinanceAPI) *TransactionsPage {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	p := NewTransactionsPage(client.New(srv.URL))
	if err := p.Load(); err != nil {
		t.Fatalf("initial load failed: %v", err)
	}
	return p
}

func TestTransactionsPageSortHeader(t *testing.T) {
	api := &fakeFinanceAPI{rows: sampleRows()}
	p := newTransactionsPageForTest(t, api)

	// Default is date descending; clicking the active column flips it.
	if err := p.ClickSortHeader("date"); err != nil {
		t.Fatalf("sort click: %v", err)
	}
	if got := api.lastTransactionQuery.Get("sort"); got != "date:asc" {
		t.Errorf("expected date:asc, got %q", got)
	}

	// Clicking a different column resets to descending.
	if err := p.ClickSortHeader("amount"); err != nil {
		t.Fatalf("sort click: %v", err)
	}
	if got := api.lastTransactionQuery.Get("sort"); got != "amount:desc" {
		t.Errorf("expected amount:desc, got %q", got)
	}

	// And flips on the second click.
	p.ClickSortHeader("amount")
	if got := api.lastTransactionQuery.Get("sort"); got != "amount:asc" {
		t.Errorf("expected amount:asc, got %q", got)
	}
}

func TestTransactionsPageSetPage(t *testing.T) {
	api := &fakeFinanceAPI{rows: sampleRows()}
	p := newTransactionsPageForTest(t, api)
	getsBefore := api.transactionGets

	if err := p.SetPage(3); err != nil {
		t.Fatalf("set page: %v", err)
	}
	if api.transactionGets != getsBefore+1 {
		t.Error("every page turn is a new fetch")
	}
	if got := api.lastTransactionQuery.Get("page"); got != "3" {
		t.Errorf("expected page 3, got %q", got)
	}
}

func TestTransactionsPageCombinedError(t *testing.T) {
	api := &fakeFinanceAPI{rows: sampleRows(), accountsStatus: http.StatusInternalServerError}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	p := NewTransactionsPage(client.New(srv.URL))
	p.Load()

	if p.Err() == nil {
		t.Fatal("expected the accounts failure to surface")
	}
	if p.TransactionsErr() != nil {
		t.Error("the transactions source should be independently clean")
	}
	if p.AccountsErr() == nil {
		t.Error("the accounts source should be independently inspectable")
	}
}

func TestTransactionsPageDualInvalidation(t *testing.T) {
	api := &fakeFinanceAPI{rows: sampleRows(), accounts: []models.Account{
		{Base: models.Base{ID: 1}, Name: "Checking", CurrencyID: 1, IsActive: true},
	}}
	p := newTransactionsPageForTest(t, api)
	txGets, acctGets := api.transactionGets, api.accountGets

	p.RequestDelete(11)
	if err := p.ConfirmDelete(); err != nil {
		t.Fatalf("confirm delete: %v", err)
	}

	if api.mutations != 1 {
		t.Errorf("expected one delete request, got %d", api.mutations)
	}
	if api.transactionGets != txGets+1 {
		t.Error("a mutation must refresh the transaction list")
	}
	if api.accountGets != acctGets+1 {
		t.Error("a mutation must refresh the accounts, balances are derived")
	}
	if p.State() != StateIdle || p.DeleteTarget() != nil {
		t.Error("success should close the modal")
	}
}

func TestTransactionsPageDeleteCancel(t *testing.T) {
	api := &fakeFinanceAPI{rows: sampleRows()}
	p := newTransactionsPageForTest(t, api)

	p.RequestDelete(11)
	if p.DeleteTarget() == nil || p.DeleteTarget().ID != 11 {
		t.Fatal("the modal should carry the selected row")
	}
	p.CancelDelete()

	if api.mutations != 0 {
		t.Error("cancel must not issue a network call")
	}
	if p.State() != StateIdle {
		t.Errorf("expected idle state, got %s", p.State())
	}
}

func TestTransactionsPageSubmit(t *testing.T) {
	t.Run("invalid form issues no request", func(t *testing.T) {
		api := &fakeFinanceAPI{rows: sampleRows()}
		p := newTransactionsPageForTest(t, api)

		p.Form.Amount = "0"
		if err := p.Submit(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if api.mutations != 0 {
			t.Error("an invalid form must not reach the network")
		}
	})

	t.Run("create fires the completion event", func(t *testing.T) {
		api := &fakeFinanceAPI{rows: sampleRows()}
		p := newTransactionsPageForTest(t, api)
		txGets, acctGets := api.transactionGets, api.accountGets

		p.Form.Date = "2026-03-01"
		p.Form.AccountID = "1"
		p.Form.CategoryID = "2"
		p.Form.Amount = "25"
		if err := p.Submit(); err != nil {
			t.Fatalf("submit: %v", err)
		}

		if api.mutations != 1 {
			t.Errorf("expected one create, got %d", api.mutations)
		}
		if api.transactionGets != txGets+1 || api.accountGets != acctGets+1 {
			t.Error("success must refresh both transactions and accounts")
		}
		if p.Form.IsEdit() || p.Form.Amount != "" {
			t.Error("success must reset the form")
		}
	})

	t.Run("server field errors are merged into the form", func(t *testing.T) {
		api := &fakeFinanceAPI{rows: sampleRows()}
		p := newTransactionsPageForTest(t, api)
		api.mutationStatus = http.StatusBadRequest
		api.mutationBody = `{"error":{"code":"VALIDATION_ERROR","message":"Validation failed","details":[{"field":"date","message":"must be an ISO-8601 date"}]}}`
		txGets := api.transactionGets

		p.Form.Date = "2026-03-01"
		p.Form.AccountID = "1"
		p.Form.CategoryID = "2"
		p.Form.Amount = "25"
		if err := p.Submit(); err != nil {
			t.Fatalf("field errors should be absorbed, got %v", err)
		}

		if p.Form.Errors["date"] != "must be an ISO-8601 date" {
			t.Errorf("expected the server message, got %q", p.Form.Errors["date"])
		}
		if api.transactionGets != txGets {
			t.Error("a failed mutation must not refresh anything")
		}
	})
}

func TestTransactionsPageEdit(t *testing.T) {
	api := &fakeFinanceAPI{rows: sampleRows()}
	p := newTransactionsPageForTest(t, api)

	if err := p.StartEdit(11); err != nil {
		t.Fatalf("start edit: %v", err)
	}
	if p.State() != StateEditing || !p.Form.IsEdit() {
		t.Fatal("edit should load the row into the form")
	}
	if p.Form.Amount != "40" {
		t.Errorf("amount should show the magnitude, got %q", p.Form.Amount)
	}

	p.CancelEdit()
	if p.State() != StateIdle || p.Form.IsEdit() {
		t.Error("cancel should revert to create mode")
	}
}

func TestTransactionsPageFilters(t *testing.T) {
	t.Run("edits stage until Apply", func(t *testing.T) {
		api := &fakeFinanceAPI{rows: sampleRows()}
		p := newTransactionsPageForTest(t, api)
		getsBefore := api.transactionGets

		p.OpenFilters()
		p.FilterDraft().Search = "rent"
		accountID := uint(1)
		p.FilterDraft().AccountID = &accountID

		if api.transactionGets != getsBefore {
			t.Fatal("staged edits must not touch the live query")
		}
		if q := p.Query(); q.Search != "" {
			t.Fatal("live query changed before Apply")
		}

		if err := p.ApplyFilters(); err != nil {
			t.Fatalf("apply: %v", err)
		}
		if api.transactionGets != getsBefore+1 {
			t.Error("apply commits atomically with one fetch")
		}
		if api.lastTransactionQuery.Get("search") != "rent" ||
			api.lastTransactionQuery.Get("account_id") != "1" {
			t.Errorf("unexpected query %v", api.lastTransactionQuery)
		}
		if api.lastTransactionQuery.Get("page") != "1" {
			t.Error("applying filters should return to page 1")
		}
		if p.FilterOpen() {
			t.Error("apply should close the modal")
		}
	})

	t.Run("reset clears and applies without a second Apply", func(t *testing.T) {
		api := &fakeFinanceAPI{rows: sampleRows()}
		p := newTransactionsPageForTest(t, api)

		p.OpenFilters()
		p.FilterDraft().Search = "rent"
		p.ApplyFilters()

		if err := p.ResetFilters(); err != nil {
			t.Fatalf("reset: %v", err)
		}
		if api.lastTransactionQuery.Get("search") != "" {
			t.Error("reset should clear the search filter on the wire")
		}
		if q := p.Query(); q.Search != "" || q.AccountID != nil {
			t.Errorf("reset should clear the live query, got %+v", q)
		}
	})
}

func TestTransactionsPageRows(t *testing.T) {
	api := &fakeFinanceAPI{rows: sampleRows()}
	p := newTransactionsPageForTest(t, api)

	rows := p.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].TestID != "transaction-row-11" ||
		rows[0].EditTestID != "transaction-edit-button-11" ||
		rows[0].DeleteTestID != "transaction-delete-button-11" {
		t.Errorf("unexpected test ids: %+v", rows[0])
	}
	if rows[0].Row.AccountName != "Checking" || rows[0].Row.CurrencyCode != "USD" {
		t.Errorf("denormalized display fields missing: %+v", rows[0].Row)
	}
}

func TestTransactionsPageCategoryOptions(t *testing.T) {
	api := &fakeFinanceAPI{rows: sampleRows(), categories: []models.Category{
		{Base: models.Base{ID: 1}, Name: "Food", Type: models.CategoryTypeExpense},
		{Base: models.Base{ID: 2}, Name: "Salary", Type: models.CategoryTypeIncome},
	}}
	p := newTransactionsPageForTest(t, api)

	options := p.CategoryOptions()
	if len(options) != 2 || options[0].Name != "Salary" || options[1].Name != "Food" {
		t.Errorf("expected income first, got %+v", options)
	}
}
