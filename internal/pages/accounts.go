package pages

import (
	"fmt"

	"finbook/internal/client"
	"finbook/internal/models"
)

// AccountsPage lists the user's accounts and guards the delete rule:
// an inactive account's delete control is disabled and no request is
// issued for it.
type AccountsPage struct {
	accounts  *client.AccountsResource
	mutations *client.AccountMutations

	state        PageState
	deleteTarget *models.Account
}

func NewAccountsPage(c *client.Client) *AccountsPage {
	return &AccountsPage{
		accounts:  client.NewAccountsResource(c),
		mutations: client.NewAccountMutations(c),
	}
}

// Load performs the initial fetch.
func (p *AccountsPage) Load() error { return p.accounts.Refresh() }

// State returns the page's interaction state.
func (p *AccountsPage) State() PageState { return p.state }

// Loading reports whether the list or a mutation is in flight.
func (p *AccountsPage) Loading() bool { return p.accounts.Loading() || p.mutations.Busy() }

// Err returns the list fetch error, if any.
func (p *AccountsPage) Err() error { return p.accounts.Err() }

// AccountRowView is a rendered row with its stable test identifiers.
// DeleteDisabled mirrors the account's active flag.
type AccountRowView struct {
	Account        models.Account
	TestID         string
	DeleteTestID   string
	DeleteDisabled bool
}

// Rows returns the table rows.
func (p *AccountsPage) Rows() []AccountRowView {
	data := p.accounts.Data()
	rows := make([]AccountRowView, len(data))
	for i, a := range data {
		rows[i] = AccountRowView{
			Account:        a,
			TestID:         accountRowTestID(a.ID),
			DeleteTestID:   accountDeleteTestID(a.ID),
			DeleteDisabled: !a.IsActive,
		}
	}
	return rows
}

// RequestDelete opens the confirmation modal. An inactive account is
// rejected locally; no request is ever issued for it.
func (p *AccountsPage) RequestDelete(id uint) error {
	for _, a := range p.accounts.Data() {
		if a.ID != id {
			continue
		}
		if !a.IsActive {
			return fmt.Errorf("account %d is inactive and cannot be deleted", id)
		}
		target := a
		p.deleteTarget = &target
		p.state = StateConfirmingDelete
		return nil
	}
	return fmt.Errorf("account %d is not in the current list", id)
}

// DeleteTarget returns the account pending confirmation.
func (p *AccountsPage) DeleteTarget() *models.Account { return p.deleteTarget }

// ConfirmDelete invokes the delete; only success closes the modal and
// refetches.
func (p *AccountsPage) ConfirmDelete() error {
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
	return p.accounts.Refresh()
}

// CancelDelete closes the modal without any network call.
func (p *AccountsPage) CancelDelete() {
	p.deleteTarget = nil
	p.state = StateIdle
}
