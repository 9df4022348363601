// Package pages holds the page controllers composing resources, forms,
// and mutation facades. Each page owns one state machine so illegal
// combinations (editing while confirming a delete) cannot be
// represented.
package pages

import "fmt"

// PageState is the page's interaction state.
type PageState int

const (
	StateIdle PageState = iota
	StateEditing
	StateConfirmingDelete
	StateSubmitting
)

func (s PageState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateConfirmingDelete:
		return "confirming_delete"
	case StateSubmitting:
		return "submitting"
	}
	return fmt.Sprintf("PageState(%d)", int(s))
}

// Stable element identifiers consumed by the end-to-end suite. The
// formats are a published contract and must not change.
func categoryRowTestID(id uint) string       { return fmt.Sprintf("category-row-%d", id) }
func categoryEditTestID(id uint) string      { return fmt.Sprintf("category-edit-button-%d", id) }
func categoryDeleteTestID(id uint) string    { return fmt.Sprintf("category-delete-button-%d", id) }
func transactionRowTestID(id uint) string    { return fmt.Sprintf("transaction-row-%d", id) }
func transactionEditTestID(id uint) string   { return fmt.Sprintf("transaction-edit-button-%d", id) }
func transactionDeleteTestID(id uint) string { return fmt.Sprintf("transaction-delete-button-%d", id) }
func accountRowTestID(id uint) string        { return fmt.Sprintf("account-row-%d", id) }
func accountDeleteTestID(id uint) string     { return fmt.Sprintf("account-delete-button-%d", id) }
