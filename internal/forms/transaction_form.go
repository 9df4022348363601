package forms

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"finbook/internal/client"
	"finbook/internal/models"
	"finbook/internal/services"
)

// Transaction form field names, used as error map keys and Blur targets.
const (
	FieldDate       = "date"
	FieldAccountID  = "account_id"
	FieldCategoryID = "category_id"
	FieldAmount     = "amount"
	FieldComment    = "comment"
)

// TransactionForm is the transaction create/edit form. Select and text
// inputs hold raw strings; Payload coerces them to their wire types.
// ID == 0 means create mode.
type TransactionForm struct {
	ID         uint
	Date       string // "2006-01-02", the date portion only
	AccountID  string
	CategoryID string
	Amount     string
	Comment    string

	// CurrencyID is derived from the selected account and is not
	// independently editable.
	CurrencyID uint

	// originalDate carries the stored instant in edit mode so the
	// time-of-day survives a date edit.
	originalDate time.Time

	Errors map[string]string
}

// NewTransactionForm returns a form in create mode dated today.
func NewTransactionForm() *TransactionForm {
	return &TransactionForm{
		Date:   time.Now().Format("2006-01-02"),
		Errors: map[string]string{},
	}
}

// IsEdit reports whether the form holds an existing transaction.
func (f *TransactionForm) IsEdit() bool { return f.ID != 0 }

// Load switches the form to edit mode for the given row. The amount is
// shown as its magnitude; the sign is the server's concern.
func (f *TransactionForm) Load(row services.TransactionRow) {
	f.ID = row.ID
	f.Date = row.Date.Format("2006-01-02")
	f.originalDate = row.Date
	f.AccountID = strconv.FormatUint(uint64(row.AccountID), 10)
	f.CategoryID = strconv.FormatUint(uint64(row.CategoryID), 10)
	f.Amount = row.Amount.Abs().String()
	f.Comment = row.Comment
	f.CurrencyID = row.CurrencyID
	f.Errors = map[string]string{}
}

// Reset returns the form to create mode.
func (f *TransactionForm) Reset() {
	*f = *NewTransactionForm()
}

// SelectAccount records the chosen account and derives the currency
// from it.
func (f *TransactionForm) SelectAccount(account models.Account) {
	f.AccountID = strconv.FormatUint(uint64(account.ID), 10)
	f.CurrencyID = account.CurrencyID
	f.validateField(FieldAccountID)
}

// Blur validates a single field, giving immediate feedback without
// touching the other fields' errors.
func (f *TransactionForm) Blur(field string) {
	f.validateField(field)
}

func (f *TransactionForm) validateField(field string) {
	if msg := f.fieldError(field); msg != "" {
		f.Errors[field] = msg
	} else {
		delete(f.Errors, field)
	}
}

func (f *TransactionForm) fieldError(field string) string {
	switch field {
	case FieldDate:
		if strings.TrimSpace(f.Date) == "" {
			return msgDateRequired
		}
		if _, err := time.Parse("2006-01-02", f.Date); err != nil {
			return msgDateRequired
		}
	case FieldAccountID:
		if id, err := strconv.ParseUint(f.AccountID, 10, 64); err != nil || id == 0 {
			return msgAccountRequired
		}
	case FieldCategoryID:
		if id, err := strconv.ParseUint(f.CategoryID, 10, 64); err != nil || id == 0 {
			return msgCategoryReq
		}
	case FieldAmount:
		amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
		if err != nil || !amount.IsPositive() {
			return msgAmountPositive
		}
	case FieldComment:
		if utf8.RuneCountInString(f.Comment) > 255 {
			return msgCommentTooLong
		}
	}
	return ""
}

// Validate runs the full-form gate. Each field is judged on its own:
// a valid field is never flagged because another field is invalid.
func (f *TransactionForm) Validate() bool {
	for _, field := range []string{FieldDate, FieldAccountID, FieldCategoryID, FieldAmount, FieldComment} {
		f.validateField(field)
	}
	return len(f.Errors) == 0
}

// SetServerErrors replaces the form's errors with the server-returned
// field errors.
func (f *TransactionForm) SetServerErrors(fieldErrors map[string]string) {
	f.Errors = map[string]string{}
	for field, msg := range fieldErrors {
		f.Errors[field] = msg
	}
}

// Payload shapes the submission body. The date is serialized as an
// ISO-8601 instant; in edit mode the original time-of-day is kept and
// only the date portion is replaced. Call only after Validate.
func (f *TransactionForm) Payload() client.TransactionPayload {
	accountID, _ := strconv.ParseUint(f.AccountID, 10, 64)
	categoryID, _ := strconv.ParseUint(f.CategoryID, 10, 64)
	amount, _ := decimal.NewFromString(strings.TrimSpace(f.Amount))
	day, _ := time.Parse("2006-01-02", f.Date)

	instant := day.UTC()
	if f.IsEdit() && !f.originalDate.IsZero() {
		o := f.originalDate
		instant = time.Date(day.Year(), day.Month(), day.Day(),
			o.Hour(), o.Minute(), o.Second(), o.Nanosecond(), o.Location())
	}

	return client.TransactionPayload{
		Date:       instant.Format(time.RFC3339),
		AccountID:  uint(accountID),
		CategoryID: uint(categoryID),
		CurrencyID: f.CurrencyID,
		Amount:     amount,
		Comment:    f.Comment,
	}
}
