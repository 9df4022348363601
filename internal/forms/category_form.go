// Package forms holds the client-side form state: field values,
// validation, and submission payload shaping. Validation errors are
// resolved here and never reach the network.
package forms

import (
	"strings"
	"unicode/utf8"

	"finbook/internal/client"
	"finbook/internal/models"
)

// Validation messages shown next to form fields.
const (
	msgNameRequired    = "Name is required"
	msgNameTooLong     = "Name must be 100 characters or less"
	msgTagTooLong      = "Tag must be 10 characters or less"
	msgSelfParent      = "Category cannot be its own parent"
	msgHasChildren     = "Categories with subcategories cannot have a parent"
	msgDateRequired    = "Date is required"
	msgAccountRequired = "Account is required"
	msgCategoryReq     = "Category is required"
	msgAmountPositive  = "Amount must be greater than 0"
	msgCommentTooLong  = "Comment must be 255 characters or less"
)

// CategoryForm is the single category form, shared between create and
// edit mode. ID == 0 means create.
type CategoryForm struct {
	ID       uint
	Name     string
	Type     models.CategoryType
	ParentID uint
	Tag      string

	// HasChildren marks an edit of a root that has subcategories;
	// such a category may not be moved under a parent.
	HasChildren bool

	Errors map[string]string
}

// NewCategoryForm returns a form in create mode for the given type.
func NewCategoryForm(categoryType models.CategoryType) *CategoryForm {
	return &CategoryForm{Type: categoryType, Errors: map[string]string{}}
}

// IsEdit reports whether the form holds an existing category.
func (f *CategoryForm) IsEdit() bool { return f.ID != 0 }

// Load switches the form to edit mode for the given category.
func (f *CategoryForm) Load(c models.Category) {
	f.ID = c.ID
	f.Name = c.Name
	f.Type = c.Type
	f.ParentID = c.ParentID
	f.Tag = c.Tag
	f.HasChildren = false
	f.Errors = map[string]string{}
}

// Reset returns the form to create mode for the given type.
func (f *CategoryForm) Reset(categoryType models.CategoryType) {
	*f = CategoryForm{Type: categoryType, Errors: map[string]string{}}
}

// Validate runs the full-form gate and reports whether the form may be
// submitted. Local errors are recomputed wholesale.
func (f *CategoryForm) Validate() bool {
	f.Errors = map[string]string{}

	switch {
	case strings.TrimSpace(f.Name) == "":
		f.Errors["name"] = msgNameRequired
	case utf8.RuneCountInString(f.Name) > 100:
		f.Errors["name"] = msgNameTooLong
	}
	if utf8.RuneCountInString(f.Tag) > 10 {
		f.Errors["tag"] = msgTagTooLong
	}
	if f.IsEdit() && f.ParentID == f.ID {
		f.Errors["parent_id"] = msgSelfParent
	}
	if f.ParentID != 0 && f.HasChildren {
		f.Errors["parent_id"] = msgHasChildren
	}

	return len(f.Errors) == 0
}

// SetServerErrors replaces the form's errors with the server-returned
// field errors. Server errors supersede local validation wholesale.
func (f *CategoryForm) SetServerErrors(fieldErrors map[string]string) {
	f.Errors = map[string]string{}
	for field, msg := range fieldErrors {
		f.Errors[field] = msg
	}
}

// Payload shapes the submission body. Create vs update is routed by
// the caller on IsEdit; the body itself never carries the id.
func (f *CategoryForm) Payload() client.CategoryPayload {
	return client.CategoryPayload{
		Name:     strings.TrimSpace(f.Name),
		Type:     f.Type,
		ParentID: f.ParentID,
		Tag:      f.Tag,
	}
}
