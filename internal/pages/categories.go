package pages

import (
	"errors"
	"fmt"

	"finbook/internal/client"
	"finbook/internal/forms"
	"finbook/internal/models"
	"finbook/internal/viewmodel"
)

// CategoriesPage maintains the active type tab, the flat-to-tree
// projection, the create/edit duality of the single category form, and
// the delete confirmation flow.
type CategoriesPage struct {
	categories *client.CategoriesResource
	mutations  *client.CategoryMutations

	Form       *forms.CategoryForm
	state      PageState
	activeType models.CategoryType

	deleteTarget *models.Category
	modalErr     error
}

// NewCategoriesPage creates the page scoped to the expense tab.
func NewCategoriesPage(c *client.Client) *CategoriesPage {
	return &CategoriesPage{
		categories: client.NewCategoriesResource(c, models.CategoryTypeExpense),
		mutations:  client.NewCategoryMutations(c),
		Form:       forms.NewCategoryForm(models.CategoryTypeExpense),
		activeType: models.CategoryTypeExpense,
	}
}

// Load performs the initial fetch.
func (p *CategoriesPage) Load() error { return p.categories.Refresh() }

// State returns the page's interaction state.
func (p *CategoriesPage) State() PageState { return p.state }

// ActiveType returns the selected type tab.
func (p *CategoriesPage) ActiveType() models.CategoryType { return p.activeType }

// Loading reports whether the list or a mutation is in flight.
func (p *CategoriesPage) Loading() bool {
	return p.categories.Loading() || p.mutations.Busy()
}

// Err returns the list fetch error, if any.
func (p *CategoriesPage) Err() error { return p.categories.Err() }

// SwitchType changes the active tab. Any in-progress edit or pending
// delete is discarded, and the list is refetched scoped to the new type.
func (p *CategoriesPage) SwitchType(categoryType models.CategoryType) error {
	if categoryType == p.activeType {
		return nil
	}
	p.activeType = categoryType
	p.state = StateIdle
	p.deleteTarget = nil
	p.modalErr = nil
	p.Form.Reset(categoryType)
	p.categories.SetType(categoryType)
	return p.categories.Refresh()
}

// Tree returns the category tree for the active tab.
func (p *CategoriesPage) Tree() []viewmodel.CategoryNode {
	return viewmodel.BuildTree(p.categories.Data())
}

// ParentOptions returns the valid parent choices for the form: the
// roots of the active type, minus the category being edited. A root
// that has subcategories cannot be nested, so it gets no options.
func (p *CategoriesPage) ParentOptions() []models.Category {
	if p.Form.HasChildren {
		return nil
	}
	return viewmodel.ParentOptions(p.categories.Data(), p.activeType, p.Form.ID)
}

// CategoryRow is a rendered row with its stable test identifiers.
type CategoryRow struct {
	Node         viewmodel.CategoryNode
	TestID       string
	EditTestID   string
	DeleteTestID string
}

// Rows returns the table rows in render order.
func (p *CategoriesPage) Rows() []CategoryRow {
	nodes := viewmodel.Flatten(p.Tree())
	rows := make([]CategoryRow, len(nodes))
	for i, n := range nodes {
		rows[i] = CategoryRow{
			Node:         n,
			TestID:       categoryRowTestID(n.ID),
			EditTestID:   categoryEditTestID(n.ID),
			DeleteTestID: categoryDeleteTestID(n.ID),
		}
	}
	return rows
}

// StartEdit loads the given category into the form.
func (p *CategoriesPage) StartEdit(id uint) error {
	for _, c := range p.categories.Data() {
		if c.ID == id {
			p.Form.Load(c)
			p.Form.HasChildren = viewmodel.CountChildren(p.categories.Data(), id) > 0
			p.state = StateEditing
			return nil
		}
	}
	return fmt.Errorf("category %d is not in the current list", id)
}

// CancelEdit reverts the form to create mode.
func (p *CategoriesPage) CancelEdit() {
	p.Form.Reset(p.activeType)
	p.state = StateIdle
}

// Submit validates and sends the form. Invalid forms never issue a
// request. On success the form resets to create mode and the list is
// refetched; server field errors are merged back into the form.
func (p *CategoriesPage) Submit() error {
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

	p.Form.Reset(p.activeType)
	p.state = StateIdle
	return p.categories.Refresh()
}

// RequestDelete opens the confirmation modal for the given category.
func (p *CategoriesPage) RequestDelete(id uint) error {
	for _, c := range p.categories.Data() {
		if c.ID == id {
			target := c
			p.deleteTarget = &target
			p.modalErr = nil
			p.state = StateConfirmingDelete
			return nil
		}
	}
	return fmt.Errorf("category %d is not in the current list", id)
}

// DeleteTarget returns the category pending confirmation, nil outside
// the confirming state.
func (p *CategoriesPage) DeleteTarget() *models.Category { return p.deleteTarget }

// DeleteWarning returns the modal's cascade warning, empty when the
// target has no children.
func (p *CategoriesPage) DeleteWarning() string {
	if p.deleteTarget == nil {
		return ""
	}
	n := viewmodel.CountChildren(p.categories.Data(), p.deleteTarget.ID)
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("Warning: This category has %d subcategories that will also be deleted.", n)
}

// ModalErr returns the server error shown inside the open modal.
func (p *CategoriesPage) ModalErr() error { return p.modalErr }

// ConfirmDelete invokes the delete. Only success closes the modal and
// refetches; a failure keeps the modal open with the server error.
func (p *CategoriesPage) ConfirmDelete() error {
	if p.state != StateConfirmingDelete || p.deleteTarget == nil {
		return nil
	}
	p.state = StateSubmitting

	if _, err := p.mutations.Delete(p.deleteTarget.ID); err != nil {
		p.state = StateConfirmingDelete
		p.modalErr = err
		return err
	}

	p.deleteTarget = nil
	p.modalErr = nil
	p.state = StateIdle
	return p.categories.Refresh()
}

// CancelDelete closes the modal without any network call.
func (p *CategoriesPage) CancelDelete() {
	p.deleteTarget = nil
	p.modalErr = nil
	p.state = StateIdle
}

// EnsureDefaultCategory creates a root category of the active type as
// a best-effort setup step. An already-existing category is an
// acceptable end state, so server rejections are swallowed.
func (p *CategoriesPage) EnsureDefaultCategory(name string) {
	for _, c := range p.categories.Data() {
		if c.Name == name && c.Type == p.activeType {
			return
		}
	}
	_, _ = p.mutations.Create(client.CategoryPayload{Name: name, Type: p.activeType})
}
