// Package viewmodel derives UI projections from flat API rows. The
// projections are pure functions of their inputs and are rebuilt on
// every change, never patched in place.
package viewmodel

import "finbook/internal/models"

// CategoryNode is a category with its children attached and its depth
// in the rendered tree. The tree is two levels deep: roots at level 0,
// children at level 1.
type CategoryNode struct {
	models.Category
	Level    int
	Children []CategoryNode
}

// BuildTree projects a flat category list into a tree. Roots keep
// their input order; children attach to their root in input order.
// A child whose parent is absent from the input is dropped.
func BuildTree(flat []models.Category) []CategoryNode {
	roots := make([]CategoryNode, 0, len(flat))
	index := make(map[uint]int, len(flat))

	for _, c := range flat {
		if !c.IsRoot() {
			continue
		}
		index[c.ID] = len(roots)
		roots = append(roots, CategoryNode{Category: c, Level: 0})
	}

	for _, c := range flat {
		if c.IsRoot() {
			continue
		}
		i, ok := index[c.ParentID]
		if !ok {
			continue
		}
		roots[i].Children = append(roots[i].Children, CategoryNode{Category: c, Level: 1})
	}

	return roots
}

// Flatten returns the tree's nodes in render order: each root followed
// by its children.
func Flatten(tree []CategoryNode) []CategoryNode {
	out := make([]CategoryNode, 0, len(tree))
	for _, root := range tree {
		out = append(out, root)
		out = append(out, root.Children...)
	}
	return out
}

// ParentOptions returns the valid parent choices for a category form:
// exactly the root categories of the active type, never the category
// being edited itself. Pass editingID 0 in create mode.
func ParentOptions(flat []models.Category, activeType models.CategoryType, editingID uint) []models.Category {
	options := make([]models.Category, 0, len(flat))
	for _, c := range flat {
		if !c.IsRoot() || c.Type != activeType || c.ID == editingID {
			continue
		}
		options = append(options, c)
	}
	return options
}

// TransactionCategoryOptions partitions categories for the transaction
// form's selector: income categories first, then expense, each group
// keeping its input order.
func TransactionCategoryOptions(flat []models.Category) []models.Category {
	options := make([]models.Category, 0, len(flat))
	for _, c := range flat {
		if c.Type == models.CategoryTypeIncome {
			options = append(options, c)
		}
	}
	for _, c := range flat {
		if c.Type == models.CategoryTypeExpense {
			options = append(options, c)
		}
	}
	return options
}

// CountChildren returns how many categories in flat have the given parent.
func CountChildren(flat []models.Category, parentID uint) int {
	n := 0
	for _, c := range flat {
		if c.ParentID == parentID {
			n++
		}
	}
	return n
}
