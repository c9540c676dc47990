package planning

import (
	"fmt"

	"fintrack/internal/errors"
	"fintrack/internal/models"
)

// RootParentID is the key under which root categories (nil ParentID)
// are grouped in the tree index. Real category IDs start at 1.
const RootParentID uint = 0

// BuildCategoryTree indexes a flat category list by parent ID. Each
// category appears exactly once and sibling order follows the input
// order. The index replaces a live parent/child object graph: render
// a subtree by starting at RootParentID and looking up children by ID.
func BuildCategoryTree(categories []models.Category) map[uint][]models.Category {
	tree := make(map[uint][]models.Category, len(categories))
	for _, c := range categories {
		parent := RootParentID
		if c.ParentID != nil {
			parent = *c.ParentID
		}
		tree[parent] = append(tree[parent], c)
	}
	return tree
}

// ValidateParent checks that parentID is a valid parent for the
// category with the given id and kind: the parent must exist in
// categories, share the same kind, and not be a descendant of id.
// Pass id 0 for a category that does not exist yet.
func ValidateParent(categories []models.Category, id uint, parentID uint, kind models.CategoryKind) error {
	byID := make(map[uint]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	parent, ok := byID[parentID]
	if !ok {
		return errors.WithMessage(errors.ErrInvalidParent, "parent category does not exist")
	}
	if parent.Kind != kind {
		return errors.WithMessage(errors.ErrInvalidParent,
			fmt.Sprintf("parent category is %s, expected %s", parent.Kind, kind))
	}
	if id == 0 {
		return nil
	}
	if parentID == id {
		return errors.WithMessage(errors.ErrInvalidParent, "category cannot be its own parent")
	}

	// Walk the proposed parent's ancestors. Seeing id means the new
	// edge would close a cycle. The visited set guards against
	// pre-existing corrupt data looping forever.
	visited := map[uint]bool{parentID: true}
	cur := parent
	for cur.ParentID != nil {
		next := *cur.ParentID
		if next == id {
			return errors.WithMessage(errors.ErrInvalidParent, "parent category is a descendant of this category")
		}
		if visited[next] {
			break
		}
		visited[next] = true
		anc, ok := byID[next]
		if !ok {
			break
		}
		cur = anc
	}
	return nil
}
