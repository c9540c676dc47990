package models

// CategoryKind distinguishes income categories from expense categories.
// A category and its parent must share the same kind.
type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "income"
	CategoryKindExpense CategoryKind = "expense"
)

// Category is a user-defined transaction category. Categories form a
// forest: ParentID is nil for roots and otherwise points at a category
// of the same kind and user.
type Category struct {
	Base
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	Name        string       `gorm:"not null" json:"name"`
	Kind        CategoryKind `gorm:"not null" json:"kind"`
	ParentID    *uint        `gorm:"index" json:"parent_id"`
	Description string       `json:"description"`

	Parent   *Category  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}
