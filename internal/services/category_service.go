package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/planning"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category, optionally under a parent of
// the same kind.
func (s *categoryService) CreateCategory(userID uint, name string, kind models.CategoryKind, description string, parentID *uint) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var count int64
	s.db.Model(&models.Category{}).Where("user_id = ? AND name = ? AND kind = ?", userID, name, kind).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateName
	}

	if parentID != nil {
		all, err := s.loadAll(userID)
		if err != nil {
			return nil, err
		}
		if err := planning.ValidateParent(all, 0, *parentID, kind); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		UserID:      userID,
		Name:        name,
		Kind:        kind,
		Description: description,
		ParentID:    parentID,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetUserCategories returns the user's categories, optionally filtered
// by kind, in insertion order.
func (s *categoryService) GetUserCategories(userID uint, kind *models.CategoryKind) ([]models.Category, error) {
	query := s.db.Where("user_id = ?", userID)
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}

	var categories []models.Category
	if err := query.Order("id").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryTree returns the user's categories indexed by parent ID.
func (s *categoryService) GetCategoryTree(userID uint) (map[uint][]models.Category, error) {
	categories, err := s.GetUserCategories(userID, nil)
	if err != nil {
		return nil, err
	}
	return planning.BuildCategoryTree(categories), nil
}

// GetCategoryByID returns a category by ID if it belongs to the user.
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates a category's name, description, or parent.
// A nil parentID leaves the parent unchanged; an explicit zero detaches
// the category back to the root level. Reparenting runs the same
// validation as creation, including the cycle check against the
// category's own descendants.
func (s *categoryService) UpdateCategory(userID, categoryID uint, name, description string, parentID *uint) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if name != "" && name != category.Name {
		var count int64
		s.db.Model(&models.Category{}).
			Where("user_id = ? AND name = ? AND kind = ? AND id <> ?", userID, name, category.Kind, categoryID).
			Count(&count)
		if count > 0 {
			return nil, apperrors.ErrDuplicateName
		}
	}

	if parentID != nil && *parentID != 0 {
		all, err := s.loadAll(userID)
		if err != nil {
			return nil, err
		}
		if err := planning.ValidateParent(all, categoryID, *parentID, category.Kind); err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if parentID != nil {
		if *parentID == 0 {
			updates["parent_id"] = nil
		} else {
			updates["parent_id"] = *parentID
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return category, nil
}

// GetCategoryUsage counts the transactions, budget items, and
// subcategories that reference a category.
func (s *categoryService) GetCategoryUsage(userID, categoryID uint) (*CategoryUsage, error) {
	if _, err := s.GetCategoryByID(userID, categoryID); err != nil {
		return nil, err
	}

	var usage CategoryUsage
	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&usage.TransactionCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.BudgetItem{}).Where("category_id = ?", categoryID).Count(&usage.BudgetItemCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Category{}).Where("parent_id = ?", categoryID).Count(&usage.SubcategoryCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &usage, nil
}

// DeleteCategory deletes a category. Without force the category must
// be unused; with force the whole subtree and its dependents are
// deleted post-order, children before parents.
func (s *categoryService) DeleteCategory(userID, categoryID uint, force bool) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	usage, err := s.GetCategoryUsage(userID, categoryID)
	if err != nil {
		return err
	}
	used := usage.TransactionCount > 0 || usage.BudgetItemCount > 0 || usage.SubcategoryCount > 0
	if used && !force {
		return apperrors.ErrCategoryInUse
	}

	if !used {
		if err := s.db.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	}

	all, err := s.loadAll(userID)
	if err != nil {
		return err
	}
	tree := planning.BuildCategoryTree(all)

	return s.db.Transaction(func(tx *gorm.DB) error {
		return cascadeDelete(tx, tree, categoryID)
	})
}

// cascadeDelete removes a category's subtree post-order along with the
// transactions and budget items that reference each node.
func cascadeDelete(tx *gorm.DB, tree map[uint][]models.Category, categoryID uint) error {
	for _, child := range tree[categoryID] {
		if err := cascadeDelete(tx, tree, child.ID); err != nil {
			return err
		}
	}
	if err := tx.Where("category_id = ?", categoryID).Delete(&models.Transaction{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := tx.Where("category_id = ?", categoryID).Delete(&models.BudgetItem{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := tx.Delete(&models.Category{}, categoryID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// defaultCategories is the starter tree seeded for new users. Children
// reference their parent by name within this list.
var defaultCategories = []struct {
	Name   string
	Kind   models.CategoryKind
	Parent string
}{
	{Name: "Salary", Kind: models.CategoryKindIncome},
	{Name: "Other Income", Kind: models.CategoryKindIncome},
	{Name: "Housing", Kind: models.CategoryKindExpense},
	{Name: "Rent", Kind: models.CategoryKindExpense, Parent: "Housing"},
	{Name: "Utilities", Kind: models.CategoryKindExpense, Parent: "Housing"},
	{Name: "Food", Kind: models.CategoryKindExpense},
	{Name: "Groceries", Kind: models.CategoryKindExpense, Parent: "Food"},
	{Name: "Restaurants", Kind: models.CategoryKindExpense, Parent: "Food"},
	{Name: "Transportation", Kind: models.CategoryKindExpense},
	{Name: "Healthcare", Kind: models.CategoryKindExpense},
	{Name: "Entertainment", Kind: models.CategoryKindExpense},
	{Name: "Shopping", Kind: models.CategoryKindExpense},
	{Name: "Savings", Kind: models.CategoryKindExpense},
}

// CreateDefaultCategories seeds the standard category tree for a new
// user. It is a no-op when the user already has categories.
func (s *categoryService) CreateDefaultCategories(userID uint) error {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		idByName := make(map[string]uint, len(defaultCategories))
		for _, def := range defaultCategories {
			category := &models.Category{
				UserID: userID,
				Name:   def.Name,
				Kind:   def.Kind,
			}
			if def.Parent != "" {
				parentID := idByName[def.Parent]
				category.ParentID = &parentID
			}
			if err := tx.Create(category).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			idByName[def.Name] = category.ID
		}
		return nil
	})
}

// loadAll fetches every category of the user for in-memory validation.
func (s *categoryService) loadAll(userID uint) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}
