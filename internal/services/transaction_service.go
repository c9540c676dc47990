package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewTransactionService creates a new TransactionServicer. The cache
// may be nil; writes then have no cached predictions to invalidate.
func NewTransactionService(db *gorm.DB, c *cache.Cache) TransactionServicer {
	return &transactionService{db: db, cache: c}
}

// CreateTransaction records a transaction and adjusts the account's
// current balance by the signed amount in the same database
// transaction.
func (s *transactionService) CreateTransaction(userID, accountID uint, categoryID *uint, amountCents int64, description string, txnDate time.Time) (*models.Transaction, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if categoryID != nil {
		var count int64
		s.db.Model(&models.Category{}).Where("id = ? AND user_id = ?", *categoryID, userID).Count(&count)
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	txn := &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		CategoryID:  categoryID,
		AmountCents: amountCents,
		TxnDate:     txnDate,
		Description: description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&account).
			Update("current_balance_cents", gorm.Expr("current_balance_cents + ?", amountCents)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidatePredictions(s.cache, userID)
	return txn, nil
}

// GetUserTransactions returns a paginated, filtered list of the user's
// transactions, most recent first.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		base = base.Where("txn_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("txn_date <= ?", *filter.ToDate)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AccountID != nil {
		base = base.Where("account_id = ?", *filter.AccountID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txns []models.Transaction
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("txn_date DESC, id DESC").Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(txns, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction by ID if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", transactionID, userID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &txn, nil
}

// DeleteTransaction removes a transaction and reverses its effect on
// the account balance.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	txn, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(txn).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&models.Account{}).Where("id = ?", txn.AccountID).
			Update("current_balance_cents", gorm.Expr("current_balance_cents - ?", txn.AmountCents)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidatePredictions(s.cache, userID)
	return nil
}
