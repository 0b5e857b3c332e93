package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "coinbuddy/internal/errors"
	"coinbuddy/internal/models"
	"coinbuddy/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db            *gorm.DB
	walletService WalletServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, walletService WalletServicer) TransactionServicer {
	return &transactionService{
		db:            db,
		walletService: walletService,
	}
}

// CreateTransaction records a movement on a wallet. Amounts are always
// positive; the direction alone decides whether the wallet balance goes up
// or down. The record and the wallet totals are written in one database
// transaction.
func (s *transactionService) CreateTransaction(
	userID, walletID string,
	transactionType models.TransactionType,
	amount int64,
	category, description, image string,
	date time.Time,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if walletID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet ID is required")
	}
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidDirection
	}

	if date.IsZero() {
		date = time.Now()
	}

	wallet, err := s.walletService.GetWalletByID(userID, walletID)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		WalletID:    wallet.ID,
		Type:        transactionType,
		Amount:      amount,
		Category:    category,
		Description: description,
		Image:       image,
		Date:        date,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return applyToWallet(tx, wallet, transactionType, amount)
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// applyToWallet shifts the wallet balance and income/expense totals by the
// given movement. Pass a negative amount to reverse a prior movement.
func applyToWallet(tx *gorm.DB, wallet *models.Wallet, transactionType models.TransactionType, amount int64) error {
	switch transactionType {
	case models.TransactionTypeIncome:
		wallet.Amount += amount
		wallet.TotalIncome += amount
	case models.TransactionTypeExpense:
		wallet.Amount -= amount
		wallet.TotalExpenses += amount
	default:
		return apperrors.ErrInvalidDirection
	}

	if err := tx.Save(wallet).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Normalize()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Scope(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.WalletID != nil {
		q = q.Where("wallet_id = ?", *f.WalletID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction deletes a transaction and reverses its effect on the wallet.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	wallet, err := s.walletService.GetWalletByID(userID, transaction.WalletID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return applyToWallet(tx, wallet, transaction.Type, -transaction.Amount)
	})
}
