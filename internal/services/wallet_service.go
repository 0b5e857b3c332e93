package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "coinbuddy/internal/errors"
	"coinbuddy/internal/models"
	"coinbuddy/internal/pagination"
)

// walletService handles wallet-related business logic.
type walletService struct {
	db *gorm.DB
}

// NewWalletService creates a new WalletServicer.
func NewWalletService(db *gorm.DB) WalletServicer {
	return &walletService{db: db}
}

// CreateWallet creates a new empty wallet for a user.
func (s *walletService) CreateWallet(userID, name, image string) (*models.Wallet, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet name is required")
	}

	wallet := &models.Wallet{
		UserID: userID,
		Name:   name,
		Image:  image,
	}

	if err := s.db.Create(wallet).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return wallet, nil
}

// GetUserWallets retrieves a paginated list of the user's wallets.
func (s *walletService) GetUserWallets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Wallet], error) {
	page.Normalize()

	base := s.db.Model(&models.Wallet{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var wallets []models.Wallet
	if err := base.Scopes(pagination.Scope(page)).
		Order("created_at DESC").
		Find(&wallets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(wallets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetWalletByID retrieves a wallet by ID for a specific user.
func (s *walletService) GetWalletByID(userID, walletID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.Where("id = ? AND user_id = ?", walletID, userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &wallet, nil
}

// UpdateWallet updates a wallet's name and image.
func (s *walletService) UpdateWallet(userID, walletID string, name, image *string) (*models.Wallet, error) {
	wallet, err := s.GetWalletByID(userID, walletID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if strings.TrimSpace(*name) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "wallet name is required")
		}
		wallet.Name = *name
	}
	if image != nil {
		wallet.Image = *image
	}

	if err := s.db.Save(wallet).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return wallet, nil
}

// DeleteWallet deletes a wallet together with its transactions.
func (s *walletService) DeleteWallet(userID, walletID string) error {
	wallet, err := s.GetWalletByID(userID, walletID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wallet_id = ? AND user_id = ?", walletID, userID).
			Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(wallet).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
