package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "coinbuddy/internal/errors"
	"coinbuddy/internal/pagination"
	"coinbuddy/internal/services"
)

// WalletHandler handles wallet-related requests.
type WalletHandler struct {
	walletService services.WalletServicer
	auditService  services.AuditServicer
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService services.WalletServicer, auditService services.AuditServicer) *WalletHandler {
	return &WalletHandler{walletService: walletService, auditService: auditService}
}

// CreateWalletRequest represents the wallet creation payload.
type CreateWalletRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Image string `json:"image" binding:"omitempty,max=2048"`
}

// UpdateWalletRequest represents the wallet update payload.
type UpdateWalletRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=100"`
	Image *string `json:"image" binding:"omitempty,max=2048"`
}

// CreateWallet creates a new wallet for the authenticated user.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	wallet, err := h.walletService.CreateWallet(userID, req.Name, req.Image)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create_wallet", "wallet", wallet.ID, c.ClientIP(), nil)
	c.JSON(http.StatusCreated, gin.H{"wallet": wallet})
}

// GetUserWallets returns the authenticated user's wallets, paginated.
func (h *WalletHandler) GetUserWallets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.walletService.GetUserWallets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetWalletByID returns a single wallet owned by the authenticated user.
func (h *WalletHandler) GetWalletByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	wallet, err := h.walletService.GetWalletByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// UpdateWallet updates a wallet's name or image.
func (h *WalletHandler) UpdateWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	wallet, err := h.walletService.UpdateWallet(userID, c.Param("id"), req.Name, req.Image)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// DeleteWallet deletes a wallet and its transactions.
func (h *WalletHandler) DeleteWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	walletID := c.Param("id")
	if err := h.walletService.DeleteWallet(userID, walletID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete_wallet", "wallet", walletID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Wallet deleted"})
}
