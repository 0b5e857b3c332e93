package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "coinbuddy/internal/errors"
	"coinbuddy/internal/services"
)

// QRHandler handles the QR cross-device login flow.
type QRHandler struct {
	qrTokenService services.QRTokenServicer
	auditService   services.AuditServicer
}

// NewQRHandler creates a new QRHandler
func NewQRHandler(qrTokenService services.QRTokenServicer, auditService services.AuditServicer) *QRHandler {
	return &QRHandler{qrTokenService: qrTokenService, auditService: auditService}
}

// RedeemTokenRequest represents the token redemption payload.
type RedeemTokenRequest struct {
	Token string `json:"token" binding:"required,uuid"`
}

// CreateToken mints a single-use login token for the authenticated user and
// returns the URL to encode in a QR code.
func (h *QRHandler) CreateToken(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, loginURL, err := h.qrTokenService.CreateToken(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create_qr_token", "qr_token", token.ID, c.ClientIP(), nil)
	c.JSON(http.StatusCreated, gin.H{
		"token":      token.ID,
		"login_url":  loginURL,
		"expires_at": token.ExpiresAt,
	})
}

// RedeemToken exchanges an unredeemed, unexpired token for a login
// credential. Unauthenticated: the scanning device has no session yet.
func (h *QRHandler) RedeemToken(c *gin.Context) {
	var req RedeemTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.qrTokenService.RedeemToken(req.Token)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(result.User.ID, "redeem_qr_token", "qr_token", req.Token, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{
		"access_token": result.Credential,
		"user":         userJSON(result.User),
	})
}

// PeekProfile returns the token owner's name and masked account number so the
// scanning device can show who it is about to sign in as. Read-only: the
// token stays redeemable.
func (h *QRHandler) PeekProfile(c *gin.Context) {
	peek, err := h.qrTokenService.PeekProfile(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": peek})
}
