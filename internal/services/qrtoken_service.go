package services

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	"coinbuddy/internal/config"
	apperrors "coinbuddy/internal/errors"
	"coinbuddy/internal/middleware"
	"coinbuddy/internal/models"
)

// loginCredentialTTL bounds the lifetime of the credential handed out when
// a QR token is redeemed. The companion device is expected to exchange it
// for a regular session immediately.
const loginCredentialTTL = 5 * time.Minute

// maskChar replaces every hidden character of an account number.
const maskChar = "*"

// qrTokenService implements the QR cross-device login flow. The stored
// token owner is the authoritative identity channel: tokens are minted by
// an authenticated device with the owner preset, and the QR payload carries
// only the token id.
type qrTokenService struct {
	db *gorm.DB
}

// NewQRTokenService creates a new QRTokenServicer.
func NewQRTokenService(db *gorm.DB) QRTokenServicer {
	return &qrTokenService{db: db}
}

// CreateToken mints a single-use login token for the given owner and
// returns the URL to encode in the QR code.
func (s *qrTokenService) CreateToken(ownerID string) (*models.QRToken, string, error) {
	if ownerID == "" {
		return nil, "", apperrors.ErrUnauthorized
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", ownerID).Count(&count).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	if count == 0 {
		return nil, "", apperrors.ErrUserNotFound
	}

	expiresAt := time.Now().Add(config.Get().QRTokenTTL)
	token := &models.QRToken{
		UserID:    &ownerID,
		ExpiresAt: &expiresAt,
	}
	if err := s.db.Create(token).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	loginURL, err := url.Parse(config.Get().QRLoginBaseURL)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	q := loginURL.Query()
	q.Set("token", token.ID)
	loginURL.RawQuery = q.Encode()

	return token, loginURL.String(), nil
}

// getToken loads a token and applies the read-time precondition checks
// shared by redemption and profile peek: exists, not expired, not already
// redeemed, has an owner. Checked in that order.
func (s *qrTokenService) getToken(tokenID string) (*models.QRToken, error) {
	var token models.QRToken
	if err := s.db.Where("id = ?", tokenID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	if token.Expired(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}
	if token.Redeemed() {
		return nil, apperrors.ErrTokenAlreadyRedeemed
	}
	if token.UserID == nil || *token.UserID == "" {
		return nil, apperrors.ErrTokenNoOwner
	}
	return &token, nil
}

// RedeemToken exchanges an unredeemed, unexpired token for a short-lived
// credential scoped to the token's owner. The credential is minted before
// the token is marked, so a minting failure leaves the token unredeemed.
// The mark itself is a single conditional write guarded on scanned_at still
// being null: of two concurrent redeemers, exactly one sees a row updated
// and the other fails with TOKEN_ALREADY_REDEEMED.
func (s *qrTokenService) RedeemToken(tokenID string) (*RedeemResult, error) {
	token, err := s.getToken(tokenID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.Where("id = ?", *token.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	credential, err := middleware.GenerateLoginToken(&user, loginCredentialTTL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Server-assigned redemption time; client clocks are not trusted.
	result := s.db.Model(&models.QRToken{}).
		Where("id = ? AND scanned_at IS NULL", tokenID).
		Update("scanned_at", time.Now())
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrTokenAlreadyRedeemed
	}

	return &RedeemResult{Credential: credential, User: &user}, nil
}

// PeekProfile returns the token owner's display name and masked account
// number. It reads only profile fields and never marks the token; showing
// the summary and redeeming are separate, explicit steps.
func (s *qrTokenService) PeekProfile(tokenID string) (*ProfilePeek, error) {
	token, err := s.getToken(tokenID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.Where("id = ?", *token.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	return &ProfilePeek{
		Name:          user.Name,
		AccountNumber: MaskAccountNumber(user.AccountNumber),
	}, nil
}

// MaskAccountNumber obscures all but the last four characters of an
// account number. Short values are fully masked; an empty value renders
// as a fixed four-star placeholder.
func MaskAccountNumber(accountNumber string) string {
	if accountNumber == "" {
		return strings.Repeat(maskChar, 4)
	}
	if len(accountNumber) <= 4 {
		return strings.Repeat(maskChar, len(accountNumber))
	}
	return strings.Repeat(maskChar, len(accountNumber)-4) + accountNumber[len(accountNumber)-4:]
}
