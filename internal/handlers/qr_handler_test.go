package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "coinbuddy/internal/errors"
	"coinbuddy/internal/models"
	"coinbuddy/internal/services"
)

// --- mock qr token service ---

type mockQRTokenService struct {
	createTokenFn func(ownerID string) (*models.QRToken, string, error)
	redeemTokenFn func(tokenID string) (*services.RedeemResult, error)
	peekProfileFn func(tokenID string) (*services.ProfilePeek, error)
}

func (m *mockQRTokenService) CreateToken(ownerID string) (*models.QRToken, string, error) {
	if m.createTokenFn != nil {
		return m.createTokenFn(ownerID)
	}
	return &models.QRToken{}, "", nil
}

func (m *mockQRTokenService) RedeemToken(tokenID string) (*services.RedeemResult, error) {
	if m.redeemTokenFn != nil {
		return m.redeemTokenFn(tokenID)
	}
	return &services.RedeemResult{User: &models.User{}}, nil
}

func (m *mockQRTokenService) PeekProfile(tokenID string) (*services.ProfilePeek, error) {
	if m.peekProfileFn != nil {
		return m.peekProfileFn(tokenID)
	}
	return &services.ProfilePeek{}, nil
}

var _ services.QRTokenServicer = (*mockQRTokenService)(nil)

func setupQRRouter(handler *QRHandler) *gin.Engine {
	r := gin.New()
	r.POST("/qr/tokens", injectUserID("user-1"), handler.CreateToken)
	r.POST("/qr/redeem", handler.RedeemToken)
	r.GET("/qr/tokens/:id/profile", handler.PeekProfile)
	return r
}

const testTokenID = "0190b5a5-7b9d-7c7a-b0d4-3a2f6f3a1a11"

func TestQRHandler_CreateToken(t *testing.T) {
	t.Run("returns 201 with login URL", func(t *testing.T) {
		expires := time.Now().Add(5 * time.Minute)
		qrSvc := &mockQRTokenService{
			createTokenFn: func(ownerID string) (*models.QRToken, string, error) {
				return &models.QRToken{
					Base:      models.Base{ID: testTokenID},
					UserID:    &ownerID,
					ExpiresAt: &expires,
				}, "https://coinbuddy.com/qr-login?token=" + testTokenID, nil
			},
		}
		handler := NewQRHandler(qrSvc, &mockAuditService{})
		r := setupQRRouter(handler)

		rec := doRequest(r, "POST", "/qr/tokens", "")

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["token"] != testTokenID {
			t.Errorf("expected token id in response, got %v", result["token"])
		}
		if result["login_url"] == nil || result["login_url"] == "" {
			t.Error("expected a login URL")
		}
	})
}

func TestQRHandler_RedeemToken(t *testing.T) {
	t.Run("returns 200 with credential and user", func(t *testing.T) {
		qrSvc := &mockQRTokenService{
			redeemTokenFn: func(tokenID string) (*services.RedeemResult, error) {
				return &services.RedeemResult{
					Credential: "jwt-credential",
					User:       &models.User{Base: models.Base{ID: "owner-1"}, Email: "owner@test.com"},
				}, nil
			},
		}
		handler := NewQRHandler(qrSvc, &mockAuditService{})
		r := setupQRRouter(handler)

		rec := doRequest(r, "POST", "/qr/redeem", `{"token":"`+testTokenID+`"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["access_token"] != "jwt-credential" {
			t.Errorf("expected credential in response, got %v", result["access_token"])
		}
		user := result["user"].(map[string]interface{})
		if user["email"] != "owner@test.com" {
			t.Errorf("expected owner email, got %v", user["email"])
		}
	})

	t.Run("returns 400 on missing token", func(t *testing.T) {
		handler := NewQRHandler(&mockQRTokenService{}, &mockAuditService{})
		r := setupQRRouter(handler)

		rec := doRequest(r, "POST", "/qr/redeem", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed token id", func(t *testing.T) {
		handler := NewQRHandler(&mockQRTokenService{}, &mockAuditService{})
		r := setupQRRouter(handler)

		rec := doRequest(r, "POST", "/qr/redeem", `{"token":"not-a-uuid"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("maps precondition failures to their status codes", func(t *testing.T) {
		cases := []struct {
			name   string
			err    *apperrors.AppError
			status int
			code   string
		}{
			{"unknown token", apperrors.ErrTokenNotFound, http.StatusNotFound, "TOKEN_NOT_FOUND"},
			{"expired token", apperrors.ErrTokenExpired, http.StatusGone, "TOKEN_EXPIRED"},
			{"already redeemed", apperrors.ErrTokenAlreadyRedeemed, http.StatusConflict, "TOKEN_ALREADY_REDEEMED"},
			{"no owner", apperrors.ErrTokenNoOwner, http.StatusConflict, "TOKEN_NO_OWNER"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				qrSvc := &mockQRTokenService{
					redeemTokenFn: func(string) (*services.RedeemResult, error) {
						return nil, tc.err
					},
				}
				handler := NewQRHandler(qrSvc, &mockAuditService{})
				r := setupQRRouter(handler)

				rec := doRequest(r, "POST", "/qr/redeem", `{"token":"`+testTokenID+`"}`)

				if rec.Code != tc.status {
					t.Fatalf("expected %d, got %d", tc.status, rec.Code)
				}
				assertErrorCode(t, parseJSON(t, rec), tc.code)
			})
		}
	})
}

func TestQRHandler_PeekProfile(t *testing.T) {
	t.Run("returns masked profile", func(t *testing.T) {
		qrSvc := &mockQRTokenService{
			peekProfileFn: func(tokenID string) (*services.ProfilePeek, error) {
				return &services.ProfilePeek{Name: "Alice", AccountNumber: "******7890"}, nil
			},
		}
		handler := NewQRHandler(qrSvc, &mockAuditService{})
		r := setupQRRouter(handler)

		rec := doRequest(r, "GET", "/qr/tokens/"+testTokenID+"/profile", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		profile := result["profile"].(map[string]interface{})
		if profile["account_number"] != "******7890" {
			t.Errorf("expected masked account number, got %v", profile["account_number"])
		}
	})

	t.Run("returns 410 on expired token", func(t *testing.T) {
		qrSvc := &mockQRTokenService{
			peekProfileFn: func(string) (*services.ProfilePeek, error) {
				return nil, apperrors.ErrTokenExpired
			},
		}
		handler := NewQRHandler(qrSvc, &mockAuditService{})
		r := setupQRRouter(handler)

		rec := doRequest(r, "GET", "/qr/tokens/"+testTokenID+"/profile", "")

		if rec.Code != http.StatusGone {
			t.Fatalf("expected 410, got %d", rec.Code)
		}
	})
}
