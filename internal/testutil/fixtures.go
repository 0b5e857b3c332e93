package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"coinbuddy/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:         email,
		Password:      string(hash),
		Name:          fmt.Sprintf("Test User %d", nextID()),
		AccountNumber: fmt.Sprintf("%010d", nextID()),
		IsActive:      true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestWallet creates a wallet with a zero balance.
func CreateTestWallet(t *testing.T, db *gorm.DB, userID string) *models.Wallet {
	t.Helper()
	return CreateTestWalletWithAmount(t, db, userID, 0)
}

// CreateTestWalletWithAmount creates a wallet holding the given amount (in cents).
func CreateTestWalletWithAmount(t *testing.T, db *gorm.DB, userID string, amount int64) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		UserID: userID,
		Name:   fmt.Sprintf("Test Wallet %d", nextID()),
		Amount: amount,
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	return wallet
}

// CreateTestTransaction creates a transaction of the given type and amount (in cents).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, walletID string, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOn(t, db, userID, walletID, txType, amount, time.Now())
}

// CreateTestTransactionOn creates a transaction dated at the given time.
func CreateTestTransactionOn(t *testing.T, db *gorm.DB, userID, walletID string, txType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:   userID,
		WalletID: walletID,
		Type:     txType,
		Amount:   amount,
		Category: "general",
		Date:     date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestQRToken creates an unredeemed login token owned by the given user,
// expiring five minutes from now.
func CreateTestQRToken(t *testing.T, db *gorm.DB, userID string) *models.QRToken {
	t.Helper()
	expiresAt := time.Now().Add(5 * time.Minute)
	return CreateTestQRTokenExpiring(t, db, &userID, &expiresAt)
}

// CreateTestQRTokenExpiring creates a login token with the given owner and
// expiry, either of which may be nil.
func CreateTestQRTokenExpiring(t *testing.T, db *gorm.DB, userID *string, expiresAt *time.Time) *models.QRToken {
	t.Helper()

	token := &models.QRToken{
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := db.Create(token).Error; err != nil {
		t.Fatalf("failed to create test qr token: %v", err)
	}
	return token
}
