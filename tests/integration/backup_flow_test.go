package integration

import (
	"fmt"
	"net/http"
	"testing"

	"coinbuddy/internal/models"
)

func TestBackupDownloadAndRestore(t *testing.T) {
	app := setupApp(t)

	token, _, userID := app.registerUser(t, "backup@test.com", "password123")
	walletID := app.createWallet(t, token, "Savings")
	app.createTransaction(t, token, walletID, "income", 5000)
	app.createTransaction(t, token, walletID, "expense", 1500)

	// Download the backup.
	rec := app.request("GET", "/api/v1/backup", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("backup failed: %d %s", rec.Code, rec.Body.String())
	}
	if disposition := rec.Header().Get("Content-Disposition"); disposition == "" {
		t.Error("expected an attachment disposition")
	}
	artifact := rec.Body.String()

	snapshot := parseJSON(t, rec)
	if snapshot["version"] != "1.0" {
		t.Errorf("expected version 1.0, got %v", snapshot["version"])
	}
	if len(snapshot["transactions"].([]interface{})) != 2 {
		t.Errorf("expected 2 transactions in the snapshot")
	}

	// Add noise after the backup, then restore: the noise must be gone.
	app.createTransaction(t, token, walletID, "expense", 9999)

	rec = app.request("POST", "/api/v1/backup/restore", artifact, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore failed: %d %s", rec.Code, rec.Body.String())
	}

	var txCount int64
	if err := app.DB.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&txCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if txCount != 2 {
		t.Errorf("expected 2 transactions after restore, got %d", txCount)
	}

	var wallet models.Wallet
	if err := app.DB.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		t.Fatalf("wallet lookup failed: %v", err)
	}
	if wallet.Amount != 3500 {
		t.Errorf("expected wallet amount 3500 after restore, got %d", wallet.Amount)
	}
}

func TestRestoreRejectsMalformedArtifact(t *testing.T) {
	app := setupApp(t)

	token, _, userID := app.registerUser(t, "badrestore@test.com", "password123")
	walletID := app.createWallet(t, token, "Savings")
	app.createTransaction(t, token, walletID, "income", 5000)

	rec := app.request("POST", "/api/v1/backup/restore", `{"wallets": []}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", rec.Code, rec.Body.String())
	}

	// The failed restore must leave existing data untouched.
	var count int64
	if err := app.DB.Model(&models.Wallet{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected the wallet to survive, found %d", count)
	}
}

func TestRestoreFromAnotherAccountReowns(t *testing.T) {
	app := setupApp(t)

	// An artifact exported elsewhere: its records carry the original
	// owner's uid and no local record ids.
	artifact := `{
		"user": {"uid": "far-away-uid", "name": "Someone Else", "notificationPreferences": {}},
		"wallets": [{"uid": "far-away-uid", "name": "Source Wallet", "amount": 7000, "totalIncome": 7000, "totalExpenses": 0}],
		"transactions": [{"uid": "far-away-uid", "walletId": "w1", "type": "income", "amount": 7000, "date": "2024-05-01T10:00:00Z"}],
		"backupDate": "2024-05-02T00:00:00Z",
		"version": "1.0"
	}`

	tokenB, _, userB := app.registerUser(t, "target@test.com", "password123")
	rec := app.request("POST", "/api/v1/backup/restore", artifact, tokenB)
	if rec.Code != http.StatusOK {
		t.Fatalf("cross-account restore failed: %d %s", rec.Code, rec.Body.String())
	}

	var wallets []models.Wallet
	if err := app.DB.Where("user_id = ?", userB).Find(&wallets).Error; err != nil {
		t.Fatalf("wallet lookup failed: %v", err)
	}
	if len(wallets) != 1 {
		t.Fatalf("expected 1 wallet owned by the target, got %d", len(wallets))
	}
	if wallets[0].Name != "Source Wallet" {
		t.Errorf("expected restored wallet name, got %q", wallets[0].Name)
	}
}

func TestRestoreToleratesStoreNativeDates(t *testing.T) {
	app := setupApp(t)

	token, _, userID := app.registerUser(t, "dates@test.com", "password123")

	artifact := fmt.Sprintf(`{
		"user": {"uid": %q, "name": "Dates", "notificationPreferences": {}},
		"wallets": [{"uid": %q, "name": "W", "amount": 0, "totalIncome": 0, "totalExpenses": 0}],
		"transactions": [
			{"uid": %q, "walletId": "w1", "type": "expense", "amount": 100, "date": {"seconds": 1700000000, "nanoseconds": 0}},
			{"uid": %q, "walletId": "w1", "type": "income", "amount": 200, "date": null}
		],
		"backupDate": "2024-01-01T00:00:00Z",
		"version": "1.0"
	}`, userID, userID, userID, userID)

	rec := app.request("POST", "/api/v1/backup/restore", artifact, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore failed: %d %s", rec.Code, rec.Body.String())
	}

	var count int64
	if err := app.DB.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected both transactions restored, got %d", count)
	}
}
