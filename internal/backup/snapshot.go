// Package backup defines the portable snapshot format for a user's account
// data and the conversions between the wire format and the database models.
// The artifact is UTF-8 JSON with camelCase keys so snapshots taken by older
// mobile builds restore cleanly.
package backup

import (
	"encoding/json"
	"errors"
	"time"

	"coinbuddy/internal/models"
)

// Version tags the snapshot schema so the format can evolve.
const Version = "1.0"

// Parse/validation failures. The service layer maps these onto API errors.
var (
	ErrBadJSON        = errors.New("backup: not valid JSON")
	ErrMissingSection = errors.New("backup: missing required section")
)

// Snapshot is a self-contained, point-in-time bundle of one account's data.
type Snapshot struct {
	User         User          `json:"user"`
	Wallets      []Wallet      `json:"wallets"`
	Transactions []Transaction `json:"transactions"`
	BackupDate   string        `json:"backupDate"`
	Version      string        `json:"version"`
}

// User carries the profile fields of the backed-up account. Identity fields
// (uid, email, emailVerified) are embedded for reference but are never
// written back on restore.
type User struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Image         string `json:"image,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	EmailVerified bool   `json:"emailVerified"`

	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`
	WeeklyGoal              int64                   `json:"weeklyGoal,omitempty"`
	DailyGoal               int64                   `json:"dailyGoal,omitempty"`
}

// NotificationPreferences mirrors the user's notification preference pair.
type NotificationPreferences struct {
	EmailAlerts          bool `json:"emailAlerts"`
	AppPushNotifications bool `json:"appPushNotifications"`
}

// Wallet is the artifact form of a wallet.
type Wallet struct {
	ID            string `json:"id,omitempty"`
	UID           string `json:"uid"`
	Name          string `json:"name"`
	Image         string `json:"image,omitempty"`
	Amount        int64  `json:"amount"`
	TotalIncome   int64  `json:"totalIncome"`
	TotalExpenses int64  `json:"totalExpenses"`
}

// Transaction is the artifact form of a transaction. Date is a tagged union:
// it is written as an ISO-8601 string but tolerates the store-native
// {seconds, nanoseconds} shape and garbage on the way back in.
type Transaction struct {
	ID          string    `json:"id,omitempty"`
	UID         string    `json:"uid"`
	WalletID    string    `json:"walletId"`
	Type        string    `json:"type"`
	Amount      int64     `json:"amount"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Date        Timestamp `json:"date"`
	Image       string    `json:"image,omitempty"`
}

// rawSnapshot is used only to check section presence before full decoding.
type rawSnapshot struct {
	User         json.RawMessage `json:"user"`
	Wallets      json.RawMessage `json:"wallets"`
	Transactions json.RawMessage `json:"transactions"`
}

// Parse decodes and validates an externally supplied snapshot. The three
// top-level sections must all be present; anything else about the artifact
// (extension, MIME type) is advisory and not checked here.
func Parse(data []byte) (*Snapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrBadJSON
	}
	if raw.User == nil || raw.Wallets == nil || raw.Transactions == nil {
		return nil, ErrMissingSection
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, ErrBadJSON
	}
	return &s, nil
}

// New assembles a snapshot from database models, converting every
// transaction date to the canonical ISO encoding.
func New(user *models.User, wallets []models.Wallet, transactions []models.Transaction, now time.Time) *Snapshot {
	s := &Snapshot{
		User: User{
			UID:           user.ID,
			Email:         user.Email,
			Name:          user.Name,
			Image:         user.Image,
			AccountNumber: user.AccountNumber,
			EmailVerified: user.EmailVerified,
			NotificationPreferences: NotificationPreferences{
				EmailAlerts:          user.EmailAlerts,
				AppPushNotifications: user.AppPushNotifications,
			},
			WeeklyGoal: user.WeeklyGoal,
			DailyGoal:  user.DailyGoal,
		},
		Wallets:      make([]Wallet, 0, len(wallets)),
		Transactions: make([]Transaction, 0, len(transactions)),
		BackupDate:   now.UTC().Format(time.RFC3339Nano),
		Version:      Version,
	}

	for _, w := range wallets {
		s.Wallets = append(s.Wallets, Wallet{
			ID:            w.ID,
			UID:           w.UserID,
			Name:          w.Name,
			Image:         w.Image,
			Amount:        w.Amount,
			TotalIncome:   w.TotalIncome,
			TotalExpenses: w.TotalExpenses,
		})
	}

	for _, tx := range transactions {
		s.Transactions = append(s.Transactions, Transaction{
			ID:          tx.ID,
			UID:         tx.UserID,
			WalletID:    tx.WalletID,
			Type:        string(tx.Type),
			Amount:      tx.Amount,
			Category:    tx.Category,
			Description: tx.Description,
			Date:        NewTimestamp(tx.Date),
			Image:       tx.Image,
		})
	}

	return s
}

// WalletModel converts an artifact wallet back into a database model owned
// by the restoring user. The embedded owner id is discarded; the original
// record id is preserved when present.
func (w Wallet) WalletModel(targetUID string) models.Wallet {
	return models.Wallet{
		Base:          models.Base{ID: w.ID},
		UserID:        targetUID,
		Name:          w.Name,
		Image:         w.Image,
		Amount:        w.Amount,
		TotalIncome:   w.TotalIncome,
		TotalExpenses: w.TotalExpenses,
	}
}

// TransactionModel converts an artifact transaction back into a database
// model owned by the restoring user, resolving the date union with
// restoreTime as the fallback instant.
func (t Transaction) TransactionModel(targetUID string, restoreTime time.Time) models.Transaction {
	return models.Transaction{
		Base:        models.Base{ID: t.ID},
		UserID:      targetUID,
		WalletID:    t.WalletID,
		Type:        models.TransactionType(t.Type),
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.Resolve(restoreTime),
		Image:       t.Image,
	}
}
