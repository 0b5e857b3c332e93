package services

import (
	"time"

	"coinbuddy/internal/backup"
	"coinbuddy/internal/models"
	"coinbuddy/internal/pagination"
	"coinbuddy/internal/progress"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID string, name, image *string) (*models.User, error)
	UpdateNotificationPreferences(userID string, emailAlerts, pushNotifications bool) (*models.User, error)
	UpdateGoals(userID string, weeklyGoal, dailyGoal *int64) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// WalletServicer defines the contract for wallet-related business logic.
type WalletServicer interface {
	CreateWallet(userID, name, image string) (*models.Wallet, error)
	GetUserWallets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Wallet], error)
	GetWalletByID(userID, walletID string) (*models.Wallet, error)
	UpdateWallet(userID, walletID string, name, image *string) (*models.Wallet, error)
	DeleteWallet(userID, walletID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Category *string
	WalletID *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, walletID string, transactionType models.TransactionType, amount int64, category, description, image string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BackupServicer defines the contract for the backup/restore pipeline.
type BackupServicer interface {
	// CreateBackup assembles a versioned snapshot of the user's account,
	// wallets, and transactions. Pure read; never mutates the store.
	CreateBackup(userID string) (*backup.Snapshot, error)
	// RestoreBackup validates an externally supplied snapshot and atomically
	// replaces the user's wallets and transactions with its contents.
	RestoreBackup(userID string, data []byte) error
}

// RedeemResult is the outcome of a successful QR token redemption.
type RedeemResult struct {
	Credential string
	User       *models.User
}

// ProfilePeek is the masked account summary shown to a scanning device.
type ProfilePeek struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
}

// QRTokenServicer defines the contract for the QR cross-device login flow.
type QRTokenServicer interface {
	// CreateToken mints a single-use login token owned by the given user and
	// returns it together with the URL to encode in the QR code.
	CreateToken(ownerID string) (*models.QRToken, string, error)
	// RedeemToken exchanges an unredeemed, unexpired token for a short-lived
	// credential. At most one concurrent caller succeeds.
	RedeemToken(tokenID string) (*RedeemResult, error)
	// PeekProfile returns the token owner's name and masked account number
	// without redeeming the token.
	PeekProfile(tokenID string) (*ProfilePeek, error)
}

// ProgressServicer computes the XP-bar state for a user.
type ProgressServicer interface {
	GetProgress(userID string, now time.Time) (*progress.Summary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
