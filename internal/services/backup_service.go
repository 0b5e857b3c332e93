package services

import (
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"coinbuddy/internal/backup"
	apperrors "coinbuddy/internal/errors"
	"coinbuddy/internal/models"
)

// backupService implements the backup/restore pipeline.
type backupService struct {
	db *gorm.DB
}

// NewBackupService creates a new BackupServicer.
func NewBackupService(db *gorm.DB) BackupServicer {
	return &backupService{db: db}
}

// CreateBackup assembles a versioned snapshot of one account's data. The
// three reads are independent, so they run concurrently; only their joint
// completion matters. The operation never writes to the store.
func (s *backupService) CreateBackup(userID string) (*backup.Snapshot, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var (
		user         models.User
		wallets      []models.Wallet
		transactions []models.Transaction
	)

	var g errgroup.Group
	g.Go(func() error {
		if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.db.Where("user_id = ?", userID).Find(&wallets).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.db.Where("user_id = ?", userID).Find(&transactions).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return backup.New(&user, wallets, transactions, time.Now()), nil
}

// RestoreBackup validates the snapshot and replaces the user's wallets and
// transactions with its contents in a single all-or-nothing database
// transaction. Every restored record is re-owned by the target user; the
// owner id embedded in the artifact is discarded.
func (s *backupService) RestoreBackup(userID string, data []byte) error {
	if userID == "" {
		return apperrors.ErrUnauthorized
	}

	snapshot, err := backup.Parse(data)
	if err != nil {
		switch {
		case errors.Is(err, backup.ErrMissingSection):
			return apperrors.WithMessage(apperrors.ErrInvalidFormat, "Backup file is missing required sections")
		default:
			return apperrors.ErrInvalidFormat
		}
	}

	user, err := s.targetUser(userID)
	if err != nil {
		return err
	}

	restoreTime := time.Now()

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		// Profile fields travel with the backup; identity fields (email,
		// id, verification flag, password) never do.
		user.Name = snapshot.User.Name
		user.Image = snapshot.User.Image
		user.EmailAlerts = snapshot.User.NotificationPreferences.EmailAlerts
		user.AppPushNotifications = snapshot.User.NotificationPreferences.AppPushNotifications
		user.WeeklyGoal = snapshot.User.WeeklyGoal
		user.DailyGoal = snapshot.User.DailyGoal
		if snapshot.User.AccountNumber != "" {
			// Account numbers are unique; an artifact from another account
			// may carry a number that is still in use there. Keep the
			// current one in that case.
			var held int64
			if err := tx.Unscoped().Model(&models.User{}).
				Where("account_number = ? AND id <> ?", snapshot.User.AccountNumber, userID).
				Count(&held).Error; err != nil {
				return err
			}
			if held == 0 {
				user.AccountNumber = snapshot.User.AccountNumber
			}
		}
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		// Hard deletes: restored records may reuse the original ids, so
		// soft-deleted rows would collide on the primary key.
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Wallet{}).Error; err != nil {
			return err
		}

		// Record ids are preserved best-effort. After the wipe, any artifact
		// id still present in the store belongs to another account; those
		// records get fresh keys, and transactions that referenced a remapped
		// wallet follow it.
		takenWallets, err := takenIDs(tx, &models.Wallet{}, walletArtifactIDs(snapshot))
		if err != nil {
			return err
		}
		walletRemap := make(map[string]string)
		for _, w := range snapshot.Wallets {
			wallet := w.WalletModel(userID)
			if takenWallets[wallet.ID] {
				wallet.ID = ""
			}
			if err := tx.Create(&wallet).Error; err != nil {
				return err
			}
			if w.ID != "" && wallet.ID != w.ID {
				walletRemap[w.ID] = wallet.ID
			}
		}

		takenTransactions, err := takenIDs(tx, &models.Transaction{}, transactionArtifactIDs(snapshot))
		if err != nil {
			return err
		}
		for _, t := range snapshot.Transactions {
			transaction := t.TransactionModel(userID, restoreTime)
			if fresh, ok := walletRemap[transaction.WalletID]; ok {
				transaction.WalletID = fresh
			}
			if takenTransactions[transaction.ID] {
				transaction.ID = ""
			}
			if err := tx.Create(&transaction).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		var appErr *apperrors.AppError
		if errors.As(txErr, &appErr) {
			return appErr
		}
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, txErr)
	}
	return nil
}

// takenIDs returns the subset of ids that already exist in the table backing
// model, soft-deleted rows included.
func takenIDs(tx *gorm.DB, model interface{}, ids []string) (map[string]bool, error) {
	taken := make(map[string]bool)
	if len(ids) == 0 {
		return taken, nil
	}
	var existing []string
	if err := tx.Unscoped().Model(model).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return nil, err
	}
	for _, id := range existing {
		taken[id] = true
	}
	return taken, nil
}

func walletArtifactIDs(snapshot *backup.Snapshot) []string {
	var ids []string
	for _, w := range snapshot.Wallets {
		if w.ID != "" {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

func transactionArtifactIDs(snapshot *backup.Snapshot) []string {
	var ids []string
	for _, t := range snapshot.Transactions {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func (s *backupService) targetUser(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return &user, nil
}
