package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "coinbuddy/internal/errors"
	"coinbuddy/internal/models"
	"coinbuddy/internal/progress"
)

// progressService derives the XP-bar state from stored wallets and
// transactions.
type progressService struct {
	db          *gorm.DB
	userService UserServicer
}

// NewProgressService creates a new ProgressServicer.
func NewProgressService(db *gorm.DB, userService UserServicer) ProgressServicer {
	return &progressService{db: db, userService: userService}
}

// GetProgress computes the user's level and XP bar. Saved money is the sum
// of positive wallet balances; weekly and daily expense figures cover the
// trailing seven days and the current day respectively.
func (s *progressService) GetProgress(userID string, now time.Time) (*progress.Summary, error) {
	user, err := s.userService.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	var savedMoney int64
	if err := s.db.Model(&models.Wallet{}).
		Where("user_id = ? AND amount > 0", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&savedMoney).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	weekStart := now.AddDate(0, 0, -7)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	weeklyExpenses, err := s.sumExpenses(userID, weekStart, now)
	if err != nil {
		return nil, err
	}
	dailyExpenses, err := s.sumExpenses(userID, dayStart, now)
	if err != nil {
		return nil, err
	}

	summary := progress.Compute(progress.Input{
		SavedMoney:     savedMoney,
		WeeklyExpenses: weeklyExpenses,
		DailyExpenses:  dailyExpenses,
		WeeklyGoal:     user.WeeklyGoal,
		DailyGoal:      user.DailyGoal,
	})
	return &summary, nil
}

func (s *progressService) sumExpenses(userID string, from, to time.Time) (int64, error) {
	var total int64
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND date >= ? AND date <= ?",
			userID, models.TransactionTypeExpense, from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return total, nil
}
