package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "coinbuddy/internal/errors"
	"coinbuddy/internal/models"
)

const (
	maxFailedLogins       = 5
	loginLockDuration     = 15 * time.Minute
	accountNumberAttempts = 10
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user with a unique account number and default
// notification preferences (email alerts off, push notifications on).
func (s *userService) CreateUser(email, password, name string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	accountNumber, err := s.generateAccountNumber()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:                strings.ToLower(email),
		Password:             string(hashedPassword),
		Name:                 name,
		AccountNumber:        accountNumber,
		EmailAlerts:          false,
		AppPushNotifications: true,
		IsActive:             true,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// generateAccountNumber produces a unique 10-digit account number: the last
// six digits of the current unix-milli clock plus four random digits,
// regenerated on collision.
func (s *userService) generateAccountNumber() (string, error) {
	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		millis := fmt.Sprintf("%d", time.Now().UnixMilli())
		n, err := rand.Int(rand.Reader, big.NewInt(10000))
		if err != nil {
			return "", err
		}
		candidate := millis[len(millis)-6:] + fmt.Sprintf("%04d", n.Int64())

		var count int64
		if err := s.db.Model(&models.User{}).Where("account_number = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", errors.New("unable to generate unique account number")
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// AttemptLogin verifies credentials and enforces the failed-attempt lockout.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, apperrors.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLogins {
			until := time.Now().Add(loginLockDuration)
			user.LockedUntil = &until
			user.FailedLoginAttempts = 0
		}
		if err := s.db.Save(user).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	if err := s.db.Save(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// UpdateProfile updates the mutable profile fields. Identity fields (email,
// id, verification flag) are never touched here.
func (s *userService) UpdateProfile(userID string, name, image *string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		user.Name = *name
	}
	if image != nil {
		user.Image = *image
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// UpdateNotificationPreferences sets the notification preference pair.
func (s *userService) UpdateNotificationPreferences(userID string, emailAlerts, pushNotifications bool) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	user.EmailAlerts = emailAlerts
	user.AppPushNotifications = pushNotifications

	if err := s.db.Save(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// UpdateGoals sets the weekly/daily spending goals used by the XP bar.
func (s *userService) UpdateGoals(userID string, weeklyGoal, dailyGoal *int64) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if weeklyGoal != nil {
		if *weeklyGoal < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "weekly goal must not be negative")
		}
		user.WeeklyGoal = *weeklyGoal
	}
	if dailyGoal != nil {
		if *dailyGoal < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "daily goal must not be negative")
		}
		user.DailyGoal = *dailyGoal
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// StoreRefreshTokenHash persists the hash of the user's current refresh token.
func (s *userService) StoreRefreshTokenHash(userID, tokenHash string) error {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token_hash", tokenHash)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash for a user.
func (s *userService) GetRefreshTokenHash(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return user.RefreshTokenHash, nil
}
