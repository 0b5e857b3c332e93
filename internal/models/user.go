package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	Password      string `gorm:"not null" json:"-"`
	Name          string `json:"name"`
	Image         string `json:"image,omitempty"`
	AccountNumber string `gorm:"uniqueIndex;size:10" json:"account_number"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`

	// Notification preferences
	EmailAlerts          bool `gorm:"default:false" json:"email_alerts"`
	AppPushNotifications bool `gorm:"default:true" json:"app_push_notifications"`

	// Spending goals, in cents. Zero means the goal is unset.
	WeeklyGoal int64 `gorm:"default:0" json:"weekly_goal"`
	DailyGoal  int64 `gorm:"default:0" json:"daily_goal"`

	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	Wallets      []Wallet      `gorm:"foreignKey:UserID" json:"wallets,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
