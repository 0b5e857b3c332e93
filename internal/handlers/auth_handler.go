package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "coinbuddy/internal/errors"
	"coinbuddy/internal/middleware"
	"coinbuddy/internal/models"
	"coinbuddy/internal/services"
)

// AuthHandler handles authentication and profile requests.
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{userService: userService, auditService: auditService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"max=100"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest carries the mutable profile fields.
type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=100"`
	Image *string `json:"image" binding:"omitempty,max=2048"`
}

// NotificationPreferencesRequest carries the notification preference pair.
type NotificationPreferencesRequest struct {
	EmailAlerts          *bool `json:"email_alerts" binding:"required"`
	AppPushNotifications *bool `json:"app_push_notifications" binding:"required"`
}

// GoalsRequest carries the weekly/daily spending goals, in cents.
type GoalsRequest struct {
	WeeklyGoal *int64 `json:"weekly_goal" binding:"omitempty,min=0"`
	DailyGoal  *int64 `json:"daily_goal" binding:"omitempty,min=0"`
}

func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":             user.ID,
		"email":          user.Email,
		"name":           user.Name,
		"image":          user.Image,
		"account_number": user.AccountNumber,
		"email_verified": user.EmailVerified,
		"notification_preferences": gin.H{
			"email_alerts":           user.EmailAlerts,
			"app_push_notifications": user.AppPushNotifications,
		},
		"weekly_goal": user.WeeklyGoal,
		"daily_goal":  user.DailyGoal,
	}
}

// issueTokenPair mints an access/refresh pair and persists the refresh hash.
func (h *AuthHandler) issueTokenPair(c *gin.Context, user *models.User, status int) {
	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	if err := h.userService.StoreRefreshTokenHash(user.ID, middleware.HashToken(refreshToken)); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(status, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          userJSON(user),
	})
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "register", "user", user.ID, c.ClientIP(), nil)
	h.issueTokenPair(c, user, http.StatusCreated)
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.issueTokenPair(c, user, http.StatusOK)
}

// RefreshToken exchanges a valid refresh token for a fresh token pair.
// The presented token must match the stored hash, which rotates on use.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	claims, err := middleware.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	storedHash, err := h.userService.GetRefreshTokenHash(claims.UserID)
	if err != nil || storedHash != middleware.HashToken(req.RefreshToken) {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.issueTokenPair(c, user, http.StatusOK)
}

// GetProfile returns the authenticated user's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// UpdateProfile updates the authenticated user's mutable profile fields.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateProfile(userID, req.Name, req.Image)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update_profile", "user", userID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// GetNotificationPreferences returns the user's notification preference pair.
func (h *AuthHandler) GetNotificationPreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email_alerts":           user.EmailAlerts,
		"app_push_notifications": user.AppPushNotifications,
	})
}

// UpdateNotificationPreferences sets the user's notification preference pair.
func (h *AuthHandler) UpdateNotificationPreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req NotificationPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateNotificationPreferences(userID, *req.EmailAlerts, *req.AppPushNotifications)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email_alerts":           user.EmailAlerts,
		"app_push_notifications": user.AppPushNotifications,
	})
}

// UpdateGoals sets the weekly/daily spending goals.
func (h *AuthHandler) UpdateGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateGoals(userID, req.WeeklyGoal, req.DailyGoal)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}
