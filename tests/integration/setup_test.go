package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"coinbuddy/internal/handlers"
	"coinbuddy/internal/logger"
	"coinbuddy/internal/middleware"
	"coinbuddy/internal/models"
	"coinbuddy/internal/services"
	"coinbuddy/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Wallet{},
		&models.Transaction{},
		&models.QRToken{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	walletService := services.NewWalletService(db)
	transactionService := services.NewTransactionService(db, walletService)
	backupService := services.NewBackupService(db)
	qrTokenService := services.NewQRTokenService(db)
	progressService := services.NewProgressService(db, userService)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	walletHandler := handlers.NewWalletHandler(walletService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	backupHandler := handlers.NewBackupHandler(backupService, auditService)
	qrHandler := handlers.NewQRHandler(qrTokenService, auditService)
	progressHandler := handlers.NewProgressHandler(progressService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Public QR routes
	qr := v1.Group("/qr")
	qr.POST("/redeem", qrHandler.RedeemToken)
	qr.GET("/tokens/:id/profile", qrHandler.PeekProfile)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)
	protected.PUT("/profile/goals", authHandler.UpdateGoals)

	wallets := protected.Group("/wallets")
	wallets.POST("", walletHandler.CreateWallet)
	wallets.GET("", walletHandler.GetUserWallets)
	wallets.GET("/:id", walletHandler.GetWalletByID)
	wallets.DELETE("/:id", walletHandler.DeleteWallet)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	backupRoutes := protected.Group("/backup")
	backupRoutes.GET("", backupHandler.CreateBackup)
	backupRoutes.POST("/restore", backupHandler.RestoreBackup)

	protected.POST("/qr/tokens", qrHandler.CreateToken)
	protected.GET("/progress", progressHandler.GetProgress)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// createWallet creates a wallet and returns its ID.
func (app *testApp) createWallet(t *testing.T, token, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/wallets", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create wallet failed: %d %s", rec.Code, rec.Body.String())
	}
	wallet := parseJSON(t, rec)["wallet"].(map[string]interface{})
	return wallet["id"].(string)
}

// createTransaction records a transaction on a wallet.
func (app *testApp) createTransaction(t *testing.T, token, walletID, txType string, amount int64) {
	t.Helper()
	body := fmt.Sprintf(`{"wallet_id":%q,"type":%q,"amount":%d,"category":"general","date":"2024-05-01T10:00:00Z"}`,
		walletID, txType, amount)
	rec := app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
}
