package services

import (
	"testing"

	"coinbuddy/internal/models"
	"coinbuddy/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user, err := svc.CreateUser("Alice@Test.com", "password123", "Alice")
	testutil.AssertNoError(t, err)

	if user.Email != "alice@test.com" {
		t.Errorf("email should be lowercased, got %q", user.Email)
	}
	if user.Password == "password123" {
		t.Error("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")) != nil {
		t.Error("stored hash should verify against the original password")
	}
	if len(user.AccountNumber) != 10 {
		t.Errorf("expected a 10-digit account number, got %q", user.AccountNumber)
	}
	if user.EmailAlerts || !user.AppPushNotifications {
		t.Error("expected default notification preferences (alerts off, push on)")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	_, err := svc.CreateUser("alice@test.com", "password123", "Alice")
	testutil.AssertNoError(t, err)

	_, err = svc.CreateUser("ALICE@test.com", "different456", "Alice Again")
	testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
}

func TestCreateUserMissingFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	_, err := svc.CreateUser("", "password123", "A")
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.CreateUser("a@test.com", "", "A")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestCreateUserUniqueAccountNumbers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		user, err := svc.CreateUser("user"+string(rune('a'+i))+"@test.com", "password123", "U")
		testutil.AssertNoError(t, err)
		if seen[user.AccountNumber] {
			t.Fatalf("duplicate account number %q", user.AccountNumber)
		}
		seen[user.AccountNumber] = true
	}
}

func TestAttemptLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	created, err := svc.CreateUser("alice@test.com", "password123", "Alice")
	testutil.AssertNoError(t, err)

	user, err := svc.AttemptLogin("alice@test.com", "password123")
	testutil.AssertNoError(t, err)
	if user.ID != created.ID {
		t.Error("login returned the wrong user")
	}
	if user.LastLoginAt == nil {
		t.Error("expected last login time to be set")
	}
}

func TestAttemptLoginWrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	_, err := svc.CreateUser("alice@test.com", "password123", "Alice")
	testutil.AssertNoError(t, err)

	_, err = svc.AttemptLogin("alice@test.com", "wrong")
	testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
}

func TestAttemptLoginUnknownEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	// Unknown accounts fail the same way as a bad password.
	_, err := svc.AttemptLogin("nobody@test.com", "password123")
	testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
}

func TestAttemptLoginLockout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	_, err := svc.CreateUser("alice@test.com", "password123", "Alice")
	testutil.AssertNoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = svc.AttemptLogin("alice@test.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	}

	// The account is now locked even for the correct password.
	_, err = svc.AttemptLogin("alice@test.com", "password123")
	testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
}

func TestUpdateGoals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db)

	weekly := int64(20000)
	updated, err := svc.UpdateGoals(user.ID, &weekly, nil)
	testutil.AssertNoError(t, err)
	if updated.WeeklyGoal != 20000 {
		t.Errorf("expected weekly goal 20000, got %d", updated.WeeklyGoal)
	}
	if updated.DailyGoal != user.DailyGoal {
		t.Error("nil daily goal must leave the stored value untouched")
	}

	negative := int64(-1)
	_, err = svc.UpdateGoals(user.ID, nil, &negative)
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestRefreshTokenHashRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123"))

	hash, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc123" {
		t.Errorf("expected stored hash, got %q", hash)
	}

	err = svc.StoreRefreshTokenHash("no-such-user", "abc123")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestUpdateNotificationPreferences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db)

	updated, err := svc.UpdateNotificationPreferences(user.ID, true, false)
	testutil.AssertNoError(t, err)
	if !updated.EmailAlerts || updated.AppPushNotifications {
		t.Error("preferences not updated")
	}

	var stored models.User
	testutil.AssertNoError(t, db.Where("id = ?", user.ID).First(&stored).Error)
	if !stored.EmailAlerts || stored.AppPushNotifications {
		t.Error("preferences not persisted")
	}
}
