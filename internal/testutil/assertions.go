package testutil

import (
	"errors"
	"testing"

	apperrors "coinbuddy/internal/errors"
)

// AssertAppError checks that err unwraps to an *AppError carrying the
// expected error code. Service methods return wrapped sentinels, so the
// check goes through errors.As rather than direct comparison.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("error code = %q, want %q (message: %s)", appErr.Code, expectedCode, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
