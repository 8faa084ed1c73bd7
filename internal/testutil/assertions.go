package testutil

import (
	"errors"
	"testing"

	apperrors "cashmesh/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code
// and returns it for further inspection.
func AssertAppError(t *testing.T, err error, expectedCode string) *apperrors.AppError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
	return appErr
}

// AssertValidationField checks that err is a VALIDATION_FAILED error naming
// field in its details.
func AssertValidationField(t *testing.T, err error, field string) {
	t.Helper()

	appErr := AssertAppError(t, err, apperrors.ErrValidationFailed.Code)
	if _, ok := appErr.Details[field]; !ok {
		t.Errorf("expected details for %q, got %v", field, appErr.Details)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
