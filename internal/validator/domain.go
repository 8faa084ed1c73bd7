package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/badoux/checkmail"
	"github.com/shopspring/decimal"

	apperrors "cashmesh/internal/errors"
	"cashmesh/internal/models"
)

const (
	emailMaxLength    = 255
	usernameMaxLength = 50
)

// BindingError wraps a request binding failure as a ValidationFailed error.
func BindingError(err error) *apperrors.AppError {
	return apperrors.WithDetails(apperrors.ErrValidationFailed, FieldErrors(err))
}

func failed(details map[string]string) error {
	if len(details) == 0 {
		return nil
	}
	return apperrors.WithDetails(apperrors.ErrValidationFailed, details)
}

// ValidateUser checks the email and username of a user payload.
func ValidateUser(email, username string) error {
	details := make(map[string]string)

	switch {
	case strings.TrimSpace(email) == "":
		details["email"] = "email is a required field"
	case utf8.RuneCountInString(email) > emailMaxLength:
		details["email"] = "email must be a maximum of 255 characters in length"
	case checkmail.ValidateFormat(email) != nil:
		details["email"] = "email must be a valid email address"
	}

	switch {
	case strings.TrimSpace(username) == "":
		details["username"] = "username is a required field"
	case utf8.RuneCountInString(username) > usernameMaxLength:
		details["username"] = "username must be a maximum of 50 characters in length"
	}

	return failed(details)
}

// ValidateCategoryName checks a category name.
func ValidateCategoryName(name string) error {
	details := make(map[string]string)

	switch {
	case strings.TrimSpace(name) == "":
		details["name"] = "name is a required field"
	case utf8.RuneCountInString(name) > models.CategoryNameMaxLength:
		details["name"] = "name must be a maximum of 50 characters in length"
	}

	return failed(details)
}

// ValidateTransaction checks the value ranges of a transaction payload.
func ValidateTransaction(amount decimal.Decimal, kind models.TransactionType, description *string) error {
	details := make(map[string]string)

	switch {
	case !amount.IsPositive():
		details["amount"] = "amount must be greater than 0"
	case !amount.Equal(amount.Round(models.AmountScale)):
		details["amount"] = "amount must have at most 2 decimal places"
	case amount.GreaterThanOrEqual(models.AmountLimit):
		details["amount"] = "amount must be less than 100000000"
	}

	if !kind.Valid() {
		details["transaction_type"] = "transaction_type must be either income or expense"
	}

	if description != nil && utf8.RuneCountInString(*description) > models.DescriptionMaxLength {
		details["description"] = "description must be a maximum of 255 characters in length"
	}

	return failed(details)
}
