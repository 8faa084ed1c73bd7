package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the supported kinds.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// DateLayout is the wire and storage format of transaction dates.
const DateLayout = "2006-01-02"

// Column limits of the transactions table.
const (
	DescriptionMaxLength = 255
	AmountScale          = 2
)

// AmountLimit is the exclusive upper bound of NUMERIC(10,2).
var AmountLimit = decimal.New(1, 8)

// Transaction represents an income or expense record.
type Transaction struct {
	Base
	UserID          uint            `gorm:"not null;index"`
	CategoryID      *uint           `gorm:"index"`
	Amount          decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Type            TransactionType `gorm:"column:transaction_type;size:16;not null"`
	Description     *string         `gorm:"size:255"`
	TransactionDate time.Time       `gorm:"type:date;not null;index"`

	// Relationships. NO ACTION makes SQLite report a blocked user delete as a
	// foreign key violation; the SQL migrations use RESTRICT.
	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:NO ACTION"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// MarshalJSON renders the amount with two fixed decimals and the date
// without a time component.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID              uint            `json:"id"`
		UserID          uint            `json:"user_id"`
		CategoryID      *uint           `json:"category_id"`
		Amount          string          `json:"amount"`
		Type            TransactionType `json:"transaction_type"`
		Description     *string         `json:"description"`
		TransactionDate string          `json:"transaction_date"`
		CreatedAt       time.Time       `json:"created_at"`
		UpdatedAt       time.Time       `json:"updated_at"`
	}{
		ID:              t.ID,
		UserID:          t.UserID,
		CategoryID:      t.CategoryID,
		Amount:          t.Amount.StringFixed(AmountScale),
		Type:            t.Type,
		Description:     t.Description,
		TransactionDate: t.TransactionDate.Format(DateLayout),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	})
}
