package models

// CategoryNameMaxLength is the column width of categories.name.
const CategoryNameMaxLength = 50

// Category represents a transaction category. Names share a single global
// namespace; UserID records the creator and is not a foreign key.
type Category struct {
	Base
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"size:50;not null;uniqueIndex:uq_categories_name" json:"name"`
}
