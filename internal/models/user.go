package models

// User represents the user model in the database
type User struct {
	Base
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`
}
