package models

import (
	"time"
)

// Role values for the unified identity table. Clients and firm
// administrators live in the same table and are told apart by role,
// carried in the session token.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User model for authentication and invoice ownership
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"column:first_name;not null" json:"firstName"`
	LastName     string    `gorm:"column:last_name;not null" json:"lastName"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Company      string    `gorm:"column:company" json:"company"`
	Role         string    `gorm:"default:user;index" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
