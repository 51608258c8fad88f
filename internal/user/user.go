package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role represents the set of possible user roles.
// @Description user role: "SYSTEM", "CUSTOMER" or "ADMIN"
type Role string

const (
	// System is reserved for service accounts
	System Role = "SYSTEM"
	// Customer is the default role for self-registered users
	Customer Role = "CUSTOMER"
	// Admin manages other users
	Admin Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case System, Customer, Admin:
		return true
	}
	return false
}

// User represents an account in the system.
// Rows are never removed; deletion flips IsActive to false.
// swagger:model UserResponse
type User struct {
	// Unique identifier (uuid)
	ID string `json:"id" gorm:"primaryKey;size:36"`
	// Email address (unique, case-sensitive as stored)
	Email string `json:"email" gorm:"uniqueIndex;not null"`
	// Display name
	Name string `json:"name" gorm:"not null"`
	// Password hash (hidden from JSON)
	Password string `json:"-" gorm:"not null"`
	// Role of the user
	Role Role `json:"role" gorm:"type:text;not null;default:'CUSTOMER'"`
	// IsActive is false once the user has been deleted
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the uuid primary key.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// NewUser initializes an active User with the default role.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		Email:    email,
		Name:     name,
		Password: passwordHash,
		Role:     Customer,
		IsActive: true,
	}
}
