// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// UserModel represents the user table in the database.
type UserModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"type:varchar(100);not null"`
	Email        string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone        string          `gorm:"type:varchar(20)"`
	PasswordHash string          `gorm:"type:varchar(255);not null"`
	Balance      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	ReferralCode string          `gorm:"type:varchar(16);uniqueIndex;not null"`
	ReferredBy   *string         `gorm:"type:varchar(16);index"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts a UserModel to a domain User entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		Balance:      m.Balance,
		ReferralCode: m.ReferralCode,
		ReferredBy:   m.ReferredBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserFromEntity creates a UserModel from a domain User entity.
func UserFromEntity(user *entity.User) *UserModel {
	return &UserModel{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		PasswordHash: user.PasswordHash,
		Balance:      user.Balance,
		ReferralCode: user.ReferralCode,
		ReferredBy:   user.ReferredBy,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// RefreshTokenModel represents the refresh_tokens table for token invalidation tracking.
type RefreshTokenModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token       string    `gorm:"type:varchar(500);uniqueIndex;not null"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Invalidated bool      `gorm:"default:false"`
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the RefreshTokenModel.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
