// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents an account holder on the platform.
// ReferredBy holds the referral code of the user who invited them, never an ID.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Balance      decimal.Decimal
	ReferralCode string
	ReferredBy   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User with a zero balance.
func NewUser(name, email, phone, passwordHash, referralCode string, referredBy *string, now time.Time) *User {
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Balance:      decimal.Zero,
		ReferralCode: referralCode,
		ReferredBy:   referredBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasReferrer reports whether the user joined through a referral code.
func (u *User) HasReferrer() bool {
	return u.ReferredBy != nil && *u.ReferredBy != ""
}

// CanAfford reports whether the current balance covers amount.
func (u *User) CanAfford(amount decimal.Decimal) bool {
	return u.Balance.GreaterThanOrEqual(amount)
}
