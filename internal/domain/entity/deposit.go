package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerror "github.com/natural-surplus/backend/internal/domain/error"
)

// DepositStatus represents the state of a mobile-money deposit.
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "PENDING"
	DepositStatusCompleted DepositStatus = "COMPLETED"
	DepositStatusFailed    DepositStatus = "FAILED"
)

// Deposit tracks an STK push from initiation to its confirmation or failure.
type Deposit struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	PhoneNumber       string
	Amount            decimal.Decimal
	AccountReference  string
	MerchantRequestID string
	CheckoutRequestID string
	Status            DepositStatus
	ResultCode        string
	ResultDesc        string
	ReceiptNumber     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ResolvedAt        *time.Time
}

// NewDeposit creates a pending deposit for an accepted STK push.
func NewDeposit(userID uuid.UUID, phoneNumber string, amount decimal.Decimal, accountReference, merchantRequestID, checkoutRequestID string, now time.Time) *Deposit {
	return &Deposit{
		ID:                uuid.New(),
		UserID:            userID,
		PhoneNumber:       phoneNumber,
		Amount:            amount,
		AccountReference:  accountReference,
		MerchantRequestID: merchantRequestID,
		CheckoutRequestID: checkoutRequestID,
		Status:            DepositStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IsPending reports whether the deposit still awaits a gateway result.
func (d *Deposit) IsPending() bool {
	return d.Status == DepositStatusPending
}

// Complete marks a pending deposit as confirmed by the gateway.
func (d *Deposit) Complete(resultDesc, receiptNumber string, now time.Time) error {
	if !d.IsPending() {
		return domainerror.ErrDepositAlreadyResolved
	}
	d.Status = DepositStatusCompleted
	d.ResultCode = "0"
	d.ResultDesc = resultDesc
	d.ReceiptNumber = receiptNumber
	d.UpdatedAt = now
	d.ResolvedAt = &now
	return nil
}

// Fail marks a pending deposit as rejected by the gateway.
func (d *Deposit) Fail(resultCode, resultDesc string, now time.Time) error {
	if !d.IsPending() {
		return domainerror.ErrDepositAlreadyResolved
	}
	d.Status = DepositStatusFailed
	d.ResultCode = resultCode
	d.ResultDesc = resultDesc
	d.UpdatedAt = now
	d.ResolvedAt = &now
	return nil
}
