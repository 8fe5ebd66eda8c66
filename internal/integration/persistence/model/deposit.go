package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// DepositModel represents the deposits table in the database.
type DepositModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	PhoneNumber       string          `gorm:"type:varchar(20);not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	AccountReference  string          `gorm:"type:varchar(50)"`
	MerchantRequestID string          `gorm:"type:varchar(100)"`
	CheckoutRequestID string          `gorm:"type:varchar(100);uniqueIndex;not null"`
	Status            string          `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ResultCode        string          `gorm:"type:varchar(20)"`
	ResultDesc        string          `gorm:"type:varchar(255)"`
	ReceiptNumber     string          `gorm:"type:varchar(50)"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
	ResolvedAt        *time.Time
}

// TableName returns the table name for the DepositModel.
func (DepositModel) TableName() string {
	return "deposits"
}

// ToEntity converts a DepositModel to a domain Deposit entity.
func (m *DepositModel) ToEntity() *entity.Deposit {
	return &entity.Deposit{
		ID:                m.ID,
		UserID:            m.UserID,
		PhoneNumber:       m.PhoneNumber,
		Amount:            m.Amount,
		AccountReference:  m.AccountReference,
		MerchantRequestID: m.MerchantRequestID,
		CheckoutRequestID: m.CheckoutRequestID,
		Status:            entity.DepositStatus(m.Status),
		ResultCode:        m.ResultCode,
		ResultDesc:        m.ResultDesc,
		ReceiptNumber:     m.ReceiptNumber,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		ResolvedAt:        m.ResolvedAt,
	}
}

// DepositFromEntity creates a DepositModel from a domain Deposit entity.
func DepositFromEntity(deposit *entity.Deposit) *DepositModel {
	return &DepositModel{
		ID:                deposit.ID,
		UserID:            deposit.UserID,
		PhoneNumber:       deposit.PhoneNumber,
		Amount:            deposit.Amount,
		AccountReference:  deposit.AccountReference,
		MerchantRequestID: deposit.MerchantRequestID,
		CheckoutRequestID: deposit.CheckoutRequestID,
		Status:            string(deposit.Status),
		ResultCode:        deposit.ResultCode,
		ResultDesc:        deposit.ResultDesc,
		ReceiptNumber:     deposit.ReceiptNumber,
		CreatedAt:         deposit.CreatedAt,
		UpdatedAt:         deposit.UpdatedAt,
		ResolvedAt:        deposit.ResolvedAt,
	}
}
