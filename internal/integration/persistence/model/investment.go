package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/natural-surplus/backend/internal/domain/entity"
)

// InvestmentPlanModel represents the investment_plans table in the database.
type InvestmentPlanModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"type:varchar(100);uniqueIndex;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null;index"`
	DailyReturn decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Duration    int             `gorm:"not null"`
	TotalReturn decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the InvestmentPlanModel.
func (InvestmentPlanModel) TableName() string {
	return "investment_plans"
}

// ToEntity converts an InvestmentPlanModel to a domain InvestmentPlan entity.
func (m *InvestmentPlanModel) ToEntity() *entity.InvestmentPlan {
	return &entity.InvestmentPlan{
		ID:          m.ID,
		Name:        m.Name,
		Amount:      m.Amount,
		DailyReturn: m.DailyReturn,
		Duration:    m.Duration,
		TotalReturn: m.TotalReturn,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// InvestmentPlanFromEntity creates an InvestmentPlanModel from a domain InvestmentPlan entity.
func InvestmentPlanFromEntity(plan *entity.InvestmentPlan) *InvestmentPlanModel {
	return &InvestmentPlanModel{
		ID:          plan.ID,
		Name:        plan.Name,
		Amount:      plan.Amount,
		DailyReturn: plan.DailyReturn,
		Duration:    plan.Duration,
		TotalReturn: plan.TotalReturn,
		Active:      plan.Active,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}
}

// InvestmentModel represents the investments table in the database.
type InvestmentModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	PlanID           *uuid.UUID      `gorm:"type:uuid;index"`
	PlanName         string          `gorm:"type:varchar(100);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DailyReturn      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Duration         int             `gorm:"not null"`
	TotalReturn      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	StartDate        time.Time       `gorm:"not null"`
	EndDate          time.Time       `gorm:"not null"`
	LastPayoutDate   time.Time       `gorm:"not null;index"`
	Status           string          `gorm:"type:varchar(20);not null;default:'active';index"`
	ReturnsCollected decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DaysCollected    int             `gorm:"not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for the InvestmentModel.
func (InvestmentModel) TableName() string {
	return "investments"
}

// ToEntity converts an InvestmentModel to a domain Investment entity.
func (m *InvestmentModel) ToEntity() *entity.Investment {
	return &entity.Investment{
		ID:               m.ID,
		UserID:           m.UserID,
		PlanID:           m.PlanID,
		PlanName:         m.PlanName,
		Amount:           m.Amount,
		DailyReturn:      m.DailyReturn,
		Duration:         m.Duration,
		TotalReturn:      m.TotalReturn,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		LastPayoutDate:   m.LastPayoutDate,
		Status:           entity.InvestmentStatus(m.Status),
		ReturnsCollected: m.ReturnsCollected,
		DaysCollected:    m.DaysCollected,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// InvestmentFromEntity creates an InvestmentModel from a domain Investment entity.
func InvestmentFromEntity(investment *entity.Investment) *InvestmentModel {
	return &InvestmentModel{
		ID:               investment.ID,
		UserID:           investment.UserID,
		PlanID:           investment.PlanID,
		PlanName:         investment.PlanName,
		Amount:           investment.Amount,
		DailyReturn:      investment.DailyReturn,
		Duration:         investment.Duration,
		TotalReturn:      investment.TotalReturn,
		StartDate:        investment.StartDate,
		EndDate:          investment.EndDate,
		LastPayoutDate:   investment.LastPayoutDate,
		Status:           string(investment.Status),
		ReturnsCollected: investment.ReturnsCollected,
		DaysCollected:    investment.DaysCollected,
		CreatedAt:        investment.CreatedAt,
		UpdatedAt:        investment.UpdatedAt,
	}
}
