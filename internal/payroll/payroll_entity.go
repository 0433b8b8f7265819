package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusCalculated = "calculated"

	ComponentTypeAllowance = "ALLOWANCE"
	ComponentTypeDeduction = "DEDUCTION"
)

type PayrollRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeName string    `gorm:"type:varchar(150);not null"`
	Period       string    `gorm:"type:varchar(32);not null;index"`

	BaseSalary      decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	TotalAllowances decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	GrossSalary     decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	TaxRate         decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	NetSalary       decimal.Decimal `gorm:"type:numeric;not null;default:0"`

	Status    string `gorm:"type:varchar(20);not null;default:'calculated'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Components []PayrollComponent `gorm:"foreignKey:PayrollID"`
}

// PayrollComponent is one allowance or deduction line of a record's
// breakdown, frozen at calculation time.
type PayrollComponent struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PayrollID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentType string          `gorm:"type:varchar(20);not null"`
	ComponentName string          `gorm:"type:varchar(80);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	CreatedAt     time.Time
}
