package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	ItemKindAllowance = "ALLOWANCE"
	ItemKindDeduction = "DEDUCTION"
)

type Employee struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name       string          `gorm:"type:varchar(150);not null"`
	Email      string          `gorm:"type:varchar(255);not null"`
	Position   string          `gorm:"type:varchar(120);not null"`
	Department string          `gorm:"type:varchar(120);not null;index"`
	BaseSalary decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	Status     string          `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`

	CompensationItems []CompensationItem `gorm:"foreignKey:EmployeeID"`
}

// CompensationItem is one allowance or deduction category of an employee.
type CompensationItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind       string          `gorm:"type:varchar(20);not null"`
	Category   string          `gorm:"type:varchar(80);not null"`
	Amount     decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
